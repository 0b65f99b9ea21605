// Package lifecycle implements the administrative "start inactive modules"
// action. It is the only part of the repo that changes module state and it is
// never invoked by the diagnoser.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

var (
	// ErrStateChanged is returned by a Starter when the module changed state
	// underneath the start request.
	ErrStateChanged = errors.New("module state changed")

	// ErrDenied is returned by a Starter when the caller may not start the module.
	ErrDenied = errors.New("start denied")

	// ErrStartPending is returned by a Starter that only submitted the start
	// request. The module counts as started; its new state is not yet known.
	ErrStartPending = errors.New("start requested")
)

// Starter transiently starts one module and reports its state afterwards, or
// returns ErrStartPending when it only submitted the request.
type Starter interface {
	Start(ctx context.Context, m inventory.Module) (inventory.State, error)
}

// StarterFunc adapts a function to the Starter interface.
type StarterFunc func(ctx context.Context, m inventory.Module) (inventory.State, error)

func (f StarterFunc) Start(ctx context.Context, m inventory.Module) (inventory.State, error) {
	return f(ctx, m)
}

type Outcome string

const (
	OutcomeStarted      Outcome = "Started"
	OutcomeRequested    Outcome = "Requested"
	OutcomeFailed       Outcome = "Failed"
	OutcomeStateChanged Outcome = "StateChanged"
	OutcomeDenied       Outcome = "Denied"
)

// Succeeded reports whether the start went through or was accepted.
func (o Outcome) Succeeded() bool {
	return o == OutcomeStarted || o == OutcomeRequested
}

// Attempt records one start request.
type Attempt struct {
	Module  inventory.ModuleRef `json:"module"`
	Before  inventory.State     `json:"before"`
	After   inventory.State     `json:"after,omitempty"`
	Outcome Outcome             `json:"outcome"`
	Message string              `json:"message,omitempty"`
}

// Line renders the attempt as one log line.
func (a Attempt) Line() string {
	prefix := fmt.Sprintf("Trying to start %s (%s)... ", a.Module.SymbolicName, a.Before)
	switch a.Outcome {
	case OutcomeStarted:
		return prefix + fmt.Sprintf("OK: %s.", a.After)
	case OutcomeRequested:
		return prefix + "start requested."
	case OutcomeStateChanged:
		return prefix + "Failed, state changed: " + a.Message
	case OutcomeDenied:
		return prefix + "Denied: " + a.Message
	default:
		return prefix + "Failed: " + a.Message
	}
}

// Result summarizes one StartInactive run.
type Result struct {
	Attempts []Attempt `json:"attempts"`
	Touched  int       `json:"touched"`
	Started  int       `json:"started"`
	// Interrupted is set when the context ended before every module was tried.
	Interrupted bool `json:"interrupted,omitempty"`
}

func (r Result) Message() string {
	if r.Touched == 0 {
		return "No installed or resolved modules found"
	}
	return fmt.Sprintf("Successfully started %d out of %d modules.", r.Started, r.Touched)
}

// Startable reports whether StartInactive would try to start m.
func Startable(m inventory.Module) bool {
	if m.Fragment {
		return false
	}
	return m.State == inventory.StateInstalled || m.State == inventory.StateResolved
}

// StartInactive tries to start every non-fragment module that is Installed or
// Resolved, in order. A failure of one module never stops the run.
func StartInactive(ctx context.Context, modules []inventory.Module, starter Starter) Result {
	logger := log.FromContext(ctx)
	result := Result{Attempts: make([]Attempt, 0)}

	for _, m := range modules {
		if !Startable(m) {
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Interrupted = true
			logger.Info("start run interrupted", "remaining", m.SymbolicName, "reason", err.Error())
			break
		}
		result.Touched++

		attempt := Attempt{Module: m.Ref(), Before: m.State}
		after, err := starter.Start(ctx, m)
		attempt.After = after
		switch {
		case err == nil:
			attempt.Outcome = OutcomeStarted
			result.Started++
		case errors.Is(err, ErrStartPending):
			attempt.Outcome = OutcomeRequested
			attempt.After = 0
			result.Started++
		case errors.Is(err, ErrStateChanged):
			attempt.Outcome = OutcomeStateChanged
			attempt.Message = err.Error()
		case errors.Is(err, ErrDenied):
			attempt.Outcome = OutcomeDenied
			attempt.Message = err.Error()
		default:
			attempt.Outcome = OutcomeFailed
			attempt.Message = err.Error()
		}
		logger.V(1).Info(attempt.Line(), "module", m.SymbolicName, "outcome", attempt.Outcome)
		result.Attempts = append(result.Attempts, attempt)
	}

	logger.Info(result.Message(), "touched", result.Touched, "started", result.Started)
	return result
}
