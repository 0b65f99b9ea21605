package diagnoser

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/graph"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// DefaultDiagnoser is the default implementation wired into the controller and CLI.
type DefaultDiagnoser struct{}

func NewDefault() *DefaultDiagnoser {
	return &DefaultDiagnoser{}
}

func (d *DefaultDiagnoser) Diagnose(ctx context.Context, snap *inventory.Snapshot) (Report, error) {
	if snap == nil {
		return Report{}, ErrNilSnapshot
	}
	logger := log.FromContext(ctx)

	report := Report{
		TakenAt:         snap.TakenAt,
		Modules:         make([]ModuleDiagnosis, 0),
		MissingServices: make([]MissingService, 0),
	}

	idx := graph.BuildCapabilityIndex(snap.Modules)
	for i := range snap.Modules {
		m := snap.Modules[i]
		if !IsInactive(m) {
			continue
		}

		diag := ModuleDiagnosis{
			Module:   m.Ref(),
			State:    m.State,
			Fragment: m.Fragment,
			Hint:     StateHint(m),
		}
		if uerr := isolate(m.Ref().String(), func() { diag.Findings = DiagnoseModule(m, idx) }); uerr != nil {
			logger.Error(uerr, "failed to diagnose module", "module", m.SymbolicName)
			diag.Findings = []Finding{}
			diag.Err = uerr
			diag.Error = uerr.Error()
		}
		logger.V(1).Info("diagnosed module", "module", m.SymbolicName, "state", m.State.String(), "findings", len(diag.Findings))
		report.Modules = append(report.Modules, diag)
	}

	for _, c := range snap.Components {
		if c.LoadError != "" {
			report.ComponentErrors = append(report.ComponentErrors, (&UnitError{Unit: c.Name(), Err: errorString(c.LoadError)}).Error())
		}
	}
	missing, errs := diagnoseServices(snap.Components)
	for _, uerr := range errs {
		logger.Error(uerr, "failed to diagnose component", "component", uerr.Unit)
		report.ComponentErrors = append(report.ComponentErrors, uerr.Error())
	}
	report.MissingServices = missing

	logger.V(1).Info(
		"diagnosis complete",
		"moduleCount", len(snap.Modules),
		"inactiveModuleCount", len(report.Modules),
		"componentCount", len(snap.Components),
		"missingServiceCount", len(report.MissingServices),
	)
	return report, nil
}

type errorString string

func (e errorString) Error() string { return string(e) }
