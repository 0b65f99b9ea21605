package diagnoser

import (
	"fmt"
	"strings"
	"time"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// FindingKind classifies why a requirement of an inactive module is unmet.
type FindingKind string

const (
	// KindNotExportedAnywhere: no module offers the capability at all.
	KindNotExportedAnywhere FindingKind = "NotExportedAnywhere"
	// KindDependencyChainInactive: a matching provider exists but is itself
	// inactive. Informational, the root cause is further down the chain.
	KindDependencyChainInactive FindingKind = "DependencyChainInactive"
	// KindVersionMismatch: providers exist, none in the required range.
	KindVersionMismatch FindingKind = "VersionMismatch"
)

type MismatchSubtype string

const (
	TooOld           MismatchSubtype = "TooOld"
	TooNew           MismatchSubtype = "TooNew"
	DifferentVersion MismatchSubtype = "DifferentVersion"
)

// Finding is one diagnosed requirement.
type Finding struct {
	Kind          FindingKind          `json:"kind"`
	Capability    string               `json:"capability"`
	RequiredRange string               `json:"requiredRange,omitempty"`
	Subtype       MismatchSubtype      `json:"subtype,omitempty"`
	FoundVersion  string               `json:"foundVersion,omitempty"`
	Provider      *inventory.ModuleRef `json:"provider,omitempty"`
	ProviderState inventory.State      `json:"providerState,omitempty"`
	// Candidate is set on version mismatches reported among several candidates.
	Candidate bool `json:"candidate,omitempty"`
	// RangeError is set when the required range could not be parsed and the
	// finding was downgraded to DifferentVersion.
	RangeError string `json:"rangeError,omitempty"`
}

// Message renders the finding for operators.
func (f Finding) Message() string {
	switch f.Kind {
	case KindNotExportedAnywhere:
		return "not exported by any module: " + f.Capability
	case KindDependencyChainInactive:
		return fmt.Sprintf("dependency not active: %s %s (importing %s)", f.providerText(), f.ProviderState, f.Capability)
	case KindVersionMismatch:
		var sb strings.Builder
		if f.Candidate {
			sb.WriteString("candidate ")
		}
		switch f.Subtype {
		case TooOld:
			sb.WriteString("dependency too old: ")
		case TooNew:
			sb.WriteString("dependency too new: ")
		default:
			sb.WriteString("dependency with different version: ")
		}
		fmt.Fprintf(&sb, "%s (importing %s %s but found %s)", f.providerText(), f.Capability, f.RequiredRange, f.FoundVersion)
		if f.RangeError != "" {
			sb.WriteString(" [unparseable range]")
		}
		return sb.String()
	default:
		return string(f.Kind) + ": " + f.Capability
	}
}

func (f Finding) providerText() string {
	if f.Provider == nil {
		return "<unknown>"
	}
	return f.Provider.String()
}

// ModuleDiagnosis is the result for one inactive module.
type ModuleDiagnosis struct {
	Module   inventory.ModuleRef `json:"module"`
	State    inventory.State     `json:"state"`
	Fragment bool                `json:"fragment,omitempty"`
	Hint     string              `json:"hint,omitempty"`
	// Findings is empty when the module's packaging is fine and the problem is
	// purely a lifecycle one.
	Findings []Finding  `json:"findings"`
	Err      *UnitError `json:"-"`
	Error    string     `json:"error,omitempty"`
}

// ServiceReason classifies why a referenced service has no provider.
type ServiceReason string

const (
	NoDefinitionFound            ServiceReason = "NoDefinitionFound"
	MissingRequiredConfiguration ServiceReason = "MissingRequiredConfiguration"
	NoActiveInstance             ServiceReason = "NoActiveInstance"
)

func (r ServiceReason) Text() string {
	switch r {
	case NoDefinitionFound:
		return "no component definition in active modules found"
	case MissingRequiredConfiguration:
		return "missing required config"
	case NoActiveInstance:
		return "no component instance active"
	default:
		return string(r)
	}
}

// ServiceKey identifies one missing-service group.
type ServiceKey struct {
	Service string
	Reason  ServiceReason
}

func (k ServiceKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Service, k.Reason.Text())
}

// MissingService is one aggregated missing service and every component it blocks.
type MissingService struct {
	Service    string        `json:"service"`
	Reason     ServiceReason `json:"reason"`
	Dependents []string      `json:"dependents"`
}

func (m MissingService) Key() ServiceKey {
	return ServiceKey{Service: m.Service, Reason: m.Reason}
}

// Report is the outcome of one diagnostic run.
type Report struct {
	TakenAt         time.Time         `json:"takenAt"`
	Modules         []ModuleDiagnosis `json:"modules"`
	MissingServices []MissingService  `json:"missingServices"`
	ComponentErrors []string          `json:"componentErrors,omitempty"`
}

// FindingCounts returns the number of module findings per kind.
func (r Report) FindingCounts() map[FindingKind]int {
	out := map[FindingKind]int{}
	for _, m := range r.Modules {
		for _, f := range m.Findings {
			out[f.Kind]++
		}
	}
	return out
}

// BlockedComponents returns the number of distinct components blocked by any
// missing service.
func (r Report) BlockedComponents() int {
	seen := map[string]struct{}{}
	for _, ms := range r.MissingServices {
		for _, d := range ms.Dependents {
			seen[d] = struct{}{}
		}
	}
	return len(seen)
}
