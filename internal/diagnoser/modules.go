package diagnoser

import (
	"strings"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/graph"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/semver"
)

// DiagnoseModule explains the unmet requirements of m, in declaration order.
//
// Optional requirements and requirements m satisfies itself are skipped. An
// empty result means the module's packaging is fine.
func DiagnoseModule(m inventory.Module, idx *graph.CapabilityIndex) []Finding {
	findings := make([]Finding, 0)
	for _, req := range m.Requirements {
		if req.Optional || m.Exports(req.Name) || m.OwnsPackage(req.Name) {
			continue
		}
		findings = append(findings, diagnoseRequirement(req, idx.Lookup(req.Name))...)
	}
	return findings
}

func diagnoseRequirement(req inventory.Requirement, candidates []graph.Entry) []Finding {
	if len(candidates) == 0 {
		return []Finding{{Kind: KindNotExportedAnywhere, Capability: req.Name}}
	}

	rangeText := strings.TrimSpace(req.Range)
	if rangeText == "" {
		// No version constraint: any candidate satisfies.
		return chainFinding(req, candidates[0])
	}

	rng, err := semver.ParseRange(rangeText)
	if err != nil {
		out := make([]Finding, 0, len(candidates))
		for _, c := range candidates {
			f := mismatch(req, c, DifferentVersion, len(candidates) > 1)
			f.RangeError = err.Error()
			out = append(out, f)
		}
		return out
	}

	for _, c := range candidates {
		if rng.Includes(c.Version) {
			return chainFinding(req, c)
		}
	}

	out := make([]Finding, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, mismatch(req, c, classify(rng, c.Version), len(candidates) > 1))
	}
	return out
}

// chainFinding reports a satisfying provider that is itself inactive.
func chainFinding(req inventory.Requirement, satisfying graph.Entry) []Finding {
	if satisfying.Module == nil || !IsInactive(*satisfying.Module) {
		return nil
	}
	provider := satisfying.Capability.Provider
	return []Finding{{
		Kind:          KindDependencyChainInactive,
		Capability:    req.Name,
		RequiredRange: strings.TrimSpace(req.Range),
		FoundVersion:  foundVersion(satisfying),
		Provider:      &provider,
		ProviderState: satisfying.Module.State,
	}}
}

func mismatch(req inventory.Requirement, c graph.Entry, subtype MismatchSubtype, candidate bool) Finding {
	provider := c.Capability.Provider
	f := Finding{
		Kind:          KindVersionMismatch,
		Capability:    req.Name,
		RequiredRange: strings.TrimSpace(req.Range),
		Subtype:       subtype,
		FoundVersion:  foundVersion(c),
		Provider:      &provider,
		Candidate:     candidate,
	}
	if c.Module != nil {
		f.ProviderState = c.Module.State
	}
	return f
}

// foundVersion shows the declared text when it could not be parsed.
func foundVersion(c graph.Entry) string {
	if c.VersionErr != nil {
		return c.Capability.Version
	}
	return c.Version.String()
}

func classify(rng semver.Range, v semver.Version) MismatchSubtype {
	switch {
	case rng.BelowLeft(v):
		return TooOld
	case rng.AboveRight(v):
		return TooNew
	default:
		return DifferentVersion
	}
}
