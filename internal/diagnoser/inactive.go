package diagnoser

import "github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"

// IsInactive reports whether m has not reached its terminal success state:
// Resolved for fragments, Active for everything else.
func IsInactive(m inventory.Module) bool {
	if m.Fragment {
		return m.State != inventory.StateResolved
	}
	return m.State != inventory.StateActive
}

// StateHint returns an operator hint for transitional states, or "".
func StateHint(m inventory.Module) string {
	switch m.State {
	case inventory.StateStarting:
		return "If the module is starting forever, there might be a deadlock. Check the thread dumps."
	case inventory.StateStopping:
		return "If the module is stopping forever, there might be a deadlock. Check the thread dumps."
	default:
		return ""
	}
}

// StatusText is the state name shown to operators; resolved fragments read as
// "Fragment".
func StatusText(m inventory.Module) string {
	if m.Fragment && m.State == inventory.StateResolved {
		return "Fragment"
	}
	return m.State.String()
}
