package report

import (
	"fmt"
	"strings"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// ModuleSummary counts modules by lifecycle state.
type ModuleSummary struct {
	Total           int `json:"total"`
	Active          int `json:"active"`
	ActiveFragments int `json:"activeFragments"`
	Resolved        int `json:"resolved"`
	Installed       int `json:"installed"`
}

func SummarizeModules(modules []inventory.Module) ModuleSummary {
	s := ModuleSummary{Total: len(modules)}
	for _, m := range modules {
		switch m.State {
		case inventory.StateActive:
			s.Active++
		case inventory.StateInstalled:
			s.Installed++
		case inventory.StateResolved:
			if m.Fragment {
				s.ActiveFragments++
			} else {
				s.Resolved++
			}
		}
	}
	return s
}

// AllActive reports whether every module reached its terminal success state.
func (s ModuleSummary) AllActive() bool {
	return s.Active == s.Total || s.Active+s.ActiveFragments == s.Total
}

// Line renders the module status line.
func (s ModuleSummary) Line() string {
	var sb strings.Builder
	sb.WriteString("Module information: ")
	sb.WriteString(countModules(s.Total, "in total"))
	if s.AllActive() {
		sb.WriteString(" - all ")
		sb.WriteString(countModules(s.Total, "active."))
		return sb.String()
	}
	for _, part := range []struct {
		n   int
		msg string
	}{
		{s.Active, "active"},
		{s.ActiveFragments, "active fragments"},
		{s.Resolved, "resolved"},
		{s.Installed, "installed"},
	} {
		if part.n != 0 {
			sb.WriteString(", ")
			sb.WriteString(countModules(part.n, part.msg))
		}
	}
	sb.WriteByte('.')
	return sb.String()
}

func countModules(n int, msg string) string {
	if n == 1 {
		return fmt.Sprintf("%d module %s", n, msg)
	}
	return fmt.Sprintf("%d modules %s", n, msg)
}

// ComponentSummary counts component descriptors and their instances.
type ComponentSummary struct {
	Descriptors       int `json:"descriptors"`
	WithInstances     int `json:"withInstances"`
	Instances         int `json:"instances"`
	Factories         int `json:"factories"`
	ServiceReferences int `json:"serviceReferences"`
}

func SummarizeComponents(components []inventory.Component) ComponentSummary {
	s := ComponentSummary{Descriptors: len(components)}
	for _, c := range components {
		n := len(c.Configurations)
		if n > 0 {
			s.WithInstances++
		}
		s.Instances += n
		if c.Descriptor.Factory != "" {
			s.Factories++
		}
		s.ServiceReferences += len(c.Descriptor.References)
	}
	return s
}

// Line renders the component status line.
func (s ComponentSummary) Line() string {
	return fmt.Sprintf(
		"Component information: %d different components, %d active components, %d active instances, %d factory components, %d service references",
		s.Descriptors, s.WithInstances, s.Instances, s.Factories, s.ServiceReferences,
	)
}
