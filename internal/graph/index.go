package graph

import (
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/semver"
)

// Entry is one offered capability together with its provider.
type Entry struct {
	Capability inventory.Capability
	Version    semver.Version
	// VersionErr is set when the declared version could not be parsed; Version
	// is then semver.Zero.
	VersionErr error
	Module     *inventory.Module
}

// CapabilityIndex maps capability names to every module offering them,
// including modules that are not active.
type CapabilityIndex struct {
	byName Groups[string, Entry]
}

func BuildCapabilityIndex(modules []inventory.Module) *CapabilityIndex {
	entries := make([]Entry, 0)
	for i := range modules {
		m := &modules[i]
		for _, c := range m.Capabilities {
			v, err := semver.ParseVersion(c.Version)
			if err != nil {
				v = semver.Zero
			}
			if c.Provider == (inventory.ModuleRef{}) {
				c.Provider = m.Ref()
			}
			entries = append(entries, Entry{Capability: c, Version: v, VersionErr: err, Module: m})
		}
	}
	return &CapabilityIndex{
		byName: GroupBy(entries, func(e Entry) string { return e.Capability.Name }),
	}
}

// Lookup returns the providers of name, or an empty slice.
func (idx *CapabilityIndex) Lookup(name string) []Entry {
	if idx == nil {
		return []Entry{}
	}
	if entries := idx.byName.Get(name); entries != nil {
		return entries
	}
	return []Entry{}
}

// Names returns every indexed capability name in first-seen order.
func (idx *CapabilityIndex) Names() []string {
	if idx == nil {
		return nil
	}
	return idx.byName.Keys
}

// ComponentIndex holds the two component lookups: service name to the
// descriptors providing it, and descriptor name to descriptors.
type ComponentIndex struct {
	ProvidersByService Groups[string, inventory.ComponentDescriptor]
	DescriptorsByName  Groups[string, inventory.ComponentDescriptor]
}

func BuildComponentIndex(components []inventory.Component) ComponentIndex {
	descriptors := make([]inventory.ComponentDescriptor, 0, len(components))
	for _, c := range components {
		descriptors = append(descriptors, c.Descriptor)
	}
	return ComponentIndex{
		ProvidersByService: GroupByEach(descriptors, func(d inventory.ComponentDescriptor) []string { return d.Services }),
		DescriptorsByName:  GroupBy(descriptors, func(d inventory.ComponentDescriptor) string { return d.Name }),
	}
}
