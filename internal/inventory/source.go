package inventory

import (
	"context"
	"fmt"
	"time"
)

// Source is the read-only view of the host runtime registry.
type Source interface {
	ListModules(ctx context.Context) ([]Module, error)
	ListComponentDescriptors(ctx context.Context) ([]ComponentDescriptor, error)
	// ListConfigurations returns the configurations of one listed descriptor.
	// Sources match on descriptor.Key, since names may repeat.
	ListConfigurations(ctx context.Context, descriptor ComponentDescriptor) ([]Configuration, error)
}

// Capture materializes one snapshot from src.
//
// Failing to list modules or descriptors fails the capture. Failing to list the
// configurations of one descriptor is recorded on that component only.
func Capture(ctx context.Context, src Source) (*Snapshot, error) {
	modules, err := src.ListModules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	descriptors, err := src.ListComponentDescriptors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list component descriptors: %w", err)
	}

	snap := &Snapshot{
		TakenAt:    time.Now(),
		Modules:    make([]Module, 0, len(modules)),
		Components: make([]Component, 0, len(descriptors)),
	}
	for _, m := range modules {
		snap.Modules = append(snap.Modules, normalizeModule(m))
	}
	for _, d := range descriptors {
		c := Component{Descriptor: d}
		configs, err := src.ListConfigurations(ctx, d)
		if err != nil {
			c.LoadError = err.Error()
		}
		c.Configurations = configs
		snap.Components = append(snap.Components, c)
	}
	return snap, nil
}

// normalizeModule stamps the provider identity onto the module's capabilities.
func normalizeModule(m Module) Module {
	if len(m.Capabilities) == 0 {
		return m
	}
	caps := make([]Capability, len(m.Capabilities))
	for i, c := range m.Capabilities {
		c.Provider = m.Ref()
		caps[i] = c
	}
	m.Capabilities = caps
	return m
}

// Normalize returns a copy of snap whose capabilities carry their provider
// identity. Sources that build snapshots directly use it instead of Capture.
func Normalize(snap Snapshot) Snapshot {
	out := snap
	out.Modules = make([]Module, len(snap.Modules))
	for i, m := range snap.Modules {
		out.Modules[i] = normalizeModule(m)
	}
	return out
}
