package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakeSource struct {
	modules     []Module
	descriptors []ComponentDescriptor
	configs     map[string][]Configuration
	failConfigs map[string]bool
	failModules bool
}

func (f *fakeSource) ListModules(ctx context.Context) ([]Module, error) {
	if f.failModules {
		return nil, errors.New("registry unavailable")
	}
	return f.modules, nil
}

func (f *fakeSource) ListComponentDescriptors(ctx context.Context) ([]ComponentDescriptor, error) {
	return f.descriptors, nil
}

func (f *fakeSource) ListConfigurations(ctx context.Context, d ComponentDescriptor) ([]Configuration, error) {
	if f.failConfigs[d.Name] {
		return nil, errors.New("boom")
	}
	return f.configs[d.Name], nil
}

func TestCapture_StampsProvidersAndIsolatesConfigErrors(t *testing.T) {
	src := &fakeSource{
		modules: []Module{
			{ID: "1", SymbolicName: "org.example.api", State: StateActive, Capabilities: []Capability{{Name: "org.example.api", Version: "1.0"}}},
			{ID: "2", SymbolicName: "org.example.empty", State: StateInstalled},
		},
		descriptors: []ComponentDescriptor{{Name: "a"}, {Name: "b"}},
		configs:     map[string][]Configuration{"a": {{ID: 1}}},
		failConfigs: map[string]bool{"b": true},
	}

	snap, err := Capture(context.Background(), src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got := snap.Modules[0].Capabilities[0].Provider; got.ID != "1" || got.SymbolicName != "org.example.api" {
		t.Fatalf("expected provider to be stamped, got %+v", got)
	}
	if len(snap.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(snap.Components))
	}
	if len(snap.Components[0].Configurations) != 1 || snap.Components[0].LoadError != "" {
		t.Fatalf("unexpected component a: %+v", snap.Components[0])
	}
	if snap.Components[1].LoadError == "" {
		t.Fatalf("expected load error on component b")
	}
	if src.modules[0].Capabilities[0].Provider.ID != "" {
		t.Fatalf("Capture must not mutate source records")
	}
}

func TestCapture_FailsWhenModulesUnavailable(t *testing.T) {
	if _, err := Capture(context.Background(), &fakeSource{failModules: true}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStateJSON(t *testing.T) {
	data, err := json.Marshal(StateResolved)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"Resolved"` {
		t.Fatalf("unexpected encoding %s", data)
	}
	var s State
	if err := json.Unmarshal([]byte(`"active"`), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s != StateActive {
		t.Fatalf("expected Active, got %s", s)
	}
	if err := json.Unmarshal([]byte(`"Sleeping"`), &s); err == nil {
		t.Fatalf("expected unknown state to be rejected")
	}
	if State(42).String() != "Unknown: 42" {
		t.Fatalf("unexpected String for unknown state: %s", State(42))
	}
}

func TestModuleHelpers(t *testing.T) {
	m := Module{
		Packages:     []string{"org.example.internal"},
		Capabilities: []Capability{{Name: "org.example.api"}},
	}
	if !m.OwnsPackage("org.example.internal") || m.OwnsPackage("org.other") {
		t.Fatalf("OwnsPackage misreports")
	}
	if !m.Exports("org.example.api") || m.Exports("org.example.internal") {
		t.Fatalf("Exports misreports")
	}
	c := Configuration{SatisfiedReferences: []string{"db"}}
	if !c.Satisfied("db") || c.Satisfied("cache") {
		t.Fatalf("Satisfied misreports")
	}
}
