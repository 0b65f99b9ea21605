package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

func TestGroupBy_KeepsFirstSeenOrder(t *testing.T) {
	words := []string{"bob", "alice", "bart", "anna", "carl"}
	g := GroupBy(words, func(s string) byte { return s[0] })

	if diff := cmp.Diff([]byte{'b', 'a', 'c'}, g.Keys); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bob", "bart"}, g.Get('b')); diff != "" {
		t.Fatalf("unexpected group b (-want +got):\n%s", diff)
	}
	if g.Get('z') != nil {
		t.Fatalf("expected nil for missing key")
	}
	if g.Len() != 3 {
		t.Fatalf("expected 3 groups, got %d", g.Len())
	}
}

func TestGroupByEach_EmptyInput(t *testing.T) {
	g := GroupByEach([]int(nil), func(int) []string { return nil })
	if g.Len() != 0 || g.Values == nil {
		t.Fatalf("expected empty, initialized groups: %+v", g)
	}
}

func TestCapabilityIndex_IndexesInactiveProviders(t *testing.T) {
	modules := []inventory.Module{
		{ID: "1", SymbolicName: "a", State: inventory.StateActive, Capabilities: []inventory.Capability{{Name: "org.api", Version: "1.0"}}},
		{ID: "2", SymbolicName: "b", State: inventory.StateInstalled, Capabilities: []inventory.Capability{{Name: "org.api", Version: "2.0"}, {Name: "org.impl", Version: "bogus!"}}},
		{ID: "3", SymbolicName: "c", State: inventory.StateResolved},
	}
	idx := BuildCapabilityIndex(modules)

	api := idx.Lookup("org.api")
	if len(api) != 2 {
		t.Fatalf("expected 2 providers of org.api, got %d", len(api))
	}
	if api[0].Module.ID != "1" || api[1].Module.ID != "2" {
		t.Fatalf("unexpected provider order: %s, %s", api[0].Module.ID, api[1].Module.ID)
	}
	if api[1].Version.String() != "2.0.0" {
		t.Fatalf("unexpected version %s", api[1].Version)
	}
	if api[1].Capability.Provider.SymbolicName != "b" {
		t.Fatalf("expected provider identity, got %+v", api[1].Capability.Provider)
	}

	impl := idx.Lookup("org.impl")
	if len(impl) != 1 || impl[0].VersionErr == nil || impl[0].Version.String() != "0.0.0" {
		t.Fatalf("expected unparseable version to fall back to 0.0.0 with error: %+v", impl)
	}

	missing := idx.Lookup("org.missing")
	if missing == nil || len(missing) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", missing)
	}

	if diff := cmp.Diff([]string{"org.api", "org.impl"}, idx.Names()); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestBuildComponentIndex(t *testing.T) {
	components := []inventory.Component{
		{Descriptor: inventory.ComponentDescriptor{Name: "store", Services: []string{"org.Store", "org.Admin"}}},
		{Descriptor: inventory.ComponentDescriptor{Name: "cache", Services: []string{"org.Store"}}},
		{Descriptor: inventory.ComponentDescriptor{Name: "store"}},
	}
	idx := BuildComponentIndex(components)

	if got := len(idx.ProvidersByService.Get("org.Store")); got != 2 {
		t.Fatalf("expected 2 providers of org.Store, got %d", got)
	}
	if got := len(idx.ProvidersByService.Get("org.Admin")); got != 1 {
		t.Fatalf("expected 1 provider of org.Admin, got %d", got)
	}
	if got := len(idx.DescriptorsByName.Get("store")); got != 2 {
		t.Fatalf("expected 2 descriptors named store, got %d", got)
	}
}
