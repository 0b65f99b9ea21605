package diagnoser

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

type refSpec struct {
	name      string
	iface     string
	optional  bool
	satisfied bool
}

func component(name string, services []string, refs ...refSpec) inventory.Component {
	c := inventory.Component{Descriptor: inventory.ComponentDescriptor{Name: name, Services: services}}
	config := inventory.Configuration{ID: 1, State: "unsatisfied reference"}
	for _, r := range refs {
		c.Descriptor.References = append(c.Descriptor.References, inventory.ServiceReference{
			Name:      r.name,
			Interface: r.iface,
			Optional:  r.optional,
		})
		if r.satisfied {
			config.SatisfiedReferences = append(config.SatisfiedReferences, r.name)
		}
	}
	c.Configurations = []inventory.Configuration{config}
	return c
}

func needs(iface string) refSpec {
	return refSpec{name: iface + "Ref", iface: iface}
}

func TestDiagnoseServices_RankedByBlastRadius(t *testing.T) {
	var components []inventory.Component
	for i := 0; i < 1; i++ {
		components = append(components, component(fmt.Sprintf("c-%d", i), nil, needs("svc.C")))
	}
	for i := 0; i < 5; i++ {
		components = append(components, component(fmt.Sprintf("a-%d", i), nil, needs("svc.A")))
	}
	for i := 0; i < 3; i++ {
		components = append(components, component(fmt.Sprintf("b-%d", i), nil, needs("svc.B")))
	}

	missing := DiagnoseServices(components)
	var got []int
	for _, ms := range missing {
		got = append(got, len(ms.Dependents))
		if ms.Reason != NoDefinitionFound {
			t.Fatalf("expected NoDefinitionFound for %s, got %s", ms.Service, ms.Reason)
		}
	}
	if diff := cmp.Diff([]int{5, 3, 1}, got); diff != "" {
		t.Fatalf("unexpected dependent counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a-0", "a-1", "a-2", "a-3", "a-4"}, missing[0].Dependents); diff != "" {
		t.Fatalf("dependents must be sorted (-want +got):\n%s", diff)
	}
}

func TestDiagnoseServices_Reasons(t *testing.T) {
	required := component("svc.Config", nil)
	required.Descriptor.ConfigurationPolicy = inventory.PolicyRequire
	required.Configurations = nil
	idle := component("svc.Idle", nil)
	idle.Configurations = nil

	components := []inventory.Component{
		required,
		idle,
		component("consumer", nil, needs("svc.Config"), needs("svc.Idle"), needs("svc.Nowhere")),
	}

	want := []MissingService{
		{Service: "svc.Config", Reason: MissingRequiredConfiguration, Dependents: []string{"consumer"}},
		{Service: "svc.Idle", Reason: NoActiveInstance, Dependents: []string{"consumer"}},
		{Service: "svc.Nowhere", Reason: NoDefinitionFound, Dependents: []string{"consumer"}},
	}
	if diff := cmp.Diff(want, DiagnoseServices(components)); diff != "" {
		t.Fatalf("unexpected missing services (-want +got):\n%s", diff)
	}
}

func TestDiagnoseServices_SkipsSatisfiedOptionalAndProvided(t *testing.T) {
	components := []inventory.Component{
		component("provider", []string{"svc.Provided"}),
		component("satisfied", nil, refSpec{name: "r", iface: "svc.X", satisfied: true}),
		component("optional", nil, refSpec{name: "r", iface: "svc.Y", optional: true}),
		component("provided", nil, needs("svc.Provided")),
	}

	if missing := DiagnoseServices(components); len(missing) != 0 {
		t.Fatalf("expected no missing services, got %+v", missing)
	}
}

func TestDiagnoseServices_SatisfiedComponentNeverDependent(t *testing.T) {
	components := []inventory.Component{
		component("blocked", nil, needs("svc.Missing")),
		component("fine", nil, refSpec{name: "svc.MissingRef", iface: "svc.Missing", satisfied: true}),
	}

	missing := DiagnoseServices(components)
	if len(missing) != 1 {
		t.Fatalf("expected one missing service, got %+v", missing)
	}
	for _, d := range missing[0].Dependents {
		if d == "fine" {
			t.Fatalf("satisfied component listed as dependent")
		}
	}
}

func TestDiagnoseServices_DedupesPerComponent(t *testing.T) {
	components := []inventory.Component{
		component("twice", nil,
			refSpec{name: "first", iface: "svc.Missing"},
			refSpec{name: "second", iface: "svc.Missing"},
		),
	}

	missing := DiagnoseServices(components)
	if len(missing) != 1 || len(missing[0].Dependents) != 1 {
		t.Fatalf("expected one dependent, got %+v", missing)
	}
}

func TestDiagnoseServices_ComponentWithoutConfigurationIgnored(t *testing.T) {
	c := component("idle", nil, needs("svc.Missing"))
	c.Configurations = nil

	if missing := DiagnoseServices([]inventory.Component{c}); len(missing) != 0 {
		t.Fatalf("expected no missing services, got %+v", missing)
	}
}

func TestRank_TiesAndInputUntouched(t *testing.T) {
	in := []MissingService{
		{Service: "svc.B", Reason: NoActiveInstance, Dependents: []string{"z", "y"}},
		{Service: "svc.A", Reason: NoDefinitionFound, Dependents: []string{"x", "w"}},
		{Service: "svc.A", Reason: MissingRequiredConfiguration, Dependents: []string{"v", "u"}},
	}

	out := Rank(in)
	want := []MissingService{
		{Service: "svc.A", Reason: MissingRequiredConfiguration, Dependents: []string{"u", "v"}},
		{Service: "svc.A", Reason: NoDefinitionFound, Dependents: []string{"w", "x"}},
		{Service: "svc.B", Reason: NoActiveInstance, Dependents: []string{"y", "z"}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected ranking (-want +got):\n%s", diff)
	}
	if in[0].Service != "svc.B" || in[0].Dependents[0] != "z" {
		t.Fatalf("input was modified: %+v", in)
	}
}

func TestServiceKeyString(t *testing.T) {
	key := ServiceKey{Service: "svc.A", Reason: MissingRequiredConfiguration}
	if got := key.String(); got != "svc.A (missing required config)" {
		t.Fatalf("unexpected key text: %s", got)
	}
}
