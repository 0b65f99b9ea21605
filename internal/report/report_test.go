package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"sigs.k8s.io/yaml"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/lifecycle"
)

func modules(states ...inventory.State) []inventory.Module {
	out := make([]inventory.Module, 0, len(states))
	for _, s := range states {
		out = append(out, inventory.Module{State: s})
	}
	return out
}

func TestModuleSummaryLine(t *testing.T) {
	tests := []struct {
		name    string
		modules []inventory.Module
		want    string
	}{
		{
			name:    "all active",
			modules: modules(inventory.StateActive, inventory.StateActive),
			want:    "Module information: 2 modules in total - all 2 modules active.",
		},
		{
			name: "active with fragments",
			modules: append(modules(inventory.StateActive),
				inventory.Module{State: inventory.StateResolved, Fragment: true}),
			want: "Module information: 2 modules in total - all 2 modules active.",
		},
		{
			name: "mixed",
			modules: append(modules(inventory.StateActive, inventory.StateActive, inventory.StateResolved, inventory.StateInstalled),
				inventory.Module{State: inventory.StateResolved, Fragment: true}),
			want: "Module information: 5 modules in total, 2 modules active, 1 module active fragments, 1 module resolved, 1 module installed.",
		},
		{
			name:    "empty",
			modules: nil,
			want:    "Module information: 0 modules in total - all 0 modules active.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SummarizeModules(tc.modules).Line(); got != tc.want {
				t.Fatalf("unexpected line:\n got %s\nwant %s", got, tc.want)
			}
		})
	}
}

func TestComponentSummaryLine(t *testing.T) {
	components := []inventory.Component{
		{
			Descriptor:     inventory.ComponentDescriptor{Name: "a", References: []inventory.ServiceReference{{Name: "r1"}, {Name: "r2"}}},
			Configurations: []inventory.Configuration{{ID: 1}, {ID: 2}},
		},
		{Descriptor: inventory.ComponentDescriptor{Name: "b", Factory: "b.factory"}},
	}

	want := "Component information: 2 different components, 1 active components, 2 active instances, 1 factory components, 2 service references"
	if got := SummarizeComponents(components).Line(); got != want {
		t.Fatalf("unexpected line:\n got %s\nwant %s", got, want)
	}
}

func sampleDocument() Document {
	provider := inventory.ModuleRef{ID: "api", SymbolicName: "org.example.api"}
	rep := diagnoser.Report{
		Modules: []diagnoser.ModuleDiagnosis{{
			Module: inventory.ModuleRef{ID: "web", SymbolicName: "org.example.web"},
			State:  inventory.StateInstalled,
			Findings: []diagnoser.Finding{
				{Kind: diagnoser.KindNotExportedAnywhere, Capability: "org.gone"},
				{Kind: diagnoser.KindVersionMismatch, Capability: "org.api", RequiredRange: "[1.0,2.0)", Subtype: diagnoser.TooNew, FoundVersion: "2.0.0", Provider: &provider},
			},
		}},
		MissingServices: []diagnoser.MissingService{
			{Service: "svc.Storage", Reason: diagnoser.NoDefinitionFound, Dependents: []string{"web.Admin", "web.Handler"}},
		},
	}
	doc := Build(&inventory.Snapshot{Modules: modules(inventory.StateActive, inventory.StateInstalled)}, rep)
	doc.Origins = map[string][]string{"svc.Storage": {"helm"}}
	doc.Start = &lifecycle.Result{
		Attempts: []lifecycle.Attempt{{Module: inventory.ModuleRef{ID: "web", SymbolicName: "org.example.web"}, Before: inventory.StateInstalled, After: inventory.StateInstalled, Outcome: lifecycle.OutcomeFailed, Message: "unresolved"}},
		Touched:  1,
	}
	return doc
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleDocument(), FormatText); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Module information: 2 modules in total, 1 module active, 1 module installed.",
		"org.example.web (web)",
		"not exported by any module: org.gone",
		"dependency too new: org.example.api (api) (importing org.api [1.0,2.0) but found 2.0.0)",
		"svc.Storage (no component definition in active modules found)",
		"blocks 2 other components",
		"removed by: helm",
		"Successfully started 0 out of 1 modules.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestRenderStructured(t *testing.T) {
	doc := sampleDocument()

	var yamlOut bytes.Buffer
	if err := Render(&yamlOut, doc, FormatYAML); err != nil {
		t.Fatalf("Render yaml: %v", err)
	}
	var fromYAML map[string]interface{}
	if err := yaml.Unmarshal(yamlOut.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if _, ok := fromYAML["diagnosis"]; !ok {
		t.Fatalf("expected diagnosis key in yaml output:\n%s", yamlOut.String())
	}
	if !strings.Contains(yamlOut.String(), "state: Installed") {
		t.Fatalf("expected states rendered by name:\n%s", yamlOut.String())
	}

	var jsonOut bytes.Buffer
	if err := Render(&jsonOut, doc, FormatJSON); err != nil {
		t.Fatalf("Render json: %v", err)
	}
	var fromJSON Document
	if err := json.Unmarshal(jsonOut.Bytes(), &fromJSON); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if fromJSON.Diagnosis.MissingServices[0].Service != "svc.Storage" {
		t.Fatalf("unexpected decoded document: %+v", fromJSON.Diagnosis)
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "yaml": FormatYAML, " json ": FormatJSON} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
