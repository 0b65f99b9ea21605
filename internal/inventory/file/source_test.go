package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

const sample = `
modules:
- id: "1"
  symbolicName: org.example.api
  version: 1.5.0
  state: Active
  capabilities:
  - name: org.api
    version: "1.5"
- id: "2"
  symbolicName: org.example.web
  state: installed
  requirements:
  - name: org.api
    range: "[1.0,2.0)"
components:
- descriptor:
    name: web.Handler
    references:
    - name: storage
      interface: svc.Storage
  configurations:
  - id: 7
    state: unsatisfied reference
- descriptor:
    name: web.Broken
  loadError: registry timeout
`

func TestDecodeAndCapture(t *testing.T) {
	src, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	snap, err := inventory.Capture(context.Background(), src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(snap.Modules) != 2 || snap.Modules[1].State != inventory.StateInstalled {
		t.Fatalf("unexpected modules: %+v", snap.Modules)
	}
	wantProvider := inventory.ModuleRef{ID: "1", SymbolicName: "org.example.api"}
	if got := snap.Modules[0].Capabilities[0].Provider; got != wantProvider {
		t.Fatalf("expected provider to be stamped, got %+v", got)
	}
	if len(snap.Components) != 2 {
		t.Fatalf("unexpected components: %+v", snap.Components)
	}
	if diff := cmp.Diff([]inventory.Configuration{{ID: 7, State: "unsatisfied reference"}}, snap.Components[0].Configurations); diff != "" {
		t.Fatalf("unexpected configurations (-want +got):\n%s", diff)
	}
	if snap.Components[1].LoadError != "registry timeout" {
		t.Fatalf("expected load error to survive capture, got %+v", snap.Components[1])
	}
}

func TestCapture_ComponentsSharingAName(t *testing.T) {
	doc := `
components:
- descriptor:
    name: store
  configurations:
  - id: 1
    state: active
- descriptor:
    name: store
`
	src, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	snap, err := inventory.Capture(context.Background(), src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if len(snap.Components) != 2 {
		t.Fatalf("expected two components, got %+v", snap.Components)
	}
	if n := len(snap.Components[0].Configurations); n != 1 {
		t.Fatalf("expected the first store to keep its configuration, got %d", n)
	}
	if n := len(snap.Components[1].Configurations); n != 0 {
		t.Fatalf("expected the second store to have no configurations, got %d", n)
	}
}

func TestEncodeDecode_UnknownState(t *testing.T) {
	snap := &inventory.Snapshot{Modules: []inventory.Module{
		{ID: "1", SymbolicName: "org.example.odd"},
		{ID: "2", SymbolicName: "org.example.api", State: inventory.StateActive},
	}}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "state: Unknown\n") {
		t.Fatalf("expected unknown state to encode as Unknown, got:\n%s", buf.String())
	}

	src, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	mods, err := src.ListModules(context.Background())
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if len(mods) != 2 || mods[0].State != 0 || mods[1].State != inventory.StateActive {
		t.Fatalf("unexpected modules: %+v", mods)
	}
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown field": "modules:\n- id: \"1\"\n  colour: red\n",
		"bad state":     "modules:\n- id: \"1\"\n  state: Sleeping\n",
		"missing id":    "modules:\n- symbolicName: org.example.x\n",
	} {
		if _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	src, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	snap, err := inventory.Capture(context.Background(), src)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	again, err := inventory.Capture(context.Background(), loaded)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if diff := cmp.Diff(snap.Modules, again.Modules); diff != "" {
		t.Fatalf("modules changed across encode/load (-want +got):\n%s", diff)
	}
}
