package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/file"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
)

const testNamespace = "bindery-demo"

const snapshotDoc = `
modules:
- id: "1"
  symbolicName: org.example.api
  state: Active
  capabilities:
  - name: org.api
    version: "0.9"
- id: "2"
  symbolicName: org.example.web
  state: Installed
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
  - id: 1
    state: unsatisfied reference
`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := os.WriteFile(path, []byte(snapshotDoc), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func fakeCluster(objs ...client.Object) (client.Client, ClientFactory) {
	cl := fake.NewClientBuilder().WithScheme(Scheme).WithObjects(objs...).Build()
	return cl, func(_, namespace string) (client.Client, string, error) {
		if namespace == "" {
			namespace = "default"
		}
		return cl, namespace, nil
	}
}

func noCluster(_, _ string) (client.Client, string, error) {
	return nil, "", errors.New("no cluster in tests")
}

func testManifest(name, phase string, provides []binderyv1alpha1.ProvidedCapability, requires []binderyv1alpha1.RequiredCapability) *binderyv1alpha1.ModuleManifest {
	return &binderyv1alpha1.ModuleManifest{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: testNamespace},
		Spec: binderyv1alpha1.ModuleManifestSpec{
			Module:   binderyv1alpha1.ModuleIdentity{ID: name, SymbolicName: "org.example." + name},
			Provides: provides,
			Requires: requires,
		},
		Status: binderyv1alpha1.ModuleManifestStatus{Phase: phase},
	}
}

func run(t *testing.T, factory ClientFactory, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := New(factory)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDiagnose_Snapshot(t *testing.T) {
	out, err := run(t, noCluster, "diagnose", "--snapshot", writeSnapshot(t))
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	for _, want := range []string{
		"2 modules in total",
		"org.example.web (2)",
		"dependency too old: org.example.api (1) (importing org.api [1.0,2.0) but found 0.9.0)",
		"missing service: svc.Storage (no component definition in active modules found) blocks 1 other components",
		"web.Handler",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDiagnose_JSONAndFail(t *testing.T) {
	out, err := run(t, noCluster, "diagnose", "-f", writeSnapshot(t), "-o", "json", "--fail")
	if !errors.Is(err, ErrProblemsFound) {
		t.Fatalf("expected ErrProblemsFound, got %v", err)
	}

	var doc struct {
		Diagnosis struct {
			MissingServices []struct {
				Service    string   `json:"service"`
				Dependents []string `json:"dependents"`
			} `json:"missingServices"`
		} `json:"diagnosis"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if len(doc.Diagnosis.MissingServices) != 1 || doc.Diagnosis.MissingServices[0].Service != "svc.Storage" {
		t.Fatalf("unexpected missing services: %+v", doc.Diagnosis.MissingServices)
	}
}

func TestDiagnose_Errors(t *testing.T) {
	if _, err := run(t, noCluster, "diagnose", "-f", writeSnapshot(t), "-o", "xml"); err == nil {
		t.Fatalf("expected unsupported format to fail")
	}
	if _, err := run(t, noCluster, "diagnose"); err == nil || !strings.Contains(err.Error(), "no cluster in tests") {
		t.Fatalf("expected connection error, got %v", err)
	}
	if _, err := run(t, noCluster, "diagnose", "-f", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing snapshot to fail")
	}
}

func TestDiagnose_Cluster(t *testing.T) {
	_, factory := fakeCluster(
		testManifest("api", binderyv1alpha1.ModulePhaseActive,
			[]binderyv1alpha1.ProvidedCapability{{CapabilityID: "org.api", Version: "1.2"}}, nil),
		testManifest("web", binderyv1alpha1.ModulePhaseInstalled, nil,
			[]binderyv1alpha1.RequiredCapability{{CapabilityID: "org.api", VersionRange: "[1.0,2.0)"}}),
	)

	out, err := run(t, factory, "-n", testNamespace, "diagnose", "-o", "yaml")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !strings.Contains(out, "symbolicName: org.example.web") {
		t.Fatalf("expected inactive web module in output, got:\n%s", out)
	}
	if strings.Contains(out, "kind: VersionMismatch") {
		t.Fatalf("did not expect a version mismatch, got:\n%s", out)
	}
}

func TestSnapshot_RoundTrip(t *testing.T) {
	_, factory := fakeCluster(
		testManifest("api", binderyv1alpha1.ModulePhaseActive,
			[]binderyv1alpha1.ProvidedCapability{{CapabilityID: "org.api", Version: "1.2"}}, nil),
	)
	path := filepath.Join(t.TempDir(), "out.yaml")

	if _, err := run(t, factory, "-n", testNamespace, "snapshot", "--file", path); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	src, err := file.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	mods, err := src.ListModules(context.Background())
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if len(mods) != 1 || mods[0].SymbolicName != "org.example.api" || len(mods[0].Capabilities) != 1 {
		t.Fatalf("unexpected modules: %+v", mods)
	}
}

func TestStartInactive(t *testing.T) {
	cl, factory := fakeCluster(
		testManifest("api", binderyv1alpha1.ModulePhaseActive, nil, nil),
		testManifest("web", binderyv1alpha1.ModulePhaseResolved, nil, nil),
	)

	out, err := run(t, factory, "-n", testNamespace, "start-inactive")
	if err != nil {
		t.Fatalf("start-inactive: %v", err)
	}
	if !strings.Contains(out, "Trying to start org.example.web (Resolved)... start requested.") {
		t.Fatalf("expected start attempt line, got:\n%s", out)
	}
	if !strings.Contains(out, "Successfully started 1 out of 1 modules.") {
		t.Fatalf("expected start summary, got:\n%s", out)
	}
	if strings.Contains(out, "OK: Resolved") {
		t.Fatalf("a written request must not report the old state as the result, got:\n%s", out)
	}

	var web binderyv1alpha1.ModuleManifest
	if err := cl.Get(context.Background(), types.NamespacedName{Namespace: testNamespace, Name: "web"}, &web); err != nil {
		t.Fatalf("get manifest: %v", err)
	}
	if web.Annotations[kube.AnnotationStartRequested] == "" {
		t.Fatalf("expected start request annotation, got %+v", web.Annotations)
	}
}

func TestConfig_EnvironmentAndFile(t *testing.T) {
	t.Setenv(EnvPrefix+"_OUTPUT", "json")

	out, err := run(t, noCluster, "diagnose", "-f", writeSnapshot(t))
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected json output from environment, got:\n%s", out)
	}

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("namespace: from-file\nselector: team=web\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Namespace != "from-file" || cfg.Selector != "team=web" || cfg.Output != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// flags win over the environment
	out, err = run(t, noCluster, "diagnose", "-f", writeSnapshot(t), "-o", "text")
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected text output when the flag is set, got:\n%s", out)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected missing explicit config to fail")
	}
}
