package origin

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTracker_Origins(t *testing.T) {
	tr := NewTracker()
	tr.Record("svc.Storage", "helm")
	tr.Record("svc.Storage", "kubectl")
	tr.Record("svc.Storage", "helm")
	tr.Record("svc.Auth", "")
	tr.Record("", "ignored")

	if diff := cmp.Diff([]string{"helm", "kubectl"}, tr.Origins("svc.Storage")); diff != "" {
		t.Fatalf("unexpected origins (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"unknown"}, tr.Origins("svc.Auth")); diff != "" {
		t.Fatalf("unexpected origins (-want +got):\n%s", diff)
	}
	if got := tr.Origins("svc.None"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty origins, got %#v", got)
	}
	if got := len(tr.Entries()); got != 4 {
		t.Fatalf("expected 4 entries, got %d", got)
	}

	want := map[string][]string{"svc.Storage": {"helm", "kubectl"}}
	if diff := cmp.Diff(want, tr.Lookup([]string{"svc.Storage", "svc.None"})); diff != "" {
		t.Fatalf("unexpected lookup (-want +got):\n%s", diff)
	}
}

func TestTracker_EntriesIsCopy(t *testing.T) {
	tr := NewTracker()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }
	tr.Record("svc.A", "helm")

	entries := tr.Entries()
	entries[0].Origin = "mutated"

	want := []Entry{{Interface: "svc.A", Origin: "helm", ObservedAt: fixed}}
	if diff := cmp.Diff(want, tr.Entries()); diff != "" {
		t.Fatalf("log was modified through copy (-want +got):\n%s", diff)
	}
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.Record("svc.A", fmt.Sprintf("manager-%d", i%5))
		}(i)
	}
	wg.Wait()

	if got := len(tr.Entries()); got != 20 {
		t.Fatalf("expected 20 entries, got %d", got)
	}
	if got := len(tr.Origins("svc.A")); got != 5 {
		t.Fatalf("expected 5 distinct origins, got %d", got)
	}
}
