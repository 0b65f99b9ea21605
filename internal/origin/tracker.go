// Package origin keeps an append-only log of where services came from, so a
// missing service can be traced back to whatever removed it.
package origin

import (
	"sort"
	"sync"
	"time"
)

// Entry is one observed service event.
type Entry struct {
	Interface  string    `json:"interface"`
	Origin     string    `json:"origin"`
	ObservedAt time.Time `json:"observedAt"`
}

// Tracker is safe for concurrent use. Entries are never removed.
type Tracker struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// Record appends an event for iface. Empty interfaces are ignored; an empty
// origin is recorded as "unknown".
func (t *Tracker) Record(iface, origin string) {
	if iface == "" {
		return
	}
	if origin == "" {
		origin = "unknown"
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, Entry{Interface: iface, Origin: origin, ObservedAt: t.now()})
}

// Origins returns the distinct origins recorded for iface, sorted.
func (t *Tracker) Origins(iface string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, e := range t.entries {
		if e.Interface != iface {
			continue
		}
		if _, ok := seen[e.Origin]; ok {
			continue
		}
		seen[e.Origin] = struct{}{}
		out = append(out, e.Origin)
	}
	sort.Strings(out)
	return out
}

// Entries returns a copy of the log in recording order.
func (t *Tracker) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Entry(nil), t.entries...)
}

// Lookup resolves origins for many interfaces at once and omits those with none.
func (t *Tracker) Lookup(ifaces []string) map[string][]string {
	out := map[string][]string{}
	for _, iface := range ifaces {
		if origins := t.Origins(iface); len(origins) > 0 {
			out[iface] = origins
		}
	}
	return out
}
