package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// State is the lifecycle state of a module as reported by the runtime.
type State int

const (
	StateUninstalled State = iota + 1
	StateInstalled
	StateResolved
	StateStarting
	StateActive
	StateStopping
)

var stateNames = map[State]string{
	StateUninstalled: "Uninstalled",
	StateInstalled:   "Installed",
	StateResolved:    "Resolved",
	StateStarting:    "Starting",
	StateActive:      "Active",
	StateStopping:    "Stopping",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown: %d", int(s))
}

// ParseState parses a state name case-insensitively.
func ParseState(raw string) (State, error) {
	for s, name := range stateNames {
		if strings.EqualFold(strings.TrimSpace(raw), name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown module state %q", raw)
}

// stateUnknown is the document form of any state outside the known set. It
// decodes back to state 0, which is never active.
const stateUnknown = "Unknown"

func (s State) MarshalJSON() ([]byte, error) {
	if name, ok := stateNames[s]; ok {
		return json.Marshal(name)
	}
	return json.Marshal(stateUnknown)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.EqualFold(strings.TrimSpace(raw), stateUnknown) {
		*s = 0
		return nil
	}
	parsed, err := ParseState(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ModuleRef identifies a module without carrying its declarations.
type ModuleRef struct {
	ID           string `json:"id"`
	SymbolicName string `json:"symbolicName"`
}

func (r ModuleRef) String() string {
	return fmt.Sprintf("%s (%s)", r.SymbolicName, r.ID)
}

// Module is one deployable unit as seen in a snapshot.
type Module struct {
	ID           string        `json:"id"`
	SymbolicName string        `json:"symbolicName"`
	Version      string        `json:"version,omitempty"`
	State        State         `json:"state"`
	Fragment     bool          `json:"fragment,omitempty"`
	Packages     []string      `json:"packages,omitempty"`
	Capabilities []Capability  `json:"capabilities,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
}

func (m Module) Ref() ModuleRef {
	return ModuleRef{ID: m.ID, SymbolicName: m.SymbolicName}
}

// OwnsPackage reports whether the module carries the named package itself.
func (m Module) OwnsPackage(name string) bool {
	for _, p := range m.Packages {
		if p == name {
			return true
		}
	}
	return false
}

// Exports reports whether the module offers a capability with the given name.
func (m Module) Exports(name string) bool {
	for _, c := range m.Capabilities {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Capability is a named, versioned thing a module offers.
type Capability struct {
	Name     string    `json:"name"`
	Version  string    `json:"version,omitempty"`
	Provider ModuleRef `json:"-"`
}

// Requirement is a named thing a module needs. An empty Range accepts any version.
type Requirement struct {
	Name     string `json:"name"`
	Range    string `json:"range,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

const (
	PolicyOptional = "optional"
	PolicyRequire  = "require"
	PolicyIgnore   = "ignore"
)

// ComponentDescriptor describes a managed component and its service dependencies.
// Names are not unique; Key is the listing source's own identity for the
// descriptor and is never serialized.
type ComponentDescriptor struct {
	Key                 string             `json:"-"`
	Name                string             `json:"name"`
	Factory             string             `json:"factory,omitempty"`
	ConfigurationPolicy string             `json:"configurationPolicy,omitempty"`
	Services            []string           `json:"services,omitempty"`
	References          []ServiceReference `json:"references,omitempty"`
}

type ServiceReference struct {
	Name      string `json:"name"`
	Interface string `json:"interface"`
	Optional  bool   `json:"optional,omitempty"`
}

// Configuration is one live instance of a component.
type Configuration struct {
	ID                  int64    `json:"id"`
	State               string   `json:"state,omitempty"`
	SatisfiedReferences []string `json:"satisfiedReferences,omitempty"`
}

// Satisfied reports whether the named reference is currently bound.
func (c Configuration) Satisfied(reference string) bool {
	for _, name := range c.SatisfiedReferences {
		if name == reference {
			return true
		}
	}
	return false
}

// Component is a descriptor together with its configurations at capture time.
type Component struct {
	Descriptor     ComponentDescriptor `json:"descriptor"`
	Configurations []Configuration     `json:"configurations,omitempty"`
	LoadError      string              `json:"loadError,omitempty"`
}

func (c Component) Name() string {
	return c.Descriptor.Name
}

// Snapshot is a point-in-time view of the runtime. Nothing downstream mutates it.
type Snapshot struct {
	TakenAt    time.Time   `json:"takenAt"`
	Modules    []Module    `json:"modules,omitempty"`
	Components []Component `json:"components,omitempty"`
}
