// Package kube reads the module inventory from ModuleManifest and
// ComponentDescriptor objects.
package kube

import (
	"context"
	"fmt"
	"strings"
	"sync"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	"sigs.k8s.io/controller-runtime/pkg/client"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// Source lists inventory objects in one namespace, restricted by a label selector.
type Source struct {
	reader    client.Reader
	namespace string
	selector  labels.Selector

	mu      sync.Mutex
	configs map[string][]binderyv1alpha1.ComponentConfiguration
}

var _ inventory.Source = (*Source)(nil)

// NewSource builds a Source. A nil selector selects everything.
func NewSource(reader client.Reader, namespace string, selector *metav1.LabelSelector) (*Source, error) {
	sel := labels.Everything()
	if selector != nil {
		var err error
		sel, err = metav1.LabelSelectorAsSelector(selector)
		if err != nil {
			return nil, fmt.Errorf("invalid selector: %w", err)
		}
	}
	return &Source{reader: reader, namespace: namespace, selector: sel}, nil
}

func (s *Source) listOptions() []client.ListOption {
	opts := []client.ListOption{client.MatchingLabelsSelector{Selector: s.selector}}
	if s.namespace != "" {
		opts = append(opts, client.InNamespace(s.namespace))
	}
	return opts
}

func (s *Source) ListModules(ctx context.Context) ([]inventory.Module, error) {
	var list binderyv1alpha1.ModuleManifestList
	if err := s.reader.List(ctx, &list, s.listOptions()...); err != nil {
		return nil, fmt.Errorf("list modulemanifests: %w", err)
	}
	out := make([]inventory.Module, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, ModuleFromManifest(&list.Items[i]))
	}
	return out, nil
}

func (s *Source) ListComponentDescriptors(ctx context.Context) ([]inventory.ComponentDescriptor, error) {
	var list binderyv1alpha1.ComponentDescriptorList
	if err := s.reader.List(ctx, &list, s.listOptions()...); err != nil {
		return nil, fmt.Errorf("list componentdescriptors: %w", err)
	}

	configs := make(map[string][]binderyv1alpha1.ComponentConfiguration, len(list.Items))
	out := make([]inventory.ComponentDescriptor, 0, len(list.Items))
	for i := range list.Items {
		cd := &list.Items[i]
		d := DescriptorFromObject(cd)
		d.Key = client.ObjectKeyFromObject(cd).String()
		configs[d.Key] = cd.Status.Configurations
		out = append(out, d)
	}

	s.mu.Lock()
	s.configs = configs
	s.mu.Unlock()
	return out, nil
}

// ListConfigurations answers from the descriptors seen by the last
// ListComponentDescriptors call, so one capture reads a consistent list.
func (s *Source) ListConfigurations(_ context.Context, d inventory.ComponentDescriptor) ([]inventory.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	configs, ok := s.configs[d.Key]
	if !ok {
		return nil, fmt.Errorf("component descriptor %q (%s) was not listed", d.Name, d.Key)
	}
	out := make([]inventory.Configuration, 0, len(configs))
	for _, c := range configs {
		out = append(out, inventory.Configuration{
			ID:                  c.ID,
			State:               c.State,
			SatisfiedReferences: append([]string(nil), c.SatisfiedReferences...),
		})
	}
	return out, nil
}

// ModuleFromManifest converts a ModuleManifest. The module id falls back to
// the object name; an empty phase reads as Installed and an unknown phase as
// state 0, which is never active.
func ModuleFromManifest(mm *binderyv1alpha1.ModuleManifest) inventory.Module {
	m := inventory.Module{
		ID:           strings.TrimSpace(mm.Spec.Module.ID),
		SymbolicName: strings.TrimSpace(mm.Spec.Module.SymbolicName),
		Version:      mm.Spec.Module.Version,
		Fragment:     mm.Spec.Fragment,
		Packages:     append([]string(nil), mm.Spec.Packages...),
	}
	if m.ID == "" {
		m.ID = mm.Name
	}
	if m.SymbolicName == "" {
		m.SymbolicName = mm.Name
	}

	switch phase := strings.TrimSpace(mm.Status.Phase); phase {
	case "":
		m.State = inventory.StateInstalled
	default:
		if st, err := inventory.ParseState(phase); err == nil {
			m.State = st
		}
	}

	for _, p := range mm.Spec.Provides {
		m.Capabilities = append(m.Capabilities, inventory.Capability{
			Name:     p.CapabilityID,
			Version:  p.Version,
			Provider: m.Ref(),
		})
	}
	for _, r := range mm.Spec.Requires {
		m.Requirements = append(m.Requirements, inventory.Requirement{
			Name:     r.CapabilityID,
			Range:    r.VersionRange,
			Optional: r.DependencyMode == binderyv1alpha1.DependencyModeOptional,
		})
	}
	return m
}

// DescriptorFromObject converts a ComponentDescriptor. The component name
// falls back to the object name.
func DescriptorFromObject(cd *binderyv1alpha1.ComponentDescriptor) inventory.ComponentDescriptor {
	d := inventory.ComponentDescriptor{
		Name:                strings.TrimSpace(cd.Spec.Name),
		Factory:             cd.Spec.Factory,
		ConfigurationPolicy: string(cd.Spec.ConfigurationPolicy),
		Services:            append([]string(nil), cd.Spec.Services...),
	}
	if d.Name == "" {
		d.Name = cd.Name
	}
	if d.ConfigurationPolicy == "" {
		d.ConfigurationPolicy = inventory.PolicyOptional
	}
	for _, r := range cd.Spec.References {
		d.References = append(d.References, inventory.ServiceReference{
			Name:      r.Name,
			Interface: r.Interface,
			Optional:  r.Optional,
		})
	}
	return d
}
