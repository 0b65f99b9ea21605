package kube

import (
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/validation"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

// ObjectName turns a symbolic or component name into a valid object name.
func ObjectName(raw string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	name := strings.Trim(sb.String(), "-.")
	if len(name) > validation.DNS1123SubdomainMaxLength {
		name = strings.TrimRight(name[:validation.DNS1123SubdomainMaxLength], "-.")
	}
	return name
}

// ManifestFromModule is the inverse of ModuleFromManifest. The state goes
// into status.phase, which the caller writes through the status subresource.
func ManifestFromModule(m inventory.Module, namespace string) *binderyv1alpha1.ModuleManifest {
	mm := &binderyv1alpha1.ModuleManifest{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ObjectName(m.SymbolicName + "-" + m.ID),
			Namespace: namespace,
		},
		Spec: binderyv1alpha1.ModuleManifestSpec{
			Module: binderyv1alpha1.ModuleIdentity{
				ID:           m.ID,
				SymbolicName: m.SymbolicName,
				Version:      m.Version,
			},
			Fragment: m.Fragment,
			Packages: append([]string(nil), m.Packages...),
		},
	}
	if m.State != 0 {
		mm.Status.Phase = m.State.String()
	}
	for _, c := range m.Capabilities {
		mm.Spec.Provides = append(mm.Spec.Provides, binderyv1alpha1.ProvidedCapability{
			CapabilityID: c.Name,
			Version:      c.Version,
		})
	}
	for _, r := range m.Requirements {
		req := binderyv1alpha1.RequiredCapability{CapabilityID: r.Name, VersionRange: r.Range}
		if r.Optional {
			req.DependencyMode = binderyv1alpha1.DependencyModeOptional
		}
		mm.Spec.Requires = append(mm.Spec.Requires, req)
	}
	return mm
}

// ObjectFromComponent is the inverse of DescriptorFromObject. Configurations
// go into the status.
func ObjectFromComponent(c inventory.Component, namespace string) *binderyv1alpha1.ComponentDescriptor {
	d := c.Descriptor
	cd := &binderyv1alpha1.ComponentDescriptor{
		ObjectMeta: metav1.ObjectMeta{
			Name:      ObjectName(d.Name),
			Namespace: namespace,
		},
		Spec: binderyv1alpha1.ComponentDescriptorSpec{
			Name:                d.Name,
			Factory:             d.Factory,
			ConfigurationPolicy: binderyv1alpha1.ConfigurationPolicy(d.ConfigurationPolicy),
			Services:            append([]string(nil), d.Services...),
		},
	}
	for _, r := range d.References {
		cd.Spec.References = append(cd.Spec.References, binderyv1alpha1.ServiceReference{
			Name:      r.Name,
			Interface: r.Interface,
			Optional:  r.Optional,
		})
	}
	for _, cfg := range c.Configurations {
		cd.Status.Configurations = append(cd.Status.Configurations, binderyv1alpha1.ComponentConfiguration{
			ID:                  cfg.ID,
			State:               cfg.State,
			SatisfiedReferences: append([]string(nil), cfg.SatisfiedReferences...),
		})
	}
	return cd
}
