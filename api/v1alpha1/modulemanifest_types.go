package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ModuleManifest declares a module's identity and its provides/requires contracts.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=mm
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Module",type=string,JSONPath=`.spec.module.symbolicName`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.module.version`
// +kubebuilder:printcolumn:name="Fragment",type=boolean,JSONPath=`.spec.fragment`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type ModuleManifest struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ModuleManifestSpec   `json:"spec"`
	Status ModuleManifestStatus `json:"status,omitempty"`
}

type ModuleManifestSpec struct {
	Module ModuleIdentity `json:"module"`

	// Fragment modules attach to a host and never become Active; Resolved is
	// their terminal success state.
	Fragment bool `json:"fragment,omitempty"`

	// Packages lists the names the module carries itself. Requirements on
	// them never need a provider.
	Packages []string `json:"packages,omitempty"`

	Provides []ProvidedCapability `json:"provides,omitempty"`
	Requires []RequiredCapability `json:"requires,omitempty"`
}

type ModuleIdentity struct {
	ID           string `json:"id"`
	SymbolicName string `json:"symbolicName,omitempty"`
	Version      string `json:"version,omitempty"`
}

type ProvidedCapability struct {
	CapabilityID string `json:"capabilityId"`
	Version      string `json:"version,omitempty"`
}

type RequiredCapability struct {
	CapabilityID string `json:"capabilityId"`
	// VersionRange uses interval notation, e.g. "[1.0,2.0)". A bare version is
	// a floor; empty accepts any version.
	VersionRange   string         `json:"versionRange,omitempty"`
	DependencyMode DependencyMode `json:"dependencyMode,omitempty"`
}

type ModuleManifestStatus struct {
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// Phase is the lifecycle state reported by the runtime.
	// +kubebuilder:validation:Enum=Uninstalled;Installed;Resolved;Starting;Active;Stopping
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message,omitempty"`
}

// +kubebuilder:object:root=true
type ModuleManifestList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ModuleManifest `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ModuleManifest{}, &ModuleManifestList{})
}
