package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ComponentDescriptor describes a managed component, the services it provides
// and the services it references.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=cd
// +kubebuilder:printcolumn:name="Component",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="Policy",type=string,JSONPath=`.spec.configurationPolicy`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type ComponentDescriptor struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ComponentDescriptorSpec   `json:"spec"`
	Status ComponentDescriptorStatus `json:"status,omitempty"`
}

type ComponentDescriptorSpec struct {
	// Name is the component name. Service references resolve against it when
	// reporting missing definitions.
	Name string `json:"name"`

	// Factory is set for factory components.
	Factory string `json:"factory,omitempty"`

	// +kubebuilder:validation:Enum=optional;require;ignore
	ConfigurationPolicy ConfigurationPolicy `json:"configurationPolicy,omitempty"`

	Services   []string           `json:"services,omitempty"`
	References []ServiceReference `json:"references,omitempty"`
}

type ServiceReference struct {
	Name      string `json:"name"`
	Interface string `json:"interface"`
	Optional  bool   `json:"optional,omitempty"`
}

type ComponentDescriptorStatus struct {
	Configurations []ComponentConfiguration `json:"configurations,omitempty"`
}

type ComponentConfiguration struct {
	ID                  int64    `json:"id"`
	State               string   `json:"state,omitempty"`
	SatisfiedReferences []string `json:"satisfiedReferences,omitempty"`
}

// +kubebuilder:object:root=true
type ComponentDescriptorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ComponentDescriptor `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ComponentDescriptor{}, &ComponentDescriptorList{})
}
