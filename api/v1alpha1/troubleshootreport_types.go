package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TroubleshootReport asks for a standing diagnosis of the modules and
// components in its namespace. The controller keeps its status current.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=tsr
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Inactive",type=integer,JSONPath=`.status.inactiveModuleCount`
// +kubebuilder:printcolumn:name="Missing",type=integer,JSONPath=`.status.missingServiceCount`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type TroubleshootReport struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TroubleshootReportSpec   `json:"spec"`
	Status TroubleshootReportStatus `json:"status,omitempty"`
}

type TroubleshootReportSpec struct {
	// Selector restricts the ModuleManifests and ComponentDescriptors considered.
	// Empty selects everything in the namespace.
	Selector *metav1.LabelSelector `json:"selector,omitempty"`

	// IntervalSeconds re-runs the diagnosis periodically. Zero re-runs only on change.
	// +kubebuilder:validation:Minimum=0
	IntervalSeconds int32 `json:"intervalSeconds,omitempty"`

	// StartRequest asks the controller to start inactive modules once per
	// distinct request ID.
	StartRequest *StartRequest `json:"startRequest,omitempty"`
}

type StartRequest struct {
	ID string `json:"id"`
}

const (
	ReportPhaseHealthy  = "Healthy"
	ReportPhaseDegraded = "Degraded"
	ReportPhaseError    = "Error"
)

type TroubleshootReportStatus struct {
	ObservedGeneration int64        `json:"observedGeneration,omitempty"`
	Phase              string       `json:"phase,omitempty"`
	Message            string       `json:"message,omitempty"`
	LastRunTime        *metav1.Time `json:"lastRunTime,omitempty"`

	ModuleSummary    string `json:"moduleSummary,omitempty"`
	ComponentSummary string `json:"componentSummary,omitempty"`

	InactiveModuleCount int32 `json:"inactiveModuleCount,omitempty"`
	MissingServiceCount int32 `json:"missingServiceCount,omitempty"`

	InactiveModules []InactiveModuleStatus `json:"inactiveModules,omitempty"`
	MissingServices []MissingServiceStatus `json:"missingServices,omitempty"`
	ComponentErrors []string               `json:"componentErrors,omitempty"`

	LastStart  *StartStatus       `json:"lastStart,omitempty"`
	Conditions []metav1.Condition `json:"conditions,omitempty"`
}

type InactiveModuleStatus struct {
	ID           string   `json:"id"`
	SymbolicName string   `json:"symbolicName"`
	State        string   `json:"state"`
	Hint         string   `json:"hint,omitempty"`
	Findings     []string `json:"findings,omitempty"`
	Error        string   `json:"error,omitempty"`
}

type MissingServiceStatus struct {
	Service    string   `json:"service"`
	Reason     string   `json:"reason"`
	Dependents []string `json:"dependents"`
	// Origins lists the field managers seen removing a provider of the service.
	Origins []string `json:"origins,omitempty"`
}

type StartStatus struct {
	RequestID   string      `json:"requestId"`
	Touched     int32       `json:"touched"`
	Started     int32       `json:"started"`
	Message     string      `json:"message,omitempty"`
	Attempts    []string    `json:"attempts,omitempty"`
	CompletedAt metav1.Time `json:"completedAt"`
}

// +kubebuilder:object:root=true
type TroubleshootReportList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TroubleshootReport `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TroubleshootReport{}, &TroubleshootReportList{})
}
