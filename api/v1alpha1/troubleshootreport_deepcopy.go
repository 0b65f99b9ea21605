package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *TroubleshootReport) DeepCopyInto(out *TroubleshootReport) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new TroubleshootReport.
func (in *TroubleshootReport) DeepCopy() *TroubleshootReport {
	if in == nil {
		return nil
	}
	out := new(TroubleshootReport)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *TroubleshootReport) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *TroubleshootReportList) DeepCopyInto(out *TroubleshootReportList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]TroubleshootReport, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new TroubleshootReportList.
func (in *TroubleshootReportList) DeepCopy() *TroubleshootReportList {
	if in == nil {
		return nil
	}
	out := new(TroubleshootReportList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *TroubleshootReportList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *TroubleshootReportSpec) DeepCopyInto(out *TroubleshootReportSpec) {
	*out = *in
	if in.Selector != nil {
		in, out := &in.Selector, &out.Selector
		*out = (*in).DeepCopy()
	}
	if in.StartRequest != nil {
		in, out := &in.StartRequest, &out.StartRequest
		*out = new(StartRequest)
		**out = **in
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *TroubleshootReportStatus) DeepCopyInto(out *TroubleshootReportStatus) {
	*out = *in
	if in.LastRunTime != nil {
		in, out := &in.LastRunTime, &out.LastRunTime
		*out = (*in).DeepCopy()
	}
	if in.InactiveModules != nil {
		out.InactiveModules = make([]InactiveModuleStatus, len(in.InactiveModules))
		for i := range in.InactiveModules {
			in.InactiveModules[i].DeepCopyInto(&out.InactiveModules[i])
		}
	}
	if in.MissingServices != nil {
		out.MissingServices = make([]MissingServiceStatus, len(in.MissingServices))
		for i := range in.MissingServices {
			in.MissingServices[i].DeepCopyInto(&out.MissingServices[i])
		}
	}
	if in.ComponentErrors != nil {
		out.ComponentErrors = make([]string, len(in.ComponentErrors))
		copy(out.ComponentErrors, in.ComponentErrors)
	}
	if in.LastStart != nil {
		in, out := &in.LastStart, &out.LastStart
		*out = new(StartStatus)
		(*in).DeepCopyInto(*out)
	}
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *InactiveModuleStatus) DeepCopyInto(out *InactiveModuleStatus) {
	*out = *in
	if in.Findings != nil {
		out.Findings = make([]string, len(in.Findings))
		copy(out.Findings, in.Findings)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *MissingServiceStatus) DeepCopyInto(out *MissingServiceStatus) {
	*out = *in
	if in.Dependents != nil {
		out.Dependents = make([]string, len(in.Dependents))
		copy(out.Dependents, in.Dependents)
	}
	if in.Origins != nil {
		out.Origins = make([]string, len(in.Origins))
		copy(out.Origins, in.Origins)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *StartStatus) DeepCopyInto(out *StartStatus) {
	*out = *in
	in.CompletedAt.DeepCopyInto(&out.CompletedAt)
	if in.Attempts != nil {
		out.Attempts = make([]string, len(in.Attempts))
		copy(out.Attempts, in.Attempts)
	}
}
