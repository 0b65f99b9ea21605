package controllers

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
)

const (
	ReportConditionInventoryCaptured = "InventoryCaptured"
	ReportConditionModulesActive     = "ModulesActive"
	ReportConditionServicesAvailable = "ServicesAvailable"
)

func setReportCondition(report *binderyv1alpha1.TroubleshootReport, condition metav1.Condition) {
	if report == nil {
		return
	}
	condition.ObservedGeneration = report.Generation
	meta.SetStatusCondition(&report.Status.Conditions, condition)
}

func modulesActiveCondition(inactive int) metav1.Condition {
	if inactive == 0 {
		return metav1.Condition{
			Type:    ReportConditionModulesActive,
			Status:  metav1.ConditionTrue,
			Reason:  "AllActive",
			Message: "All modules are active",
		}
	}
	return metav1.Condition{
		Type:    ReportConditionModulesActive,
		Status:  metav1.ConditionFalse,
		Reason:  "InactiveModules",
		Message: fmt.Sprintf("%d module(s) not active", inactive),
	}
}

func servicesAvailableCondition(missing, blocked int) metav1.Condition {
	if missing == 0 {
		return metav1.Condition{
			Type:    ReportConditionServicesAvailable,
			Status:  metav1.ConditionTrue,
			Reason:  "AllSatisfied",
			Message: "No component is blocked by a missing service",
		}
	}
	return metav1.Condition{
		Type:    ReportConditionServicesAvailable,
		Status:  metav1.ConditionFalse,
		Reason:  "MissingServices",
		Message: fmt.Sprintf("%d missing service(s) block %d component(s)", missing, blocked),
	}
}
