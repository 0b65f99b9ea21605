package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory/kube"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/lifecycle"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/origin"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/report"
)

const controllerName = "TroubleshootReport"

// TroubleshootReportReconciler keeps TroubleshootReport status in line with a
// fresh diagnosis of the namespace's modules and components.
//
// RBAC:
// +kubebuilder:rbac:groups=bindery.platform,resources=troubleshootreports,verbs=get;list;watch
// +kubebuilder:rbac:groups=bindery.platform,resources=troubleshootreports/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=bindery.platform,resources=modulemanifests,verbs=get;list;watch;patch
// +kubebuilder:rbac:groups=bindery.platform,resources=componentdescriptors,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type TroubleshootReportReconciler struct {
	client.Client
	Scheme    *runtime.Scheme
	Diagnoser diagnoser.Diagnoser
	Origins   *origin.Tracker
	Recorder  record.EventRecorder

	// NewStarter builds the starter used for start requests. Defaults to
	// annotating ModuleManifests in the report's namespace.
	NewStarter func(namespace string) lifecycle.Starter
}

func (r *TroubleshootReportReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	binderyControllerReconcileTotal.WithLabelValues(controllerName).Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", controllerName,
		"namespace", req.Namespace,
		"report", req.Name,
	)
	ctx = log.IntoContext(ctx, logger)

	var tsr binderyv1alpha1.TroubleshootReport
	if err := r.Get(ctx, req.NamespacedName, &tsr); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, err
	}
	before := tsr.DeepCopy()

	src, err := kube.NewSource(r.Client, req.Namespace, tsr.Spec.Selector)
	if err != nil {
		// A bad selector is a spec error; retrying will not fix it.
		r.markError(&tsr, "InvalidSelector", err.Error())
		if perr := r.patchStatus(ctx, &tsr, before); perr != nil {
			logger.Error(perr, "failed to patch report status")
		}
		r.recordEventf(&tsr, corev1.EventTypeWarning, "InvalidSelector", "%v", err)
		return ctrl.Result{}, nil
	}

	started := time.Now()
	snap, err := inventory.Capture(ctx, src)
	if err == nil {
		var rep diagnoser.Report
		rep, err = r.Diagnoser.Diagnose(ctx, snap)
		if err == nil {
			troubleshootDiagnosisDuration.Observe(time.Since(started).Seconds())
			return r.apply(ctx, &tsr, before, snap, rep)
		}
	}

	logger.Error(err, "failed to diagnose inventory")
	binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
	r.markError(&tsr, "InventoryUnavailable", err.Error())
	if perr := r.patchStatus(ctx, &tsr, before); perr != nil {
		logger.Error(perr, "failed to patch report status")
	}
	r.recordEventf(&tsr, corev1.EventTypeWarning, "InventoryUnavailable", "Failed to diagnose inventory: %v", err)
	return ctrl.Result{}, err
}

func (r *TroubleshootReportReconciler) apply(
	ctx context.Context,
	tsr *binderyv1alpha1.TroubleshootReport,
	before *binderyv1alpha1.TroubleshootReport,
	snap *inventory.Snapshot,
	rep diagnoser.Report,
) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	doc := report.Build(snap, rep)
	doc.Origins = r.Origins.Lookup(doc.MissingServiceNames())

	if req := tsr.Spec.StartRequest; req != nil && req.ID != "" && (tsr.Status.LastStart == nil || tsr.Status.LastStart.RequestID != req.ID) {
		result := lifecycle.StartInactive(ctx, snap.Modules, r.starter(tsr.Namespace))
		for _, a := range result.Attempts {
			troubleshootStartAttemptsTotal.WithLabelValues(string(a.Outcome)).Inc()
		}
		tsr.Status.LastStart = startStatus(req.ID, result)
		eventType := corev1.EventTypeNormal
		if result.Started < result.Touched {
			eventType = corev1.EventTypeWarning
		}
		r.recordEventf(tsr, eventType, "StartRequested", "%s", result.Message())
		doc.Start = &result
	}

	prevPhase := tsr.Status.Phase
	fillStatus(tsr, doc)
	if perr := r.patchStatus(ctx, tsr, before); perr != nil {
		logger.Error(perr, "failed to patch report status")
		binderyControllerReconcileErrorTotal.WithLabelValues(controllerName).Inc()
		return ctrl.Result{}, perr
	}
	r.observe(tsr, rep)

	logger.Info(
		"diagnosis published",
		"phase", tsr.Status.Phase,
		"moduleCount", len(snap.Modules),
		"inactiveModuleCount", len(rep.Modules),
		"missingServiceCount", len(rep.MissingServices),
	)
	if prevPhase != tsr.Status.Phase {
		switch tsr.Status.Phase {
		case binderyv1alpha1.ReportPhaseHealthy:
			r.recordEventf(tsr, corev1.EventTypeNormal, "Healthy", "%s", tsr.Status.Message)
		default:
			r.recordEventf(tsr, corev1.EventTypeWarning, "Degraded", "%s", tsr.Status.Message)
		}
	}

	if tsr.Spec.IntervalSeconds > 0 {
		return ctrl.Result{RequeueAfter: time.Duration(tsr.Spec.IntervalSeconds) * time.Second}, nil
	}
	return ctrl.Result{}, nil
}

func (r *TroubleshootReportReconciler) starter(namespace string) lifecycle.Starter {
	if r.NewStarter != nil {
		return r.NewStarter(namespace)
	}
	return &kube.Starter{Client: r.Client, Namespace: namespace}
}

func (r *TroubleshootReportReconciler) markError(tsr *binderyv1alpha1.TroubleshootReport, reason, message string) {
	tsr.Status.Phase = binderyv1alpha1.ReportPhaseError
	tsr.Status.Message = fmt.Sprintf("%s: %s", reason, message)
	setReportCondition(tsr, metav1.Condition{
		Type:    ReportConditionInventoryCaptured,
		Status:  metav1.ConditionFalse,
		Reason:  reason,
		Message: message,
	})
}

func (r *TroubleshootReportReconciler) patchStatus(ctx context.Context, tsr, before *binderyv1alpha1.TroubleshootReport) error {
	tsr.Status.ObservedGeneration = tsr.Generation
	return r.Status().Patch(ctx, tsr, client.MergeFrom(before))
}

func (r *TroubleshootReportReconciler) observe(tsr *binderyv1alpha1.TroubleshootReport, rep diagnoser.Report) {
	troubleshootInactiveModules.WithLabelValues(tsr.Namespace, tsr.Name).Set(float64(len(rep.Modules)))
	troubleshootMissingServices.WithLabelValues(tsr.Namespace, tsr.Name).Set(float64(len(rep.MissingServices)))
	troubleshootBlockedComponents.WithLabelValues(tsr.Namespace, tsr.Name).Set(float64(rep.BlockedComponents()))
	counts := rep.FindingCounts()
	for _, kind := range []diagnoser.FindingKind{
		diagnoser.KindNotExportedAnywhere,
		diagnoser.KindDependencyChainInactive,
		diagnoser.KindVersionMismatch,
	} {
		troubleshootFindings.WithLabelValues(tsr.Namespace, tsr.Name, string(kind)).Set(float64(counts[kind]))
	}
}

func (r *TroubleshootReportReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func fillStatus(tsr *binderyv1alpha1.TroubleshootReport, doc report.Document) {
	rep := doc.Diagnosis
	now := metav1.NewTime(time.Now())

	st := &tsr.Status
	st.LastRunTime = &now
	st.ModuleSummary = doc.Modules.Line()
	st.ComponentSummary = doc.Components.Line()
	st.InactiveModuleCount = int32(len(rep.Modules))
	st.MissingServiceCount = int32(len(rep.MissingServices))
	st.ComponentErrors = rep.ComponentErrors

	st.InactiveModules = make([]binderyv1alpha1.InactiveModuleStatus, 0, len(rep.Modules))
	for _, m := range rep.Modules {
		ims := binderyv1alpha1.InactiveModuleStatus{
			ID:           m.Module.ID,
			SymbolicName: m.Module.SymbolicName,
			State:        diagnoser.StatusText(inventory.Module{State: m.State, Fragment: m.Fragment}),
			Hint:         m.Hint,
			Error:        m.Error,
		}
		for _, f := range m.Findings {
			ims.Findings = append(ims.Findings, f.Message())
		}
		st.InactiveModules = append(st.InactiveModules, ims)
	}

	st.MissingServices = make([]binderyv1alpha1.MissingServiceStatus, 0, len(rep.MissingServices))
	for _, ms := range rep.MissingServices {
		st.MissingServices = append(st.MissingServices, binderyv1alpha1.MissingServiceStatus{
			Service:    ms.Service,
			Reason:     ms.Reason.Text(),
			Dependents: ms.Dependents,
			Origins:    doc.Origins[ms.Service],
		})
	}

	setReportCondition(tsr, metav1.Condition{
		Type:    ReportConditionInventoryCaptured,
		Status:  metav1.ConditionTrue,
		Reason:  "Captured",
		Message: fmt.Sprintf("%d modules, %d components", doc.Modules.Total, doc.Components.Descriptors),
	})
	setReportCondition(tsr, modulesActiveCondition(len(rep.Modules)))
	setReportCondition(tsr, servicesAvailableCondition(len(rep.MissingServices), rep.BlockedComponents()))

	if len(rep.Modules) == 0 && len(rep.MissingServices) == 0 && len(rep.ComponentErrors) == 0 {
		st.Phase = binderyv1alpha1.ReportPhaseHealthy
		st.Message = doc.Modules.Line()
		return
	}
	st.Phase = binderyv1alpha1.ReportPhaseDegraded
	st.Message = summarizeReport(rep)
}

func startStatus(requestID string, result lifecycle.Result) *binderyv1alpha1.StartStatus {
	out := &binderyv1alpha1.StartStatus{
		RequestID:   requestID,
		Touched:     int32(result.Touched),
		Started:     int32(result.Started),
		Message:     result.Message(),
		CompletedAt: metav1.NewTime(time.Now()),
	}
	for _, a := range result.Attempts {
		out.Attempts = append(out.Attempts, a.Line())
	}
	return out
}

// summarizeReport renders the worst offenders first: missing services by
// blast radius, then inactive modules.
func summarizeReport(rep diagnoser.Report) string {
	limit := 4
	parts := make([]string, 0, limit+1)
	total := len(rep.MissingServices) + len(rep.Modules)
	for _, ms := range rep.MissingServices {
		if len(parts) == limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s blocks %d component(s)", ms.Key(), len(ms.Dependents)))
	}
	for _, m := range rep.Modules {
		if len(parts) == limit {
			break
		}
		parts = append(parts, fmt.Sprintf("%s is %s", m.Module, m.State))
	}
	if total > limit {
		parts = append(parts, fmt.Sprintf("...and %d more", total-limit))
	}
	if len(parts) == 0 && len(rep.ComponentErrors) > 0 {
		parts = append(parts, fmt.Sprintf("%d component(s) could not be diagnosed", len(rep.ComponentErrors)))
	}
	return strings.Join(parts, "; ")
}

// SetupWithManager fills in defaults before any reconcile runs, since Reconcile
// may run concurrently and never writes to r.
func (r *TroubleshootReportReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if r.Diagnoser == nil {
		r.Diagnoser = diagnoser.NewDefault()
	}
	if r.Origins == nil {
		r.Origins = origin.NewTracker()
	}
	c := mgr.GetClient()
	return ctrl.NewControllerManagedBy(mgr).
		For(&binderyv1alpha1.TroubleshootReport{}, builder.WithPredicates(predicate.GenerationChangedPredicate{})).
		Watches(&binderyv1alpha1.ModuleManifest{}, enqueueReportsInNamespace(c)).
		Watches(&binderyv1alpha1.ComponentDescriptor{}, descriptorEvents(c, r.Origins)).
		Complete(r)
}

func reportsInNamespace(ctx context.Context, c client.Client, namespace string) []reconcile.Request {
	var reports binderyv1alpha1.TroubleshootReportList
	if err := c.List(ctx, &reports, client.InNamespace(namespace)); err != nil {
		return nil
	}
	out := make([]reconcile.Request, 0, len(reports.Items))
	for i := range reports.Items {
		tsr := &reports.Items[i]
		out = append(out, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: tsr.Namespace, Name: tsr.Name}})
	}
	return out
}

func enqueueReportsInNamespace(c client.Client) handler.EventHandler {
	return handler.EnqueueRequestsFromMapFunc(func(ctx context.Context, obj client.Object) []reconcile.Request {
		return reportsInNamespace(ctx, c, obj.GetNamespace())
	})
}
