package controllers

import (
	"context"

	"k8s.io/client-go/util/workqueue"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/origin"
)

// descriptorEvents enqueues the namespace's reports on every descriptor change
// and records, on deletion, which field manager removed the provided services.
func descriptorEvents(c client.Client, tracker *origin.Tracker) handler.EventHandler {
	enqueue := func(ctx context.Context, obj client.Object, q workqueue.TypedRateLimitingInterface[reconcile.Request]) {
		if obj == nil {
			return
		}
		for _, req := range reportsInNamespace(ctx, c, obj.GetNamespace()) {
			q.Add(req)
		}
	}
	return handler.Funcs{
		CreateFunc: func(ctx context.Context, e event.CreateEvent, q workqueue.TypedRateLimitingInterface[reconcile.Request]) {
			enqueue(ctx, e.Object, q)
		},
		UpdateFunc: func(ctx context.Context, e event.UpdateEvent, q workqueue.TypedRateLimitingInterface[reconcile.Request]) {
			enqueue(ctx, e.ObjectNew, q)
		},
		DeleteFunc: func(ctx context.Context, e event.DeleteEvent, q workqueue.TypedRateLimitingInterface[reconcile.Request]) {
			if cd, ok := e.Object.(*binderyv1alpha1.ComponentDescriptor); ok {
				recordDescriptorRemoval(tracker, cd)
			}
			enqueue(ctx, e.Object, q)
		},
		GenericFunc: func(ctx context.Context, e event.GenericEvent, q workqueue.TypedRateLimitingInterface[reconcile.Request]) {
			enqueue(ctx, e.Object, q)
		},
	}
}

func recordDescriptorRemoval(tracker *origin.Tracker, cd *binderyv1alpha1.ComponentDescriptor) {
	if tracker == nil || cd == nil {
		return
	}
	manager := lastManager(cd)
	for _, svc := range cd.Spec.Services {
		tracker.Record(svc, manager)
		troubleshootOriginsRecordedTotal.Inc()
	}
}

// lastManager returns the field manager with the most recent write, or "".
func lastManager(obj client.Object) string {
	var name string
	var latest int64 = -1
	for _, mf := range obj.GetManagedFields() {
		var ts int64
		if mf.Time != nil {
			ts = mf.Time.UnixNano()
		}
		if ts >= latest {
			latest = ts
			name = mf.Manager
		}
	}
	return name
}
