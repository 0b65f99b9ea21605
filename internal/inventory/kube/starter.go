package kube

import (
	"context"
	"fmt"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	binderyv1alpha1 "github.com/bayleafwalker/bindery-troubleshoot/api/v1alpha1"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/lifecycle"
)

// AnnotationStartRequested asks the runtime to transiently start a module.
// The value is the RFC 3339 request time.
const AnnotationStartRequested = "bindery.platform/start-requested"

// Starter requests module starts by annotating ModuleManifests. The runtime
// performs the start, so a written request returns lifecycle.ErrStartPending
// with the state observed when the request was written.
type Starter struct {
	Client    client.Client
	Namespace string
	Now       func() time.Time
}

var _ lifecycle.Starter = (*Starter)(nil)

func (s *Starter) Start(ctx context.Context, m inventory.Module) (inventory.State, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	observed := m.State
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		mm, err := s.find(ctx, m.ID)
		if err != nil {
			return err
		}
		current := ModuleFromManifest(mm)
		observed = current.State
		if current.State != m.State {
			return fmt.Errorf("%s is now %s: %w", m.SymbolicName, current.State, lifecycle.ErrStateChanged)
		}

		before := mm.DeepCopy()
		if mm.Annotations == nil {
			mm.Annotations = map[string]string{}
		}
		mm.Annotations[AnnotationStartRequested] = now().UTC().Format(time.RFC3339)
		return s.Client.Patch(ctx, mm, client.MergeFromWithOptions(before, client.MergeFromWithOptimisticLock{}))
	})
	switch {
	case err == nil:
		return observed, lifecycle.ErrStartPending
	case apierrors.IsForbidden(err):
		return observed, fmt.Errorf("%w: %v", lifecycle.ErrDenied, err)
	case apierrors.IsNotFound(err):
		return observed, fmt.Errorf("%s was removed: %w", m.SymbolicName, lifecycle.ErrStateChanged)
	default:
		return observed, err
	}
}

func (s *Starter) find(ctx context.Context, id string) (*binderyv1alpha1.ModuleManifest, error) {
	var list binderyv1alpha1.ModuleManifestList
	opts := []client.ListOption{}
	if s.Namespace != "" {
		opts = append(opts, client.InNamespace(s.Namespace))
	}
	if err := s.Client.List(ctx, &list, opts...); err != nil {
		return nil, err
	}
	for i := range list.Items {
		if ModuleFromManifest(&list.Items[i]).ID == id {
			return &list.Items[i], nil
		}
	}
	return nil, apierrors.NewNotFound(binderyv1alpha1.GroupVersion.WithResource("modulemanifests").GroupResource(), id)
}
