// Package healthsvc answers gRPC health checks for individual modules and
// components from the last captured snapshot.
package healthsvc

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/bayleafwalker/bindery-troubleshoot/internal/diagnoser"
	"github.com/bayleafwalker/bindery-troubleshoot/internal/inventory"
)

const (
	modulePrefix    = "module/"
	componentPrefix = "component/"
)

func ModuleService(symbolicName string) string {
	return modulePrefix + symbolicName
}

func ComponentService(name string) string {
	return componentPrefix + name
}

// Publisher maps snapshots onto a grpc health server. The overall service ""
// is SERVING only while no module is inactive.
type Publisher struct {
	srv *health.Server

	mu    sync.Mutex
	known map[string]struct{}
}

func NewPublisher() *Publisher {
	return &Publisher{srv: health.NewServer(), known: map[string]struct{}{}}
}

// Register exposes the health service on s.
func (p *Publisher) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, p.srv)
}

// Counts is the outcome of one Publish call.
type Counts struct {
	Serving    int
	NotServing int
	Unknown    int
}

// Publish replaces the published statuses with those derived from snap.
// Names published before but absent from snap become SERVICE_UNKNOWN.
func (p *Publisher) Publish(snap *inventory.Snapshot) Counts {
	p.mu.Lock()
	defer p.mu.Unlock()

	var counts Counts
	current := map[string]struct{}{}
	set := func(name string, serving bool) {
		current[name] = struct{}{}
		status := healthpb.HealthCheckResponse_NOT_SERVING
		if serving {
			status = healthpb.HealthCheckResponse_SERVING
			counts.Serving++
		} else {
			counts.NotServing++
		}
		p.srv.SetServingStatus(name, status)
	}

	inactive := 0
	if snap != nil {
		for _, m := range snap.Modules {
			active := !diagnoser.IsInactive(m)
			if !active {
				inactive++
			}
			set(ModuleService(m.SymbolicName), active)
		}
		for _, c := range snap.Components {
			set(ComponentService(c.Name()), len(c.Configurations) > 0)
		}
	}

	for name := range p.known {
		if _, ok := current[name]; !ok {
			p.srv.SetServingStatus(name, healthpb.HealthCheckResponse_SERVICE_UNKNOWN)
			counts.Unknown++
		}
	}
	p.known = current

	overall := healthpb.HealthCheckResponse_SERVING
	if inactive > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	p.srv.SetServingStatus("", overall)
	return counts
}

// Watch captures src and publishes the result every interval until ctx ends.
// A failed capture leaves the module statuses untouched and marks the overall
// service NOT_SERVING.
func (p *Publisher) Watch(ctx context.Context, src inventory.Source, interval time.Duration) {
	logger := log.FromContext(ctx)
	refresh := func() {
		snap, err := inventory.Capture(ctx, src)
		if err != nil {
			logger.Error(err, "capture inventory")
			p.srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
			return
		}
		counts := p.Publish(snap)
		logger.V(1).Info("published health", "serving", counts.Serving, "notServing", counts.NotServing, "unknown", counts.Unknown)
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// Shutdown marks every service NOT_SERVING.
func (p *Publisher) Shutdown() {
	p.srv.Shutdown()
}
