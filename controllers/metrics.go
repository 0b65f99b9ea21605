package controllers

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	binderyControllerReconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bindery_controller_reconcile_total",
			Help: "Number of reconciliations by controller.",
		},
		[]string{"controller"},
	)
	binderyControllerReconcileErrorTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bindery_controller_reconcile_error_total",
			Help: "Number of reconciliation errors by controller.",
		},
		[]string{"controller"},
	)

	troubleshootInactiveModules = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bindery_troubleshoot_inactive_modules",
			Help: "Number of inactive modules observed in the last diagnosis, by report.",
		},
		[]string{"namespace", "report"},
	)
	troubleshootFindings = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bindery_troubleshoot_findings",
			Help: "Number of module findings in the last diagnosis, by report and kind.",
		},
		[]string{"namespace", "report", "kind"},
	)
	troubleshootMissingServices = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bindery_troubleshoot_missing_services",
			Help: "Number of missing services in the last diagnosis, by report.",
		},
		[]string{"namespace", "report"},
	)
	troubleshootBlockedComponents = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bindery_troubleshoot_blocked_components",
			Help: "Number of distinct components blocked by a missing service, by report.",
		},
		[]string{"namespace", "report"},
	)

	troubleshootDiagnosisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bindery_troubleshoot_diagnosis_duration_seconds",
			Help:    "Time taken to capture and diagnose one inventory snapshot.",
			Buckets: prometheus.DefBuckets,
		},
	)

	troubleshootStartAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bindery_troubleshoot_start_attempts_total",
			Help: "Total number of module start requests, by outcome.",
		},
		[]string{"outcome"},
	)

	troubleshootOriginsRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bindery_troubleshoot_origins_recorded_total",
			Help: "Total number of service origins recorded from descriptor deletions.",
		},
	)
)

func init() {
	metrics.Registry.MustRegister(
		binderyControllerReconcileTotal,
		binderyControllerReconcileErrorTotal,
		troubleshootInactiveModules,
		troubleshootFindings,
		troubleshootMissingServices,
		troubleshootBlockedComponents,
		troubleshootDiagnosisDuration,
		troubleshootStartAttemptsTotal,
		troubleshootOriginsRecordedTotal,
	)
}
