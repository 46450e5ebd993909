// Package metrics provides Prometheus-compatible instrumentation for
// navigator operations, modeled on the teacher's graph/metrics.go but
// relabeled for navigation calls instead of node/scheduler execution.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects navigator-call metrics:
//
//  1. navigations_total (counter): Start/Current/Next calls, labeled by
//     op and outcome (ok/error).
//  2. navigation_latency_ms (histogram): call duration, labeled by op.
//  3. retries_total (counter): retry-edge transitions, labeled by
//     workflow_id and step.
//  4. escalations_total (counter): escalate-edge transitions, labeled by
//     workflow_id and step.
//  5. validation_failures_total (counter): rejected Load calls, labeled by
//     workflow_id.
//
// All metrics are namespaced "navigator_". Recorder is safe for concurrent
// use; a nil *Recorder is valid and every method becomes a no-op, so
// callers can pass metrics.Recorder only when they want it without guarding
// every call site.
type Recorder struct {
	navigations        *prometheus.CounterVec
	navigationLatency  *prometheus.HistogramVec
	retries            *prometheus.CounterVec
	escalations        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec

	mu sync.RWMutex
	on bool
}

// New creates and registers navigator metrics with registry. A nil
// registry defaults to prometheus.DefaultRegisterer.
func New(registry prometheus.Registerer) *Recorder {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Recorder{
		on: true,
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigator",
			Name:      "navigations_total",
			Help:      "Count of Start/Current/Next calls, by operation and outcome",
		}, []string{"op", "outcome"}),
		navigationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "navigator",
			Name:      "navigation_latency_ms",
			Help:      "Navigation call duration in milliseconds, by operation",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}, []string{"op"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigator",
			Name:      "retries_total",
			Help:      "Count of retry-edge transitions, by workflow and step",
		}, []string{"workflow_id", "step"}),
		escalations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigator",
			Name:      "escalations_total",
			Help:      "Count of escalate-edge transitions, by workflow and step",
		}, []string{"workflow_id", "step"}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "navigator",
			Name:      "validation_failures_total",
			Help:      "Count of rejected workflow Load calls, by workflow id",
		}, []string{"workflow_id"}),
	}
}

// RecordNavigation records the outcome and duration of one navigation call.
func (r *Recorder) RecordNavigation(op, outcome string, d time.Duration) {
	if r == nil || !r.enabled() {
		return
	}
	r.navigations.WithLabelValues(op, outcome).Inc()
	r.navigationLatency.WithLabelValues(op).Observe(float64(d.Milliseconds()))
}

// RecordRetry increments the retry counter for workflowID/step.
func (r *Recorder) RecordRetry(workflowID, step string) {
	if r == nil || !r.enabled() {
		return
	}
	r.retries.WithLabelValues(workflowID, step).Inc()
}

// RecordEscalation increments the escalation counter for workflowID/step.
func (r *Recorder) RecordEscalation(workflowID, step string) {
	if r == nil || !r.enabled() {
		return
	}
	r.escalations.WithLabelValues(workflowID, step).Inc()
}

// RecordValidationFailure increments the validation-failure counter for
// workflowID.
func (r *Recorder) RecordValidationFailure(workflowID string) {
	if r == nil || !r.enabled() {
		return
	}
	r.validationFailures.WithLabelValues(workflowID).Inc()
}

func (r *Recorder) enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.on
}

// Disable stops metric recording (useful for testing).
func (r *Recorder) Disable() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.on = false
}

// Enable resumes metric recording after Disable.
func (r *Recorder) Enable() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.on = true
}
