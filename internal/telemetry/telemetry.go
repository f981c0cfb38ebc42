// Package telemetry records run metrics in a per-run Prometheus registry
// and can export them as a node-exporter textfile.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "allonsy"

// Hook results.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

// Recorder collects the metrics of one run. A nil *Recorder records nothing.
type Recorder struct {
	registry *prometheus.Registry

	steps   *prometheus.HistogramVec
	hooks   *prometheus.CounterVec
	prompts *prometheus.CounterVec
	runs    *prometheus.CounterVec
}

// NewRecorder returns a Recorder backed by a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of each run step.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"flow", "step", "result"}),
		hooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_invocations_total",
			Help:      "Feature hook invocations by hook and result.",
		}, []string{"hook", "result"}),
		prompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prompts_asked_total",
			Help:      "Questions asked to the user by section.",
		}, []string{"section"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed flows by outcome.",
		}, []string{"flow", "outcome"}),
	}
	r.registry.MustRegister(r.steps, r.hooks, r.prompts, r.runs)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveStep records the duration of a step.
func (r *Recorder) ObserveStep(flow, step string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.steps.WithLabelValues(flow, step, result(err)).Observe(d.Seconds())
}

// HookInvoked counts one hook invocation.
func (r *Recorder) HookInvoked(hook, res string) {
	if r == nil {
		return
	}
	r.hooks.WithLabelValues(hook, res).Inc()
}

// PromptsAsked adds n asked questions for section.
func (r *Recorder) PromptsAsked(section string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.prompts.WithLabelValues(section).Add(float64(n))
}

// RunFinished counts a finished flow.
func (r *Recorder) RunFinished(flow, outcome string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(flow, outcome).Inc()
}

// WriteTextfile writes every recorded metric to path in the text exposition
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
