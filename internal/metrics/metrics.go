// Package metrics exports event processing statistics in the Prometheus
// format. A Recorder owns its own registry so several engines, or tests, can
// run side by side.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zzalscv2/athena-atlas-sub040/internal/descriptor"
	"github.com/zzalscv2/athena-atlas-sub040/internal/event"
	"github.com/zzalscv2/athena-atlas-sub040/internal/repository"
)

const namespace = "l1topo"

// Recorder collects unit and event metrics. It implements the orchestrator's
// Observer interface.
type Recorder struct {
	registry     *prometheus.Registry
	events       *prometheus.CounterVec
	unitDuration *prometheus.HistogramVec
	unitFailures *prometheus.CounterVec
	lineAccepts  *prometheus.CounterVec

	// lines is read-only after construction.
	lines map[int][]string
}

// NewRecorder creates a Recorder. descs provide the trigger line names used
// to label decision bits.
func NewRecorder(descs []descriptor.Descriptor) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Total number of processed events by outcome.",
			},
			[]string{"status"},
		),
		unitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "unit_duration_seconds",
				Help:      "Duration of execution unit runs.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"kind"},
		),
		unitFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unit_failures_total",
				Help:      "Total number of failed execution unit runs.",
			},
			[]string{"kind"},
		),
		lineAccepts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trigger_line_accepts_total",
				Help:      "Total number of accepts per trigger line, summed over boards.",
			},
			[]string{"line"},
		),
		lines: make(map[int][]string),
	}
	r.registry.MustRegister(r.events, r.unitDuration, r.unitFailures, r.lineAccepts)

	for _, d := range descs {
		if d.Kind == descriptor.Decision {
			r.lines[d.Serial] = d.LineNames()
		}
	}
	return r
}

// Registry exposes the underlying Prometheus registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the collected metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) UnitDone(d descriptor.Descriptor, elapsed time.Duration, err error) {
	kind := d.Kind.String()
	r.unitDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if err != nil {
		r.unitFailures.WithLabelValues(kind).Inc()
	}
}

func (r *Recorder) EventDone(_ event.Info, repos []*repository.Repository, err error) {
	if err != nil {
		r.events.WithLabelValues("error").Inc()
		return
	}
	r.events.WithLabelValues("ok").Inc()

	v := r.DecisionVisitor()
	for _, repo := range repos {
		// The visitor never fails.
		_ = repo.Accept(v)
	}
}

// DecisionVisitor returns a visitor counting fired trigger lines.
func (r *Recorder) DecisionVisitor() *DecisionVisitor {
	return &DecisionVisitor{lines: r.lines, accepts: r.lineAccepts}
}
