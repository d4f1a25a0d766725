// Package metrics implements ports.Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bft-labs/winsession/internal/ports"
)

const namespace = "winsession"

// Prometheus implements ports.Metrics with prometheus collectors.
type Prometheus struct {
	WindowsTargeted *prometheus.CounterVec
	EventsEmitted   *prometheus.CounterVec
	DocumentSaves   *prometheus.CounterVec
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
// A nil reg creates a private registry.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Prometheus{
		WindowsTargeted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "windows_targeted_total",
				Help:      "Windows chosen by open requests, by whether an existing window was reused",
			},
			[]string{"reused"},
		),
		EventsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_emitted_total",
				Help:      "Named events delivered to windows",
			},
			[]string{"event"},
		),
		DocumentSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "document_saves_total",
				Help:      "Persisted document save attempts, by result (written, skipped, failed)",
			},
			[]string{"document", "result"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "open_requests_total",
				Help:      "Open requests, by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "open_request_duration_seconds",
				Help:      "Open request duration",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.WindowsTargeted, m.EventsEmitted, m.DocumentSaves, m.Requests, m.RequestDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Prometheus) WindowTargeted(reused bool) {
	label := "false"
	if reused {
		label = "true"
	}
	m.WindowsTargeted.WithLabelValues(label).Inc()
}

func (m *Prometheus) EventEmitted(event string) {
	m.EventsEmitted.WithLabelValues(event).Inc()
}

func (m *Prometheus) DocumentSaved(doc string) {
	m.DocumentSaves.WithLabelValues(doc, "written").Inc()
}

func (m *Prometheus) DocumentSaveSkipped(doc string) {
	m.DocumentSaves.WithLabelValues(doc, "skipped").Inc()
}

func (m *Prometheus) DocumentSaveFailed(doc string) {
	m.DocumentSaves.WithLabelValues(doc, "failed").Inc()
}

func (m *Prometheus) RequestCompleted(outcome string, d time.Duration) {
	m.Requests.WithLabelValues(outcome).Inc()
	m.RequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

var _ ports.Metrics = (*Prometheus)(nil)

// Noop implements ports.Metrics by discarding everything.
type Noop struct{}

func (Noop) WindowTargeted(bool)                    {}
func (Noop) EventEmitted(string)                    {}
func (Noop) DocumentSaved(string)                   {}
func (Noop) DocumentSaveSkipped(string)             {}
func (Noop) DocumentSaveFailed(string)              {}
func (Noop) RequestCompleted(string, time.Duration) {}

// OrNoop returns m, or Noop when m is nil.
func OrNoop(m ports.Metrics) ports.Metrics {
	if m == nil {
		return Noop{}
	}
	return m
}
