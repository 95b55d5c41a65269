// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "intellia"

// Metrics holds all Prometheus metrics for the session engine.
type Metrics struct {
	// Session metrics
	SessionsTotal      prometheus.Counter
	SessionsActive     prometheus.Gauge
	SessionsTerminated *prometheus.CounterVec
	StateTransitions   *prometheus.CounterVec

	// Wake gate metrics
	WakeDecisions *prometheus.CounterVec

	// Classifier metrics
	ClassifierRequests prometheus.Counter
	ClassifierFailures *prometheus.CounterVec
	ClassifierLatency  prometheus.Histogram

	// Parser / dispatcher metrics
	ParseFallbacks   *prometheus.CounterVec
	IntentDispatched *prometheus.CounterVec
	DispatchFailures prometheus.Counter

	// Capture metrics
	CaptureRestarts    *prometheus.CounterVec
	CaptureTerminal    prometheus.Counter
	TranscriptsFinal   prometheus.Counter
	TranscriptsInterim prometheus.Counter

	// Speech metrics
	PlaybacksStarted   prometheus.Counter
	PlaybacksCancelled prometheus.Counter
	PlaybackErrors     prometheus.Counter

	// Event publish metrics
	EventPublishTotal   *prometheus.CounterVec
	EventPublishErrors  *prometheus.CounterVec
	EventPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		SessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of voice sessions started",
		}),
		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of currently active voice sessions",
		}),
		SessionsTerminated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_terminated_total",
			Help:      "Total number of sessions terminated",
		}, []string{"reason"}),
		StateTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Total number of session state transitions",
		}, []string{"from", "to"}),

		WakeDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wake_decisions_total",
			Help:      "Total number of wake gate decisions",
		}, []string{"decision"}),

		ClassifierRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_requests_total",
			Help:      "Total number of classifier requests",
		}),
		ClassifierFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_failures_total",
			Help:      "Total number of classifier failures by category",
		}, []string{"category"}),
		ClassifierLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_latency_seconds",
			Help:      "Classifier round-trip latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),

		ParseFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_fallbacks_total",
			Help:      "Total number of reply parser fallbacks",
		}, []string{"kind"}),
		IntentDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_dispatched_total",
			Help:      "Total number of intents dispatched by type",
		}, []string{"type"}),
		DispatchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_failures_total",
			Help:      "Total number of dispatches with unrecognized intent types",
		}),

		CaptureRestarts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_restarts_total",
			Help:      "Total number of capture restarts by cause",
		}, []string{"cause"}),
		CaptureTerminal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "capture_terminal_total",
			Help:      "Total number of terminal capture failures (permission denied)",
		}),
		TranscriptsFinal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_final_total",
			Help:      "Total number of final transcripts received",
		}),
		TranscriptsInterim: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_interim_total",
			Help:      "Total number of interim transcripts received",
		}),

		PlaybacksStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_started_total",
			Help:      "Total number of speech playbacks started",
		}),
		PlaybacksCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playbacks_cancelled_total",
			Help:      "Total number of in-flight playbacks cancelled by a new utterance",
		}),
		PlaybackErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playback_errors_total",
			Help:      "Total number of playback errors",
		}),

		EventPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_total",
			Help:      "Total number of events published",
		}, []string{"topic"}),
		EventPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Total number of event publish errors",
		}, []string{"topic"}),
		EventPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_publish_latency_seconds",
			Help:      "Event publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordSessionStart records a new session starting.
func (m *Metrics) RecordSessionStart() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
}

// RecordSessionEnd records a session ending.
func (m *Metrics) RecordSessionEnd(reason string) {
	m.SessionsActive.Dec()
	m.SessionsTerminated.WithLabelValues(reason).Inc()
}

// RecordTransition records one state machine transition.
func (m *Metrics) RecordTransition(from, to string) {
	m.StateTransitions.WithLabelValues(from, to).Inc()
}

// RecordClassifier records one classifier round trip. category is empty on
// success.
func (m *Metrics) RecordClassifier(category string, seconds float64) {
	m.ClassifierRequests.Inc()
	m.ClassifierLatency.Observe(seconds)
	if category != "" {
		m.ClassifierFailures.WithLabelValues(category).Inc()
	}
}

// RecordEventPublish records one event publish attempt.
func (m *Metrics) RecordEventPublish(topic string, err error, seconds float64) {
	m.EventPublishTotal.WithLabelValues(topic).Inc()
	m.EventPublishLatency.WithLabelValues(topic).Observe(seconds)
	if err != nil {
		m.EventPublishErrors.WithLabelValues(topic).Inc()
	}
}
