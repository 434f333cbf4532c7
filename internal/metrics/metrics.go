// Package metrics exposes the bot's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace        = "transbot"
	metricsSubSystemWebhook = "webhook"
	metricsSubSystemMessage = "message"
)

// Update results
const (
	ResultAccepted     = "accepted"
	ResultDecodeError  = "decode_error"
	ResultUnauthorized = "unauthorized"
	ResultPanic        = "panic"
)

// Message outcomes
const (
	OutcomeTranslated = "translated"
	OutcomeFailed     = "failed"
	OutcomeSkipped    = "skipped"
)

type Metrics struct {
	registry *prometheus.Registry

	UpdatesReceived     *prometheus.CounterVec
	MessagesProcessed   *prometheus.CounterVec
	TranslationDuration *prometheus.HistogramVec
	UpdatesInFlight     prometheus.Gauge
	PendingUpdates      prometheus.Gauge
	WebhookLastError    prometheus.Gauge
}

func New() *Metrics {
	var m Metrics
	m.registry = prometheus.NewRegistry()

	m.UpdatesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "updates_received_total",
		Help:      "The total number of webhook deliveries by result.",
	},
		[]string{"result"})
	m.registry.MustRegister(m.UpdatesReceived)

	m.MessagesProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemMessage,
		Name:      "processed_total",
		Help:      "The total number of text messages handled by outcome.",
	},
		[]string{"outcome"})
	m.registry.MustRegister(m.MessagesProcessed)

	m.TranslationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemMessage,
		Name:      "translation_duration_seconds",
		Help:      "The time taken to detect and translate one message.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	},
		[]string{"backend"})
	m.registry.MustRegister(m.TranslationDuration)

	m.UpdatesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "updates_inflight",
		Help:      "The number of updates currently being processed.",
	})
	m.registry.MustRegister(m.UpdatesInFlight)

	m.PendingUpdates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "pending_updates",
		Help:      "Pending update count reported by Telegram.",
	})
	m.registry.MustRegister(m.PendingUpdates)

	m.WebhookLastError = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubSystemWebhook,
		Name:      "last_error_timestamp_seconds",
		Help:      "Unix time of the last delivery error reported by Telegram, 0 if none.",
	})
	m.registry.MustRegister(m.WebhookLastError)

	m.registry.MustRegister(collectors.NewGoCollector())

	return &m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The helpers below accept a nil receiver so components can run without
// metrics in tests.

func (m *Metrics) IncUpdate(result string) {
	if m != nil {
		m.UpdatesReceived.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncMessage(outcome string) {
	if m != nil {
		m.MessagesProcessed.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveTranslation(backend string, elapsed time.Duration) {
	if m != nil {
		m.TranslationDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.UpdatesInFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.UpdatesInFlight.Dec()
	}
}

func (m *Metrics) SetWebhookInfo(pending int, lastErrorUnix int) {
	if m != nil {
		m.PendingUpdates.Set(float64(pending))
		m.WebhookLastError.Set(float64(lastErrorUnix))
	}
}
