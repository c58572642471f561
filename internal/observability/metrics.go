package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	registry *prometheus.Registry

	ChatRequests     *prometheus.CounterVec
	ChatFailures     *prometheus.CounterVec
	ChatLatency      *prometheus.HistogramVec
	FAQScore         prometheus.Histogram
	ActiveSockets    prometheus.Gauge
	SinkFailures     *prometheus.CounterVec
	InteractionsSent prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Answered chat messages by origin.",
		}, []string{"origin"}),
		ChatFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_failures_total",
			Help:      "Failed chat messages by reason.",
		}, []string{"reason"}),
		ChatLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_latency_ms",
			Help:      "End to end chat latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000, 15000, 30000},
		}, []string{"origin"}),
		FAQScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "faq_match_score",
			Help:      "Best FAQ similarity for directly answered messages.",
			Buckets:   []float64{0.85, 0.875, 0.9, 0.925, 0.95, 0.975, 1},
		}),
		ActiveSockets: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_websockets",
			Help:      "Open chat websocket connections.",
		}),
		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_failures_total",
			Help:      "Interaction sink failures by sink.",
		}, []string{"sink"}),
		InteractionsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_recorded_total",
			Help:      "Interactions handed to the sinks.",
		}),
	}
}

func (m *Metrics) ObserveChat(origin string, d time.Duration) {
	m.ChatRequests.WithLabelValues(origin).Inc()
	m.ChatLatency.WithLabelValues(origin).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
