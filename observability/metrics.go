package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the bot.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	DispatchOutcomes *prometheus.CounterVec
	HandlerDuration  *prometheus.HistogramVec
	HandlerFailures  *prometheus.CounterVec
	SessionSyncs     *prometheus.CounterVec
	InFlight         prometheus.Gauge
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DispatchOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_dispatch_outcomes_total",
			Help: "Inbound messages by dispatch outcome",
		}, []string{"outcome"}),
		HandlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatbot_handler_duration_seconds",
			Help:    "Command handler execution time",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		HandlerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_handler_failures_total",
			Help: "Command handlers that returned an error or panicked",
		}, []string{"command"}),
		SessionSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatbot_session_syncs_total",
			Help: "Session downloads and uploads by result",
		}, []string{"direction", "result"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chatbot_dispatch_in_flight",
			Help: "Dispatch runs currently executing",
		}),
	}
}

func (m *Metrics) IncrementOutcome(outcome string) {
	if m == nil {
		return
	}
	m.DispatchOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHandler(command string, elapsed time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.HandlerDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if failed {
		m.HandlerFailures.WithLabelValues(command).Inc()
	}
}

func (m *Metrics) IncrementSessionSync(direction string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SessionSyncs.WithLabelValues(direction, result).Inc()
}

func (m *Metrics) TrackInFlight(delta float64) {
	if m == nil {
		return
	}
	m.InFlight.Add(delta)
}
