package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bridge instrumentation.
type Metrics struct {
	// Command/response channel
	CommandsTotal      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	ResponsesTotal     *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec

	// NATS transport
	NATSConnected      prometheus.Gauge
	NATSRTT            prometheus.Gauge
	NATSReconnects     prometheus.Counter
	NATSCircuitBreaker prometheus.Gauge
}

// NewMetrics creates a Metrics instance with all bridge metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lairedis",
				Subsystem: "channel",
				Name:      "commands_total",
				Help:      "Total number of commands sent to the remote agent",
			},
			[]string{"op"},
		),

		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lairedis",
				Subsystem: "channel",
				Name:      "command_duration_seconds",
				Help:      "Round-trip duration of one command, send to correlated response",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		ResponsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lairedis",
				Subsystem: "channel",
				Name:      "responses_total",
				Help:      "Total number of responses received, by status",
			},
			[]string{"status"},
		),

		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lairedis",
				Subsystem: "dispatcher",
				Name:      "notifications_total",
				Help:      "Total number of inbound notifications, by name and dispatch result",
			},
			[]string{"name", "result"},
		),

		NATSConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lairedis",
				Subsystem: "nats",
				Name:      "connected",
				Help:      "NATS connection status (0=disconnected, 1=connected)",
			},
		),

		NATSRTT: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lairedis",
				Subsystem: "nats",
				Name:      "rtt_milliseconds",
				Help:      "NATS round-trip time in milliseconds",
			},
		),

		NATSReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "lairedis",
				Subsystem: "nats",
				Name:      "reconnects_total",
				Help:      "Total number of NATS reconnections",
			},
		),

		NATSCircuitBreaker: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "lairedis",
				Subsystem: "nats",
				Name:      "circuit_breaker",
				Help:      "NATS circuit breaker status (0=closed, 1=open)",
			},
		),
	}
}

// RecordCommand counts one sent command and its round-trip duration.
func (c *Metrics) RecordCommand(op string, duration time.Duration) {
	c.CommandsTotal.WithLabelValues(op).Inc()
	c.CommandDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordResponse counts one received response by status name.
func (c *Metrics) RecordResponse(status string) {
	c.ResponsesTotal.WithLabelValues(status).Inc()
}

// RecordNotification counts one inbound notification. Result is one of
// "dispatched", "dropped" or "error".
func (c *Metrics) RecordNotification(name, result string) {
	c.NotificationsTotal.WithLabelValues(name, result).Inc()
}

// RecordNATSStatus updates the NATS connection gauge.
func (c *Metrics) RecordNATSStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.NATSConnected.Set(value)
}

// RecordNATSRTT updates the NATS round-trip time gauge.
func (c *Metrics) RecordNATSRTT(rtt time.Duration) {
	c.NATSRTT.Set(float64(rtt.Milliseconds()))
}

// RecordNATSReconnect increments the reconnection counter.
func (c *Metrics) RecordNATSReconnect() {
	c.NATSReconnects.Inc()
}

// RecordCircuitBreakerState updates the circuit breaker gauge.
func (c *Metrics) RecordCircuitBreakerState(open bool) {
	value := 0.0
	if open {
		value = 1.0
	}
	c.NATSCircuitBreaker.Set(value)
}
