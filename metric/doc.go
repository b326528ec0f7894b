// Package metric provides Prometheus instrumentation for the bridge and an
// HTTP server exposing it.
//
// Core metrics cover the command/response channel (commands sent, round-trip
// duration, responses by status), the notification dispatcher (notifications
// by name and result) and the NATS transport (connection gauge, RTT,
// reconnects, circuit breaker state). MetricsRegistry keeps everything on an
// isolated Prometheus registry so tests never collide with the default
// global one, and Server exposes it via promhttp with optional TLS.
package metric
