package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistry_CoreRegistered(t *testing.T) {
	r := NewMetricsRegistry()
	require.NotNil(t, r.Core())

	// Observations reach the registry through the core metrics
	r.Core().RecordCommand("create", 5*time.Millisecond)
	r.Core().RecordResponse("SUCCESS")
	r.Core().RecordNotification("linecard_alarm", "dispatched")
	r.Core().RecordNATSStatus(true)

	assert.InDelta(t, 1.0, testutil.ToFloat64(r.Core().CommandsTotal.WithLabelValues("create")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.Core().ResponsesTotal.WithLabelValues("SUCCESS")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.Core().NotificationsTotal.WithLabelValues("linecard_alarm", "dispatched")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.Core().NATSConnected), 1e-9)
}

func TestMetricsRegistry_RegisterAndUnregister(t *testing.T) {
	r := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "probe_runs_total",
		Help: "test counter",
	})

	require.NoError(t, r.Register("probe_runs", counter))

	// Same name rejected
	assert.Error(t, r.Register("probe_runs", counter))

	assert.True(t, r.Unregister("probe_runs"))
	assert.False(t, r.Unregister("probe_runs"))

	// Re-registration works after unregister
	assert.NoError(t, r.Register("probe_runs", counter))
}

func TestMetricsRegistry_Isolated(t *testing.T) {
	a := NewMetricsRegistry()
	b := NewMetricsRegistry()

	a.Core().RecordResponse("FAILURE")

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.Core().ResponsesTotal.WithLabelValues("FAILURE")), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.Core().ResponsesTotal.WithLabelValues("FAILURE")), 1e-9)
}

func TestRecordCircuitBreakerState(t *testing.T) {
	r := NewMetricsRegistry()

	r.Core().RecordCircuitBreakerState(true)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.Core().NATSCircuitBreaker), 1e-9)

	r.Core().RecordCircuitBreakerState(false)
	assert.InDelta(t, 0.0, testutil.ToFloat64(r.Core().NATSCircuitBreaker), 1e-9)
}
