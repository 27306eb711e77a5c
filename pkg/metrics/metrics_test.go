package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg, "")

	rec.NotificationReceived("onLoginStarted")
	rec.NotificationReceived("onLoginStarted")
	rec.NotificationRejected("onLoginFailed", "malformed")
	rec.EventDispatched("login.started")
	rec.ListenerFailed("login.started")
	rec.RewardGranted("badge")
	rec.SinkFailed("logout.failed")

	assert.Equal(t, float64(2), testutil.ToFloat64(rec.received.WithLabelValues("onLoginStarted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.rejected.WithLabelValues("onLoginFailed", "malformed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.dispatched.WithLabelValues("login.started")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.listeners.WithLabelValues("login.started")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.rewards.WithLabelValues("badge")))
	assert.Equal(t, float64(1), testutil.ToFloat64(rec.sinks.WithLabelValues("logout.failed")))

	expected := `
# HELP profile_events_relay_notifications_received_total Native notifications received by the relay.
# TYPE profile_events_relay_notifications_received_total counter
profile_events_relay_notifications_received_total{method="onLoginStarted"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "profile_events_relay_notifications_received_total"))
}

func TestPrometheusCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheus(reg, "game")
	rec.EventDispatched("feed.finished")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "game_bus_events_dispatched_total", families[0].GetName())
}

func TestNilPrometheusIsSafe(t *testing.T) {
	var rec *Prometheus
	assert.NotPanics(t, func() {
		rec.NotificationReceived("onLoginStarted")
		rec.SinkFailed("login.started")
	})
}
