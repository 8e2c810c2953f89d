package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.PredictionPlaced("FOR")
	m.PredictionPlaced("FOR")
	m.BetSettled("verify", "WON", 20*time.Millisecond)
	m.NotificationFailed("kafka")
	m.PowerupsExpired(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("FOR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.settlements.WithLabelValues("verify", "WON")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationFailures.WithLabelValues("kafka")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.powerupsExpired))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PredictionPlaced("FOR")
		m.BetSettled("result", "LOST", time.Second)
		m.ProofVoteCast("ACCEPT")
		m.RewardFailed()
		m.NotificationFailed("discord")
		m.PowerupsExpired(1)
	})
}
