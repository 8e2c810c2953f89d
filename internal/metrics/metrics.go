// Package metrics holds the Prometheus collectors FriendBet exports
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	predictions          *prometheus.CounterVec
	settlements          *prometheus.CounterVec
	settlementDuration   prometheus.Histogram
	proofVotes           *prometheus.CounterVec
	rewardFailures       prometheus.Counter
	notificationFailures *prometheus.CounterVec
	powerupsExpired      prometheus.Counter
}

// NewMetrics registers the collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "predictions_total",
			Help:      "Predictions placed, by choice.",
		}, []string{"choice"}),
		settlements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "settlements_total",
			Help:      "Bets closed, by path and result.",
		}, []string{"path", "result"}),
		settlementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "friendbet",
			Name:      "settlement_duration_seconds",
			Help:      "Time spent committing a settlement.",
			Buckets:   prometheus.DefBuckets,
		}),
		proofVotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "proof_votes_total",
			Help:      "Proof verification votes cast, by vote.",
		}, []string{"vote"}),
		rewardFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "creator_reward_failures_total",
			Help:      "Creator bonus grants that failed after settlement.",
		}),
		notificationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be delivered, by sink.",
		}, []string{"sink"}),
		powerupsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "friendbet",
			Name:      "powerups_expired_total",
			Help:      "Expired powerups removed by the scheduler.",
		}),
	}
}

func (m *Metrics) PredictionPlaced(choice string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(choice).Inc()
}

// BetSettled records a closed bet. path is "result", "verify" or "cancel".
func (m *Metrics) BetSettled(path, result string, took time.Duration) {
	if m == nil {
		return
	}
	m.settlements.WithLabelValues(path, result).Inc()
	m.settlementDuration.Observe(took.Seconds())
}

func (m *Metrics) ProofVoteCast(vote string) {
	if m == nil {
		return
	}
	m.proofVotes.WithLabelValues(vote).Inc()
}

func (m *Metrics) RewardFailed() {
	if m == nil {
		return
	}
	m.rewardFailures.Inc()
}

func (m *Metrics) NotificationFailed(sink string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) PowerupsExpired(n int64) {
	if m == nil {
		return
	}
	m.powerupsExpired.Add(float64(n))
}
