package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RewardIssuanceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensus_reward_issuance_total",
			Help: "Reward issuance attempts by outcome",
		},
		[]string{"outcome"},
	)

	RewardIssuanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sensus_reward_issuance_duration_seconds",
			Help:    "Time from issuance request to result, including confirmation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	RewardPoolBalance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sensus_reward_pool_balance_tokens",
			Help: "Last observed reward pool balance in whole tokens",
		},
	)

	RecordingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensus_recordings_created_total",
			Help: "Recordings stored, by top-level topic",
		},
		[]string{"category"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sensus_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)
