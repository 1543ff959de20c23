package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	CompletionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_completions_total",
			Help: "Activity completions that granted XP",
		},
	)

	BadgesAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_badges_awarded_total",
			Help: "Badges newly awarded",
		},
	)

	RewardRegrantsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rewards_regrants_total",
			Help: "Completions healed by the reconciliation sweep",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(ReqCount, ReqDuration, CompletionsTotal, BadgesAwardedTotal, RewardRegrantsTotal)
}
