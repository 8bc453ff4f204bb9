package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks limiter activity. Construct with NewMetrics; a nil
// *Metrics on the Limiter disables recording.
type Metrics struct {
	ChecksTotal prometheus.Counter
	DeniedTotal prometheus.Counter
	ResetsTotal prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		ChecksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_ratelimit_checks_total",
			Help: "Total number of rate limit checks performed",
		}),
		DeniedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_ratelimit_denied_total",
			Help: "Total number of attempts denied by the rate limiter",
		}),
		ResetsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_ratelimit_resets_total",
			Help: "Total number of per-identifier limiter resets",
		}),
	}
}
