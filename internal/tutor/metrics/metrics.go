// Package metrics exposes Prometheus collectors for the AI tutor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ChatsTotal          *prometheus.CounterVec
	TokensTotal         *prometheus.CounterVec
	ProviderErrorsTotal prometheus.Counter
	ThrottledTotal      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ChatsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_tutor_chats_total",
			Help: "Tutor chat completions by provider model.",
		}, []string{"model"}),
		TokensTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_tutor_tokens_total",
			Help: "Tokens consumed by tutor chats, by direction.",
		}, []string{"direction"}),
		ProviderErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_tutor_provider_errors_total",
			Help: "Tutor chats that failed after retries.",
		}),
		ThrottledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_tutor_throttled_total",
			Help: "Tutor chats rejected by the per-user rate limit.",
		}),
	}
}

func (m *Metrics) CountChat(model string, inputTokens, outputTokens int) {
	if m == nil {
		return
	}
	m.ChatsTotal.WithLabelValues(model).Inc()
	m.TokensTotal.WithLabelValues("input").Add(float64(inputTokens))
	m.TokensTotal.WithLabelValues("output").Add(float64(outputTokens))
}

func (m *Metrics) CountProviderError() {
	if m == nil {
		return
	}
	m.ProviderErrorsTotal.Inc()
}

func (m *Metrics) CountThrottled() {
	if m == nil {
		return
	}
	m.ThrottledTotal.Inc()
}
