package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IssuedTotal        *prometheus.CounterVec
	VerificationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		IssuedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_certificates_issued_total",
			Help: "Total number of certificates issued",
		}, []string{"tier"}),
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_certificate_verifications_total",
			Help: "Total number of certificate verification lookups",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncrementIssued(tier string) {
	m.IssuedTotal.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncrementVerifications(result string) {
	m.VerificationsTotal.WithLabelValues(result).Inc()
}
