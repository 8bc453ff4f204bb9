package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ActivitiesTotal      *prometheus.CounterVec
	XPAwardedTotal       prometheus.Counter
	BadgesEarnedTotal    *prometheus.CounterVec
	FreezesUsedTotal     prometheus.Counter
	SweepRunsTotal       *prometheus.CounterVec
	SweepStreaksBroken   prometheus.Counter
	SweepFreezesConsumed prometheus.Counter
	SweepDurationSeconds prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		ActivitiesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_progress_activities_total",
			Help: "Total number of recorded learner activities",
		}, []string{"kind"}),
		XPAwardedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_progress_xp_awarded_total",
			Help: "Total XP awarded across all learners",
		}),
		BadgesEarnedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_progress_badges_earned_total",
			Help: "Total badges earned, by badge",
		}, []string{"badge"}),
		FreezesUsedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_progress_freezes_used_total",
			Help: "Total streak freezes consumed",
		}),
		SweepRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "learnflow_progress_sweep_runs_total",
			Help: "Total number of streak sweep runs",
		}, []string{"status"}),
		SweepStreaksBroken: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_progress_sweep_streaks_broken_total",
			Help: "Total streaks reset by the sweep worker",
		}),
		SweepFreezesConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "learnflow_progress_sweep_freezes_consumed_total",
			Help: "Total freezes consumed automatically by the sweep worker",
		}),
		SweepDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "learnflow_progress_sweep_duration_seconds",
			Help: "Duration of streak sweep runs in seconds",
		}),
	}
}

func (m *Metrics) IncrementActivities(kind string) {
	m.ActivitiesTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) AddXPAwarded(xp int) {
	m.XPAwardedTotal.Add(float64(xp))
}

func (m *Metrics) IncrementBadges(badge string) {
	m.BadgesEarnedTotal.WithLabelValues(badge).Inc()
}

func (m *Metrics) IncrementFreezesUsed() {
	m.FreezesUsedTotal.Inc()
}

func (m *Metrics) IncrementSweepRuns(status string) {
	m.SweepRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSweepDuration(seconds float64) {
	m.SweepDurationSeconds.Observe(seconds)
}
