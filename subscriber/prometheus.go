package subscriber

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocrate-validator/rocval/model"
)

// PrometheusSubscriber exposes validation run activity as counters:
// issues found by profile and severity, checks executed, and runs
// completed. Constructed per-instance against a caller-supplied
// Registerer rather than package-level promauto vars, so a process
// embedding more than one Executor doesn't double-register.
type PrometheusSubscriber struct {
	issuesTotal   *prometheus.CounterVec
	checksTotal   *prometheus.CounterVec
	runsTotal     *prometheus.CounterVec
	runsCancelled prometheus.Counter
}

// NewPrometheusSubscriber registers its metrics against reg and
// returns the subscriber. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusSubscriber(reg prometheus.Registerer) *PrometheusSubscriber {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PrometheusSubscriber{
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rocval_issues_total",
			Help: "Total number of conformance issues found, by profile and severity.",
		}, []string{"profile", "severity"}),
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rocval_checks_executed_total",
			Help: "Total number of checks executed, by profile.",
		}, []string{"profile"}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rocval_runs_total",
			Help: "Total number of validation runs, by outcome.",
		}, []string{"outcome"}),
		runsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rocval_runs_cancelled_total",
			Help: "Total number of validation runs stopped by subscriber cancellation.",
		}),
	}

	reg.MustRegister(s.issuesTotal, s.checksTotal, s.runsTotal, s.runsCancelled)
	return s
}

// Notify implements executor.Subscriber.
func (s *PrometheusSubscriber) Notify(event model.Event) {
	switch event.Type {
	case model.IssueFound:
		if event.Issue != nil {
			s.issuesTotal.WithLabelValues(event.Issue.ProfileURI, event.Issue.Severity.String()).Inc()
		}
	case model.CheckFinished:
		s.checksTotal.WithLabelValues(event.Profile).Inc()
	case model.ValidationFinished:
		s.runsTotal.WithLabelValues("finished").Inc()
	case model.ValidationCancelled:
		s.runsTotal.WithLabelValues("cancelled").Inc()
		s.runsCancelled.Inc()
	}
}
