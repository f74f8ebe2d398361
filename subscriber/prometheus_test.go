package subscriber

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/model"
)

func TestPrometheusSubscriberCountsIssuesBySeverity(t *testing.T) {
	reg := prometheus.NewRegistry()
	sub := NewPrometheusSubscriber(reg)

	sub.Notify(model.Event{
		Type: model.IssueFound,
		Issue: &model.Issue{
			ProfileURI: "https://w3id.org/ro/crate/1.1",
			Severity:   model.Required,
		},
	})
	sub.Notify(model.Event{
		Type: model.IssueFound,
		Issue: &model.Issue{
			ProfileURI: "https://w3id.org/ro/crate/1.1",
			Severity:   model.Recommended,
		},
	})

	require.Equal(t, float64(1), testutil.ToFloat64(sub.issuesTotal.WithLabelValues("https://w3id.org/ro/crate/1.1", "REQUIRED")))
	require.Equal(t, float64(1), testutil.ToFloat64(sub.issuesTotal.WithLabelValues("https://w3id.org/ro/crate/1.1", "RECOMMENDED")))
}

func TestPrometheusSubscriberCountsRunOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sub := NewPrometheusSubscriber(reg)

	sub.Notify(model.Event{Type: model.ValidationFinished})
	sub.Notify(model.Event{Type: model.ValidationCancelled})

	require.Equal(t, float64(1), testutil.ToFloat64(sub.runsTotal.WithLabelValues("finished")))
	require.Equal(t, float64(1), testutil.ToFloat64(sub.runsTotal.WithLabelValues("cancelled")))
	require.Equal(t, float64(1), testutil.ToFloat64(sub.runsCancelled))
}

func TestPrometheusSubscriberCountsChecksExecuted(t *testing.T) {
	reg := prometheus.NewRegistry()
	sub := NewPrometheusSubscriber(reg)

	sub.Notify(model.Event{Type: model.CheckFinished, Profile: "https://w3id.org/ro/crate/1.1"})
	sub.Notify(model.Event{Type: model.CheckFinished, Profile: "https://w3id.org/ro/crate/1.1"})

	require.Equal(t, float64(2), testutil.ToFloat64(sub.checksTotal.WithLabelValues("https://w3id.org/ro/crate/1.1")))
}
