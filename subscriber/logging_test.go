package subscriber

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rocrate-validator/rocval/model"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingSubscriberLogsRequiredIssueAtWarn(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggingSubscriber(newTestLogger(&buf))

	sub.Notify(model.Event{
		Type:  model.IssueFound,
		Issue: &model.Issue{CheckID: "root_name", Severity: model.Required, Message: "missing name"},
	})

	require.Contains(t, buf.String(), "level=WARN")
	require.Contains(t, buf.String(), "root_name")
}

func TestLoggingSubscriberLogsOptionalIssueAtInfo(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggingSubscriber(newTestLogger(&buf))

	sub.Notify(model.Event{
		Type:  model.IssueFound,
		Issue: &model.Issue{CheckID: "license", Severity: model.Optional, Message: "license missing"},
	})

	require.Contains(t, buf.String(), "level=INFO")
}

func TestLoggingSubscriberLogsLifecycleEventsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	sub := NewLoggingSubscriber(newTestLogger(&buf))

	sub.Notify(model.Event{Type: model.ValidationStarted})

	require.Contains(t, buf.String(), "level=DEBUG")
	require.Contains(t, buf.String(), "VALIDATION_STARTED")
}
