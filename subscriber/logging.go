package subscriber

import (
	"context"
	"log/slog"

	"github.com/rocrate-validator/rocval/model"
)

// LoggingSubscriber renders the event stream as structured log lines.
// IssueFound events log at Warn for Required severity and Info
// otherwise; every other event logs at Debug.
type LoggingSubscriber struct {
	logger *slog.Logger
}

// NewLoggingSubscriber constructs a LoggingSubscriber. A nil logger
// uses slog.Default().
func NewLoggingSubscriber(logger *slog.Logger) *LoggingSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingSubscriber{logger: logger}
}

// Notify implements executor.Subscriber.
func (s *LoggingSubscriber) Notify(event model.Event) {
	if event.Type != model.IssueFound || event.Issue == nil {
		s.logger.Debug(event.Type.String(),
			slog.String("profile", event.Profile),
			slog.String("requirement", event.Requirement),
			slog.String("check", event.Check),
			slog.String("message", event.Message),
		)
		return
	}

	level := slog.LevelInfo
	if event.Issue.Severity == model.Required {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, "issue found",
		slog.String("profile", event.Issue.ProfileURI),
		slog.String("check", event.Issue.CheckID),
		slog.String("severity", event.Issue.Severity.String()),
		slog.String("focus_node", event.Issue.FocusNode),
		slog.String("path", event.Issue.Path),
		slog.String("message", event.Issue.Message),
	)
}
