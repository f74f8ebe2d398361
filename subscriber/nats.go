package subscriber

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/rocrate-validator/rocval/model"
)

// natsEventPayload is the wire shape published for one event. Issue is
// omitted when the event doesn't carry one.
type natsEventPayload struct {
	Type        string       `json:"type"`
	Profile     string       `json:"profile,omitempty"`
	Requirement string       `json:"requirement,omitempty"`
	Check       string       `json:"check,omitempty"`
	Message     string       `json:"message,omitempty"`
	Issue       *model.Issue `json:"issue,omitempty"`
}

// NATSSubscriber publishes each lifecycle event to a JetStream subject
// for external dashboards, using js.Publish(ctx, subject, data) for
// delivery-confirmed publishes rather than fire-and-forget core NATS.
type NATSSubscriber struct {
	js      jetstream.JetStream
	subject string
	logger  *slog.Logger
}

// NewNATSSubscriber constructs a NATSSubscriber that publishes to
// subject via js. A nil logger uses slog.Default(); publish failures
// are logged, not returned, since Notify has no error return.
func NewNATSSubscriber(js jetstream.JetStream, subject string, logger *slog.Logger) *NATSSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSSubscriber{js: js, subject: subject, logger: logger}
}

// Notify implements executor.Subscriber.
func (s *NATSSubscriber) Notify(event model.Event) {
	payload := natsEventPayload{
		Type:        event.Type.String(),
		Profile:     event.Profile,
		Requirement: event.Requirement,
		Check:       event.Check,
		Message:     event.Message,
		Issue:       event.Issue,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("marshal validation event", slog.String("error", err.Error()))
		return
	}

	if _, err := s.js.Publish(context.Background(), s.subject, data); err != nil {
		s.logger.Warn("publish validation event",
			slog.String("subject", s.subject),
			slog.String("error", err.Error()))
	}
}
