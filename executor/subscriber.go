// Package executor implements the Check Executor: the deterministic
// three-phase state machine (prepare, execute, finalize) that runs a
// resolved requirement list against a loaded crate, emitting lifecycle
// events to attached Subscribers and collecting Issues into a
// ValidationResult.
package executor

import "github.com/rocrate-validator/rocval/model"

// Subscriber receives lifecycle events synchronously on the
// validation thread, mirroring the original's Publisher/Subscriber
// pair (events.py) generalized past the Python ABC into a Go
// interface.
type Subscriber interface {
	Notify(event model.Event)
}

// CancelFunc reports whether a subscriber has requested cancellation.
// The Executor does not poll CancelFunc values; it polls the
// Options.Cancel token at each check boundary.
type CancelFunc func() bool

// SubscriberFunc adapts a plain function to a Subscriber.
type SubscriberFunc func(event model.Event)

func (f SubscriberFunc) Notify(event model.Event) { f(event) }

// Publisher fans lifecycle events out to every attached Subscriber.
type Publisher struct {
	subscribers []Subscriber
}

// NewPublisher constructs a Publisher with the given initial
// subscribers attached.
func NewPublisher(subscribers ...Subscriber) *Publisher {
	return &Publisher{subscribers: subscribers}
}

// Add attaches a Subscriber.
func (p *Publisher) Add(s Subscriber) {
	p.subscribers = append(p.subscribers, s)
}

// Notify delivers event to every attached Subscriber, in attachment
// order.
func (p *Publisher) Notify(event model.Event) {
	for _, s := range p.subscribers {
		s.Notify(event)
	}
}
