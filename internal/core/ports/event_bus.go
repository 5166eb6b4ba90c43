package ports

import "context"

// Event carries one of the domain event payloads (BankLinkedEvent,
// PaymentEvent) under its topic.
type Event struct {
	Topic string
	Data  interface{}
}

// EventHandler reacts to an event after the publishing request has moved on.
type EventHandler func(ctx context.Context, event Event) error

// EventBus is the in-process pub/sub used for payment and linking events.
type EventBus interface {
	// Publish must not block on handlers; a failing handler never fails
	// the payment or link that raised the event.
	Publish(ctx context.Context, topic string, data interface{}) error

	Subscribe(topic string, handler EventHandler)
}
