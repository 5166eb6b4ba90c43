package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/aesolutionshawaii-alt/payment-portal-multi/internal/core/ports"

	"github.com/rs/zerolog"
)

// InMemoryBus fans payment and linking events out to in-process subscribers
// such as the metrics recorder. Handlers run asynchronously.
type InMemoryBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

var _ ports.EventBus = (*InMemoryBus)(nil)

func NewInMemoryBus(baseLogger *zerolog.Logger) *InMemoryBus {
	return &InMemoryBus{
		log:         baseLogger.With().Str("component", "event_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish never fails the caller; handler errors are only logged.
func (b *InMemoryBus) Publish(ctx context.Context, topic string, data interface{}) error {
	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Event has no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}
	for _, handler := range handlers {
		b.inflight.Add(1)
		go b.dispatch(handler, event)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

func (b *InMemoryBus) dispatch(h ports.EventHandler, event ports.Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("topic", event.Topic).Str("panic", fmt.Sprint(r)).Msg("Event handler panicked")
		}
	}()

	// Detached from the request so a finished HTTP call doesn't cancel it.
	if err := h(context.Background(), event); err != nil {
		b.log.Error().Err(err).Str("topic", event.Topic).Msg("Event handler failed")
	}
}

func (b *InMemoryBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Debug().Str("topic", topic).Msg("Handler subscribed")
}

// Drain blocks until every dispatched handler has returned or ctx is done.
func (b *InMemoryBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
