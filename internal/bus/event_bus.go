package bus

import (
	"context"
	"sync"

	"auction-house/internal/domain"
)

// Subscriber handles one delivered domain event.
type Subscriber func(ctx context.Context, event domain.Event) error

// EventBus fans committed domain events out to zero or more subscribers per
// event name. Subscribers for one name run in registration order.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]Subscriber
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]Subscriber)}
}

func (b *EventBus) Subscribe(eventName string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventName] = append(b.subscribers[eventName], sub)
}

// Publish delivers every event in the batch, in sequence order, to the
// subscribers of its name. A failing subscriber stops delivery and propagates;
// the bus does not retry or swallow.
func (b *EventBus) Publish(ctx context.Context, events []domain.Event) error {
	for _, event := range events {
		b.mu.RLock()
		subs := b.subscribers[event.EventName()]
		b.mu.RUnlock()

		for _, sub := range subs {
			if err := sub(ctx, event); err != nil {
				return err
			}
		}
	}
	return nil
}
