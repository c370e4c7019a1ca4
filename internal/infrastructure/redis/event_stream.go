package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"auction-house/pkg/logger"
)

// StreamHandler handles one decoded event from the relay channel.
type StreamHandler func(event WireEvent) error

// EventStream consumes the relay channel on behalf of another process. Decode
// and handler failures are logged and skipped; the stream itself only stops
// when ctx is cancelled.
type EventStream struct {
	client *redis.Client
	log    logger.Logger
}

func NewEventStream(client *redis.Client, log logger.Logger) *EventStream {
	return &EventStream{client: client, log: log}
}

func (s *EventStream) Run(ctx context.Context, handle StreamHandler) error {
	pubsub := s.client.Subscribe(ctx, EventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	s.log.Info("Subscribed to auction events", "channel", EventsChannel)

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event WireEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.log.Error("Failed to decode event", "payload", msg.Payload, "error", err)
				continue
			}
			if err := handle(event); err != nil {
				s.log.Error("Failed to handle event", "name", event.Name, "auction_id", event.AuctionID, "error", err)
			}
		case <-ctx.Done():
			s.log.Info("Event stream stopped")
			return ctx.Err()
		}
	}
}
