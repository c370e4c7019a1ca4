package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
)

// EventsChannel carries committed domain events as JSON for out-of-process
// consumers such as the stream service.
const EventsChannel = "auction.events"

// WireEvent is the channel representation of a domain event.
type WireEvent struct {
	Name      string    `json:"name"`
	AuctionID string    `json:"auction_id"`
	BidderID  string    `json:"bidder_id,omitempty"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventRelay republishes committed domain events on the pub/sub channel.
type EventRelay struct {
	client *redis.Client
}

func NewEventRelay(client *redis.Client) *EventRelay {
	return &EventRelay{client: client}
}

// Subscriber returns an event-bus subscriber feeding the channel.
func (r *EventRelay) Subscriber() bus.Subscriber {
	return func(ctx context.Context, event domain.Event) error {
		var wire WireEvent
		switch e := event.(type) {
		case domain.BidPlaced:
			wire = WireEvent{
				Name:      e.EventName(),
				AuctionID: e.AuctionID.String(),
				BidderID:  e.BidderID,
				Amount:    e.Amount,
				Timestamp: e.Timestamp,
			}
		case domain.AuctionClosed:
			wire = WireEvent{
				Name:      e.EventName(),
				AuctionID: e.AuctionID.String(),
				Timestamp: e.Timestamp,
			}
		default:
			return nil
		}

		payload, err := json.Marshal(wire)
		if err != nil {
			return fmt.Errorf("encode %s event: %w", wire.Name, err)
		}
		return r.client.Publish(ctx, EventsChannel, payload).Err()
	}
}
