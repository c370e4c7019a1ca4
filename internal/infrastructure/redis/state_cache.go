package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
)

// StateCache mirrors per-auction hot state into Redis so other processes can
// read the current price and active flag without touching the durable store.
// The cache is advisory; the store stays authoritative and the reconciler
// repairs drift.
type StateCache struct {
	client *redis.Client
}

func NewStateCache(client *redis.Client) *StateCache {
	return &StateCache{client: client}
}

func (c *StateCache) SetCurrentPrice(ctx context.Context, id domain.AuctionID, price float64) error {
	key := fmt.Sprintf("auction:%s:price", id)
	return c.client.Set(ctx, key, strconv.FormatFloat(price, 'f', -1, 64), 0).Err()
}

func (c *StateCache) SetActive(ctx context.Context, id domain.AuctionID, active bool) error {
	key := fmt.Sprintf("auction:%s:active", id)
	value := "0"
	if active {
		value = "1"
	}
	return c.client.Set(ctx, key, value, 0).Err()
}

// Subscriber returns an event-bus subscriber that keeps the cache current as
// commits publish their events.
func (c *StateCache) Subscriber() bus.Subscriber {
	return func(ctx context.Context, event domain.Event) error {
		switch e := event.(type) {
		case domain.BidPlaced:
			return c.SetCurrentPrice(ctx, e.AuctionID, e.Amount)
		case domain.AuctionClosed:
			return c.SetActive(ctx, e.AuctionID, false)
		}
		return nil
	}
}
