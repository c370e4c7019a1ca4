package services

import (
	"context"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// NewBidderNotifier returns a subscriber that notifies the bidder about an
// accepted bid. The real delivery channel would be an e-mail provider; here it
// is a structured log line.
func NewBidderNotifier(log logger.Logger) bus.Subscriber {
	return func(ctx context.Context, event domain.Event) error {
		placed, ok := event.(domain.BidPlaced)
		if !ok {
			return nil
		}
		log.Info("Bid accepted notification sent",
			"bidder_id", placed.BidderID,
			"auction_id", placed.AuctionID.String(),
			"amount", placed.Amount)
		return nil
	}
}

// NewActivityRecorder returns a subscriber feeding auction activity to the
// analytics pipeline.
func NewActivityRecorder(log logger.Logger) bus.Subscriber {
	return func(ctx context.Context, event domain.Event) error {
		switch e := event.(type) {
		case domain.BidPlaced:
			log.Info("Auction activity recorded",
				"auction_id", e.AuctionID.String(),
				"kind", e.EventName(),
				"amount", e.Amount)
		case domain.AuctionClosed:
			log.Info("Auction activity recorded",
				"auction_id", e.AuctionID.String(),
				"kind", e.EventName())
		}
		return nil
	}
}
