package domain

import "time"

// Event is an immutable fact recorded by an aggregate as a result of a state
// change, delivered to subscribers after the owning transaction commits.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

const (
	EventBidPlaced     = "auction.bid_placed"
	EventAuctionClosed = "auction.closed"
)

// BidPlaced is recorded once per accepted bid.
type BidPlaced struct {
	AuctionID AuctionID `json:"auction_id"`
	BidderID  string    `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBidPlaced(id AuctionID, bidderID string, amount float64) BidPlaced {
	return BidPlaced{
		AuctionID: id,
		BidderID:  bidderID,
		Amount:    amount,
		Timestamp: time.Now().UTC(),
	}
}

func (e BidPlaced) EventName() string     { return EventBidPlaced }
func (e BidPlaced) OccurredAt() time.Time { return e.Timestamp }

// AuctionClosed is recorded when bidding ends.
type AuctionClosed struct {
	AuctionID AuctionID `json:"auction_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewAuctionClosed(id AuctionID) AuctionClosed {
	return AuctionClosed{AuctionID: id, Timestamp: time.Now().UTC()}
}

func (e AuctionClosed) EventName() string     { return EventAuctionClosed }
func (e AuctionClosed) OccurredAt() time.Time { return e.Timestamp }
