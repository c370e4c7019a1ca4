package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain rule violations are sentinel errors so callers can branch with
// errors.Is without parsing messages.
var (
	ErrAuctionClosed        = errors.New("auction is closed")
	ErrBidTooLow            = errors.New("bid must be higher than current price")
	ErrInvalidStartingPrice = errors.New("starting price must be positive")
	ErrAuctionNotFound      = errors.New("auction not found")
)

// AuctionID identifies one auction aggregate. It is generated once at
// creation and compared by value.
type AuctionID string

func NewAuctionID() AuctionID {
	return AuctionID(uuid.NewString())
}

func (id AuctionID) String() string { return string(id) }

// Bid is an immutable value: who bid and how much. Bids are never mutated or
// removed once recorded.
type Bid struct {
	BidderID string  `json:"bidder_id"`
	Amount   float64 `json:"amount"`
}

// Auction is the aggregate root. All mutation goes through its methods; the
// bid sequence is append-only and insertion order is bidding order. Events
// recorded by mutations stay in a transient buffer until the owning unit of
// work publishes them after commit.
type Auction struct {
	id            AuctionID
	itemID        string
	startingPrice float64
	bids          []Bid
	active        bool
	events        []Event
}

// NewAuction opens a new auction for an item. The starting price must be
// strictly positive.
func NewAuction(itemID string, startingPrice float64) (*Auction, error) {
	if startingPrice <= 0 {
		return nil, fmt.Errorf("create auction for item %q: %w", itemID, ErrInvalidStartingPrice)
	}
	return &Auction{
		id:            NewAuctionID(),
		itemID:        itemID,
		startingPrice: startingPrice,
		active:        true,
	}, nil
}

// ReconstituteAuction rebuilds an aggregate from a persisted snapshot. It
// never passes through NewAuction and never re-emits events for historical
// bids: the event buffer of a loaded aggregate is always empty.
func ReconstituteAuction(id AuctionID, itemID string, startingPrice float64, active bool, bids []Bid) *Auction {
	return &Auction{
		id:            id,
		itemID:        itemID,
		startingPrice: startingPrice,
		active:        active,
		bids:          append([]Bid(nil), bids...),
	}
}

func (a *Auction) ID() AuctionID          { return a.id }
func (a *Auction) ItemID() string         { return a.itemID }
func (a *Auction) StartingPrice() float64 { return a.startingPrice }
func (a *Auction) IsActive() bool         { return a.active }

// CurrentPrice is the amount of the last bid, or the starting price when no
// bid has been placed yet.
func (a *Auction) CurrentPrice() float64 {
	if len(a.bids) == 0 {
		return a.startingPrice
	}
	return a.bids[len(a.bids)-1].Amount
}

// Bids returns the bid history in bidding order.
func (a *Auction) Bids() []Bid {
	return append([]Bid(nil), a.bids...)
}

// PlaceBid accepts a bid when the auction is active and the amount is
// strictly above the current price; a bid equal to the current price is
// rejected. An accepted bid appends to the sequence and records exactly one
// BidPlaced event.
func (a *Auction) PlaceBid(bidderID string, amount float64) error {
	if !a.active {
		return fmt.Errorf("place bid on auction %s: %w", a.id, ErrAuctionClosed)
	}
	if amount <= a.CurrentPrice() {
		return fmt.Errorf("bid of %.2f against current price %.2f: %w", amount, a.CurrentPrice(), ErrBidTooLow)
	}

	a.bids = append(a.bids, Bid{BidderID: bidderID, Amount: amount})
	a.events = append(a.events, NewBidPlaced(a.id, bidderID, amount))
	return nil
}

// Close ends bidding. Closing an already closed auction fails.
func (a *Auction) Close() error {
	if !a.active {
		return fmt.Errorf("close auction %s: %w", a.id, ErrAuctionClosed)
	}
	a.active = false
	a.events = append(a.events, NewAuctionClosed(a.id))
	return nil
}

// Events returns the buffered domain events not yet published.
func (a *Auction) Events() []Event {
	return append([]Event(nil), a.events...)
}

// ClearEvents empties the buffer after a successful publish.
func (a *Auction) ClearEvents() {
	a.events = nil
}
