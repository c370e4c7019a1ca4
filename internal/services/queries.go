package services

import "context"

// Query names routed through the query bus.
const (
	GetAuctionQueryName   = "auction.get"
	ListAuctionsQueryName = "auction.list"
	ListBidsQueryName     = "auction.list_bids"
)

type GetAuctionQuery struct {
	AuctionID string
}

func (GetAuctionQuery) QueryName() string { return GetAuctionQueryName }

type ListAuctionsQuery struct{}

func (ListAuctionsQuery) QueryName() string { return ListAuctionsQueryName }

type ListBidsQuery struct {
	AuctionID string
}

func (ListBidsQuery) QueryName() string { return ListBidsQueryName }

// AuctionSummary is the minimal listing projection.
type AuctionSummary struct {
	ID            string  `json:"id"`
	ItemID        string  `json:"item_id"`
	StartingPrice float64 `json:"starting_price"`
	IsActive      bool    `json:"is_active"`
}

// BidRecord is one bid in an auction's history.
type BidRecord struct {
	BidderID string  `json:"bidder_id"`
	Amount   float64 `json:"amount"`
}

// AuctionDetail is the full projection including bid history.
type AuctionDetail struct {
	AuctionSummary
	CurrentPrice float64     `json:"current_price"`
	Bids         []BidRecord `json:"bids"`
}

// AuctionReadRepository serves the query side with plain projection records,
// bypassing the domain model. Implementations are stateless and can be swapped
// for any denormalized store. An unknown identifier yields
// domain.ErrAuctionNotFound, never an empty result.
type AuctionReadRepository interface {
	ListAuctions(ctx context.Context) ([]AuctionSummary, error)
	GetAuction(ctx context.Context, auctionID string) (*AuctionDetail, error)
	ListBids(ctx context.Context, auctionID string) ([]BidRecord, error)
}
