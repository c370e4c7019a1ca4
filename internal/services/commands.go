package services

// Command names routed through the command bus.
const (
	CreateAuctionCommandName = "auction.create"
	PlaceBidCommandName      = "auction.place_bid"
	CloseAuctionCommandName  = "auction.close"
)

// CreateAuctionCommand opens a new auction for an item.
type CreateAuctionCommand struct {
	ItemID        string
	StartingPrice float64
}

func (CreateAuctionCommand) CommandName() string { return CreateAuctionCommandName }

// PlaceBidCommand places a bid on an existing auction.
type PlaceBidCommand struct {
	AuctionID string
	BidderID  string
	Amount    float64
}

func (PlaceBidCommand) CommandName() string { return PlaceBidCommandName }

// CloseAuctionCommand ends bidding on an auction.
type CloseAuctionCommand struct {
	AuctionID string
}

func (CloseAuctionCommand) CommandName() string { return CloseAuctionCommandName }
