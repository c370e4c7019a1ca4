package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"auction-house/internal/domain"
)

// WriteRepository persists auction snapshots inside one transaction. It also
// tracks every aggregate instance it touched so the unit of work can collect
// buffered events at commit time. The tracking list is identity-based and
// keeps duplicates; the unit of work skips aggregates whose buffer is already
// empty.
type WriteRepository struct {
	tx   *sql.Tx
	seen []*domain.Auction
}

func newWriteRepository(tx *sql.Tx) *WriteRepository {
	return &WriteRepository{tx: tx}
}

// Save upserts the complete snapshot keyed by identifier. Saving the same
// identifier twice overwrites the previous row.
func (r *WriteRepository) Save(ctx context.Context, auction *domain.Auction) error {
	payload, err := json.Marshal(auction.Bids())
	if err != nil {
		return fmt.Errorf("serialize bids for auction %s: %w", auction.ID(), err)
	}

	active := 0
	if auction.IsActive() {
		active = 1
	}

	query := `REPLACE INTO auctions (id, item_id, starting_price, is_active, bids) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.tx.ExecContext(ctx, query,
		auction.ID().String(), auction.ItemID(), auction.StartingPrice(), active, string(payload)); err != nil {
		return fmt.Errorf("save auction %s: %w", auction.ID(), err)
	}

	r.seen = append(r.seen, auction)
	return nil
}

// FindByID reconstructs the aggregate from its latest snapshot, bid order
// preserved and event buffer empty. The loaded instance is tracked so bids
// placed against it in this scope surface at commit.
func (r *WriteRepository) FindByID(ctx context.Context, id domain.AuctionID) (*domain.Auction, error) {
	query := `SELECT id, item_id, starting_price, is_active, bids FROM auctions WHERE id = ?`

	var (
		rowID         string
		itemID        string
		startingPrice float64
		active        int
		bidsJSON      string
	)
	err := r.tx.QueryRowContext(ctx, query, id.String()).Scan(&rowID, &itemID, &startingPrice, &active, &bidsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction %s: %w", id, domain.ErrAuctionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load auction %s: %w", id, err)
	}

	var bids []domain.Bid
	if err := json.Unmarshal([]byte(bidsJSON), &bids); err != nil {
		return nil, fmt.Errorf("decode bids for auction %s: %w", id, err)
	}

	auction := domain.ReconstituteAuction(domain.AuctionID(rowID), itemID, startingPrice, active == 1, bids)
	r.seen = append(r.seen, auction)
	return auction, nil
}
