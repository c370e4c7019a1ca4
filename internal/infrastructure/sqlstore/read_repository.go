package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"auction-house/internal/domain"
	"auction-house/internal/services"
)

// ReadRepository answers queries with plain projection records straight from
// the store, bypassing the domain model. It is stateless and safe for
// concurrent use; reads never open a unit of work.
type ReadRepository struct {
	db *sql.DB
}

func NewReadRepository(db *sql.DB) *ReadRepository {
	return &ReadRepository{db: db}
}

func (r *ReadRepository) ListAuctions(ctx context.Context) ([]services.AuctionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, item_id, starting_price, is_active FROM auctions`)
	if err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	defer rows.Close()

	summaries := []services.AuctionSummary{}
	for rows.Next() {
		var (
			summary services.AuctionSummary
			active  int
		)
		if err := rows.Scan(&summary.ID, &summary.ItemID, &summary.StartingPrice, &active); err != nil {
			return nil, fmt.Errorf("scan auction row: %w", err)
		}
		summary.IsActive = active == 1
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return summaries, nil
}

func (r *ReadRepository) GetAuction(ctx context.Context, auctionID string) (*services.AuctionDetail, error) {
	query := `SELECT id, item_id, starting_price, is_active, bids FROM auctions WHERE id = ?`

	var (
		detail   services.AuctionDetail
		active   int
		bidsJSON string
	)
	err := r.db.QueryRowContext(ctx, query, auctionID).Scan(
		&detail.ID, &detail.ItemID, &detail.StartingPrice, &active, &bidsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, err)
	}

	detail.IsActive = active == 1
	detail.Bids = []services.BidRecord{}
	if err := json.Unmarshal([]byte(bidsJSON), &detail.Bids); err != nil {
		return nil, fmt.Errorf("decode bids for auction %s: %w", auctionID, err)
	}

	detail.CurrentPrice = detail.StartingPrice
	if len(detail.Bids) > 0 {
		detail.CurrentPrice = detail.Bids[len(detail.Bids)-1].Amount
	}
	return &detail, nil
}

// ListBids returns the bid history for an auction, or ErrAuctionNotFound when
// the identifier is unknown. A bid-less auction yields an empty list, which is
// a different outcome from an unknown one.
func (r *ReadRepository) ListBids(ctx context.Context, auctionID string) ([]services.BidRecord, error) {
	detail, err := r.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return detail.Bids, nil
}
