package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
	"auction-house/internal/services"
)

// stubReadRepository serves canned projections keyed by auction id.
type stubReadRepository struct {
	auctions map[string]*services.AuctionDetail
}

func (s *stubReadRepository) ListAuctions(ctx context.Context) ([]services.AuctionSummary, error) {
	summaries := []services.AuctionSummary{}
	for _, detail := range s.auctions {
		summaries = append(summaries, detail.AuctionSummary)
	}
	return summaries, nil
}

func (s *stubReadRepository) GetAuction(ctx context.Context, auctionID string) (*services.AuctionDetail, error) {
	detail, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}
	return detail, nil
}

func (s *stubReadRepository) ListBids(ctx context.Context, auctionID string) ([]services.BidRecord, error) {
	detail, err := s.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return detail.Bids, nil
}

func newStubRepo() *stubReadRepository {
	return &stubReadRepository{
		auctions: map[string]*services.AuctionDetail{
			"a-1": {
				AuctionSummary: services.AuctionSummary{
					ID: "a-1", ItemID: "item-1", StartingPrice: 10.0, IsActive: true,
				},
				CurrentPrice: 20.0,
				Bids: []services.BidRecord{
					{BidderID: "b1", Amount: 15.0},
					{BidderID: "b2", Amount: 20.0},
				},
			},
		},
	}
}

func newQueryBus(repo services.AuctionReadRepository) *bus.QueryBus {
	qb := bus.NewQueryBus()
	qb.Register(services.GetAuctionQueryName, services.NewGetAuctionHandler(repo))
	qb.Register(services.ListAuctionsQueryName, services.NewListAuctionsHandler(repo))
	qb.Register(services.ListBidsQueryName, services.NewListBidsHandler(repo))
	return qb
}

func TestGetAuctionHandler(t *testing.T) {
	qb := newQueryBus(newStubRepo())

	result, err := qb.Dispatch(context.Background(), services.GetAuctionQuery{AuctionID: "a-1"})
	require.NoError(t, err)

	detail, ok := result.(*services.AuctionDetail)
	require.True(t, ok)
	assert.Equal(t, "item-1", detail.ItemID)
	assert.Equal(t, 20.0, detail.CurrentPrice)
	assert.Len(t, detail.Bids, 2)
}

func TestGetAuctionHandler_NotFound(t *testing.T) {
	qb := newQueryBus(newStubRepo())

	_, err := qb.Dispatch(context.Background(), services.GetAuctionQuery{AuctionID: "missing"})
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)
}

func TestListAuctionsHandler(t *testing.T) {
	qb := newQueryBus(newStubRepo())

	result, err := qb.Dispatch(context.Background(), services.ListAuctionsQuery{})
	require.NoError(t, err)

	summaries, ok := result.([]services.AuctionSummary)
	require.True(t, ok)
	require.Len(t, summaries, 1)
	assert.Equal(t, "a-1", summaries[0].ID)
}

func TestListBidsHandler(t *testing.T) {
	qb := newQueryBus(newStubRepo())

	result, err := qb.Dispatch(context.Background(), services.ListBidsQuery{AuctionID: "a-1"})
	require.NoError(t, err)

	bids, ok := result.([]services.BidRecord)
	require.True(t, ok)
	assert.Equal(t, []services.BidRecord{
		{BidderID: "b1", Amount: 15.0},
		{BidderID: "b2", Amount: 20.0},
	}, bids)
}

func TestListBidsHandler_NotFound(t *testing.T) {
	qb := newQueryBus(newStubRepo())

	_, err := qb.Dispatch(context.Background(), services.ListBidsQuery{AuctionID: "missing"})
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)
}

func TestQueryBus_WrongQueryTypeForHandler(t *testing.T) {
	qb := bus.NewQueryBus()
	// Deliberate miswiring: the list handler registered under the get name.
	qb.Register(services.GetAuctionQueryName, services.NewListAuctionsHandler(newStubRepo()))

	_, err := qb.Dispatch(context.Background(), services.GetAuctionQuery{AuctionID: "a-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected query")
}
