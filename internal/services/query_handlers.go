package services

import (
	"context"
	"fmt"

	"auction-house/internal/bus"
)

// Query handlers are thin pass-throughs to the read repository. They never
// touch the unit of work or the write side.

type GetAuctionHandler struct {
	repo AuctionReadRepository
}

func NewGetAuctionHandler(repo AuctionReadRepository) *GetAuctionHandler {
	return &GetAuctionHandler{repo: repo}
}

func (h *GetAuctionHandler) Handle(ctx context.Context, query GetAuctionQuery) (*AuctionDetail, error) {
	return h.repo.GetAuction(ctx, query.AuctionID)
}

func (h *GetAuctionHandler) HandleQuery(ctx context.Context, query bus.Query) (interface{}, error) {
	get, ok := query.(GetAuctionQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T for %s", query, GetAuctionQueryName)
	}
	return h.Handle(ctx, get)
}

type ListAuctionsHandler struct {
	repo AuctionReadRepository
}

func NewListAuctionsHandler(repo AuctionReadRepository) *ListAuctionsHandler {
	return &ListAuctionsHandler{repo: repo}
}

func (h *ListAuctionsHandler) Handle(ctx context.Context, query ListAuctionsQuery) ([]AuctionSummary, error) {
	return h.repo.ListAuctions(ctx)
}

func (h *ListAuctionsHandler) HandleQuery(ctx context.Context, query bus.Query) (interface{}, error) {
	list, ok := query.(ListAuctionsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T for %s", query, ListAuctionsQueryName)
	}
	return h.Handle(ctx, list)
}

type ListBidsHandler struct {
	repo AuctionReadRepository
}

func NewListBidsHandler(repo AuctionReadRepository) *ListBidsHandler {
	return &ListBidsHandler{repo: repo}
}

func (h *ListBidsHandler) Handle(ctx context.Context, query ListBidsQuery) ([]BidRecord, error) {
	return h.repo.ListBids(ctx, query.AuctionID)
}

func (h *ListBidsHandler) HandleQuery(ctx context.Context, query bus.Query) (interface{}, error) {
	list, ok := query.(ListBidsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query %T for %s", query, ListBidsQueryName)
	}
	return h.Handle(ctx, list)
}
