package services

import (
	"context"
	"fmt"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// CreateAuctionHandler opens a unit of work, constructs the aggregate and
// saves its first snapshot. The generated identifier goes to the direct
// caller; the command bus routes no return values, so the bus path discards
// it.
type CreateAuctionHandler struct {
	uow domain.UnitOfWork
	log logger.Logger
}

func NewCreateAuctionHandler(uow domain.UnitOfWork, log logger.Logger) *CreateAuctionHandler {
	return &CreateAuctionHandler{uow: uow, log: log}
}

func (h *CreateAuctionHandler) Handle(ctx context.Context, cmd CreateAuctionCommand) (domain.AuctionID, error) {
	var id domain.AuctionID
	err := h.uow.Execute(ctx, func(repo domain.AuctionWriteRepository) error {
		auction, err := domain.NewAuction(cmd.ItemID, cmd.StartingPrice)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, auction); err != nil {
			return err
		}
		id = auction.ID()
		return nil
	})
	if err != nil {
		return "", err
	}

	h.log.Info("Auction created", "auction_id", id.String(), "item_id", cmd.ItemID)
	return id, nil
}

// HandleCommand adapts the typed handler to the command bus.
func (h *CreateAuctionHandler) HandleCommand(ctx context.Context, cmd bus.Command) error {
	create, ok := cmd.(CreateAuctionCommand)
	if !ok {
		return fmt.Errorf("unexpected command %T for %s", cmd, CreateAuctionCommandName)
	}
	_, err := h.Handle(ctx, create)
	return err
}

// PlaceBidHandler loads the aggregate, lets it enforce the bidding invariants
// and saves the new snapshot. Rule violations and not-found failures propagate
// unchanged; the unit of work rolls back on any of them.
type PlaceBidHandler struct {
	uow domain.UnitOfWork
	log logger.Logger
}

func NewPlaceBidHandler(uow domain.UnitOfWork, log logger.Logger) *PlaceBidHandler {
	return &PlaceBidHandler{uow: uow, log: log}
}

func (h *PlaceBidHandler) Handle(ctx context.Context, cmd PlaceBidCommand) error {
	err := h.uow.Execute(ctx, func(repo domain.AuctionWriteRepository) error {
		auction, err := repo.FindByID(ctx, domain.AuctionID(cmd.AuctionID))
		if err != nil {
			return err
		}
		if err := auction.PlaceBid(cmd.BidderID, cmd.Amount); err != nil {
			return err
		}
		return repo.Save(ctx, auction)
	})
	if err != nil {
		return err
	}

	h.log.Info("Bid placed", "auction_id", cmd.AuctionID, "bidder_id", cmd.BidderID, "amount", cmd.Amount)
	return nil
}

func (h *PlaceBidHandler) HandleCommand(ctx context.Context, cmd bus.Command) error {
	place, ok := cmd.(PlaceBidCommand)
	if !ok {
		return fmt.Errorf("unexpected command %T for %s", cmd, PlaceBidCommandName)
	}
	return h.Handle(ctx, place)
}

// CloseAuctionHandler ends bidding on an auction.
type CloseAuctionHandler struct {
	uow domain.UnitOfWork
	log logger.Logger
}

func NewCloseAuctionHandler(uow domain.UnitOfWork, log logger.Logger) *CloseAuctionHandler {
	return &CloseAuctionHandler{uow: uow, log: log}
}

func (h *CloseAuctionHandler) Handle(ctx context.Context, cmd CloseAuctionCommand) error {
	err := h.uow.Execute(ctx, func(repo domain.AuctionWriteRepository) error {
		auction, err := repo.FindByID(ctx, domain.AuctionID(cmd.AuctionID))
		if err != nil {
			return err
		}
		if err := auction.Close(); err != nil {
			return err
		}
		return repo.Save(ctx, auction)
	})
	if err != nil {
		return err
	}

	h.log.Info("Auction closed", "auction_id", cmd.AuctionID)
	return nil
}

func (h *CloseAuctionHandler) HandleCommand(ctx context.Context, cmd bus.Command) error {
	cls, ok := cmd.(CloseAuctionCommand)
	if !ok {
		return fmt.Errorf("unexpected command %T for %s", cmd, CloseAuctionCommandName)
	}
	return h.Handle(ctx, cls)
}
