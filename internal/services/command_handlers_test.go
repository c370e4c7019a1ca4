package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"auction-house/internal/bus"
	"auction-house/internal/domain"
	"auction-house/internal/infrastructure/sqlstore"
	"auction-house/internal/services"
	"auction-house/pkg/logger"
)

type fixture struct {
	uow      *sqlstore.UnitOfWork
	reads    *sqlstore.ReadRepository
	commands *bus.CommandBus
	create   *services.CreateAuctionHandler
	placed   *[]domain.BidPlaced
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlstore.EnsureSchema(context.Background(), db))

	placed := &[]domain.BidPlaced{}
	eventBus := bus.NewEventBus()
	eventBus.Subscribe(domain.EventBidPlaced, func(ctx context.Context, event domain.Event) error {
		*placed = append(*placed, event.(domain.BidPlaced))
		return nil
	})

	log := logger.NewNop()
	uow := sqlstore.NewUnitOfWork(db, eventBus, log)

	create := services.NewCreateAuctionHandler(uow, log)
	commands := bus.NewCommandBus()
	commands.Register(services.CreateAuctionCommandName, create)
	commands.Register(services.PlaceBidCommandName, services.NewPlaceBidHandler(uow, log))
	commands.Register(services.CloseAuctionCommandName, services.NewCloseAuctionHandler(uow, log))

	return &fixture{
		uow:      uow,
		reads:    sqlstore.NewReadRepository(db),
		commands: commands,
		create:   create,
		placed:   placed,
	}
}

func TestCreateAuctionHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.create.Handle(ctx, services.CreateAuctionCommand{ItemID: "item-1", StartingPrice: 10.0})
	require.NoError(t, err)
	require.NotEmpty(t, id.String())

	detail, err := f.reads.GetAuction(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, "item-1", detail.ItemID)
	assert.Equal(t, 10.0, detail.StartingPrice)
	assert.True(t, detail.IsActive)
	assert.Empty(t, detail.Bids)
}

func TestCreateAuctionHandler_InvalidStartingPrice(t *testing.T) {
	f := newFixture(t)

	_, err := f.create.Handle(context.Background(), services.CreateAuctionCommand{ItemID: "item-1", StartingPrice: 0})
	require.ErrorIs(t, err, domain.ErrInvalidStartingPrice)

	summaries, err := f.reads.ListAuctions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestPlaceBidHandler_UnknownAuction(t *testing.T) {
	f := newFixture(t)

	err := f.commands.Dispatch(context.Background(), services.PlaceBidCommand{
		AuctionID: "missing", BidderID: "b1", Amount: 50.0,
	})
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)
	assert.Empty(t, *f.placed)
}

// Mirrors the end-to-end bidding session: create at 10.0, successful bid to
// 15.0, rejected low bid, successful bid to 20.0. Two bids recorded, two
// events published across the two committed scopes.
func TestBiddingScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.create.Handle(ctx, services.CreateAuctionCommand{ItemID: "item-1", StartingPrice: 10.0})
	require.NoError(t, err)

	require.NoError(t, f.commands.Dispatch(ctx, services.PlaceBidCommand{
		AuctionID: id.String(), BidderID: "b1", Amount: 15.0,
	}))

	detail, err := f.reads.GetAuction(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, 15.0, detail.CurrentPrice)

	err = f.commands.Dispatch(ctx, services.PlaceBidCommand{
		AuctionID: id.String(), BidderID: "b2", Amount: 12.0,
	})
	require.ErrorIs(t, err, domain.ErrBidTooLow)

	require.NoError(t, f.commands.Dispatch(ctx, services.PlaceBidCommand{
		AuctionID: id.String(), BidderID: "b2", Amount: 20.0,
	}))

	detail, err = f.reads.GetAuction(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, 20.0, detail.CurrentPrice)
	require.Len(t, detail.Bids, 2)
	assert.Equal(t, services.BidRecord{BidderID: "b1", Amount: 15.0}, detail.Bids[0])
	assert.Equal(t, services.BidRecord{BidderID: "b2", Amount: 20.0}, detail.Bids[1])

	require.Len(t, *f.placed, 2, "one published event per committed bid")
	assert.Equal(t, "b1", (*f.placed)[0].BidderID)
	assert.Equal(t, "b2", (*f.placed)[1].BidderID)
}

func TestCloseAuctionHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.create.Handle(ctx, services.CreateAuctionCommand{ItemID: "item-1", StartingPrice: 10.0})
	require.NoError(t, err)

	require.NoError(t, f.commands.Dispatch(ctx, services.CloseAuctionCommand{AuctionID: id.String()}))

	detail, err := f.reads.GetAuction(ctx, id.String())
	require.NoError(t, err)
	assert.False(t, detail.IsActive)

	// Bids after close are rejected, and closing twice fails.
	err = f.commands.Dispatch(ctx, services.PlaceBidCommand{
		AuctionID: id.String(), BidderID: "b1", Amount: 100.0,
	})
	require.ErrorIs(t, err, domain.ErrAuctionClosed)

	err = f.commands.Dispatch(ctx, services.CloseAuctionCommand{AuctionID: id.String()})
	require.ErrorIs(t, err, domain.ErrAuctionClosed)
}

func TestCommandBus_RejectedBidPublishesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.create.Handle(ctx, services.CreateAuctionCommand{ItemID: "item-1", StartingPrice: 10.0})
	require.NoError(t, err)

	err = f.commands.Dispatch(ctx, services.PlaceBidCommand{
		AuctionID: id.String(), BidderID: "b1", Amount: 10.0,
	})
	require.ErrorIs(t, err, domain.ErrBidTooLow)
	assert.Empty(t, *f.placed)

	detail, err := f.reads.GetAuction(ctx, id.String())
	require.NoError(t, err)
	assert.Empty(t, detail.Bids, "rejected bid leaves no durable trace")
}
