package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"auction-house/internal/domain"
	"auction-house/pkg/logger"
)

// UnitOfWork scopes one storage transaction per request. Each Execute call
// owns its own *sql.Tx and a fresh repository bound to it; concurrent scopes
// share only the database, whose transaction isolation serializes writers.
type UnitOfWork struct {
	db        *sql.DB
	publisher domain.EventPublisher
	log       logger.Logger
}

func NewUnitOfWork(db *sql.DB, publisher domain.EventPublisher, log logger.Logger) *UnitOfWork {
	return &UnitOfWork{db: db, publisher: publisher, log: log}
}

// Execute runs fn with a transaction-bound repository. An error from fn rolls
// the transaction back: no durable trace remains and no event leaves the
// scope. On success the transaction commits first and only then are the
// buffered events of every tracked aggregate published as a batch and
// cleared, so subscribers never hear about state that failed to persist.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(repo domain.AuctionWriteRepository) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repo := newWriteRepository(tx)
	if err := fn(repo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			u.log.Error("Rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	for _, auction := range repo.seen {
		events := auction.Events()
		if len(events) == 0 {
			continue
		}
		if err := u.publisher.Publish(ctx, events); err != nil {
			return fmt.Errorf("publish events for auction %s: %w", auction.ID(), err)
		}
		auction.ClearEvents()
	}
	return nil
}
