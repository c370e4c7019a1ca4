package domain

import "context"

// AuctionWriteRepository persists aggregate snapshots on the write side. Save
// is an idempotent upsert keyed by AuctionID; saving the same identifier twice
// overwrites rather than duplicates. FindByID reconstructs the latest snapshot
// or fails with ErrAuctionNotFound.
type AuctionWriteRepository interface {
	Save(ctx context.Context, auction *Auction) error
	FindByID(ctx context.Context, id AuctionID) (*Auction, error)
}

// UnitOfWork runs fn inside one transaction scope with a repository bound to
// it. A nil return from fn commits the transaction and then publishes the
// buffered events of every aggregate the repository touched, exactly once per
// commit. A non-nil return rolls back: no durable trace, no published events.
// Scopes do not nest; each Execute call owns its own storage connection.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repo AuctionWriteRepository) error) error
}

// EventPublisher delivers committed domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events []Event) error
}

// AuctionStateCache mirrors per-auction hot state for cheap reads by other
// processes. The durable store stays authoritative.
type AuctionStateCache interface {
	SetCurrentPrice(ctx context.Context, id AuctionID, price float64) error
	SetActive(ctx context.Context, id AuctionID, active bool) error
}

// LeadershipLease guards work that must run on a single instance at a time.
type LeadershipLease interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
