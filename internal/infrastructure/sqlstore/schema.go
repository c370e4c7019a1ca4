package sqlstore

import (
	"context"
	"database/sql"
)

// One row per auction, keyed by identifier. The bids column holds the
// JSON-serialized ordered list of {bidder_id, amount} pairs. Column types and
// REPLACE INTO are accepted by both MySQL and SQLite, so the same statements
// serve production and tests.
const createAuctionsTable = `
CREATE TABLE IF NOT EXISTS auctions (
    id VARCHAR(36) PRIMARY KEY,
    item_id VARCHAR(255) NOT NULL,
    starting_price DOUBLE PRECISION NOT NULL,
    is_active INTEGER NOT NULL,
    bids TEXT NOT NULL
)`

// EnsureSchema creates the auctions table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createAuctionsTable)
	return err
}
