package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_history (
	id          BIGSERIAL PRIMARY KEY,
	timestamp   TIMESTAMPTZ NOT NULL,
	instrument  TEXT NOT NULL,
	price       DOUBLE PRECISION NOT NULL,
	trading_day DATE NOT NULL,
	source      TEXT NOT NULL DEFAULT 'coingecko',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_price_history_day ON price_history (trading_day);
CREATE INDEX IF NOT EXISTS idx_price_history_instrument ON price_history (instrument, timestamp DESC);
`

// EnsureSchema creates the poll-history table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
