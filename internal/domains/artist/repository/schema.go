package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the single table every account kind lives in
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	address    BYTEA PRIMARY KEY CHECK (octet_length(address) = 32),
	kind       SMALLINT NOT NULL,
	lamports   NUMERIC(20,0) NOT NULL DEFAULT 0 CHECK (lamports >= 0),
	data       BYTEA NOT NULL DEFAULT ''::bytea,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_accounts_kind ON accounts (kind);
`

// Migrate creates the accounts table when missing
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to migrate accounts schema: %w", err)
	}
	return nil
}
