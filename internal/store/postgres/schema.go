package postgres

import "context"

// Init creates the tables the service needs. Runs at startup and is
// idempotent, same as re-deploying against an existing database.
func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id          UUID PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			name        TEXT NOT NULL,
			rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS listings (
			id          UUID PRIMARY KEY,
			title       TEXT NOT NULL,
			game        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price       DOUBLE PRECISION NOT NULL,
			image_url   TEXT NOT NULL DEFAULT '',
			seller      JSONB NOT NULL,
			available   BOOLEAN NOT NULL DEFAULT TRUE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS deals (
			id         UUID PRIMARY KEY,
			seller_id  UUID NOT NULL REFERENCES users(id),
			buyer_id   UUID NOT NULL REFERENCES users(id),
			listing_id UUID NOT NULL REFERENCES listings(id),
			status     TEXT NOT NULL CHECK (status IN ('pending', 'completed', 'cancelled')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id         UUID PRIMARY KEY,
			deal_id    UUID UNIQUE NOT NULL REFERENCES deals(id),
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_listing ON deals(listing_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deals_status ON deals(status)`,
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
