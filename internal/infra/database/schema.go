package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id         UUID PRIMARY KEY,
		user_id    TEXT NOT NULL,
		name       TEXT NOT NULL,
		email      TEXT,
		phone      TEXT,
		company    TEXT,
		source     TEXT,
		notes      TEXT,
		status     TEXT NOT NULL DEFAULT 'new'
			CHECK (status IN ('new', 'contacted', 'qualified', 'pending', 'lost')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_user_email ON leads (user_id, email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_user_created ON leads (user_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id          UUID PRIMARY KEY,
		lead_id     UUID NOT NULL REFERENCES leads (id) ON DELETE CASCADE,
		user_id     TEXT NOT NULL,
		type        TEXT NOT NULL CHECK (type IN ('call', 'email', 'meeting', 'note')),
		content     TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_lead ON interactions (lead_id, occurred_at DESC)`,
}

// EnsureSchema cria tabelas e índices se ainda não existirem.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
