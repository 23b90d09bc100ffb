package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema tablas del almacenamiento durable. El estado de trabajo vive en memoria;
// aquí solo se guardan copias (upsert por kind/empresa/id) y el log de auditoría.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS entity_snapshots (
		kind        TEXT        NOT NULL,
		company_id  TEXT        NOT NULL,
		id          TEXT        NOT NULL,
		payload     JSONB       NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (kind, company_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entity_snapshots_company ON entity_snapshots (company_id)`,
	`CREATE TABLE IF NOT EXISTS audit_events (
		id          TEXT        PRIMARY KEY,
		company_id  TEXT        NOT NULL,
		actor       TEXT        NOT NULL,
		action      TEXT        NOT NULL,
		entity      TEXT        NOT NULL,
		entity_id   TEXT        NOT NULL,
		before      JSONB,
		after       JSONB,
		reason      TEXT        NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_events_company ON audit_events (company_id, created_at)`,
}

// EnsureSchema crea las tablas en una sola transacción.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
