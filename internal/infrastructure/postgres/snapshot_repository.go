package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/moda-retail/internal/application/ports"
)

// SnapshotRepo sink de la cola de sync y fuente de la hidratación al arrancar.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository construye el adaptador.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Save hace upsert de la copia. Un reintento atrasado no pisa una versión más nueva.
func (r *SnapshotRepo) Save(ctx context.Context, rec ports.SyncRecord) error {
	payload, err := encodePayload(rec)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO entity_snapshots (kind, company_id, id, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (kind, company_id, id) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
		WHERE entity_snapshots.updated_at <= EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, rec.Kind, rec.CompanyID, rec.ID, payload, rec.At); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", rec.Key(), err)
	}
	return nil
}

// LoadAll recorre todas las copias y entrega cada una a fn (ej. memory.Store.Hydrate).
func (r *SnapshotRepo) LoadAll(ctx context.Context, fn func(kind string, payload []byte) error) (int, error) {
	rows, err := r.pool.Query(ctx, `SELECT kind, payload FROM entity_snapshots ORDER BY kind, updated_at`)
	if err != nil {
		return 0, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var (
			kind    string
			payload []byte
		)
		if err := rows.Scan(&kind, &payload); err != nil {
			return n, fmt.Errorf("scan snapshot: %w", err)
		}
		if err := fn(kind, payload); err != nil {
			return n, fmt.Errorf("hydrate %s: %w", kind, err)
		}
		n++
	}
	return n, rows.Err()
}

func encodePayload(rec ports.SyncRecord) ([]byte, error) {
	if rec.Kind == "" || rec.ID == "" {
		return nil, fmt.Errorf("snapshot sin kind o id (%q)", rec.Key())
	}
	b, err := json.Marshal(rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", rec.Key(), err)
	}
	return b, nil
}
