package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// AuditRepo log de auditoría durable (append-only).
type AuditRepo struct {
	pool *pgxpool.Pool
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Record implementa ports.Auditor. Reenviar un evento ya guardado no es error.
func (r *AuditRepo) Record(ctx context.Context, ev entity.AuditEvent) error {
	query := `
		INSERT INTO audit_events (id, company_id, actor, action, entity, entity_id, before, after, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		ev.ID, ev.CompanyID, ev.Actor, ev.Action, ev.Entity, ev.EntityID,
		nullJSON(ev.Before), nullJSON(ev.After), ev.Reason, ev.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// LoadAll entrega cada evento, del más antiguo al más nuevo, a fn como KindAudit
// (ej. memory.Store.Hydrate), para que el log sobreviva a un reinicio.
func (r *AuditRepo) LoadAll(ctx context.Context, fn func(kind string, payload []byte) error) (int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, company_id, actor, action, entity, entity_id, before, after, reason, created_at
		FROM audit_events ORDER BY created_at, id`)
	if err != nil {
		return 0, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		var ev entity.AuditEvent
		if err := rows.Scan(&ev.ID, &ev.CompanyID, &ev.Actor, &ev.Action, &ev.Entity, &ev.EntityID,
			&ev.Before, &ev.After, &ev.Reason, &ev.Timestamp); err != nil {
			return n, fmt.Errorf("scan audit event: %w", err)
		}
		payload, err := auditPayload(ev)
		if err != nil {
			return n, err
		}
		if err := fn(ports.KindAudit, payload); err != nil {
			return n, fmt.Errorf("hydrate audit %s: %w", ev.ID, err)
		}
		n++
	}
	return n, rows.Err()
}

func auditPayload(ev entity.AuditEvent) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("serializar auditoría %s: %w", ev.ID, err)
	}
	return b, nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
