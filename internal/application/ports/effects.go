package ports

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// Effects efectos acumulados durante una transacción; se despachan solo tras el commit.
type Effects struct {
	companyID string
	actor     string
	at        time.Time
	audits    []entity.AuditEvent
	records   []SyncRecord
	events    []entity.Event
}

// NewEffects crea el acumulador para el tenant y actor de la operación.
func NewEffects(companyID, actor string, at time.Time) *Effects {
	return &Effects{companyID: companyID, actor: actor, at: at}
}

// Audit agrega un evento de auditoría con before/after serializados.
func (e *Effects) Audit(action, entityName, entityID, reason string, before, after any) {
	e.audits = append(e.audits, entity.AuditEvent{
		ID:        uuid.New().String(),
		CompanyID: e.companyID,
		Actor:     e.actor,
		Action:    action,
		Entity:    entityName,
		EntityID:  entityID,
		Before:    rawJSON(before),
		After:     rawJSON(after),
		Reason:    reason,
		Timestamp: e.at,
	})
}

// Persist agrega una copia de la entidad a la cola de persistencia.
func (e *Effects) Persist(kind, id string, payload any) {
	e.records = append(e.records, SyncRecord{Kind: kind, CompanyID: e.companyID, ID: id, Payload: payload, At: e.at})
}

// Emit agrega un evento a publicar.
func (e *Effects) Emit(kind, entityName, entityID string) {
	e.events = append(e.events, entity.Event{
		ID:        uuid.New().String(),
		CompanyID: e.companyID,
		Kind:      kind,
		Entity:    entityName,
		EntityID:  entityID,
		At:        e.at,
	})
}

// Reset descarta lo acumulado (la transacción se reintenta o falló).
func (e *Effects) Reset() {
	e.audits, e.records, e.events = nil, nil, nil
}

func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// Collaborators colaboradores compartidos por los casos de uso.
type Collaborators struct {
	Audit  Auditor
	Events EventPublisher
	Sync   SyncEnqueuer
	Log    *logger.Logger
	Now    Clock
}

// Clock devuelve el reloj configurado o el del sistema.
func (c Collaborators) Clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Logger devuelve el logger configurado o uno que descarta todo.
func (c Collaborators) Logger() *logger.Logger {
	if c.Log == nil {
		return logger.Nop()
	}
	return c.Log
}

// Flush despacha auditoría, persistencia y eventos. Los fallos se registran en el log:
// el estado en memoria ya está confirmado y es la fuente de verdad.
func (c Collaborators) Flush(ctx context.Context, fx *Effects) {
	for _, ev := range fx.audits {
		if c.Audit == nil {
			break
		}
		if err := c.Audit.Record(ctx, ev); err != nil && c.Log != nil {
			c.Log.Warn().Err(err).Str("action", ev.Action).Str("entity_id", ev.EntityID).Msg("audit: no se pudo registrar")
		}
	}
	for _, rec := range fx.records {
		if c.Sync == nil {
			break
		}
		if err := c.Sync.Enqueue(rec); err != nil && c.Log != nil {
			c.Log.Warn().Err(err).Str("key", rec.Key()).Msg("sync: guardado localmente, sincronización pendiente")
		}
	}
	for _, ev := range fx.events {
		if c.Events == nil {
			break
		}
		if err := c.Events.Publish(ctx, ev); err != nil && c.Log != nil {
			c.Log.Warn().Err(err).Str("kind", ev.Kind).Msg("events: publicación fallida")
		}
	}
	fx.Reset()
}
