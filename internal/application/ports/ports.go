// Package ports define los colaboradores de salida de la capa de aplicación.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Auditor registra eventos de auditoría de forma síncrona.
type Auditor interface {
	Record(ctx context.Context, ev entity.AuditEvent) error
}

// EventPublisher notifica mutaciones ya confirmadas.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.Event) error
}

// SyncRecord copia de una entidad a persistir en el almacenamiento durable.
type SyncRecord struct {
	Kind      string // "sale", "cash_session", "stock_balance", ...
	CompanyID string
	ID        string
	Payload   any
	At        time.Time
}

// Key identifica la fila destino (upsert).
func (r SyncRecord) Key() string { return r.Kind + ":" + r.CompanyID + ":" + r.ID }

// SyncEnqueuer cola de persistencia asíncrona: no bloquea al llamador.
type SyncEnqueuer interface {
	Enqueue(rec SyncRecord) error
}

// SyncStatus estado de reconciliación expuesto a la capa HTTP.
type SyncStatus struct {
	Pending   int `json:"pending"`
	InFlight  int `json:"in_flight"`
	Failed    int `json:"failed"`
	Succeeded int `json:"succeeded"`
	Retries   int `json:"retries"`
}

// SyncReporter expone el estado de la cola.
type SyncReporter interface {
	Status() SyncStatus
}

// Clock fuente de tiempo inyectable.
type Clock func() time.Time

// SystemClock reloj real.
func SystemClock() time.Time { return time.Now() }
