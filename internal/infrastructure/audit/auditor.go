// Package audit combina destinos de auditoría.
package audit

import (
	"context"
	"errors"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// Composite registra en todos los destinos. El primero es el registro de referencia:
// si falla, el error se devuelve; los fallos de los demás se registran en el log.
type Composite struct {
	primary ports.Auditor
	others  []ports.Auditor
	log     *logger.Logger
}

// NewComposite arma el auditor compuesto.
func NewComposite(log *logger.Logger, primary ports.Auditor, others ...ports.Auditor) *Composite {
	if log == nil {
		log = logger.Nop()
	}
	return &Composite{primary: primary, others: others, log: log.Component("audit")}
}

// Record implementa ports.Auditor.
func (c *Composite) Record(ctx context.Context, ev entity.AuditEvent) error {
	var errs []error
	if err := c.primary.Record(ctx, ev); err != nil {
		errs = append(errs, err)
	}
	for _, a := range c.others {
		if err := a.Record(ctx, ev); err != nil {
			c.log.Warn().Err(err).Str("action", ev.Action).Str("entity_id", ev.EntityID).Msg("audit: destino secundario falló")
		}
	}
	return errors.Join(errs...)
}

// Zerolog escribe cada evento como una línea estructurada.
type Zerolog struct {
	log *logger.Logger
}

// NewZerolog construye el auditor.
func NewZerolog(log *logger.Logger) *Zerolog {
	return &Zerolog{log: log.Component("audit")}
}

// Record implementa ports.Auditor.
func (z *Zerolog) Record(_ context.Context, ev entity.AuditEvent) error {
	e := z.log.Info()
	if ev.Action == entity.AuditAccessDenied {
		e = z.log.Warn()
	}
	e.Str("company_id", ev.CompanyID).
		Str("actor", ev.Actor).
		Str("action", ev.Action).
		Str("entity", ev.Entity).
		Str("entity_id", ev.EntityID).
		Str("reason", ev.Reason).
		Time("at", ev.Timestamp).
		Msg("audit")
	return nil
}
