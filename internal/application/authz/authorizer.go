// Package authz aplica el Permission Engine con el estado vigente y audita cada negación.
package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// Access resultado de una autorización concedida.
type Access struct {
	User        *entity.User
	Entitlement licensing.Entitlement
	Plan        *entity.Plan
}

// Authorizer evalúa capacidades releyendo usuario, empresa, licencia y plan en cada llamada.
type Authorizer struct {
	tx    repository.TxRunner
	audit ports.Auditor
	log   *logger.Logger
	now   ports.Clock
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(tx repository.TxRunner, audit ports.Auditor, log *logger.Logger, now ports.Clock) *Authorizer {
	if now == nil {
		now = ports.SystemClock
	}
	return &Authorizer{tx: tx, audit: audit, log: log.Component("authz"), now: now}
}

// Authorize evalúa la capacidad dentro de la transacción del llamador, de modo que la
// decisión y la mutación ven el mismo estado. storeID vacío omite la restricción de loja.
// Una negación queda auditada y devuelve domain.ErrAccessDenied; el llamador aborta sin cambios.
func (a *Authorizer) Authorize(ctx context.Context, r repository.Repos, actor entity.Actor, c permission.Capability, storeID string) (*Access, error) {
	now := a.now()
	ent, plan, err := applicensing.Load(r, actor.CompanyID, now)
	if err != nil {
		return nil, err
	}
	user, err := r.Users.Get(actor.CompanyID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	d := permission.DecideForStore(user, ent, c, storeID)
	if !d.Allowed {
		a.deny(ctx, actor, c, storeID, d.Reason, now)
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrAccessDenied, c, d.Reason)
	}
	return &Access{User: user, Entitlement: ent, Plan: plan}, nil
}

// Check evalúa la capacidad en su propia transacción (middlewares HTTP).
func (a *Authorizer) Check(ctx context.Context, actor entity.Actor, c permission.Capability) error {
	return a.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		_, err := a.Authorize(ctx, r, actor, c, "")
		return err
	})
}

// Permissions permisos efectivos del usuario (para la UI).
func (a *Authorizer) Permissions(user *entity.User, ent licensing.Entitlement) []entity.PermissionID {
	var out []entity.PermissionID
	for _, m := range permission.VisibleModules(user, ent) {
		for _, p := range entity.PermissionsOf(m) {
			if permission.Decide(user, ent, permission.ForPermission(p)).Allowed {
				out = append(out, p)
			}
		}
	}
	return out
}

func (a *Authorizer) deny(ctx context.Context, actor entity.Actor, c permission.Capability, storeID string, reason permission.Reason, at time.Time) {
	a.log.Info().
		Str("company_id", actor.CompanyID).
		Str("user_id", actor.UserID).
		Str("capability", c.String()).
		Str("store_id", storeID).
		Str("reason", string(reason)).
		Msg("acesso negado")
	if a.audit == nil {
		return
	}
	ev := entity.AuditEvent{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Actor:     actor.Name(),
		Action:    entity.AuditAccessDenied,
		Entity:    "capability",
		EntityID:  c.String(),
		Reason:    "acesso negado: " + string(reason),
		Timestamp: at,
	}
	if err := a.audit.Record(ctx, ev); err != nil {
		a.log.Warn().Err(err).Msg("audit: no se pudo registrar la negación")
	}
}
