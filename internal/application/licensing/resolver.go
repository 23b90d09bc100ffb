// Package licensing expone el Licensing Resolver sobre los repositorios y las
// operaciones del administrador global (planes, empresas, licencias).
package licensing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

// Load resuelve el entitlement vigente de la empresa con los repositorios de la transacción.
// Devuelve también el plan (nil si no hay licencia activa) para los chequeos de límites.
// Sin caché: cada llamada refleja el último cambio de licencia o plan.
func Load(r repository.Repos, companyID string, now time.Time) (licensing.Entitlement, *entity.Plan, error) {
	company, err := r.Companies.Get(companyID)
	if err != nil {
		return licensing.Empty(companyID), nil, fmt.Errorf("get company: %w", err)
	}
	if company == nil {
		return licensing.Empty(companyID), nil, nil
	}
	licenses, err := r.Licenses.ListByCompany(companyID)
	if err != nil {
		return licensing.Empty(companyID), nil, fmt.Errorf("list licenses: %w", err)
	}
	plans := map[string]*entity.Plan{}
	if lic := licensing.ActiveLicense(licenses, now); lic != nil {
		plan, err := r.Plans.Get(lic.PlanID)
		if err != nil {
			return licensing.Empty(companyID), nil, fmt.Errorf("get plan: %w", err)
		}
		if plan != nil {
			plans[plan.ID] = plan
		}
	}
	ent := licensing.Resolve(company, licenses, plans, now)
	return ent, plans[ent.PlanID], nil
}

// Resolver servicio de lectura del entitlement.
type Resolver struct {
	tx  repository.TxRunner
	now ports.Clock
}

// NewResolver construye el resolver.
func NewResolver(tx repository.TxRunner, now ports.Clock) *Resolver {
	if now == nil {
		now = ports.SystemClock
	}
	return &Resolver{tx: tx, now: now}
}

// Entitlement devuelve el derecho de uso vigente. La ausencia de licencia no es error.
func (s *Resolver) Entitlement(ctx context.Context, companyID string) (licensing.Entitlement, error) {
	var out licensing.Entitlement
	err := s.tx.Run(ctx, companyID, func(r repository.Repos) error {
		ent, _, err := Load(r, companyID, s.now())
		out = ent
		return err
	})
	return out, err
}
