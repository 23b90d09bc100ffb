package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

// ModuleService informa qué módulos y permisos ve el usuario de la sesión.
// Es la vista de la UI; las acciones se vuelven a autorizar en cada caso de uso.
type ModuleService struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	now   ports.Clock
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(tx repository.TxRunner, az *authz.Authorizer, now ports.Clock) *ModuleService {
	if now == nil {
		now = ports.SystemClock
	}
	return &ModuleService{tx: tx, authz: az, now: now}
}

// Entitlements módulos licenciados, visibles y permisos efectivos del actor.
func (s *ModuleService) Entitlements(ctx context.Context, actor entity.Actor) (*dto.EntitlementResponse, error) {
	var out *dto.EntitlementResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		ent, _, err := applicensing.Load(r, actor.CompanyID, s.now())
		if err != nil {
			return err
		}
		user, err := r.Users.Get(actor.CompanyID, actor.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		out = &dto.EntitlementResponse{
			CompanyID:               ent.CompanyID,
			LicensedModules:         []string{},
			VisibleModules:          []string{},
			Permissions:             []string{},
			WhiteLabelEnabled:       ent.WhiteLabelEnabled,
			WhiteLabelColorsEnabled: ent.WhiteLabelColorsEnabled,
			ReadOnly:                ent.ReadOnly,
		}
		for _, m := range ent.LicensedModules.Slice() {
			out.LicensedModules = append(out.LicensedModules, string(m))
		}
		for _, m := range permission.VisibleModules(user, ent) {
			out.VisibleModules = append(out.VisibleModules, string(m))
		}
		for _, p := range s.authz.Permissions(user, ent) {
			out.Permissions = append(out.Permissions, string(p))
		}
		return nil
	})
	return out, err
}

// HasActiveModule informa si la empresa tiene el módulo licenciado hoy.
// Devuelve false (sin error) si no lo tiene; error solo ante fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID string, module entity.ModuleID) (bool, error) {
	if companyID == "" || module == "" {
		return false, fmt.Errorf("module: companyID y módulo son obligatorios")
	}
	var ok bool
	err := s.tx.Run(ctx, companyID, func(r repository.Repos) error {
		ent, _, err := applicensing.Load(r, companyID, s.now())
		ok = ent.Licensed(module)
		return err
	})
	return ok, err
}
