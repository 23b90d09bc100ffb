package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var (
	manageStores = permission.ForPermission(entity.PermConfiguracoesLojas)
	viewAudit    = permission.ForModule(entity.ModuleConfiguracoes)
)

// CompanyUseCase datos de la empresa del actor y sus lojas.
type CompanyUseCase struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, authz: az, c: c}
}

// Get devuelve la empresa del actor con sus lojas.
func (uc *CompanyUseCase) Get(ctx context.Context, actor entity.Actor) (*dto.CompanyResponse, error) {
	var out *dto.CompanyResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		company, err := r.Companies.Get(actor.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		stores, err := r.Companies.ListStores(actor.CompanyID)
		if err != nil {
			return err
		}
		out = dto.ToCompanyResponse(company, stores)
		return nil
	})
	return out, err
}

// CreateStore abre una nueva loja respetando el límite de lojas del plan.
func (uc *CompanyUseCase) CreateStore(ctx context.Context, actor entity.Actor, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre de la loja requerido", domain.ErrInvalidInput)
	}
	now := uc.c.Clock()
	store := &entity.Store{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		Name:      name,
		Address:   in.Address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, manageStores, "")
		if err != nil {
			return err
		}
		stores, err := r.Companies.ListStores(actor.CompanyID)
		if err != nil {
			return err
		}
		active := 0
		for _, s := range stores {
			if s.Active {
				active++
			}
		}
		if err := licensing.CheckLimit(acc.Plan, licensing.LimitStores, active); err != nil {
			return err
		}
		if err := r.Companies.SaveStore(store); err != nil {
			return err
		}
		fx.Audit("store.created", "store", store.ID, "", nil, store)
		fx.Persist(ports.KindStore, store.ID, store)
		fx.Emit("store.created", "store", store.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return &dto.StoreResponse{ID: store.ID, Name: store.Name, Address: store.Address, Active: store.Active}, nil
}

// AuditLog últimas entradas de auditoría de la empresa (solo administradores).
func (uc *CompanyUseCase) AuditLog(ctx context.Context, actor entity.Actor, page dto.PageRequest) ([]dto.AuditEventResponse, error) {
	page.DefaultPage()
	var events []*entity.AuditEvent
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, viewAudit, ""); err != nil {
			return err
		}
		var err error
		events, err = r.Audit.List(actor.CompanyID, page.Limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEventResponse, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		ev := events[i]
		out = append(out, dto.AuditEventResponse{
			ID: ev.ID, Actor: ev.Actor, Action: ev.Action, Entity: ev.Entity, EntityID: ev.EntityID,
			Before: ev.Before, After: ev.After, Reason: ev.Reason, Timestamp: ev.Timestamp,
		})
	}
	return out, nil
}
