package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var (
	viewReceivables   = permission.ForPermission(entity.PermContasReceberVisualizar)
	settleReceivables = permission.ForPermission(entity.PermContasReceberBaixar)
)

// ListReceivables contas a receber por vencimiento; status vacío = todas.
// Un empleado solo ve las de su loja.
func (uc *UseCase) ListReceivables(ctx context.Context, actor entity.Actor, status string) ([]dto.ReceivableResponse, error) {
	st := entity.ReceivableStatus(status)
	if st != "" && st != entity.ReceivableOpen && st != entity.ReceivableSettled {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	out := []dto.ReceivableResponse{}
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, viewReceivables, "")
		if err != nil {
			return err
		}
		list, err := r.Receivables.List(actor.CompanyID, st)
		if err != nil {
			return err
		}
		for _, rec := range list {
			if acc.User.Role == entity.RoleEmployee && rec.StoreID != acc.User.StoreID {
				continue
			}
			out = append(out, dto.ToReceivableResponse(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Settle da baixa en una parcela abierta.
func (uc *UseCase) Settle(ctx context.Context, actor entity.Actor, id string) (*dto.ReceivableResponse, error) {
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out *entity.Receivable
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		rec, err := r.Receivables.Get(actor.CompanyID, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%w: conta a receber %s", domain.ErrNotFound, id)
		}
		if _, err := uc.authz.Authorize(ctx, r, actor, settleReceivables, rec.StoreID); err != nil {
			return err
		}
		if rec.Status == entity.ReceivableSettled {
			return fmt.Errorf("%w: parcela ya baixada", domain.ErrConflict)
		}
		before := *rec
		rec.Status = entity.ReceivableSettled
		rec.SettledAt = &now
		rec.SettledBy = actor.Name()
		if err := r.Receivables.Save(rec); err != nil {
			return err
		}
		fx.Persist(ports.KindReceivable, rec.ID, rec)
		fx.Audit("receivable.settle", "receivable", rec.ID, "", before, rec)
		fx.Emit("receivable.settled", "receivable", rec.ID)
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	resp := dto.ToReceivableResponse(out)
	return &resp, nil
}
