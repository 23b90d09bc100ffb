package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	domainpricing "github.com/jhoicas/moda-retail/internal/domain/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/pkg/money"
)

var (
	viewCosts = permission.ForPermission(entity.PermCustosVisualizar)
	editCosts = permission.ForPermission(entity.PermCustosEditar)
	hundred   = decimal.NewFromInt(100)
)

func validPercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%w: porcentaje fuera de 0..100", domain.ErrInvalidInput)
	}
	return nil
}

// Overhead pools vigentes y overhead unitario.
func (s *Service) Overhead(ctx context.Context, actor entity.Actor) (*dto.OverheadResponse, error) {
	var out *dto.OverheadResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, viewCosts, ""); err != nil {
			return err
		}
		st, err := LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		pools := domainpricing.SumPools(st.Items)
		overhead := st.Overhead()
		out = &dto.OverheadResponse{
			FixedTotal:                 pools.Fixed,
			VariableTotal:              pools.Variable,
			TotalUnits:                 st.Params.TotalStockUnitsForAllocation,
			DefaultCashDiscountPercent: st.Params.DefaultCashDiscountPercent,
			Overhead:                   overhead,
			Display:                    money.Format(overhead),
		}
		return nil
	})
	return out, err
}

// AddCostItem agrega un gasto fijo o variable.
func (s *Service) AddCostItem(ctx context.Context, actor entity.Actor, in dto.CostItemRequest) (*entity.CostItem, error) {
	kind := entity.CostKind(in.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de gasto %q", domain.ErrInvalidInput, in.Kind)
	}
	if strings.TrimSpace(in.Description) == "" || in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: descripción requerida y monto >= 0", domain.ErrInvalidInput)
	}
	now := s.c.Clock()
	item := &entity.CostItem{
		ID:          newID(),
		CompanyID:   actor.CompanyID,
		Kind:        kind,
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.costMutation(ctx, actor, "cost_item.created", func(r repository.Repos, fx *ports.Effects) error {
		if err := r.Costs.SaveItem(item); err != nil {
			return err
		}
		fx.Audit("cost_item.created", "cost_item", item.ID, "", nil, item)
		fx.Persist(ports.KindCostItem, item.ID, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateCostItem edita descripción, tipo y monto de un gasto activo.
func (s *Service) UpdateCostItem(ctx context.Context, actor entity.Actor, id string, in dto.CostItemRequest) (*entity.CostItem, error) {
	kind := entity.CostKind(in.Kind)
	if !kind.Valid() || strings.TrimSpace(in.Description) == "" || in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: gasto inválido", domain.ErrInvalidInput)
	}
	var out *entity.CostItem
	err := s.costMutation(ctx, actor, "cost_item.updated", func(r repository.Repos, fx *ports.Effects) error {
		item, err := r.Costs.GetItem(actor.CompanyID, id)
		if err != nil {
			return err
		}
		if item == nil || !item.Active {
			return domain.ErrNotFound
		}
		before := *item
		item.Kind = kind
		item.Description = strings.TrimSpace(in.Description)
		item.Amount = in.Amount
		item.UpdatedAt = s.c.Clock()
		if err := r.Costs.SaveItem(item); err != nil {
			return err
		}
		fx.Audit("cost_item.updated", "cost_item", item.ID, "", before, item)
		fx.Persist(ports.KindCostItem, item.ID, item)
		out = item
		return nil
	})
	return out, err
}

// DeactivateCostItem saca el gasto del rateio; nunca se elimina.
func (s *Service) DeactivateCostItem(ctx context.Context, actor entity.Actor, id string) error {
	return s.costMutation(ctx, actor, "cost_item.deactivated", func(r repository.Repos, fx *ports.Effects) error {
		item, err := r.Costs.GetItem(actor.CompanyID, id)
		if err != nil {
			return err
		}
		if item == nil || !item.Active {
			return domain.ErrNotFound
		}
		item.Active = false
		item.UpdatedAt = s.c.Clock()
		if err := r.Costs.SaveItem(item); err != nil {
			return err
		}
		fx.Audit("cost_item.deactivated", "cost_item", item.ID, "", nil, item)
		fx.Persist(ports.KindCostItem, item.ID, item)
		return nil
	})
}

// SetParameters actualiza unidades de rateio y descuento à vista estándar.
func (s *Service) SetParameters(ctx context.Context, actor entity.Actor, in dto.CostParametersRequest) (*dto.OverheadResponse, error) {
	if in.TotalStockUnitsForAllocation.IsNegative() {
		return nil, fmt.Errorf("%w: unidades negativas", domain.ErrInvalidInput)
	}
	if err := validPercent(in.DefaultCashDiscountPercent); err != nil {
		return nil, err
	}
	err := s.costMutation(ctx, actor, "cost_parameters.updated", func(r repository.Repos, fx *ports.Effects) error {
		before, err := r.Costs.GetParameters(actor.CompanyID)
		if err != nil {
			return err
		}
		params := &entity.CostParameters{
			CompanyID:                    actor.CompanyID,
			TotalStockUnitsForAllocation: in.TotalStockUnitsForAllocation,
			DefaultCashDiscountPercent:   in.DefaultCashDiscountPercent,
			UpdatedAt:                    s.c.Clock(),
		}
		if err := r.Costs.SaveParameters(params); err != nil {
			return err
		}
		fx.Audit("cost_parameters.updated", "cost_parameters", actor.CompanyID, "", before, params)
		fx.Persist(ports.KindCostParameters, actor.CompanyID, params)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Overhead(ctx, actor)
}

// costMutation autoriza, aplica el cambio y registra un snapshot del overhead resultante.
func (s *Service) costMutation(ctx context.Context, actor entity.Actor, reason string, fn func(r repository.Repos, fx *ports.Effects) error) error {
	now := s.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, editCosts, ""); err != nil {
			return err
		}
		if err := fn(r, fx); err != nil {
			return err
		}
		st, err := LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		snap := domainpricing.Snapshot(actor.CompanyID, st.Items, st.Params)
		snap.ID = newID()
		snap.Reason = reason
		snap.Actor = actor.Name()
		snap.TakenAt = now
		if err := r.Costs.AppendSnapshot(&snap); err != nil {
			return err
		}
		fx.Persist(ports.KindSnapshot, snap.ID, &snap)
		fx.Emit("overhead.changed", "overhead_snapshot", snap.ID)
		return nil
	})
	if err != nil {
		return err
	}
	s.c.Flush(ctx, fx)
	return nil
}

// ListSnapshots histórico del overhead, del más antiguo al más reciente.
func (s *Service) ListSnapshots(ctx context.Context, actor entity.Actor) ([]dto.SnapshotResponse, error) {
	var out []dto.SnapshotResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, viewCosts, ""); err != nil {
			return err
		}
		snaps, err := r.Costs.ListSnapshots(actor.CompanyID)
		if err != nil {
			return err
		}
		out = make([]dto.SnapshotResponse, 0, len(snaps))
		for _, sn := range snaps {
			out = append(out, dto.SnapshotResponse{
				ID:            sn.ID,
				FixedTotal:    sn.FixedTotal,
				VariableTotal: sn.VariableTotal,
				TotalUnits:    sn.TotalUnits,
				Overhead:      sn.Overhead,
				Reason:        sn.Reason,
				Actor:         sn.Actor,
				TakenAt:       sn.TakenAt,
			})
		}
		return nil
	})
	return out, err
}

// UpsertCardFee guarda una fila del cronograma de tarifas. FeePercent nil = no aplica.
func (s *Service) UpsertCardFee(ctx context.Context, actor entity.Actor, in dto.CardFeeRequest) (*entity.CardFee, error) {
	network := domainpricing.NormalizeNetwork(entity.CardNetwork(in.Network))
	feeType := entity.FeeType(in.FeeType)
	if network == "" || !feeType.Valid() {
		return nil, fmt.Errorf("%w: bandeira y tramo requeridos", domain.ErrInvalidInput)
	}
	if in.FeePercent != nil {
		if err := validPercent(*in.FeePercent); err != nil {
			return nil, err
		}
	}
	now := s.c.Clock()
	fee := &entity.CardFee{CompanyID: actor.CompanyID, Network: network, FeeType: feeType, FeePercent: in.FeePercent, UpdatedAt: now}
	id := string(network) + ":" + string(feeType)
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, editCosts, ""); err != nil {
			return err
		}
		if err := r.CardFees.Save(fee); err != nil {
			return err
		}
		fx.Audit("card_fee.saved", "card_fee", id, "", nil, fee)
		fx.Persist(ports.KindCardFee, id, fee)
		fx.Emit("card_fee.saved", "card_fee", id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return fee, nil
}
