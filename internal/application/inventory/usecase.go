// Package inventory registra movimientos de stock por loja: entradas, salidas,
// ajustes firmados y traslados en dos fases (envío y recepción).
package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/inventory"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

// EventStockNegative se publica cuando un movimiento deja el disponible bajo cero.
const EventStockNegative = "stock.negative"

// CapabilityFor permiso de acción que exige cada operación.
func CapabilityFor(op inventory.Operation) permission.Capability {
	switch op {
	case inventory.OpEntry:
		return permission.ForPermission(entity.PermEstoqueEntrada)
	case inventory.OpTransfer, inventory.OpReceiveTransfer:
		return permission.ForPermission(entity.PermEstoqueTransferir)
	default:
		return permission.ForPermission(entity.PermEstoqueAjustar)
	}
}

// RegisterMovementUseCase registra movimientos de inventario serializados por empresa:
// el saldo se lee y escribe dentro de la misma transacción, así no hay actualizaciones perdidas.
type RegisterMovementUseCase struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{tx: tx, authz: az, c: c}
}

// RegisterMovement valida, autoriza (en la loja de origen) y aplica la operación.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, actor entity.Actor, in dto.RegisterMovementRequest) ([]dto.BalanceResponse, error) {
	req := inventory.Request{
		Operation: inventory.Operation(in.Operation),
		StoreID:   in.StoreID,
		ToStoreID: in.ToStoreID,
		SKU:       in.SKU,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Reference: in.Reference,
	}
	if req.Operation == inventory.OpReceiveTransfer {
		return nil, fmt.Errorf("%w: use la recepción de traslados", domain.ErrInvalidInput)
	}
	return uc.run(ctx, actor, req)
}

// ReceiveTransfer confirma la llegada de un traslado en la loja destino.
func (uc *RegisterMovementUseCase) ReceiveTransfer(ctx context.Context, actor entity.Actor, in dto.ReceiveTransferRequest) ([]dto.BalanceResponse, error) {
	return uc.run(ctx, actor, inventory.Request{
		Operation: inventory.OpReceiveTransfer,
		StoreID:   in.StoreID,
		SKU:       in.SKU,
		Quantity:  in.Quantity,
		Reference: in.Reference,
	})
}

func (uc *RegisterMovementUseCase) run(ctx context.Context, actor entity.Actor, req inventory.Request) ([]dto.BalanceResponse, error) {
	if err := inventory.Validate(req); err != nil {
		return nil, err
	}
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out []dto.BalanceResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, CapabilityFor(req.Operation), req.StoreID); err != nil {
			return err
		}
		for _, id := range []string{req.StoreID, req.ToStoreID} {
			if id == "" {
				continue
			}
			store, err := r.Companies.GetStore(actor.CompanyID, id)
			if err != nil {
				return err
			}
			if store == nil || !store.Active {
				return fmt.Errorf("%w: loja %s", domain.ErrNotFound, id)
			}
		}
		line, err := r.Pricing.Get(actor.CompanyID, req.SKU)
		if err != nil {
			return err
		}
		if line == nil {
			return fmt.Errorf("%w: sku %s", domain.ErrNotFound, req.SKU)
		}
		balances, err := Apply(r, actor.CompanyID, actor.Name(), req, now, fx, uc.c.Logger())
		if err != nil {
			return err
		}
		for _, b := range balances {
			out = append(out, dto.ToBalanceResponse(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return out, nil
}

// Apply aplica la solicitud con los repositorios de la transacción del llamador y devuelve
// los saldos tocados. Cada paso deja un movimiento inmutable con el valor anterior y el nuevo.
// Un disponible negativo no se recorta: se registra, se audita y se publica stock.negative.
func Apply(r repository.Repos, companyID, actor string, req inventory.Request, at time.Time, fx *ports.Effects, log *logger.Logger) ([]*entity.StockBalance, error) {
	steps, err := inventory.Plan(req)
	if err != nil {
		return nil, err
	}
	touched := map[string]*entity.StockBalance{}
	var order []string
	for _, st := range steps {
		b, ok := touched[st.StoreID]
		if !ok {
			if b, err = r.Stock.GetBalance(companyID, st.StoreID, req.SKU); err != nil {
				return nil, err
			}
			touched[st.StoreID] = b
			order = append(order, st.StoreID)
		}
		before, after, err := inventory.Apply(b, st)
		if err != nil {
			return nil, err
		}
		b.UpdatedAt = at
		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			CompanyID:     companyID,
			StoreID:       st.StoreID,
			SKU:           req.SKU,
			Type:          st.Type,
			Bucket:        st.Bucket,
			Quantity:      st.Delta,
			BalanceBefore: before,
			BalanceAfter:  after,
			Reason:        req.Reason,
			Reference:     req.Reference,
			Actor:         actor,
			Timestamp:     at,
		}
		if err := r.Stock.AppendMovement(mov); err != nil {
			return nil, err
		}
		fx.Persist(ports.KindStockMovement, mov.ID, mov)
		fx.Audit("stock."+string(req.Operation), "stock_movement", mov.ID, req.Reason, before, after)
		if inventory.WentNegative(st, after) {
			log.Warn().
				Str("company_id", companyID).
				Str("store_id", st.StoreID).
				Str("sku", req.SKU).
				Int("available", after).
				Msg("estoque negativo")
			fx.Audit("stock.negative", "stock_balance", st.StoreID+"/"+req.SKU, "saldo disponible negativo", before, after)
			fx.Emit(EventStockNegative, "stock_balance", st.StoreID+"/"+req.SKU)
		}
	}
	out := make([]*entity.StockBalance, 0, len(order))
	for _, id := range order {
		b := touched[id]
		if err := r.Stock.SaveBalance(b); err != nil {
			return nil, err
		}
		fx.Persist(ports.KindStockBalance, b.StoreID+"/"+b.SKU, b)
		out = append(out, b)
	}
	fx.Emit("stock.moved", "stock_balance", req.StoreID+"/"+req.SKU)
	return out, nil
}

// ListBalances saldos de la loja (cualquier permiso del módulo estoque).
func (uc *RegisterMovementUseCase) ListBalances(ctx context.Context, actor entity.Actor, storeID string) ([]dto.BalanceResponse, error) {
	var out []dto.BalanceResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, permission.ForModule(entity.ModuleEstoque), storeID); err != nil {
			return err
		}
		list, err := r.Stock.ListBalances(actor.CompanyID, storeID)
		if err != nil {
			return err
		}
		out = make([]dto.BalanceResponse, 0, len(list))
		for _, b := range list {
			out = append(out, dto.ToBalanceResponse(b))
		}
		return nil
	})
	return out, err
}
