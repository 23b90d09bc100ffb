// Package sales finaliza ventas del PDV y administra las contas a receber que generan.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/inventory"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	apppricing "github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	domaininventory "github.com/jhoicas/moda-retail/internal/domain/inventory"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/internal/domain/sale"
)

var finalizeSale = permission.ForPermission(entity.PermPDVFinalizarVenda)

// UseCase ventas del PDV.
type UseCase struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *UseCase {
	return &UseCase{tx: tx, authz: az, c: c}
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// FinalizeSale precia el carrito con la selección global, valida el pago dividido, da
// salida al stock (una salida por línea con la venta como referencia) y registra la venta.
// La parte en crediário genera una conta a receber por parcela.
func (uc *UseCase) FinalizeSale(ctx context.Context, actor entity.Actor, in dto.FinalizeSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: venta sin itens", domain.ErrInvalidInput)
	}
	sel := in.Selection.ToSelection()
	if !sel.Method.Valid() {
		return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, sel.Method)
	}
	payments := make([]entity.Payment, 0, len(in.Payments))
	for _, p := range in.Payments {
		m := entity.PaymentMethod(p.Method)
		if !m.Valid() {
			return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, p.Method)
		}
		payments = append(payments, entity.Payment{Method: m, Amount: p.Amount})
	}

	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var (
		out  *entity.Sale
		recs []*entity.Receivable
	)
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, finalizeSale, in.StoreID)
		if err != nil {
			return err
		}
		store, err := r.Companies.GetStore(actor.CompanyID, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil || !store.Active {
			return fmt.Errorf("%w: loja %s", domain.ErrNotFound, in.StoreID)
		}
		count, err := r.Sales.CountSince(actor.CompanyID, monthStart(now))
		if err != nil {
			return err
		}
		if err := licensing.CheckLimit(acc.Plan, licensing.LimitSalesPerMonth, count); err != nil {
			return err
		}

		st, err := apppricing.LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		cart, err := sale.NewCart(st.Calculator(), sel)
		if err != nil {
			return err
		}
		for _, it := range in.Items {
			line, err := r.Pricing.Get(actor.CompanyID, it.Code)
			if err != nil {
				return err
			}
			if line == nil {
				return fmt.Errorf("%w: sku %s", domain.ErrNotFound, it.Code)
			}
			if err := cart.AddItem(line, it.Quantity); err != nil {
				return err
			}
		}
		total := cart.Total()
		resolved, err := sale.ResolvePayments(sel, total, payments)
		if err != nil {
			return err
		}

		s := &entity.Sale{
			ID:           uuid.New().String(),
			CompanyID:    actor.CompanyID,
			StoreID:      in.StoreID,
			CustomerName: in.CustomerName,
			Items:        cart.Items(),
			Selection:    sel,
			Payments:     resolved,
			Total:        total,
			Status:       entity.SaleStatusFinalized,
			FinalizedAt:  now,
			FinalizedBy:  actor.Name(),
		}
		installments := 1
		if sel.Method == entity.PaymentStoreCredit {
			installments = sel.Installments
		}
		recs = sale.Receivables(s, installments, func() string { return uuid.New().String() })
		if len(recs) > 0 && s.CustomerName == "" {
			return fmt.Errorf("%w: crediário exige cliente", domain.ErrInvalidInput)
		}

		for _, it := range s.Items {
			if _, err := inventory.Apply(r, actor.CompanyID, actor.Name(), domaininventory.Request{
				Operation: domaininventory.OpExit,
				StoreID:   s.StoreID,
				SKU:       it.Code,
				Quantity:  it.Quantity,
				Reason:    "venda",
				Reference: s.ID,
			}, now, fx, uc.c.Logger()); err != nil {
				return err
			}
		}
		if err := r.Sales.Save(s); err != nil {
			return err
		}
		for _, rec := range recs {
			if err := r.Receivables.Save(rec); err != nil {
				return err
			}
			fx.Persist(ports.KindReceivable, rec.ID, rec)
		}
		fx.Persist(ports.KindSale, s.ID, s)
		fx.Audit("sale.finalize", "sale", s.ID, "", nil, s)
		fx.Emit("sale.finalized", "sale", s.ID)
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	uc.c.Logger().Info().
		Str("company_id", actor.CompanyID).
		Str("store_id", out.StoreID).
		Str("sale_id", out.ID).
		Str("total", out.Total.StringFixed(2)).
		Msg("venda finalizada")
	return dto.ToSaleResponse(out, recs), nil
}
