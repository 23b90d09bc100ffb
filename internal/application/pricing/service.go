// Package pricing expone el catálogo de precios, los pools de costos, el cronograma
// de tarifas y las cotizaciones sobre el Pricing Calculator.
package pricing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	domainpricing "github.com/jhoicas/moda-retail/internal/domain/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/pkg/money"
)

var (
	viewPricing = permission.ForPermission(entity.PermPrecificacaoVisualizar)
	editPricing = permission.ForPermission(entity.PermPrecificacaoEditar)
	quotePrice  = permission.ForModule(entity.ModulePDV)
)

// Service casos de uso de precificación.
type Service struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewService construye el servicio.
func NewService(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *Service {
	return &Service{tx: tx, authz: az, c: c}
}

// State parámetros, gastos y tarifas vigentes de la empresa.
type State struct {
	Params entity.CostParameters
	Items  []*entity.CostItem
	Fees   []*entity.CardFee
}

// LoadState lee el estado de precificación con los repositorios de la transacción.
func LoadState(r repository.Repos, companyID string) (State, error) {
	st := State{Params: entity.CostParameters{CompanyID: companyID}}
	params, err := r.Costs.GetParameters(companyID)
	if err != nil {
		return st, fmt.Errorf("get parameters: %w", err)
	}
	if params != nil {
		st.Params = *params
	}
	if st.Items, err = r.Costs.ListItems(companyID); err != nil {
		return st, fmt.Errorf("list cost items: %w", err)
	}
	if st.Fees, err = r.CardFees.List(companyID); err != nil {
		return st, fmt.Errorf("list card fees: %w", err)
	}
	return st, nil
}

// Calculator calculador para el estado.
func (st State) Calculator() domainpricing.Calculator {
	return domainpricing.NewCalculator(st.Params, st.Fees)
}

// Overhead overhead unitario vigente.
func (st State) Overhead() decimal.Decimal {
	return domainpricing.UnitOverhead(domainpricing.SumPools(st.Items), st.Params.TotalStockUnitsForAllocation)
}

// ── catálogo ─────────────────────────────────────────────────────────────────

// ListCatalog vista de catálogo con overhead, costo total, margen y precio à vista por línea.
func (s *Service) ListCatalog(ctx context.Context, actor entity.Actor) (*dto.CatalogResponse, error) {
	var out *dto.CatalogResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, viewPricing, ""); err != nil {
			return err
		}
		st, err := LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		lines, err := r.Pricing.List(actor.CompanyID)
		if err != nil {
			return err
		}
		calc, overhead := st.Calculator(), st.Overhead()
		rows := make([]domainpricing.LineAnalysis, 0, len(lines))
		for _, l := range lines {
			if l.Active {
				rows = append(rows, domainpricing.Analyze(l, overhead, calc))
			}
		}
		sum := domainpricing.Summarize(rows)
		out = &dto.CatalogResponse{
			Overhead:       overhead,
			Lines:          make([]dto.CatalogLineResponse, 0, len(rows)),
			TotalLines:     sum.Lines,
			CompleteLines:  sum.CompleteLines,
			StockCostValue: sum.StockCostValue,
			StockCardValue: sum.StockCardValue,
			AverageMargin:  sum.AverageMargin,
		}
		for _, a := range rows {
			out.Lines = append(out.Lines, toCatalogLine(a))
		}
		return nil
	})
	return out, err
}

func toCatalogLine(a domainpricing.LineAnalysis) dto.CatalogLineResponse {
	l := a.Line
	row := dto.CatalogLineResponse{
		Code:             l.Code,
		ItemName:         l.ItemName,
		Color:            l.Color,
		Size:             l.Size,
		Quantity:         l.Quantity,
		WholesaleCost:    l.WholesaleCost,
		CardPrice:        l.CardPrice,
		CashDiscountMode: string(l.CashDiscountMode),
		Overhead:         a.Overhead,
		TotalCost:        a.TotalCost,
		MarginPercent:    a.Margin,
		CashPrice:        a.CashPrice,
		Complete:         a.Complete,
	}
	if v, ok := a.CashPrice.Value(); ok {
		row.CashPriceDisplay = money.Format(v)
	}
	return row
}

// UpsertLine crea o edita una línea del catálogo. Las líneas nuevas cuentan para el límite de SKUs.
func (s *Service) UpsertLine(ctx context.Context, actor entity.Actor, code string, in dto.PricingLineRequest) (*dto.CatalogLineResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" || strings.TrimSpace(in.ItemName) == "" {
		return nil, fmt.Errorf("%w: código e item requeridos", domain.ErrInvalidInput)
	}
	mode := entity.DiscountMode(in.CashDiscountMode)
	if mode == "" {
		mode = entity.DiscountStandard
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: modo de descuento %q", domain.ErrInvalidInput, in.CashDiscountMode)
	}
	if err := validPercent(in.CashDiscountPercentException); err != nil {
		return nil, err
	}
	for _, a := range []entity.Amount{in.WholesaleCost, in.CardPrice} {
		if v, ok := a.Value(); ok && v.IsNegative() {
			return nil, fmt.Errorf("%w: montos negativos", domain.ErrInvalidInput)
		}
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	now := s.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out dto.CatalogLineResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := s.authz.Authorize(ctx, r, actor, editPricing, "")
		if err != nil {
			return err
		}
		line, err := r.Pricing.Get(actor.CompanyID, code)
		if err != nil {
			return err
		}
		var before *entity.PricingLine
		if line == nil || !line.Active {
			lines, err := r.Pricing.List(actor.CompanyID)
			if err != nil {
				return err
			}
			if err := licensing.CheckLimit(acc.Plan, licensing.LimitSKUs, countActive(lines)); err != nil {
				return err
			}
		}
		if line == nil {
			line = &entity.PricingLine{CompanyID: actor.CompanyID, Code: code, CreatedAt: now}
		} else {
			cp := *line
			before = &cp
		}
		line.ItemName = strings.TrimSpace(in.ItemName)
		line.Color = in.Color
		line.Size = in.Size
		line.Quantity = in.Quantity
		line.WholesaleCost = in.WholesaleCost
		line.CardPrice = in.CardPrice
		line.CashDiscountMode = mode
		line.CashDiscountPercentException = in.CashDiscountPercentException
		line.Active = true
		line.UpdatedAt = now
		if err := r.Pricing.Save(line); err != nil {
			return err
		}
		st, err := LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		out = toCatalogLine(domainpricing.Analyze(line, st.Overhead(), st.Calculator()))
		fx.Audit("pricing_line.saved", "pricing_line", code, "", before, line)
		fx.Persist(ports.KindPricingLine, code, line)
		fx.Emit("pricing_line.saved", "pricing_line", code)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return &out, nil
}

func countActive(lines []*entity.PricingLine) int {
	n := 0
	for _, l := range lines {
		if l.Active {
			n++
		}
	}
	return n
}

// DeactivateLine retira la línea del catálogo y del PDV; el registro se conserva.
func (s *Service) DeactivateLine(ctx context.Context, actor entity.Actor, code string) error {
	now := s.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, editPricing, ""); err != nil {
			return err
		}
		line, err := r.Pricing.Get(actor.CompanyID, code)
		if err != nil {
			return err
		}
		if line == nil || !line.Active {
			return domain.ErrNotFound
		}
		line.Active = false
		line.UpdatedAt = now
		if err := r.Pricing.Save(line); err != nil {
			return err
		}
		fx.Audit("pricing_line.deactivated", "pricing_line", code, "", nil, line)
		fx.Persist(ports.KindPricingLine, code, line)
		fx.Emit("pricing_line.deactivated", "pricing_line", code)
		return nil
	})
	if err != nil {
		return err
	}
	s.c.Flush(ctx, fx)
	return nil
}

// Quote precio de una línea para la selección de pago indicada.
func (s *Service) Quote(ctx context.Context, actor entity.Actor, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	var out *dto.QuoteResponse
	err := s.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := s.authz.Authorize(ctx, r, actor, quotePrice, ""); err != nil {
			return err
		}
		line, err := r.Pricing.Get(actor.CompanyID, in.Code)
		if err != nil {
			return err
		}
		if line == nil || !line.Active {
			return fmt.Errorf("%w: línea %s", domain.ErrNotFound, in.Code)
		}
		st, err := LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		unit, err := st.Calculator().Price(line, in.Selection.ToSelection())
		if err != nil {
			return err
		}
		total := unit.Mul(decimal.NewFromInt(int64(qty)))
		out = &dto.QuoteResponse{Code: line.Code, UnitPrice: unit, Total: total, Display: money.Format(total)}
		return nil
	})
	return out, err
}

func newID() string { return uuid.New().String() }
