package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// PricingLineRequest alta o edición de una línea del catálogo. Costo y precio en null = sin precificar.
type PricingLineRequest struct {
	ItemName                     string          `json:"item_name" validate:"required"`
	Color                        string          `json:"color"`
	Size                         string          `json:"size"`
	Quantity                     int             `json:"quantity"`
	WholesaleCost                entity.Amount   `json:"wholesale_cost"`
	CardPrice                    entity.Amount   `json:"card_price"`
	CashDiscountMode             string          `json:"cash_discount_mode" validate:"omitempty,oneof=standard exception"`
	CashDiscountPercentException decimal.Decimal `json:"cash_discount_percent_exception"`
}

// CatalogLineResponse fila de la vista de catálogo.
type CatalogLineResponse struct {
	Code             string          `json:"code"`
	ItemName         string          `json:"item_name"`
	Color            string          `json:"color,omitempty"`
	Size             string          `json:"size,omitempty"`
	Quantity         int             `json:"quantity"`
	WholesaleCost    entity.Amount   `json:"wholesale_cost"`
	CardPrice        entity.Amount   `json:"card_price"`
	CashDiscountMode string          `json:"cash_discount_mode"`
	Overhead         decimal.Decimal `json:"overhead"`
	TotalCost        entity.Amount   `json:"total_cost"`
	MarginPercent    entity.Amount   `json:"margin_percent"`
	CashPrice        entity.Amount   `json:"cash_price"`
	CashPriceDisplay string          `json:"cash_price_display,omitempty"`
	Complete         bool            `json:"complete"`
}

// CatalogResponse vista de catálogo con totales sobre las líneas completas.
type CatalogResponse struct {
	Overhead       decimal.Decimal       `json:"overhead"`
	Lines          []CatalogLineResponse `json:"lines"`
	TotalLines     int                   `json:"total_lines"`
	CompleteLines  int                   `json:"complete_lines"`
	StockCostValue decimal.Decimal       `json:"stock_cost_value"`
	StockCardValue decimal.Decimal       `json:"stock_card_value"`
	AverageMargin  decimal.Decimal       `json:"average_margin"`
}

// SelectionRequest forma de pago, bandeira y parcelas.
type SelectionRequest struct {
	Method       string `json:"method" validate:"required"`
	Network      string `json:"network"`
	Installments int    `json:"installments"`
}

// ToSelection convierte a la selección de dominio.
func (s SelectionRequest) ToSelection() entity.Selection {
	return entity.Selection{
		Method:       entity.PaymentMethod(s.Method),
		Network:      entity.CardNetwork(s.Network),
		Installments: s.Installments,
	}
}

// QuoteRequest cotización de una línea para una selección.
type QuoteRequest struct {
	Code      string           `json:"code" validate:"required"`
	Quantity  int              `json:"quantity"`
	Selection SelectionRequest `json:"selection"`
}

// QuoteResponse precio unitario y total.
type QuoteResponse struct {
	Code      string          `json:"code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	Display   string          `json:"display"`
}

// CostItemRequest gasto fijo o variable.
type CostItemRequest struct {
	Kind        string          `json:"kind" validate:"required,oneof=fixed variable"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// CostParametersRequest parámetros de rateio.
type CostParametersRequest struct {
	TotalStockUnitsForAllocation decimal.Decimal `json:"total_stock_units_for_allocation"`
	DefaultCashDiscountPercent   decimal.Decimal `json:"default_cash_discount_percent"`
}

// CardFeeRequest fila del cronograma de tarifas. FeePercent null = no aplica.
type CardFeeRequest struct {
	Network    string           `json:"network" validate:"required"`
	FeeType    string           `json:"fee_type" validate:"required,oneof=credit debit installments_2_6 installments_7_12"`
	FeePercent *decimal.Decimal `json:"fee_percent"`
}

// OverheadResponse overhead vigente y pools.
type OverheadResponse struct {
	FixedTotal                 decimal.Decimal `json:"fixed_total"`
	VariableTotal              decimal.Decimal `json:"variable_total"`
	TotalUnits                 decimal.Decimal `json:"total_units"`
	DefaultCashDiscountPercent decimal.Decimal `json:"default_cash_discount_percent"`
	Overhead                   decimal.Decimal `json:"overhead"`
	Display                    string          `json:"display"`
}

// SnapshotResponse registro histórico de overhead.
type SnapshotResponse struct {
	ID            string          `json:"id"`
	FixedTotal    decimal.Decimal `json:"fixed_total"`
	VariableTotal decimal.Decimal `json:"variable_total"`
	TotalUnits    decimal.Decimal `json:"total_units"`
	Overhead      decimal.Decimal `json:"overhead"`
	Reason        string          `json:"reason"`
	Actor         string          `json:"actor"`
	TakenAt       time.Time       `json:"taken_at"`
}
