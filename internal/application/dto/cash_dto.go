package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenCashSessionRequest apertura de caja.
type OpenCashSessionRequest struct {
	StoreID       string          `json:"store_id" validate:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CashMovementRequest suprimento o sangria.
type CashMovementRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// CloseCashSessionRequest cierre con el valor contado.
type CloseCashSessionRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
}

// CashSessionResponse estado de la sesión.
type CashSessionResponse struct {
	ID               string          `json:"id"`
	StoreID          string          `json:"store_id"`
	Status           string          `json:"status"`
	OpeningAmount    decimal.Decimal `json:"opening_amount"`
	CashIn           decimal.Decimal `json:"cash_in"`
	CashOut          decimal.Decimal `json:"cash_out"`
	CashSales        decimal.Decimal `json:"cash_sales"`
	ExpectedCash     decimal.Decimal `json:"expected_cash"`
	ClosingAmount    decimal.Decimal `json:"closing_amount"`
	Divergence       decimal.Decimal `json:"divergence"`
	DivergenceStatus string          `json:"divergence_status,omitempty"`
	OpenedAt         time.Time       `json:"opened_at"`
	OpenedBy         string          `json:"opened_by"`
	ClosedAt         *time.Time      `json:"closed_at,omitempty"`
	ClosedBy         string          `json:"closed_by,omitempty"`
}
