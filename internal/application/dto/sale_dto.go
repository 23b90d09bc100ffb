package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea pedida en el PDV.
type SaleItemRequest struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity"`
}

// PaymentRequest parte del pago.
type PaymentRequest struct {
	Method string          `json:"method" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// FinalizeSaleRequest body para POST /api/sales.
type FinalizeSaleRequest struct {
	StoreID      string            `json:"store_id" validate:"required"`
	CustomerName string            `json:"customer_name"`
	Items        []SaleItemRequest `json:"items" validate:"required,min=1"`
	Selection    SelectionRequest  `json:"selection"`
	Payments     []PaymentRequest  `json:"payments"`
}

// SaleItemResponse línea de la venta.
type SaleItemResponse struct {
	Code      string          `json:"code"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse venta finalizada.
type SaleResponse struct {
	ID           string               `json:"id"`
	StoreID      string               `json:"store_id"`
	CustomerName string               `json:"customer_name,omitempty"`
	Items        []SaleItemResponse   `json:"items"`
	Method       string               `json:"method"`
	Network      string               `json:"network,omitempty"`
	Installments int                  `json:"installments,omitempty"`
	Payments     []PaymentRequest     `json:"payments"`
	Total        decimal.Decimal      `json:"total"`
	Receivables  []ReceivableResponse `json:"receivables,omitempty"`
	FinalizedAt  time.Time            `json:"finalized_at"`
}

// ReceivableResponse parcela de crediário.
type ReceivableResponse struct {
	ID                string          `json:"id"`
	SaleID            string          `json:"sale_id"`
	StoreID           string          `json:"store_id"`
	CustomerName      string          `json:"customer_name,omitempty"`
	InstallmentNumber int             `json:"installment_number"`
	Installments      int             `json:"installments"`
	Amount            decimal.Decimal `json:"amount"`
	DueDate           time.Time       `json:"due_date"`
	Status            string          `json:"status"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
}
