package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Selection selección global de pago de la venta (comparte tarifa entre todas las líneas).
type Selection struct {
	Method       PaymentMethod
	Network      CardNetwork
	Installments int
}

// SaleItem línea de una venta finalizada.
type SaleItem struct {
	Code      string
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Payment parte del pago (permite pagos divididos).
type Payment struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// SaleStatusFinalized única etapa que conoce este núcleo.
const SaleStatusFinalized = "finalized"

// Sale venta finalizada en el PDV.
type Sale struct {
	ID           string
	CompanyID    string
	StoreID      string
	CustomerName string
	Items        []SaleItem
	Selection    Selection
	Payments     []Payment
	Total        decimal.Decimal
	Status       string
	FinalizedAt  time.Time
	FinalizedBy  string
}

// CashLikeTotal suma de los pagos en dinheiro y pix.
func (s *Sale) CashLikeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Method.CashLike() {
			total = total.Add(p.Amount)
		}
	}
	return total
}
