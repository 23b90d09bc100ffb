package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashSessionStatus estado de la sesión de caja.
type CashSessionStatus string

const (
	CashSessionOpen   CashSessionStatus = "open"
	CashSessionClosed CashSessionStatus = "closed"
)

// CashSession sesión de caja de una loja. Como máximo una abierta por loja.
// Una vez cerrada nunca se reabre ni se modifica.
type CashSession struct {
	ID            string
	CompanyID     string
	StoreID       string
	Status        CashSessionStatus
	OpeningAmount decimal.Decimal
	CashIn        decimal.Decimal // suprimentos
	CashOut       decimal.Decimal // sangrias
	CashSales     decimal.Decimal // dinheiro + pix de las ventas del período (al cierre)
	ExpectedCash  decimal.Decimal
	ClosingAmount decimal.Decimal // contado
	Divergence    decimal.Decimal // contado - esperado
	OpenedAt      time.Time
	OpenedBy      string
	ClosedAt      *time.Time
	ClosedBy      string
}

// IsOpen informa si la sesión acepta movimientos.
func (s *CashSession) IsOpen() bool { return s.Status == CashSessionOpen }

// CashMovementKind tipo de movimiento del libro de caja.
type CashMovementKind string

const (
	CashMovementOpening CashMovementKind = "opening"
	CashMovementIn      CashMovementKind = "cash_in"  // suprimento
	CashMovementOut     CashMovementKind = "cash_out" // sangria
	CashMovementClosing CashMovementKind = "closing"
)

// CashMovement evento inmutable del libro de caja.
type CashMovement struct {
	ID        string
	CompanyID string
	SessionID string
	Kind      CashMovementKind
	Amount    decimal.Decimal
	Reason    string
	Actor     string
	CreatedAt time.Time
}
