package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostKind tipo de pool de costos.
type CostKind string

const (
	CostKindFixed    CostKind = "fixed"
	CostKindVariable CostKind = "variable"
)

// Valid informa si el tipo pertenece al conjunto cerrado.
func (k CostKind) Valid() bool { return k == CostKindFixed || k == CostKindVariable }

// CostItem gasto fijo o variable de la empresa. Nunca se elimina: se desactiva (auditoría).
type CostItem struct {
	ID          string
	CompanyID   string
	Kind        CostKind
	Description string
	Amount      decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CostParameters parámetros de rateio de la empresa.
// TotalStockUnitsForAllocation <= 0 deja el overhead en cero (empresa sin configurar).
type CostParameters struct {
	CompanyID                    string
	TotalStockUnitsForAllocation decimal.Decimal
	DefaultCashDiscountPercent   decimal.Decimal
	UpdatedAt                    time.Time
}

// OverheadSnapshot registro histórico inmutable del overhead unitario.
// Se toma cada vez que cambian los pools de costos o los parámetros.
type OverheadSnapshot struct {
	ID            string
	CompanyID     string
	FixedTotal    decimal.Decimal
	VariableTotal decimal.Decimal
	TotalUnits    decimal.Decimal
	Overhead      decimal.Decimal
	Reason        string
	Actor         string
	TakenAt       time.Time
}
