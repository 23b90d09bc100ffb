package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementEntry      MovementType = "entry"      // entrada
	MovementExit       MovementType = "exit"       // salida (venta o baja)
	MovementAdjustment MovementType = "adjustment" // ajuste con delta firmado
	MovementTransfer   MovementType = "transfer"   // traslado entre lojas
)

// Valid informa si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementAdjustment, MovementTransfer:
		return true
	}
	return false
}

// StockBucket columna del saldo afectada por el movimiento.
type StockBucket string

const (
	BucketAvailable StockBucket = "available"
	BucketInTransit StockBucket = "in_transit"
)

// StockMovement registro inmutable (append-only) de un cambio de saldo.
type StockMovement struct {
	ID            string
	CompanyID     string
	StoreID       string
	SKU           string
	Type          MovementType
	Bucket        StockBucket
	Quantity      int // firmado: positivo suma, negativo resta
	BalanceBefore int
	BalanceAfter  int
	Reason        string
	Reference     string // venta, traslado, nota de ajuste, etc.
	Actor         string
	Timestamp     time.Time
}
