package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivableStatus estado de una cuenta a cobrar.
type ReceivableStatus string

const (
	ReceivableOpen    ReceivableStatus = "open"
	ReceivableSettled ReceivableStatus = "settled"
)

// Receivable parcela de crediário generada por una venta.
type Receivable struct {
	ID                string
	CompanyID         string
	StoreID           string
	SaleID            string
	CustomerName      string
	InstallmentNumber int
	Installments      int
	Amount            decimal.Decimal
	DueDate           time.Time
	Status            ReceivableStatus
	SettledAt         *time.Time
	SettledBy         string
	CreatedAt         time.Time
}
