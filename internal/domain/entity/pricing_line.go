package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountMode modo de descuento à vista de una línea.
type DiscountMode string

const (
	DiscountStandard  DiscountMode = "standard"
	DiscountException DiscountMode = "exception"
)

// Valid informa si el modo pertenece al conjunto cerrado.
func (m DiscountMode) Valid() bool { return m == DiscountStandard || m == DiscountException }

// PricingLine línea del catálogo de precios (un SKU: item + cor + tamanho).
// Completa solo si WholesaleCost y CardPrice tienen valor.
type PricingLine struct {
	CompanyID                    string
	Code                         string // SKU
	ItemName                     string
	Color                        string
	Size                         string
	Quantity                     int
	WholesaleCost                Amount
	CardPrice                    Amount // precio base canónico del catálogo
	CashDiscountMode             DiscountMode
	CashDiscountPercentException decimal.Decimal
	Active                       bool
	CreatedAt                    time.Time
	UpdatedAt                    time.Time
}

// Complete informa si la línea tiene costo y precio.
func (l *PricingLine) Complete() bool {
	return l.WholesaleCost.IsPriced() && l.CardPrice.IsPriced()
}
