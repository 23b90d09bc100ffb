package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago en el PDV.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "dinheiro"
	PaymentPix         PaymentMethod = "pix"
	PaymentDebitCard   PaymentMethod = "cartao_debito"
	PaymentCreditCard  PaymentMethod = "cartao_credito"
	PaymentStoreCredit PaymentMethod = "crediario" // genera contas a receber
)

// Valid informa si la forma de pago pertenece al conjunto cerrado.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPix, PaymentDebitCard, PaymentCreditCard, PaymentStoreCredit:
		return true
	}
	return false
}

// CashLike: dinero que entra físicamente o equivalente (cuenta en el cierre de caja).
func (m PaymentMethod) CashLike() bool { return m == PaymentCash || m == PaymentPix }

// CardNetwork bandeira del cartão (visa, mastercard, elo...).
type CardNetwork string

// FeeType tramo de tarifa del cartão.
type FeeType string

const (
	FeeCredit            FeeType = "credit"
	FeeDebit             FeeType = "debit"
	FeeInstallments2to6  FeeType = "installments_2_6"
	FeeInstallments7to12 FeeType = "installments_7_12"
)

// Valid informa si el tramo pertenece al conjunto cerrado.
func (t FeeType) Valid() bool {
	switch t {
	case FeeCredit, FeeDebit, FeeInstallments2to6, FeeInstallments7to12:
		return true
	}
	return false
}

// CardFee entrada del cronograma de tarifas. FeePercent nil = "no aplica" (distinto de 0%).
type CardFee struct {
	CompanyID  string
	Network    CardNetwork
	FeeType    FeeType
	FeePercent *decimal.Decimal
	UpdatedAt  time.Time
}
