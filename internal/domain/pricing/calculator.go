package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Calculator precio por forma de pago a partir del cardPrice de la línea.
type Calculator struct {
	DefaultCashDiscountPercent decimal.Decimal
	Fees                       FeeSchedule
}

// NewCalculator arma el calculador con los parámetros y tarifas de la empresa.
func NewCalculator(params entity.CostParameters, fees []*entity.CardFee) Calculator {
	return Calculator{
		DefaultCashDiscountPercent: params.DefaultCashDiscountPercent,
		Fees:                       NewFeeSchedule(fees),
	}
}

// DiscountPercent descuento à vista aplicable a la línea.
func (c Calculator) DiscountPercent(line *entity.PricingLine) decimal.Decimal {
	if line.CashDiscountMode == entity.DiscountException {
		return line.CashDiscountPercentException
	}
	return c.DefaultCashDiscountPercent
}

// Price precio unitario de la línea para la selección de pago.
// Dinheiro, PIX y débito aplican el descuento à vista; crédito aplica el recargo del tramo;
// cualquier otra forma cae en la fórmula estándar de dinheiro.
func (c Calculator) Price(line *entity.PricingLine, sel entity.Selection) (decimal.Decimal, error) {
	card, ok := line.CardPrice.Value()
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnpricedLine, line.Code)
	}
	switch sel.Method {
	case entity.PaymentCash, entity.PaymentPix, entity.PaymentDebitCard:
		return discounted(card, c.DiscountPercent(line)), nil
	case entity.PaymentCreditCard:
		if err := ValidateInstallments(sel.Installments); err != nil {
			return decimal.Zero, err
		}
		fee := c.Fees.Percent(sel.Network, FeeTypeForInstallments(sel.Installments))
		return card.Mul(decimal.NewFromInt(1).Add(fee.Div(hundred))), nil
	default:
		return discounted(card, c.DefaultCashDiscountPercent), nil
	}
}

// CashPrice columna "preço à vista" del catálogo.
func (c Calculator) CashPrice(line *entity.PricingLine) (decimal.Decimal, error) {
	return c.Price(line, entity.Selection{Method: entity.PaymentCash})
}

func discounted(card, percent decimal.Decimal) decimal.Decimal {
	return card.Mul(decimal.NewFromInt(1).Sub(percent.Div(hundred)))
}
