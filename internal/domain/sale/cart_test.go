package sale_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/sale"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func pct(s string) *decimal.Decimal { v := d(s); return &v }

func calculator() pricing.Calculator {
	return pricing.NewCalculator(
		entity.CostParameters{DefaultCashDiscountPercent: d("10")},
		[]*entity.CardFee{
			{Network: "visa", FeeType: entity.FeeCredit, FeePercent: pct("3")},
			{Network: "visa", FeeType: entity.FeeInstallments2to6, FeePercent: pct("4.5")},
		},
	)
}

func pline(code, card string) *entity.PricingLine {
	return &entity.PricingLine{Code: code, ItemName: code, CardPrice: entity.Priced(d(card)), CashDiscountMode: entity.DiscountStandard, Active: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carrito
// ──────────────────────────────────────────────────────────────────────────────

func TestCart_SelectionRepricesEveryLine(t *testing.T) {
	cart, err := sale.NewCart(calculator(), entity.Selection{Method: entity.PaymentCash})
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(pline("A", "200"), 1))
	require.NoError(t, cart.AddItem(pline("B", "100"), 2))
	assert.True(t, d("360").Equal(cart.Total()), "180 + 2*90")

	require.NoError(t, cart.SetSelection(entity.Selection{Method: entity.PaymentCreditCard, Network: "visa", Installments: 3}))
	items := cart.Items()
	require.Len(t, items, 2)
	assert.True(t, d("209").Equal(items[0].UnitPrice))
	assert.True(t, d("104.5").Equal(items[1].UnitPrice))
	assert.True(t, d("418").Equal(cart.Total()))

	require.NoError(t, cart.SetSelection(entity.Selection{Method: entity.PaymentCreditCard, Network: "visa", Installments: 1}))
	assert.True(t, d("412").Equal(cart.Total()))
}

func TestCart_InvalidSelectionKeepsState(t *testing.T) {
	cart, err := sale.NewCart(calculator(), entity.Selection{Method: entity.PaymentPix})
	require.NoError(t, err)
	require.NoError(t, cart.AddItem(pline("A", "200"), 1))

	err = cart.SetSelection(entity.Selection{Method: entity.PaymentCreditCard, Network: "visa", Installments: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.PaymentPix, cart.Selection().Method)
	assert.True(t, d("180").Equal(cart.Total()))
}

func TestCart_AddItemGuards(t *testing.T) {
	cart, err := sale.NewCart(calculator(), entity.Selection{Method: entity.PaymentCash})
	require.NoError(t, err)

	unpriced := pline("X", "1")
	unpriced.CardPrice = entity.Unpriced()
	assert.ErrorIs(t, cart.AddItem(unpriced, 1), domain.ErrUnpricedLine)
	assert.ErrorIs(t, cart.AddItem(pline("A", "10"), 0), domain.ErrInvalidInput)

	inactive := pline("B", "10")
	inactive.Active = false
	assert.ErrorIs(t, cart.AddItem(inactive, 1), domain.ErrInvalidInput)
	assert.True(t, cart.Empty())

	require.NoError(t, cart.AddItem(pline("A", "10"), 1))
	require.NoError(t, cart.AddItem(pline("A", "10"), 2))
	assert.Equal(t, 3, cart.Items()[0].Quantity)

	require.NoError(t, cart.SetQuantity("A", 0))
	assert.True(t, cart.Empty())
	assert.ErrorIs(t, cart.SetQuantity("A", 1), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos y crediário
// ──────────────────────────────────────────────────────────────────────────────

func TestResolvePayments(t *testing.T) {
	sel := entity.Selection{Method: entity.PaymentPix}

	got, err := sale.ResolvePayments(sel, d("90"), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.PaymentPix, got[0].Method)

	split := []entity.Payment{{Method: entity.PaymentCash, Amount: d("50")}, {Method: entity.PaymentDebitCard, Amount: d("40")}}
	_, err = sale.ResolvePayments(sel, d("90"), split)
	assert.NoError(t, err)

	_, err = sale.ResolvePayments(sel, d("91"), split)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = sale.ResolvePayments(sel, d("0"), []entity.Payment{{Method: entity.PaymentCash, Amount: d("0")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSplitInstallments_LastAbsorbsRounding(t *testing.T) {
	parts := sale.SplitInstallments(d("100"), 3)
	require.Len(t, parts, 3)
	assert.True(t, d("33.33").Equal(parts[0]))
	assert.True(t, d("33.33").Equal(parts[1]))
	assert.True(t, d("33.34").Equal(parts[2]))
}

func TestReceivables_OnePerInstallment(t *testing.T) {
	at := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)
	s := &entity.Sale{
		ID: "sale-1", CompanyID: "c-1", StoreID: "s-1", CustomerName: "Ana",
		Payments:    []entity.Payment{{Method: entity.PaymentCash, Amount: d("40")}, {Method: entity.PaymentStoreCredit, Amount: d("120")}},
		FinalizedAt: at,
	}
	n := 0
	recs := sale.Receivables(s, 3, func() string { n++; return string(rune('a' + n)) })

	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, i+1, r.InstallmentNumber)
		assert.Equal(t, entity.ReceivableOpen, r.Status)
		assert.True(t, d("40").Equal(r.Amount))
	}
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), recs[0].DueDate)
	assert.Equal(t, time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), recs[2].DueDate)

	s.Payments = s.Payments[:1]
	assert.Empty(t, sale.Receivables(s, 3, func() string { return "x" }))
}

func TestReceivables_MonthEndDueDates(t *testing.T) {
	s := &entity.Sale{
		ID: "sale-2", CompanyID: "c-1", StoreID: "s-1",
		Payments:    []entity.Payment{{Method: entity.PaymentStoreCredit, Amount: d("90")}},
		FinalizedAt: time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC),
	}
	recs := sale.Receivables(s, 3, func() string { return "r" })

	require.Len(t, recs, 3)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), recs[0].DueDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), recs[1].DueDate)
	assert.Equal(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), recs[2].DueDate)
}
