package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/domain/cashsession"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

func TestGenerateCashReport(t *testing.T) {
	opened := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	closed := opened.Add(9 * time.Hour)
	s := &entity.CashSession{
		ID: "sess-0001", StoreID: "s-1", Status: entity.CashSessionClosed,
		OpeningAmount: decimal.NewFromInt(200), CashSales: decimal.NewFromInt(80), CashOut: decimal.NewFromInt(20),
		ExpectedCash: decimal.NewFromInt(260), ClosingAmount: decimal.NewFromInt(260),
		OpenedAt: opened, OpenedBy: "ana@bela.com", ClosedAt: &closed, ClosedBy: "ana@bela.com",
	}
	rep := cash.Report{
		Company:    &entity.Company{Name: "Moda Bela"},
		Store:      &entity.Store{Name: "Centro"},
		Brand:      dto.BrandingResponse{DisplayName: "Bela", PrimaryColor: "#AA3366"},
		Session:    s,
		Divergence: cashsession.DivergenceOK,
		Movements: []*entity.CashMovement{
			{Kind: entity.CashMovementOpening, Amount: decimal.NewFromInt(200), Actor: "ana@bela.com", CreatedAt: opened},
			{Kind: entity.CashMovementOut, Amount: decimal.NewFromInt(20), Reason: "depósito", Actor: "ana@bela.com", CreatedAt: opened.Add(time.Hour)},
		},
		Sales: []*entity.Sale{
			{ID: "venda-000000001", Total: decimal.NewFromInt(50), FinalizedAt: opened.Add(2 * time.Hour),
				Payments: []entity.Payment{{Method: entity.PaymentCash, Amount: decimal.NewFromInt(50)}}},
		},
	}

	b, err := NewCashReportGenerator().GenerateCashReport(context.Background(), rep)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))

	_, err = NewCashReportGenerator().GenerateCashReport(context.Background(), cash.Report{})
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	c := parseHexColor("#AA3366", defaultPrimary)
	assert.Equal(t, 0xAA, c.Red)
	assert.Equal(t, 0x33, c.Green)
	assert.Equal(t, 0x66, c.Blue)
	assert.Same(t, defaultPrimary, parseHexColor("azul", defaultPrimary))
	assert.Same(t, defaultPrimary, parseHexColor("#GG0000", defaultPrimary))
}
