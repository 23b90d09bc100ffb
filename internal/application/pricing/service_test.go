package pricing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/apptest"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var ctx = context.Background()

var d = apptest.D

func setup(t *testing.T) (*apptest.Fixture, *pricing.Service) {
	f := apptest.New(t)
	return f, pricing.NewService(f.Store, f.Authz, f.C)
}

func line(wholesale, card string) dto.PricingLineRequest {
	return dto.PricingLineRequest{
		ItemName:      "Vestido Midi",
		Quantity:      4,
		WholesaleCost: entity.Priced(d(wholesale)),
		CardPrice:     entity.Priced(d(card)),
	}
}

// ── costos y overhead ────────────────────────────────────────────────────────

func TestScenarioA_CatalogThroughService(t *testing.T) {
	f, svc := setup(t)
	_, err := svc.AddCostItem(ctx, f.Admin, dto.CostItemRequest{Kind: "fixed", Description: "Aluguel", Amount: d("1000")})
	require.NoError(t, err)
	_, err = svc.AddCostItem(ctx, f.Admin, dto.CostItemRequest{Kind: "variable", Description: "Energia", Amount: d("500")})
	require.NoError(t, err)
	oh, err := svc.SetParameters(ctx, f.Admin, dto.CostParametersRequest{TotalStockUnitsForAllocation: d("100"), DefaultCashDiscountPercent: d("10")})
	require.NoError(t, err)
	assert.True(t, d("15").Equal(oh.Overhead))

	_, err = svc.UpsertLine(ctx, f.Admin, "VM-P-AZ", line("50", "100"))
	require.NoError(t, err)
	_, err = svc.UpsertLine(ctx, f.Admin, "VM-M-AZ", dto.PricingLineRequest{ItemName: "Sem preço", WholesaleCost: entity.Priced(d("10"))})
	require.NoError(t, err)

	cat, err := svc.ListCatalog(ctx, f.Admin)
	require.NoError(t, err)
	require.Len(t, cat.Lines, 2)
	assert.Equal(t, 1, cat.CompleteLines)

	var complete dto.CatalogLineResponse
	for _, l := range cat.Lines {
		if l.Complete {
			complete = l
		}
	}
	total, _ := complete.TotalCost.Value()
	margin, _ := complete.MarginPercent.Value()
	assert.True(t, d("65").Equal(total))
	assert.True(t, d("35").Equal(margin))
	assert.True(t, d("260").Equal(cat.StockCostValue))
	assert.Equal(t, "R$ 90,00", complete.CashPriceDisplay)

	snaps, err := svc.ListSnapshots(ctx, f.Admin)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.True(t, d("15").Equal(snaps[2].Overhead))
}

func TestDeactivateCostItem_LowersOverhead(t *testing.T) {
	f, svc := setup(t)
	_, err := svc.SetParameters(ctx, f.Admin, dto.CostParametersRequest{TotalStockUnitsForAllocation: d("10"), DefaultCashDiscountPercent: d("5")})
	require.NoError(t, err)
	item, err := svc.AddCostItem(ctx, f.Admin, dto.CostItemRequest{Kind: "fixed", Description: "Aluguel", Amount: d("100")})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateCostItem(ctx, f.Admin, item.ID))
	oh, err := svc.Overhead(ctx, f.Admin)
	require.NoError(t, err)
	assert.True(t, oh.Overhead.IsZero())

	require.ErrorIs(t, svc.DeactivateCostItem(ctx, f.Admin, item.ID), domain.ErrNotFound)
	_, err = svc.UpdateCostItem(ctx, f.Admin, item.ID, dto.CostItemRequest{Kind: "fixed", Description: "x", Amount: d("1")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCosts_PermissionChecks(t *testing.T) {
	f, svc := setup(t)
	f.Grant(t, []entity.ModuleID{entity.ModuleCustos}, entity.PermCustosVisualizar)

	_, err := svc.Overhead(ctx, f.Employee)
	require.NoError(t, err)
	_, err = svc.AddCostItem(ctx, f.Employee, dto.CostItemRequest{Kind: "fixed", Description: "x", Amount: d("1")})
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = svc.ListCatalog(ctx, f.Employee)
	require.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, 2, f.Denials())
}

// ── catálogo ─────────────────────────────────────────────────────────────────

func TestUpsertLine_SKULimitAndValidation(t *testing.T) {
	f, svc := setup(t)
	f.SetPlanLimits(t, func(p *entity.Plan) { p.MaxSKUs = 1 })

	_, err := svc.UpsertLine(ctx, f.Admin, "A", line("10", "20"))
	require.NoError(t, err)
	_, err = svc.UpsertLine(ctx, f.Admin, "A", line("11", "22"))
	require.NoError(t, err, "editar una línea existente no consume límite")
	_, err = svc.UpsertLine(ctx, f.Admin, "B", line("10", "20"))
	require.ErrorIs(t, err, domain.ErrPlanLimitReached)

	require.NoError(t, svc.DeactivateLine(ctx, f.Admin, "A"))
	_, err = svc.UpsertLine(ctx, f.Admin, "B", line("10", "20"))
	require.NoError(t, err)

	bad := line("10", "20")
	bad.CashDiscountMode = "weird"
	_, err = svc.UpsertLine(ctx, f.Admin, "C", bad)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── cotización ───────────────────────────────────────────────────────────────

func TestScenarioB_QuoteByPaymentMethod(t *testing.T) {
	f, svc := setup(t)
	_, err := svc.UpsertLine(ctx, f.Admin, "SAIA", line("80", "200"))
	require.NoError(t, err)
	pct := d("4.5")
	_, err = svc.UpsertCardFee(ctx, f.Admin, dto.CardFeeRequest{Network: "VISA", FeeType: "installments_2_6", FeePercent: &pct})
	require.NoError(t, err)

	cash, err := svc.Quote(ctx, f.Admin, dto.QuoteRequest{Code: "SAIA", Selection: dto.SelectionRequest{Method: "dinheiro"}})
	require.NoError(t, err)
	assert.True(t, d("180").Equal(cash.UnitPrice))

	credit, err := svc.Quote(ctx, f.Admin, dto.QuoteRequest{Code: "SAIA", Quantity: 2, Selection: dto.SelectionRequest{Method: "cartao_credito", Network: "visa", Installments: 3}})
	require.NoError(t, err)
	assert.True(t, d("209").Equal(credit.UnitPrice))
	assert.True(t, d("418").Equal(credit.Total))

	_, err = svc.Quote(ctx, f.Admin, dto.QuoteRequest{Code: "SAIA", Selection: dto.SelectionRequest{Method: "cartao_credito", Installments: 13}})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpsertLine(ctx, f.Admin, "NOVA", dto.PricingLineRequest{ItemName: "Sem preço"})
	require.NoError(t, err)
	_, err = svc.Quote(ctx, f.Admin, dto.QuoteRequest{Code: "NOVA", Selection: dto.SelectionRequest{Method: "pix"}})
	require.ErrorIs(t, err, domain.ErrUnpricedLine)
}

func TestReadOnlySuspension_CatalogStaysReadable(t *testing.T) {
	f, svc := setup(t)
	_, err := svc.UpsertLine(ctx, f.Admin, "VM-P-AZ", line("50", "100"))
	require.NoError(t, err)
	f.Mutate(t, func(r repository.Repos) error {
		c, err := r.Companies.Get(apptest.CompanyID)
		if err != nil {
			return err
		}
		c.Status = entity.CompanyStatusSuspended
		return r.Companies.Save(c)
	})

	cat, err := svc.ListCatalog(ctx, f.Admin)
	require.NoError(t, err)
	assert.Len(t, cat.Lines, 1)
	_, err = svc.Overhead(ctx, f.Admin)
	require.NoError(t, err)

	_, err = svc.UpsertLine(ctx, f.Admin, "VM-M-AZ", line("50", "100"))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
