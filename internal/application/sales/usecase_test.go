package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/apptest"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/sales"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var (
	ctx = context.Background()
	d   = apptest.D
)

const sku = "VM-P-AZ"

func setup(t *testing.T) (*apptest.Fixture, *sales.UseCase) {
	f := apptest.New(t)
	fee := d("4.5")
	f.Mutate(t, func(r repository.Repos) error {
		if err := r.Pricing.Save(&entity.PricingLine{
			CompanyID: apptest.CompanyID, Code: sku, ItemName: "Vestido Midi", Active: true,
			WholesaleCost: entity.Priced(d("80")), CardPrice: entity.Priced(d("200")),
		}); err != nil {
			return err
		}
		if err := r.Pricing.Save(&entity.PricingLine{CompanyID: apptest.CompanyID, Code: "OLD", ItemName: "Fora de linha", CardPrice: entity.Priced(d("10"))}); err != nil {
			return err
		}
		if err := r.CardFees.Save(&entity.CardFee{CompanyID: apptest.CompanyID, Network: "visa", FeeType: entity.FeeInstallments2to6, FeePercent: &fee}); err != nil {
			return err
		}
		return r.Stock.SaveBalance(&entity.StockBalance{CompanyID: apptest.CompanyID, StoreID: apptest.StoreID, SKU: sku, Available: 5})
	})
	return f, sales.NewUseCase(f.Store, f.Authz, f.C)
}

func order(method string, qty int) dto.FinalizeSaleRequest {
	return dto.FinalizeSaleRequest{
		StoreID:   apptest.StoreID,
		Items:     []dto.SaleItemRequest{{Code: sku, Quantity: qty}},
		Selection: dto.SelectionRequest{Method: method},
	}
}

func available(t *testing.T, f *apptest.Fixture) int {
	var b *entity.StockBalance
	f.Mutate(t, func(r repository.Repos) error {
		var err error
		b, err = r.Stock.GetBalance(apptest.CompanyID, apptest.StoreID, sku)
		return err
	})
	return b.Available
}

// ── finalizar venta ──────────────────────────────────────────────────────────

func TestFinalizeSale_CashDecrementsStock(t *testing.T) {
	f, uc := setup(t)
	out, err := uc.FinalizeSale(ctx, f.Admin, order("dinheiro", 2))
	require.NoError(t, err)
	assert.True(t, d("360").Equal(out.Total))
	require.Len(t, out.Payments, 1)
	assert.Equal(t, "dinheiro", out.Payments[0].Method)
	assert.Equal(t, 3, available(t, f))

	var movs []*entity.StockMovement
	f.Mutate(t, func(r repository.Repos) error {
		var err error
		movs, err = r.Stock.ListMovements(apptest.CompanyID, apptest.StoreID, sku)
		return err
	})
	require.Len(t, movs, 1)
	assert.Equal(t, out.ID, movs[0].Reference)
	assert.Equal(t, entity.MovementExit, movs[0].Type)
	assert.Contains(t, f.Events.Kinds(), "sale.finalized")
	assert.Contains(t, f.Sync.Kinds(), "sale")
}

func TestFinalizeSale_CreditCardUsesFeeTier(t *testing.T) {
	f, uc := setup(t)
	req := order("cartao_credito", 1)
	req.Selection.Network = "VISA"
	req.Selection.Installments = 3
	out, err := uc.FinalizeSale(ctx, f.Admin, req)
	require.NoError(t, err)
	assert.True(t, d("209").Equal(out.Total))

	req.Selection.Installments = 13
	_, err = uc.FinalizeSale(ctx, f.Admin, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinalizeSale_SplitPaymentsMustCoverTotal(t *testing.T) {
	f, uc := setup(t)
	req := order("dinheiro", 1)
	req.Payments = []dto.PaymentRequest{{Method: "dinheiro", Amount: d("100")}, {Method: "pix", Amount: d("50")}}
	_, err := uc.FinalizeSale(ctx, f.Admin, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 5, available(t, f))
	assert.Empty(t, f.Sync.Kinds())

	req.Payments[1].Amount = d("80")
	out, err := uc.FinalizeSale(ctx, f.Admin, req)
	require.NoError(t, err)
	assert.Len(t, out.Payments, 2)
}

func TestFinalizeSale_Validation(t *testing.T) {
	f, uc := setup(t)
	_, err := uc.FinalizeSale(ctx, f.Admin, order("cheque", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req := order("dinheiro", 1)
	req.Items[0].Code = "NOPE"
	_, err = uc.FinalizeSale(ctx, f.Admin, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req.Items[0].Code = "OLD"
	_, err = uc.FinalizeSale(ctx, f.Admin, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.FinalizeSale(ctx, f.Admin, dto.FinalizeSaleRequest{StoreID: apptest.StoreID, Selection: dto.SelectionRequest{Method: "pix"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinalizeSale_MonthlyPlanLimit(t *testing.T) {
	f, uc := setup(t)
	f.SetPlanLimits(t, func(p *entity.Plan) { p.MaxSalesPerMonth = 1 })
	f.Mutate(t, func(r repository.Repos) error {
		return r.Sales.Save(&entity.Sale{ID: "old", CompanyID: apptest.CompanyID, StoreID: apptest.StoreID, Status: entity.SaleStatusFinalized, FinalizedAt: apptest.Now.AddDate(0, -1, 0)})
	})
	_, err := uc.FinalizeSale(ctx, f.Admin, order("pix", 1))
	require.NoError(t, err)
	_, err = uc.FinalizeSale(ctx, f.Admin, order("pix", 1))
	assert.ErrorIs(t, err, domain.ErrPlanLimitReached)
}

func TestFinalizeSale_EmployeeScopedToOwnStore(t *testing.T) {
	f, uc := setup(t)
	_, err := uc.FinalizeSale(ctx, f.Employee, order("pix", 1))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	f.Grant(t, []entity.ModuleID{entity.ModulePDV}, entity.PermPDVFinalizarVenda)
	_, err = uc.FinalizeSale(ctx, f.Employee, order("pix", 1))
	require.NoError(t, err)

	other := order("pix", 1)
	other.StoreID = apptest.Store2ID
	_, err = uc.FinalizeSale(ctx, f.Employee, other)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Equal(t, 2, f.Denials())
}

// ── contas a receber ─────────────────────────────────────────────────────────

func TestStoreCredit_CreatesInstallmentsAndSettles(t *testing.T) {
	f, uc := setup(t)
	req := order("crediario", 1)
	req.Selection.Installments = 3
	_, err := uc.FinalizeSale(ctx, f.Admin, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req.CustomerName = "Joana"
	out, err := uc.FinalizeSale(ctx, f.Admin, req)
	require.NoError(t, err)
	require.Len(t, out.Receivables, 3)
	assert.True(t, d("60").Equal(out.Receivables[2].Amount))
	assert.Equal(t, 6, int(out.Receivables[0].DueDate.Month()))

	open, err := uc.ListReceivables(ctx, f.Admin, "open")
	require.NoError(t, err)
	require.Len(t, open, 3)
	assert.Equal(t, 1, open[0].InstallmentNumber)

	settled, err := uc.Settle(ctx, f.Admin, open[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "settled", settled.Status)
	require.NotNil(t, settled.SettledAt)

	_, err = uc.Settle(ctx, f.Admin, open[0].ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.Settle(ctx, f.Admin, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	open, err = uc.ListReceivables(ctx, f.Admin, "open")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	_, err = uc.ListReceivables(ctx, f.Admin, "late")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceivables_EmployeeSeesOwnStore(t *testing.T) {
	f, uc := setup(t)
	f.Mutate(t, func(r repository.Repos) error {
		for _, rec := range []*entity.Receivable{
			{ID: "r-1", CompanyID: apptest.CompanyID, StoreID: apptest.StoreID, Amount: d("10"), Status: entity.ReceivableOpen, DueDate: apptest.Now},
			{ID: "r-2", CompanyID: apptest.CompanyID, StoreID: apptest.Store2ID, Amount: d("10"), Status: entity.ReceivableOpen, DueDate: apptest.Now},
		} {
			if err := r.Receivables.Save(rec); err != nil {
				return err
			}
		}
		return nil
	})
	f.Grant(t, []entity.ModuleID{entity.ModuleContasReceber}, entity.PermContasReceberVisualizar, entity.PermContasReceberBaixar)

	list, err := uc.ListReceivables(ctx, f.Employee, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r-1", list[0].ID)

	_, err = uc.Settle(ctx, f.Employee, "r-2")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = uc.Settle(ctx, f.Employee, "r-1")
	assert.NoError(t, err)
}
