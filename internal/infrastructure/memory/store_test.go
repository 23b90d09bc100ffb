package memory_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
	"github.com/jhoicas/moda-retail/internal/infrastructure/memory"
)

var ctx = context.Background()

// ── transacciones ────────────────────────────────────────────────────────────

func TestRun_CommitsOnSuccess(t *testing.T) {
	s := memory.New()
	err := s.Run(ctx, "c-1", func(r repository.Repos) error {
		return r.Companies.Save(&entity.Company{ID: "c-1", Name: "Loja Bela", Status: entity.CompanyStatusActive})
	})
	require.NoError(t, err)

	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		c, err := r.Companies.Get("c-1")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Loja Bela", c.Name)
		return nil
	})
}

func TestRun_RollsBackOnError(t *testing.T) {
	s := memory.New()
	boom := errors.New("boom")
	err := s.Run(ctx, "c-1", func(r repository.Repos) error {
		require.NoError(t, r.Stock.SaveBalance(&entity.StockBalance{CompanyID: "c-1", StoreID: "s-1", SKU: "A", Available: 5}))
		b, _ := r.Stock.GetBalance("c-1", "s-1", "A")
		assert.Equal(t, 5, b.Available, "la transacción ve sus propias escrituras")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		b, _ := r.Stock.GetBalance("c-1", "s-1", "A")
		assert.Equal(t, 0, b.Available)
		list, _ := r.Stock.ListBalances("c-1", "s-1")
		assert.Empty(t, list)
		return nil
	})
}

func TestRun_CancelledContext(t *testing.T) {
	s := memory.New()
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	called := false
	err := s.Run(cctx, "c-1", func(repository.Repos) error { called = true; return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestRun_ConcurrentIncrementsAreNotLost(t *testing.T) {
	s := memory.New()
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
				b, err := r.Stock.GetBalance("c-1", "s-1", "A")
				if err != nil {
					return err
				}
				b.Available++
				return r.Stock.SaveBalance(b)
			})
		}()
	}
	wg.Wait()

	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		b, _ := r.Stock.GetBalance("c-1", "s-1", "A")
		assert.Equal(t, n, b.Available)
		return nil
	})
}

func TestRepos_ReturnCopies(t *testing.T) {
	s := memory.New()
	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		return r.Users.Save(&entity.User{ID: "u-1", CompanyID: "c-1", ModulesGranted: []entity.ModuleID{entity.ModulePDV}})
	})
	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		u, _ := r.Users.Get("c-1", "u-1")
		u.ModulesGranted[0] = entity.ModuleCaixa
		return nil
	})
	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		u, _ := r.Users.Get("c-1", "u-1")
		assert.Equal(t, entity.ModulePDV, u.ModulesGranted[0])
		return nil
	})
}

// ── consultas ────────────────────────────────────────────────────────────────

func TestRepos_TenantIsolationAndFilters(t *testing.T) {
	s := memory.New()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for _, c := range []string{"c-1", "c-2"} {
		c := c
		require.NoError(t, s.Run(ctx, c, func(r repository.Repos) error {
			_ = r.Pricing.Save(&entity.PricingLine{CompanyID: c, Code: "SKU-1"})
			_ = r.Sales.Save(&entity.Sale{ID: "v-1", CompanyID: c, StoreID: "s-1", FinalizedAt: now})
			return r.Cash.Save(&entity.CashSession{ID: "cs-1", CompanyID: c, StoreID: "s-1", Status: entity.CashSessionOpen})
		}))
	}

	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		lines, _ := r.Pricing.List("c-1")
		assert.Len(t, lines, 1)

		open, _ := r.Cash.FindOpenByStore("c-1", "s-1")
		require.NotNil(t, open)
		none, _ := r.Cash.FindOpenByStore("c-1", "s-2")
		assert.Nil(t, none)

		n, _ := r.Sales.CountSince("c-1", now)
		assert.Equal(t, 1, n)
		n, _ = r.Sales.CountSince("c-1", now.Add(time.Second))
		assert.Equal(t, 0, n)
		return nil
	})
}

func TestReceivables_OrderedByDueDate(t *testing.T) {
	s := memory.New()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		_ = r.Receivables.Save(&entity.Receivable{ID: "r-2", CompanyID: "c-1", DueDate: base.AddDate(0, 2, 0), Status: entity.ReceivableOpen})
		_ = r.Receivables.Save(&entity.Receivable{ID: "r-1", CompanyID: "c-1", DueDate: base.AddDate(0, 1, 0), Status: entity.ReceivableOpen})
		return r.Receivables.Save(&entity.Receivable{ID: "r-3", CompanyID: "c-1", DueDate: base, Status: entity.ReceivableSettled})
	})
	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		open, _ := r.Receivables.List("c-1", entity.ReceivableOpen)
		require.Len(t, open, 2)
		assert.Equal(t, "r-1", open[0].ID)
		all, _ := r.Receivables.List("c-1", "")
		assert.Len(t, all, 3)
		return nil
	})
}

// ── auditoría e hidratación ──────────────────────────────────────────────────

func TestRecord_SurvivesAbortedTransaction(t *testing.T) {
	s := memory.New()
	_ = s.Run(ctx, "c-1", func(repository.Repos) error {
		require.NoError(t, s.Record(ctx, entity.AuditEvent{ID: "a-1", CompanyID: "c-1", Action: entity.AuditAccessDenied}))
		return errors.New("denied")
	})
	log := s.AuditLog("c-1")
	require.Len(t, log, 1)
	assert.Equal(t, entity.AuditAccessDenied, log[0].Action)
	assert.Empty(t, s.AuditLog("c-2"))
}

func TestHydrate_LoadsPersistedRows(t *testing.T) {
	s := memory.New()
	line := entity.PricingLine{CompanyID: "c-1", Code: "SKU-1", CardPrice: entity.Priced(decimal.RequireFromString("99.90"))}
	payload, err := json.Marshal(line)
	require.NoError(t, err)

	require.NoError(t, s.Hydrate(ports.KindPricingLine, payload))
	require.Error(t, s.Hydrate("unknown", payload))

	_ = s.Run(ctx, "c-1", func(r repository.Repos) error {
		got, _ := r.Pricing.Get("c-1", "SKU-1")
		require.NotNil(t, got)
		v, ok := got.CardPrice.Value()
		assert.True(t, ok)
		assert.True(t, decimal.RequireFromString("99.90").Equal(v))
		assert.False(t, got.WholesaleCost.IsPriced())
		return nil
	})
}
