// Package analytics contiene el resumen de ventas del Dashboard.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	apppricing "github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

const dashboardTopSKUs = 5 // número de SKUs en el widget del dashboard

var viewDashboard = permission.ForModule(entity.ModuleDashboard)

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *DashboardUseCase {
	return &DashboardUseCase{tx: tx, authz: az, c: c}
}

type skuTotals struct {
	name    string
	qty     int
	revenue decimal.Decimal
}

// GetSummary resumen de la loja indicada; storeID vacío suma todas las lojas
// (un empleado siempre ve solo la suya).
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor, storeID string) (*dto.DashboardSummary, error) {
	now := uc.c.Clock()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &dto.DashboardSummary{
		StoreID:         storeID,
		ByPaymentMethod: map[string]decimal.Decimal{},
		TopSKUs:         []dto.TopSKU{},
		DateLabel:       monthLabel(now),
	}
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, viewDashboard, storeID)
		if err != nil {
			return err
		}
		if storeID == "" && !acc.User.IsAdmin() {
			storeID = acc.User.StoreID
			out.StoreID = storeID
		}
		stores, err := uc.storeIDs(r, actor.CompanyID, storeID)
		if err != nil {
			return err
		}

		// Costo unitario vigente por SKU.
		st, err := apppricing.LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		lines, err := r.Pricing.List(actor.CompanyID)
		if err != nil {
			return err
		}
		calc, overhead := st.Calculator(), st.Overhead()
		unitCost := make(map[string]decimal.Decimal, len(lines))
		for _, l := range lines {
			if tc, ok := pricing.Analyze(l, overhead, calc).TotalCost.Value(); ok {
				unitCost[l.Code] = tc
			}
		}

		todayCost, monthCost := decimal.Zero, decimal.Zero
		skus := map[string]*skuTotals{}
		for _, id := range stores {
			sales, err := r.Sales.ListByStoreSince(actor.CompanyID, id, monthStart)
			if err != nil {
				return fmt.Errorf("dashboard: ventas de %s: %w", id, err)
			}
			for _, s := range sales {
				cost := decimal.Zero
				for _, it := range s.Items {
					cost = cost.Add(unitCost[it.Code].Mul(decimal.NewFromInt(int64(it.Quantity))))
					t := skus[it.Code]
					if t == nil {
						t = &skuTotals{name: it.ItemName, revenue: decimal.Zero}
						skus[it.Code] = t
					}
					t.qty += it.Quantity
					t.revenue = t.revenue.Add(it.LineTotal)
				}
				for _, p := range s.Payments {
					m := string(p.Method)
					out.ByPaymentMethod[m] = out.ByPaymentMethod[m].Add(p.Amount)
				}
				out.SalesCount++
				out.MonthlySales = out.MonthlySales.Add(s.Total)
				monthCost = monthCost.Add(cost)
				if !s.FinalizedAt.Before(todayStart) {
					out.TodaySales = out.TodaySales.Add(s.Total)
					todayCost = todayCost.Add(cost)
				}
			}
		}

		recs, err := r.Receivables.List(actor.CompanyID, entity.ReceivableOpen)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if storeID == "" || rec.StoreID == storeID {
				out.OpenReceivables = out.OpenReceivables.Add(rec.Amount)
			}
		}

		// ── Calcular márgenes ──────────────────────────────────────────────────
		out.TodayMargin = out.TodaySales.Sub(todayCost).Round(2)
		out.MonthlyMargin = out.MonthlySales.Sub(monthCost).Round(2)
		out.TodaySales = out.TodaySales.Round(2)
		out.MonthlySales = out.MonthlySales.Round(2)
		out.TopSKUs = topSKUs(skus, dashboardTopSKUs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DashboardUseCase) storeIDs(r repository.Repos, companyID, storeID string) ([]string, error) {
	if storeID != "" {
		s, err := r.Companies.GetStore(companyID, storeID)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, storeID)
		}
		return []string{storeID}, nil
	}
	stores, err := r.Companies.ListStores(companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(stores))
	for _, s := range stores {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// topSKUs ordena por cantidad, luego facturación y código.
func topSKUs(m map[string]*skuTotals, n int) []dto.TopSKU {
	out := make([]dto.TopSKU, 0, len(m))
	for code, t := range m {
		out = append(out, dto.TopSKU{SKU: code, ItemName: t.name, Quantity: t.qty, Revenue: t.revenue.Round(2)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].SKU < out[j].SKU
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Maio 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
