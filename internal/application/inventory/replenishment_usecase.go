package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/dto"
	apppricing "github.com/jhoicas/moda-retail/internal/application/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/pricing"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

// DefaultReorderPoint punto de reposición cuando el llamador no indica uno.
const DefaultReorderPoint = 3

// GenerateReplenishmentList devuelve los SKUs activos de la loja cuyo disponible más lo que
// está en tránsito no supera el punto de reposición, con la cantidad sugerida de pedido
// (hasta 1,5x el punto) y prioridad por margen y luego por déficit.
func (uc *RegisterMovementUseCase) GenerateReplenishmentList(ctx context.Context, actor entity.Actor, storeID string, reorderPoint int) ([]dto.ReplenishmentSuggestion, error) {
	if reorderPoint <= 0 {
		reorderPoint = DefaultReorderPoint
	}
	ideal := reorderPoint + (reorderPoint+1)/2
	var suggestions []dto.ReplenishmentSuggestion
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, permission.ForModule(entity.ModuleEstoque), storeID); err != nil {
			return err
		}
		st, err := apppricing.LoadState(r, actor.CompanyID)
		if err != nil {
			return err
		}
		lines, err := r.Pricing.List(actor.CompanyID)
		if err != nil {
			return err
		}
		calc, overhead := st.Calculator(), st.Overhead()
		for _, line := range lines {
			if !line.Active {
				continue
			}
			b, err := r.Stock.GetBalance(actor.CompanyID, storeID, line.Code)
			if err != nil {
				return err
			}
			onHand := b.Available + b.InTransit
			if onHand > reorderPoint {
				continue
			}
			a := pricing.Analyze(line, overhead, calc)
			s := dto.ReplenishmentSuggestion{
				SKU:               line.Code,
				ItemName:          line.ItemName,
				Available:         b.Available,
				InTransit:         b.InTransit,
				ReorderPoint:      reorderPoint,
				SuggestedOrderQty: ideal - onHand,
				UnitCost:          a.TotalCost.Ptr(),
				MarginPercent:     a.Margin.Ptr(),
			}
			if cost, ok := a.TotalCost.Value(); ok {
				est := cost.Mul(decimal.NewFromInt(int64(s.SuggestedOrderQty))).Round(2)
				s.EstimatedOrderCost = &est
			}
			suggestions = append(suggestions, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Primero mayor margen (sin margen al final), luego mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.MarginPercent == nil) != (b.MarginPercent == nil) {
			return a.MarginPercent != nil
		}
		if a.MarginPercent != nil && !a.MarginPercent.Equal(*b.MarginPercent) {
			return a.MarginPercent.GreaterThan(*b.MarginPercent)
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	if suggestions == nil {
		suggestions = []dto.ReplenishmentSuggestion{}
	}
	return suggestions, nil
}
