// Package pricing implementa el cálculo de overhead, margen y precio por forma de pago.
// Mismas funciones para la vista de catálogo y para el PDV.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Pools totales de los gastos activos por tipo.
type Pools struct {
	Fixed    decimal.Decimal
	Variable decimal.Decimal
}

// Total suma de ambos pools.
func (p Pools) Total() decimal.Decimal { return p.Fixed.Add(p.Variable) }

// SumPools suma solo los gastos activos; los desactivados quedan fuera del rateio.
func SumPools(items []*entity.CostItem) Pools {
	var p Pools
	for _, it := range items {
		if it == nil || !it.Active {
			continue
		}
		switch it.Kind {
		case entity.CostKindFixed:
			p.Fixed = p.Fixed.Add(it.Amount)
		case entity.CostKindVariable:
			p.Variable = p.Variable.Add(it.Amount)
		}
	}
	return p
}

// UnitOverhead = (fijos + variables) / unidades. Con unidades <= 0 devuelve 0.
func UnitOverhead(pools Pools, totalUnits decimal.Decimal) decimal.Decimal {
	if totalUnits.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return pools.Total().Div(totalUnits)
}

// Snapshot arma el registro inmutable del overhead vigente.
func Snapshot(companyID string, items []*entity.CostItem, params entity.CostParameters) entity.OverheadSnapshot {
	pools := SumPools(items)
	return entity.OverheadSnapshot{
		CompanyID:     companyID,
		FixedTotal:    pools.Fixed,
		VariableTotal: pools.Variable,
		TotalUnits:    params.TotalStockUnitsForAllocation,
		Overhead:      UnitOverhead(pools, params.TotalStockUnitsForAllocation),
	}
}
