package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// LineAnalysis fila de la vista de catálogo. Los campos calculados quedan Unpriced
// cuando la línea está incompleta.
type LineAnalysis struct {
	Line      *entity.PricingLine
	Complete  bool
	Overhead  decimal.Decimal
	TotalCost entity.Amount
	Margin    entity.Amount // %
	CashPrice entity.Amount
}

// Margin = (card - totalCost) / card * 100; 0 con card en cero.
func Margin(cardPrice, totalCost decimal.Decimal) decimal.Decimal {
	if cardPrice.IsZero() {
		return decimal.Zero
	}
	return cardPrice.Sub(totalCost).Div(cardPrice).Mul(hundred)
}

// Analyze calcula costo total, margen y precio à vista de una línea.
func Analyze(line *entity.PricingLine, overhead decimal.Decimal, calc Calculator) LineAnalysis {
	a := LineAnalysis{Line: line, Overhead: overhead, Complete: line.Complete()}
	if cash, err := calc.CashPrice(line); err == nil {
		a.CashPrice = entity.Priced(cash)
	}
	if !a.Complete {
		return a
	}
	wholesale, _ := line.WholesaleCost.Value()
	card, _ := line.CardPrice.Value()
	total := wholesale.Add(overhead)
	a.TotalCost = entity.Priced(total)
	a.Margin = entity.Priced(Margin(card, total))
	return a
}

// Summary totales del catálogo sobre las líneas completas.
type Summary struct {
	Lines          int
	CompleteLines  int
	StockCostValue decimal.Decimal // Σ qty * totalCost
	StockCardValue decimal.Decimal // Σ qty * cardPrice
	AverageMargin  decimal.Decimal
}

// Summarize agrega el análisis de catálogo.
func Summarize(rows []LineAnalysis) Summary {
	s := Summary{Lines: len(rows)}
	marginSum := decimal.Zero
	for _, r := range rows {
		if !r.Complete {
			continue
		}
		s.CompleteLines++
		qty := decimal.NewFromInt(int64(r.Line.Quantity))
		s.StockCostValue = s.StockCostValue.Add(qty.Mul(r.TotalCost.Or(decimal.Zero)))
		s.StockCardValue = s.StockCardValue.Add(qty.Mul(r.Line.CardPrice.Or(decimal.Zero)))
		marginSum = marginSum.Add(r.Margin.Or(decimal.Zero))
	}
	if s.CompleteLines > 0 {
		s.AverageMargin = marginSum.Div(decimal.NewFromInt(int64(s.CompleteLines)))
	}
	return s
}
