// Package money formatea valores monetarios para exibição. El cálculo interno usa
// decimal con precisión completa; el redondeo a 2 dígitos ocurre solo aquí.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Round2 redondeo de exibição (half-up, 2 dígitos).
func Round2(v decimal.Decimal) decimal.Decimal { return v.Round(2) }

// Format "R$ 1.234,56".
func Format(v decimal.Decimal) string {
	r := Round2(v)
	f, _ := r.Float64()
	if r.IsNegative() {
		return printer.Sprintf("-R$ %.2f", -f)
	}
	return printer.Sprintf("R$ %.2f", f)
}

// Percent "35,0%".
func Percent(v decimal.Decimal) string {
	f, _ := v.Round(1).Float64()
	return printer.Sprintf("%.1f%%", f)
}
