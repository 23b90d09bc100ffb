// Package sale arma el carrito del PDV con repricing en vivo y valida los pagos.
package sale

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/pricing"
)

// Tolerance diferencia máxima aceptada entre pagos y total.
var Tolerance = decimal.New(1, -2)

type cartLine struct {
	line *entity.PricingLine
	qty  int
	unit decimal.Decimal
}

// Cart carrito del PDV. La selección de pago es global: cambiarla reprecia todas las líneas.
type Cart struct {
	calc  pricing.Calculator
	sel   entity.Selection
	lines []*cartLine
}

// ValidateSelection valida parcelas para crédito y crediário.
func ValidateSelection(sel entity.Selection) error {
	switch sel.Method {
	case entity.PaymentCreditCard, entity.PaymentStoreCredit:
		return pricing.ValidateInstallments(sel.Installments)
	}
	return nil
}

// NewCart crea un carrito vacío con la selección inicial.
func NewCart(calc pricing.Calculator, sel entity.Selection) (*Cart, error) {
	if err := ValidateSelection(sel); err != nil {
		return nil, err
	}
	return &Cart{calc: calc, sel: sel}, nil
}

// Selection selección vigente.
func (c *Cart) Selection() entity.Selection { return c.sel }

// AddItem agrega qty unidades; si el código ya está, suma la cantidad.
// Líneas inactivas o sin cardPrice se rechazan.
func (c *Cart) AddItem(line *entity.PricingLine, qty int) error {
	if line == nil {
		return fmt.Errorf("%w: línea nula", domain.ErrInvalidInput)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad debe ser > 0", domain.ErrInvalidInput)
	}
	if !line.Active {
		return fmt.Errorf("%w: línea %s inactiva", domain.ErrInvalidInput, line.Code)
	}
	if cl := c.find(line.Code); cl != nil {
		cl.qty += qty
		return nil
	}
	unit, err := c.calc.Price(line, c.sel)
	if err != nil {
		return err
	}
	c.lines = append(c.lines, &cartLine{line: line, qty: qty, unit: unit})
	return nil
}

// SetQuantity cambia la cantidad; 0 elimina la línea.
func (c *Cart) SetQuantity(code string, qty int) error {
	if qty < 0 {
		return fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	for i, cl := range c.lines {
		if cl.line.Code != code {
			continue
		}
		if qty == 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			cl.qty = qty
		}
		return nil
	}
	return fmt.Errorf("%w: %s no está en el carrito", domain.ErrNotFound, code)
}

// SetSelection cambia forma de pago, bandeira o parcelas y reprecia todas las líneas.
// Si alguna falla, el carrito queda como estaba.
func (c *Cart) SetSelection(sel entity.Selection) error {
	if err := ValidateSelection(sel); err != nil {
		return err
	}
	prices := make([]decimal.Decimal, len(c.lines))
	for i, cl := range c.lines {
		p, err := c.calc.Price(cl.line, sel)
		if err != nil {
			return err
		}
		prices[i] = p
	}
	for i, cl := range c.lines {
		cl.unit = prices[i]
	}
	c.sel = sel
	return nil
}

// Items líneas de la venta con precio vigente.
func (c *Cart) Items() []entity.SaleItem {
	out := make([]entity.SaleItem, 0, len(c.lines))
	for _, cl := range c.lines {
		out = append(out, entity.SaleItem{
			Code:      cl.line.Code,
			ItemName:  cl.line.ItemName,
			Quantity:  cl.qty,
			UnitPrice: cl.unit,
			LineTotal: cl.unit.Mul(decimal.NewFromInt(int64(cl.qty))),
		})
	}
	return out
}

// Total suma de las líneas.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items() {
		total = total.Add(it.LineTotal)
	}
	return total
}

// Empty informa si no hay líneas.
func (c *Cart) Empty() bool { return len(c.lines) == 0 }

func (c *Cart) find(code string) *cartLine {
	for _, cl := range c.lines {
		if cl.line.Code == code {
			return cl
		}
	}
	return nil
}
