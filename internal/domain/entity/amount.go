package entity

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Amount valor monetario que puede no estar definido todavía ("sin precio").
// Reemplaza el número nullable: los consumidores deben tratar Unpriced explícitamente.
type Amount struct {
	value  decimal.Decimal
	priced bool
}

// Priced construye un monto definido.
func Priced(v decimal.Decimal) Amount { return Amount{value: v, priced: true} }

// Unpriced construye un monto sin definir.
func Unpriced() Amount { return Amount{} }

// IsPriced informa si el monto está definido.
func (a Amount) IsPriced() bool { return a.priced }

// Value devuelve el monto y si está definido.
func (a Amount) Value() (decimal.Decimal, bool) { return a.value, a.priced }

// Or devuelve el monto o def si no está definido.
func (a Amount) Or(def decimal.Decimal) decimal.Decimal {
	if !a.priced {
		return def
	}
	return a.value
}

// Ptr devuelve un puntero al valor (nil si no está definido), útil para DTOs.
func (a Amount) Ptr() *decimal.Decimal {
	if !a.priced {
		return nil
	}
	v := a.value
	return &v
}

// AmountFromPtr convierte un *decimal de un DTO en Amount.
func AmountFromPtr(v *decimal.Decimal) Amount {
	if v == nil {
		return Unpriced()
	}
	return Priced(*v)
}

// MarshalJSON serializa Unpriced como null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.priced {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON acepta null o un decimal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Unpriced()
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Priced(v)
	return nil
}
