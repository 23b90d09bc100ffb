package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan paquete comercial: módulos habilitados + límites numéricos + precio mensual.
// Lo edita únicamente el administrador global. Límite 0 = ilimitado.
type Plan struct {
	ID               string
	Name             string
	Description      string
	ModulesEnabled   []ModuleID
	MaxUsers         int
	MaxStores        int
	MaxSKUs          int
	MaxSalesPerMonth int
	MonthlyPrice     decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Modules devuelve los módulos del plan como conjunto.
func (p *Plan) Modules() ModuleSet {
	if p == nil {
		return ModuleSet{}
	}
	return NewModuleSet(p.ModulesEnabled...)
}
