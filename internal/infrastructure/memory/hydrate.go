package memory

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// Hydrate carga en el store una fila persistida (arranque). Las filas se aplican
// en el orden recibido; una clave repetida reemplaza a la anterior.
func (s *Store) Hydrate(kind string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch kind {
	case ports.KindCompany:
		return load(payload, s.companies, func(v *entity.Company) string { return v.ID })
	case ports.KindStore:
		return load(payload, s.stores, func(v *entity.Store) string { return key(v.CompanyID, v.ID) })
	case ports.KindPlan:
		return load(payload, s.plans, func(v *entity.Plan) string { return v.ID })
	case ports.KindLicense:
		return load(payload, s.licenses, func(v *entity.License) string { return v.ID })
	case ports.KindUser:
		return load(payload, s.users, func(v *entity.User) string { return key(v.CompanyID, v.ID) })
	case ports.KindCostItem:
		return load(payload, s.costItems, func(v *entity.CostItem) string { return key(v.CompanyID, v.ID) })
	case ports.KindCostParameters:
		return load(payload, s.costParams, func(v *entity.CostParameters) string { return v.CompanyID })
	case ports.KindSnapshot:
		return load(payload, s.snapshots, func(v *entity.OverheadSnapshot) string { return key(v.CompanyID, v.ID) })
	case ports.KindPricingLine:
		return load(payload, s.pricingLines, func(v *entity.PricingLine) string { return key(v.CompanyID, v.Code) })
	case ports.KindCardFee:
		return load(payload, s.cardFees, func(v *entity.CardFee) string {
			return key(v.CompanyID, string(v.Network), string(v.FeeType))
		})
	case ports.KindStockBalance:
		return load(payload, s.balances, func(v *entity.StockBalance) string { return key(v.CompanyID, v.StoreID, v.SKU) })
	case ports.KindStockMovement:
		return load(payload, s.stockMovements, func(v *entity.StockMovement) string { return key(v.CompanyID, v.ID) })
	case ports.KindCashSession:
		return load(payload, s.cashSessions, func(v *entity.CashSession) string { return key(v.CompanyID, v.ID) })
	case ports.KindCashMovement:
		return load(payload, s.cashMovements, func(v *entity.CashMovement) string { return key(v.CompanyID, v.ID) })
	case ports.KindSale:
		return load(payload, s.sales, func(v *entity.Sale) string { return key(v.CompanyID, v.ID) })
	case ports.KindReceivable:
		return load(payload, s.receivables, func(v *entity.Receivable) string { return key(v.CompanyID, v.ID) })
	case ports.KindBranding:
		return load(payload, s.branding, func(v *entity.Branding) string { return v.CompanyID })
	case ports.KindAudit:
		return load(payload, s.audit, func(v *entity.AuditEvent) string { return v.ID })
	}
	return fmt.Errorf("hydrate: tipo desconocido %q", kind)
}

func load[T any](payload []byte, t *table[T], keyOf func(*T) string) error {
	v := new(T)
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}
	t.put(keyOf(v), v)
	return nil
}
