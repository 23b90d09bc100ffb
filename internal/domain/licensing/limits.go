package licensing

import (
	"fmt"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// LimitKind límite numérico del plan.
type LimitKind string

const (
	LimitUsers         LimitKind = "users"
	LimitStores        LimitKind = "stores"
	LimitSKUs          LimitKind = "skus"
	LimitSalesPerMonth LimitKind = "sales_per_month"
)

// Max devuelve el límite configurado (0 = ilimitado).
func Max(plan *entity.Plan, kind LimitKind) int {
	if plan == nil {
		return 0
	}
	switch kind {
	case LimitUsers:
		return plan.MaxUsers
	case LimitStores:
		return plan.MaxStores
	case LimitSKUs:
		return plan.MaxSKUs
	case LimitSalesPerMonth:
		return plan.MaxSalesPerMonth
	}
	return 0
}

// CheckLimit devuelve ErrPlanLimitReached si agregar uno más supera el límite.
// Sin plan no hay límite que aplicar: la licencia ya bloquea los módulos.
func CheckLimit(plan *entity.Plan, kind LimitKind, current int) error {
	limit := Max(plan, kind)
	if limit > 0 && current >= limit {
		return fmt.Errorf("%w: %s (%d/%d)", domain.ErrPlanLimitReached, kind, current, limit)
	}
	return nil
}
