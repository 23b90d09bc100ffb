package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// MaxInstallments tope de parcelas en cartão de crédito.
const MaxInstallments = 12

// FeeTypeForInstallments tramo de tarifa por cantidad de parcelas:
// <=1 crédito a la vista, 2..6 y 7..12.
func FeeTypeForInstallments(installments int) entity.FeeType {
	switch {
	case installments <= 1:
		return entity.FeeCredit
	case installments <= 6:
		return entity.FeeInstallments2to6
	default:
		return entity.FeeInstallments7to12
	}
}

// ValidateInstallments exige 1..12 parcelas.
func ValidateInstallments(installments int) error {
	if installments < 1 || installments > MaxInstallments {
		return fmt.Errorf("%w: parcelas fuera de rango (%d)", domain.ErrInvalidInput, installments)
	}
	return nil
}

type feeKey struct {
	network entity.CardNetwork
	feeType entity.FeeType
}

// FeeSchedule cronograma de tarifas por (bandeira, tramo).
type FeeSchedule struct {
	fees map[feeKey]*decimal.Decimal
}

// NormalizeNetwork unifica mayúsculas y espacios de la bandeira.
func NormalizeNetwork(n entity.CardNetwork) entity.CardNetwork {
	return entity.CardNetwork(strings.ToLower(strings.TrimSpace(string(n))))
}

// NewFeeSchedule indexa las filas de tarifa. Filas con tramo inválido se ignoran.
func NewFeeSchedule(rows []*entity.CardFee) FeeSchedule {
	s := FeeSchedule{fees: make(map[feeKey]*decimal.Decimal, len(rows))}
	for _, r := range rows {
		if r == nil || !r.FeeType.Valid() {
			continue
		}
		s.fees[feeKey{NormalizeNetwork(r.Network), r.FeeType}] = r.FeePercent
	}
	return s
}

// Percent tarifa en %; entrada ausente o nula vale 0 (sin recargo).
func (s FeeSchedule) Percent(network entity.CardNetwork, feeType entity.FeeType) decimal.Decimal {
	p := s.fees[feeKey{NormalizeNetwork(network), feeType}]
	if p == nil {
		return decimal.Zero
	}
	return *p
}
