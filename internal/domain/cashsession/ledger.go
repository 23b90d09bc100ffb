// Package cashsession contiene la aritmética del libro de caja: apertura,
// suprimento, sangria y cierre con cálculo de divergencia.
package cashsession

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// DivergenceTolerance diferencia considerada cero al clasificar el cierre.
var DivergenceTolerance = decimal.New(1, -2)

// DivergenceStatus clasificación del cierre.
type DivergenceStatus string

const (
	DivergenceOK      DivergenceStatus = "ok"
	DivergenceSurplus DivergenceStatus = "sobra"
	DivergenceShort   DivergenceStatus = "falta"
)

// Open crea la sesión abierta. La unicidad por loja la verifica quien llama.
func Open(id, companyID, storeID string, openingAmount decimal.Decimal, actor string, at time.Time) (*entity.CashSession, error) {
	if storeID == "" {
		return nil, fmt.Errorf("%w: loja requerida", domain.ErrInvalidInput)
	}
	if openingAmount.IsNegative() {
		return nil, fmt.Errorf("%w: valor de abertura negativo", domain.ErrInvalidInput)
	}
	return &entity.CashSession{
		ID:            id,
		CompanyID:     companyID,
		StoreID:       storeID,
		Status:        entity.CashSessionOpen,
		OpeningAmount: openingAmount,
		OpenedAt:      at,
		OpenedBy:      actor,
	}, nil
}

func guard(s *entity.CashSession, amount decimal.Decimal) error {
	if s == nil {
		return domain.ErrNotFound
	}
	if !s.IsOpen() {
		return domain.ErrCashSessionClosed
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: monto debe ser > 0", domain.ErrInvalidInput)
	}
	return nil
}

// CashIn registra un suprimento.
func CashIn(s *entity.CashSession, amount decimal.Decimal) error {
	if err := guard(s, amount); err != nil {
		return err
	}
	s.CashIn = s.CashIn.Add(amount)
	return nil
}

// CashOut registra una sangria.
func CashOut(s *entity.CashSession, amount decimal.Decimal) error {
	if err := guard(s, amount); err != nil {
		return err
	}
	s.CashOut = s.CashOut.Add(amount)
	return nil
}

// CashSalesSince suma dinheiro + pix de las ventas de la loja finalizadas desde openedAt (inclusive).
func CashSalesSince(sales []*entity.Sale, storeID string, openedAt time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, sl := range sales {
		if sl == nil || sl.StoreID != storeID || sl.Status != entity.SaleStatusFinalized {
			continue
		}
		if sl.FinalizedAt.Before(openedAt) {
			continue
		}
		total = total.Add(sl.CashLikeTotal())
	}
	return total
}

// ExpectedCash = abertura + vendas à vista - sangrias + suprimentos.
func ExpectedCash(s *entity.CashSession, cashSales decimal.Decimal) decimal.Decimal {
	return s.OpeningAmount.Add(cashSales).Sub(s.CashOut).Add(s.CashIn)
}

// Close cierra la sesión con el valor contado. Después de esto la sesión es inmutable.
func Close(s *entity.CashSession, counted, cashSales decimal.Decimal, actor string, at time.Time) error {
	if s == nil {
		return domain.ErrNotFound
	}
	if !s.IsOpen() {
		return domain.ErrCashSessionClosed
	}
	if counted.IsNegative() {
		return fmt.Errorf("%w: valor contado negativo", domain.ErrInvalidInput)
	}
	s.CashSales = cashSales
	s.ExpectedCash = ExpectedCash(s, cashSales)
	s.ClosingAmount = counted
	s.Divergence = counted.Sub(s.ExpectedCash)
	s.Status = entity.CashSessionClosed
	s.ClosedAt = &at
	s.ClosedBy = actor
	return nil
}

// Classify clasifica la divergencia del cierre.
func Classify(divergence decimal.Decimal) DivergenceStatus {
	switch {
	case divergence.Abs().LessThanOrEqual(DivergenceTolerance):
		return DivergenceOK
	case divergence.IsPositive():
		return DivergenceSurplus
	default:
		return DivergenceShort
	}
}
