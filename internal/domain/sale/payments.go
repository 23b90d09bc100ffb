package sale

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// ResolvePayments valida el pago dividido contra el total. Sin pagos se asume
// un único pago por el total con la forma seleccionada.
func ResolvePayments(sel entity.Selection, total decimal.Decimal, payments []entity.Payment) ([]entity.Payment, error) {
	if len(payments) == 0 {
		return []entity.Payment{{Method: sel.Method, Amount: total}}, nil
	}
	sum := decimal.Zero
	for _, p := range payments {
		if p.Method == "" {
			return nil, fmt.Errorf("%w: forma de pago vacía", domain.ErrInvalidInput)
		}
		if !p.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: monto de pago debe ser > 0", domain.ErrInvalidInput)
		}
		sum = sum.Add(p.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(Tolerance) {
		return nil, fmt.Errorf("%w: pagos %s no cubren el total %s", domain.ErrInvalidInput, sum.StringFixed(2), total.StringFixed(2))
	}
	return payments, nil
}

// StoreCreditAmount parte del pago en crediário.
func StoreCreditAmount(payments []entity.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Method == entity.PaymentStoreCredit {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// SplitInstallments divide el monto en n parcelas de centavos; la última absorbe el redondeo.
func SplitInstallments(amount decimal.Decimal, n int) []decimal.Decimal {
	if n < 1 {
		n = 1
	}
	each := amount.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	out := make([]decimal.Decimal, n)
	acc := decimal.Zero
	for i := 0; i < n-1; i++ {
		out[i] = each
		acc = acc.Add(each)
	}
	out[n-1] = amount.Sub(acc)
	return out
}

// Receivables genera una cuenta a cobrar por parcela, con vencimiento mensual desde la venta.
func Receivables(s *entity.Sale, installments int, newID func() string) []*entity.Receivable {
	amount := StoreCreditAmount(s.Payments)
	if !amount.IsPositive() {
		return nil
	}
	parts := SplitInstallments(amount, installments)
	out := make([]*entity.Receivable, 0, len(parts))
	for i, part := range parts {
		out = append(out, &entity.Receivable{
			ID:                newID(),
			CompanyID:         s.CompanyID,
			StoreID:           s.StoreID,
			SaleID:            s.ID,
			CustomerName:      s.CustomerName,
			InstallmentNumber: i + 1,
			Installments:      len(parts),
			Amount:            part,
			DueDate:           dueDate(s.FinalizedAt, i+1),
			Status:            entity.ReceivableOpen,
			CreatedAt:         s.FinalizedAt,
		})
	}
	return out
}

// dueDate mismo día del mes, limitado al último día del mes destino (31/01 ⇒ 28/02).
func dueDate(from time.Time, months int) time.Time {
	y, m, d := from.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, from.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
