package dto

import (
	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// ToUserResponse mapea un usuario sin exponer el hash.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	out := &UserResponse{
		ID:                 u.ID,
		CompanyID:          u.CompanyID,
		StoreID:            u.StoreID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               string(u.Role),
		Status:             string(u.Status),
		ModulesGranted:     make([]string, 0, len(u.ModulesGranted)),
		PermissionsGranted: make([]string, 0, len(u.PermissionsGranted)),
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	for _, m := range u.ModulesGranted {
		out.ModulesGranted = append(out.ModulesGranted, string(m))
	}
	for _, p := range u.PermissionsGranted {
		out.PermissionsGranted = append(out.PermissionsGranted, string(p))
	}
	return out
}

// ToCompanyResponse mapea empresa y lojas.
func ToCompanyResponse(c *entity.Company, stores []*entity.Store) *CompanyResponse {
	if c == nil {
		return nil
	}
	out := &CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, s := range stores {
		out.Stores = append(out.Stores, StoreResponse{ID: s.ID, Name: s.Name, Address: s.Address, Active: s.Active})
	}
	return out
}

// ToPlanResponse mapea un plan.
func ToPlanResponse(p *entity.Plan) *PlanResponse {
	if p == nil {
		return nil
	}
	out := &PlanResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		ModulesEnabled:   make([]string, 0, len(p.ModulesEnabled)),
		MaxUsers:         p.MaxUsers,
		MaxStores:        p.MaxStores,
		MaxSKUs:          p.MaxSKUs,
		MaxSalesPerMonth: p.MaxSalesPerMonth,
		MonthlyPrice:     p.MonthlyPrice,
	}
	for _, m := range p.ModulesEnabled {
		out.ModulesEnabled = append(out.ModulesEnabled, string(m))
	}
	return out
}

// ToLicenseResponse mapea una licencia.
func ToLicenseResponse(l *entity.License) *LicenseResponse {
	if l == nil {
		return nil
	}
	return &LicenseResponse{
		ID:                      l.ID,
		CompanyID:               l.CompanyID,
		PlanID:                  l.PlanID,
		StartDate:               l.StartDate,
		EndDate:                 l.EndDate,
		Status:                  string(l.Status),
		SuspensionPolicy:        string(l.SuspensionPolicy),
		WhiteLabelEnabled:       l.WhiteLabelEnabled,
		WhiteLabelColorsEnabled: l.WhiteLabelColorsEnabled,
	}
}

// ToReceivableResponse mapea una parcela.
func ToReceivableResponse(r *entity.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ID:                r.ID,
		SaleID:            r.SaleID,
		StoreID:           r.StoreID,
		CustomerName:      r.CustomerName,
		InstallmentNumber: r.InstallmentNumber,
		Installments:      r.Installments,
		Amount:            r.Amount,
		DueDate:           r.DueDate,
		Status:            string(r.Status),
		SettledAt:         r.SettledAt,
	}
}

// ToSaleResponse mapea una venta y sus parcelas.
func ToSaleResponse(s *entity.Sale, recs []*entity.Receivable) *SaleResponse {
	if s == nil {
		return nil
	}
	out := &SaleResponse{
		ID:           s.ID,
		StoreID:      s.StoreID,
		CustomerName: s.CustomerName,
		Method:       string(s.Selection.Method),
		Network:      string(s.Selection.Network),
		Installments: s.Selection.Installments,
		Total:        s.Total,
		FinalizedAt:  s.FinalizedAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			Code: it.Code, ItemName: it.ItemName, Quantity: it.Quantity, UnitPrice: it.UnitPrice, LineTotal: it.LineTotal,
		})
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, PaymentRequest{Method: string(p.Method), Amount: p.Amount})
	}
	for _, r := range recs {
		out.Receivables = append(out.Receivables, ToReceivableResponse(r))
	}
	return out
}

// ToCashSessionResponse mapea una sesión de caja.
func ToCashSessionResponse(s *entity.CashSession, divergenceStatus string) *CashSessionResponse {
	if s == nil {
		return nil
	}
	return &CashSessionResponse{
		ID:               s.ID,
		StoreID:          s.StoreID,
		Status:           string(s.Status),
		OpeningAmount:    s.OpeningAmount,
		CashIn:           s.CashIn,
		CashOut:          s.CashOut,
		CashSales:        s.CashSales,
		ExpectedCash:     s.ExpectedCash,
		ClosingAmount:    s.ClosingAmount,
		Divergence:       s.Divergence,
		DivergenceStatus: divergenceStatus,
		OpenedAt:         s.OpenedAt,
		OpenedBy:         s.OpenedBy,
		ClosedAt:         s.ClosedAt,
		ClosedBy:         s.ClosedBy,
	}
}

// ToBalanceResponse mapea un saldo.
func ToBalanceResponse(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		StoreID:   b.StoreID,
		SKU:       b.SKU,
		Available: b.Available,
		Reserved:  b.Reserved,
		InTransit: b.InTransit,
		Negative:  b.Available < 0,
	}
}
