package memory

import "github.com/jhoicas/moda-retail/internal/domain/entity"

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.ModulesGranted = append([]entity.ModuleID(nil), u.ModulesGranted...)
	c.PermissionsGranted = append([]entity.PermissionID(nil), u.PermissionsGranted...)
	return &c
}

func clonePlan(p *entity.Plan) *entity.Plan {
	c := *p
	c.ModulesEnabled = append([]entity.ModuleID(nil), p.ModulesEnabled...)
	return &c
}

func cloneCardFee(f *entity.CardFee) *entity.CardFee {
	c := *f
	if f.FeePercent != nil {
		v := *f.FeePercent
		c.FeePercent = &v
	}
	return &c
}

func cloneCashSession(s *entity.CashSession) *entity.CashSession {
	c := *s
	if s.ClosedAt != nil {
		t := *s.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Items = append([]entity.SaleItem(nil), s.Items...)
	c.Payments = append([]entity.Payment(nil), s.Payments...)
	return &c
}

func cloneReceivable(r *entity.Receivable) *entity.Receivable {
	c := *r
	if r.SettledAt != nil {
		t := *r.SettledAt
		c.SettledAt = &t
	}
	return &c
}
