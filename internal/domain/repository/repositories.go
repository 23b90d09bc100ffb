// Package repository define los puertos de persistencia (DIP). Las implementaciones
// viven en infrastructure. Las lecturas devuelven (nil, nil) si no existe el registro.
package repository

import (
	"time"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

// CompanyRepository empresas (tenants) y sus lojas.
type CompanyRepository interface {
	Get(id string) (*entity.Company, error)
	List() ([]*entity.Company, error)
	Save(company *entity.Company) error
	GetStore(companyID, storeID string) (*entity.Store, error)
	ListStores(companyID string) ([]*entity.Store, error)
	SaveStore(store *entity.Store) error
}

// PlanRepository catálogo de planes (global).
type PlanRepository interface {
	Get(id string) (*entity.Plan, error)
	List() ([]*entity.Plan, error)
	Save(plan *entity.Plan) error
}

// LicenseRepository licencias con historial por empresa.
type LicenseRepository interface {
	Get(id string) (*entity.License, error)
	ListByCompany(companyID string) ([]*entity.License, error)
	Save(license *entity.License) error
}

// UserRepository usuarios de una empresa.
type UserRepository interface {
	Get(companyID, id string) (*entity.User, error)
	// FindByEmail busca en todas las empresas (login).
	FindByEmail(email string) (*entity.User, error)
	ListByCompany(companyID string) ([]*entity.User, error)
	Save(user *entity.User) error
}

// CostRepository pools de costos, parámetros de rateio e histórico de overhead.
type CostRepository interface {
	GetItem(companyID, id string) (*entity.CostItem, error)
	ListItems(companyID string) ([]*entity.CostItem, error)
	SaveItem(item *entity.CostItem) error
	GetParameters(companyID string) (*entity.CostParameters, error)
	SaveParameters(params *entity.CostParameters) error
	AppendSnapshot(snap *entity.OverheadSnapshot) error
	ListSnapshots(companyID string) ([]*entity.OverheadSnapshot, error)
}

// PricingLineRepository catálogo de precios (SKUs).
type PricingLineRepository interface {
	Get(companyID, code string) (*entity.PricingLine, error)
	List(companyID string) ([]*entity.PricingLine, error)
	Save(line *entity.PricingLine) error
}

// CardFeeRepository cronograma de tarifas de cartão.
type CardFeeRepository interface {
	List(companyID string) ([]*entity.CardFee, error)
	Save(fee *entity.CardFee) error
}

// StockRepository saldos y log de movimientos (append-only).
type StockRepository interface {
	// GetBalance devuelve el saldo o uno en cero si el SKU nunca se movió en la loja.
	GetBalance(companyID, storeID, sku string) (*entity.StockBalance, error)
	ListBalances(companyID, storeID string) ([]*entity.StockBalance, error)
	SaveBalance(balance *entity.StockBalance) error
	AppendMovement(mov *entity.StockMovement) error
	ListMovements(companyID, storeID, sku string) ([]*entity.StockMovement, error)
}

// CashSessionRepository sesiones de caja y su libro de movimientos.
type CashSessionRepository interface {
	Get(companyID, id string) (*entity.CashSession, error)
	FindOpenByStore(companyID, storeID string) (*entity.CashSession, error)
	ListByStore(companyID, storeID string) ([]*entity.CashSession, error)
	Save(session *entity.CashSession) error
	AppendMovement(mov *entity.CashMovement) error
	ListMovements(companyID, sessionID string) ([]*entity.CashMovement, error)
}

// SaleRepository ventas finalizadas.
type SaleRepository interface {
	Get(companyID, id string) (*entity.Sale, error)
	// ListByStoreSince ventas de la loja finalizadas en o después de since.
	ListByStoreSince(companyID, storeID string, since time.Time) ([]*entity.Sale, error)
	CountSince(companyID string, since time.Time) (int, error)
	Save(sale *entity.Sale) error
}

// ReceivableRepository contas a receber.
type ReceivableRepository interface {
	Get(companyID, id string) (*entity.Receivable, error)
	List(companyID string, status entity.ReceivableStatus) ([]*entity.Receivable, error)
	Save(rec *entity.Receivable) error
}

// BrandingRepository marca white-label de la empresa.
type BrandingRepository interface {
	Get(companyID string) (*entity.Branding, error)
	Save(b *entity.Branding) error
}

// AuditRepository log de auditoría (append-only).
type AuditRepository interface {
	Append(ev *entity.AuditEvent) error
	List(companyID string, limit int) ([]*entity.AuditEvent, error)
}
