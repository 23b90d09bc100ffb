package repository

import "context"

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Companies   CompanyRepository
	Plans       PlanRepository
	Licenses    LicenseRepository
	Users       UserRepository
	Costs       CostRepository
	Pricing     PricingLineRepository
	CardFees    CardFeeRepository
	Stock       StockRepository
	Cash        CashSessionRepository
	Sales       SaleRepository
	Receivables ReceivableRepository
	Branding    BrandingRepository
	Audit       AuditRepository
}

// PlatformScope clave del runner para operaciones globales (planes, alta de empresas).
const PlatformScope = ""

// TxRunner ejecuta fn de forma atómica y serializada por empresa: dos llamadas con el
// mismo companyID nunca se intercalan. Si fn devuelve error no se aplica ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, companyID string, fn func(r Repos) error) error
}

// RunCrossTenant corre fn en la transacción de companyID sosteniendo antes el lock de
// PlatformScope, para reglas que miran a todos los tenants (email único de usuario).
// Orden fijo de locks: plataforma y luego empresa.
func RunCrossTenant(ctx context.Context, tx TxRunner, companyID string, fn func(r Repos) error) error {
	if companyID == PlatformScope {
		return tx.Run(ctx, PlatformScope, fn)
	}
	return tx.Run(ctx, PlatformScope, func(Repos) error {
		return tx.Run(ctx, companyID, fn)
	})
}
