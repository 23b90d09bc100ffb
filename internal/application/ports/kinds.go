package ports

// Tipos de registro de la cola de persistencia. Coinciden con la columna kind de entity_snapshots.
const (
	KindCompany        = "company"
	KindStore          = "store"
	KindPlan           = "plan"
	KindLicense        = "license"
	KindUser           = "user"
	KindCostItem       = "cost_item"
	KindCostParameters = "cost_parameters"
	KindSnapshot       = "overhead_snapshot"
	KindPricingLine    = "pricing_line"
	KindCardFee        = "card_fee"
	KindStockBalance   = "stock_balance"
	KindStockMovement  = "stock_movement"
	KindCashSession    = "cash_session"
	KindCashMovement   = "cash_movement"
	KindSale           = "sale"
	KindReceivable     = "receivable"
	KindBranding       = "branding"
	KindAudit          = "audit"
)
