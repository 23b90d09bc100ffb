package dto

import "github.com/shopspring/decimal"

// TopSKU SKU más vendido del mes.
type TopSKU struct {
	SKU      string          `json:"sku"`
	ItemName string          `json:"item_name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// DashboardSummary resumen del día y del mes en curso.
// El margen usa el costo total vigente (atacado + overhead); líneas sin costo no descuentan.
type DashboardSummary struct {
	StoreID         string                     `json:"store_id,omitempty"`
	TodaySales      decimal.Decimal            `json:"today_sales"`
	TodayMargin     decimal.Decimal            `json:"today_margin"`
	MonthlySales    decimal.Decimal            `json:"monthly_sales"`
	MonthlyMargin   decimal.Decimal            `json:"monthly_margin"`
	SalesCount      int                        `json:"sales_count"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
	OpenReceivables decimal.Decimal            `json:"open_receivables"`
	TopSKUs         []TopSKU                   `json:"top_skus"`
	DateLabel       string                     `json:"date_label"`
}
