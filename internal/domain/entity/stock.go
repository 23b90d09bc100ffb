package entity

import "time"

// StockBalance saldo de un SKU en una loja.
// Available puede quedar negativo por un ajuste deliberado: no se recorta, se señala.
type StockBalance struct {
	CompanyID string
	StoreID   string
	SKU       string
	Available int
	Reserved  int
	InTransit int
	UpdatedAt time.Time
}
