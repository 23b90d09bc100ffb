package dto

import "github.com/shopspring/decimal"

// RegisterMovementRequest body para POST /api/inventory/movements.
// Operation: entry | exit | adjustment | transfer. Quantity firmada solo en ajustes.
type RegisterMovementRequest struct {
	Operation string `json:"operation" validate:"required,oneof=entry exit adjustment transfer"`
	StoreID   string `json:"store_id" validate:"required"`
	ToStoreID string `json:"to_store_id,omitempty"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
}

// ReceiveTransferRequest body para POST /api/inventory/transfers/receive.
type ReceiveTransferRequest struct {
	StoreID   string `json:"store_id" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int    `json:"quantity"`
	Reference string `json:"reference,omitempty"`
}

// BalanceResponse saldo resultante de un SKU en una loja.
type BalanceResponse struct {
	StoreID   string `json:"store_id"`
	SKU       string `json:"sku"`
	Available int    `json:"available"`
	Reserved  int    `json:"reserved"`
	InTransit int    `json:"in_transit"`
	Negative  bool   `json:"negative,omitempty"`
}

// ReplenishmentSuggestion SKU de la loja bajo el punto de reposición.
type ReplenishmentSuggestion struct {
	SKU                string           `json:"sku"`
	ItemName           string           `json:"item_name"`
	Available          int              `json:"available"`
	InTransit          int              `json:"in_transit"`
	ReorderPoint       int              `json:"reorder_point"`
	SuggestedOrderQty  int              `json:"suggested_order_qty"`
	UnitCost           *decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost *decimal.Decimal `json:"estimated_order_cost"`
	MarginPercent      *decimal.Decimal `json:"margin_percent"`
	Priority           int              `json:"priority"`
}
