package entity

import "time"

// Event notificación publicada después del commit de una mutación.
type Event struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Kind      string    `json:"kind"` // ej: "cash_session.closed", "stock.negative"
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	At        time.Time `json:"at"`
}
