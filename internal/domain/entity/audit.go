package entity

import (
	"encoding/json"
	"time"
)

// Acciones de auditoría más usadas.
const (
	AuditAccessDenied = "access_denied"
)

// AuditEvent evento de auditoría con motivo legible.
type AuditEvent struct {
	ID        string
	CompanyID string
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Before    json.RawMessage
	After     json.RawMessage
	Reason    string
	Timestamp time.Time
}
