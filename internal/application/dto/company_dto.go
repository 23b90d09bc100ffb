package dto

import (
	"encoding/json"
	"time"
)

// CreateCompanyRequest alta de un tenant por el admin global: empresa, primera loja y su company_admin.
type CreateCompanyRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	Document      string `json:"document" validate:"required,min=1,max=20"` // CNPJ
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	StoreName     string `json:"store_name" validate:"required"`
	AdminName     string `json:"admin_name" validate:"required"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	AdminPassword string `json:"admin_password" validate:"required,min=8"`
}

// SetCompanyStatusRequest cambio de estado del tenant.
type SetCompanyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended terminated"`
}

// CreateStoreRequest nueva loja de la empresa.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Document  string          `json:"document"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Status    string          `json:"status"`
	Stores    []StoreResponse `json:"stores,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StoreResponse salida de una loja.
type StoreResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}

// AuditEventResponse entrada del log de auditoría.
type AuditEventResponse struct {
	ID        string          `json:"id"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entity_id"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
