package entity

import "time"

// CompanyStatus estado del tenant.
type CompanyStatus string

const (
	CompanyStatusActive     CompanyStatus = "active"
	CompanyStatusSuspended  CompanyStatus = "suspended"
	CompanyStatusTerminated CompanyStatus = "terminated"
)

// Valid informa si el estado pertenece al conjunto cerrado.
func (s CompanyStatus) Valid() bool {
	switch s {
	case CompanyStatusActive, CompanyStatusSuspended, CompanyStatusTerminated:
		return true
	}
	return false
}

// Company representa una organización/tenant del sistema (tienda de ropa con una o varias lojas).
type Company struct {
	ID        string
	Name      string
	Document  string // CNPJ
	Email     string
	Phone     string
	Status    CompanyStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store representa una loja (punto de venta) de la empresa.
type Store struct {
	ID        string
	CompanyID string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
