package entity

import "time"

// Role rol de un usuario dentro de la empresa.
type Role string

const (
	RoleCompanyAdmin Role = "company_admin"
	RoleEmployee     Role = "employee"
	// RoleGlobalAdmin no pertenece a ninguna empresa: administra planes, empresas y licencias.
	RoleGlobalAdmin Role = "global_admin"
)

// Valid informa si el rol es uno de los roles de empresa.
func (r Role) Valid() bool {
	return r == RoleCompanyAdmin || r == RoleEmployee
}

// UserStatus estado del usuario.
type UserStatus string

const (
	UserStatusActive     UserStatus = "active"
	UserStatusSuspended  UserStatus = "suspended"
	UserStatusTerminated UserStatus = "terminated"
)

// Valid informa si el estado pertenece al conjunto cerrado.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusTerminated:
		return true
	}
	return false
}

// User representa un usuario del sistema (pertenece a una Company).
// StoreID es obligatorio para empleados; vacío en un admin significa "todas las lojas".
type User struct {
	ID                 string
	CompanyID          string
	StoreID            string
	Email              string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Name               string
	Role               Role
	Status             UserStatus
	ModulesGranted     []ModuleID
	PermissionsGranted []PermissionID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAdmin informa si el usuario es company_admin.
func (u *User) IsAdmin() bool { return u.Role == RoleCompanyAdmin }

// IsActive informa si el usuario puede operar.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// HasModuleGrant informa si el módulo fue concedido al usuario.
func (u *User) HasModuleGrant(m ModuleID) bool {
	for _, g := range u.ModulesGranted {
		if g == m {
			return true
		}
	}
	return false
}

// HasPermissionGrant informa si el permiso fue concedido al usuario.
func (u *User) HasPermissionGrant(p PermissionID) bool {
	for _, g := range u.PermissionsGranted {
		if g == p {
			return true
		}
	}
	return false
}

// CanActOnStore: los admins sin loja fija operan todas; el resto solo la propia.
func (u *User) CanActOnStore(storeID string) bool {
	if storeID == "" {
		return true
	}
	if u.IsAdmin() && u.StoreID == "" {
		return true
	}
	return u.StoreID == storeID
}

// Actor contexto de sesión que entrega el colaborador de autenticación (JWT).
type Actor struct {
	UserID    string
	CompanyID string
	Role      Role
}

// Name identifica al actor en auditoría.
func (a Actor) Name() string {
	if a.UserID == "" {
		return "system"
	}
	return a.UserID
}
