package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=company_admin employee"`
	StoreID  string `json:"store_id"`
}

// SetModulesRequest reemplaza los módulos concedidos.
type SetModulesRequest struct {
	Modules []string `json:"modules"`
}

// GrantPermissionRequest concede un permiso.
type GrantPermissionRequest struct {
	Permission string `json:"permission" validate:"required"`
}

// SetUserStatusRequest suspende o reactiva un usuario.
type SetUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended terminated"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"company_id"`
	StoreID            string    `json:"store_id,omitempty"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	Status             string    `json:"status"`
	ModulesGranted     []string  `json:"modules_granted"`
	PermissionsGranted []string  `json:"permissions_granted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
