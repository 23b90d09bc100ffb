package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanRequest alta o edición de un plan (admin global).
type PlanRequest struct {
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	ModulesEnabled   []string        `json:"modules_enabled"`
	MaxUsers         int             `json:"max_users"`
	MaxStores        int             `json:"max_stores"`
	MaxSKUs          int             `json:"max_skus"`
	MaxSalesPerMonth int             `json:"max_sales_per_month"`
	MonthlyPrice     decimal.Decimal `json:"monthly_price"`
}

// PlanResponse salida de un plan.
type PlanResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	ModulesEnabled   []string        `json:"modules_enabled"`
	MaxUsers         int             `json:"max_users"`
	MaxStores        int             `json:"max_stores"`
	MaxSKUs          int             `json:"max_skus"`
	MaxSalesPerMonth int             `json:"max_sales_per_month"`
	MonthlyPrice     decimal.Decimal `json:"monthly_price"`
}

// IssueLicenseRequest emisión de licencia; expira la activa anterior.
type IssueLicenseRequest struct {
	CompanyID               string    `json:"company_id" validate:"required"`
	PlanID                  string    `json:"plan_id" validate:"required"`
	StartDate               time.Time `json:"start_date"`
	EndDate                 time.Time `json:"end_date"`
	SuspensionPolicy        string    `json:"suspension_policy" validate:"omitempty,oneof=read_only full_block"`
	WhiteLabelEnabled       bool      `json:"white_label_enabled"`
	WhiteLabelColorsEnabled bool      `json:"white_label_colors_enabled"`
}

// WhiteLabelRequest cambio de flags white-label.
type WhiteLabelRequest struct {
	Enabled       bool `json:"enabled"`
	ColorsEnabled bool `json:"colors_enabled"`
}

// LicenseResponse salida de una licencia.
type LicenseResponse struct {
	ID                      string    `json:"id"`
	CompanyID               string    `json:"company_id"`
	PlanID                  string    `json:"plan_id"`
	StartDate               time.Time `json:"start_date"`
	EndDate                 time.Time `json:"end_date"`
	Status                  string    `json:"status"`
	SuspensionPolicy        string    `json:"suspension_policy"`
	WhiteLabelEnabled       bool      `json:"white_label_enabled"`
	WhiteLabelColorsEnabled bool      `json:"white_label_colors_enabled"`
}

// EntitlementResponse lo que la UI necesita para mostrar u ocultar módulos.
type EntitlementResponse struct {
	CompanyID               string   `json:"company_id"`
	LicensedModules         []string `json:"licensed_modules"`
	VisibleModules          []string `json:"visible_modules"`
	Permissions             []string `json:"permissions"`
	WhiteLabelEnabled       bool     `json:"white_label_enabled"`
	WhiteLabelColorsEnabled bool     `json:"white_label_colors_enabled"`
	ReadOnly                bool     `json:"read_only"`
}
