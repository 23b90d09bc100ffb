package entity

import "time"

// LicenseStatus estado propio de la licencia.
type LicenseStatus string

const (
	LicenseStatusActive  LicenseStatus = "active"
	LicenseStatusExpired LicenseStatus = "expired"
	LicenseStatusBlocked LicenseStatus = "blocked"
)

// SuspensionPolicy qué ocurre con la empresa suspendida.
type SuspensionPolicy string

const (
	SuspensionReadOnly  SuspensionPolicy = "read_only"
	SuspensionFullBlock SuspensionPolicy = "full_block"
)

// Valid informa si la política pertenece al conjunto cerrado.
func (p SuspensionPolicy) Valid() bool {
	return p == SuspensionReadOnly || p == SuspensionFullBlock
}

// License vincula una Company con un Plan durante un rango de fechas.
// Una empresa tiene como máximo una licencia activa; el historial se conserva.
type License struct {
	ID                      string
	CompanyID               string
	PlanID                  string
	StartDate               time.Time
	EndDate                 time.Time // zero = sin vencimiento
	Status                  LicenseStatus
	SuspensionPolicy        SuspensionPolicy
	WhiteLabelEnabled       bool
	WhiteLabelColorsEnabled bool // exige WhiteLabelEnabled
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Covers informa si now está dentro de [StartDate, EndDate], incluyendo el día completo de EndDate.
func (l *License) Covers(now time.Time) bool {
	if now.Before(l.StartDate) {
		return false
	}
	if l.EndDate.IsZero() {
		return true
	}
	y, m, d := l.EndDate.Date()
	endOfDay := time.Date(y, m, d, 0, 0, 0, 0, l.EndDate.Location()).AddDate(0, 0, 1)
	return now.Before(endOfDay)
}
