package entity

import "time"

// Branding identidad visual white-label de la empresa.
type Branding struct {
	CompanyID      string
	DisplayName    string
	LogoURL        string
	PrimaryColor   string
	SecondaryColor string
	UpdatedAt      time.Time
}
