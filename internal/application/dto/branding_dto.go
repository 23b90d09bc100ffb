package dto

// BrandingRequest edición de la marca white-label.
type BrandingRequest struct {
	DisplayName    string `json:"display_name"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// BrandingResponse marca efectiva (plataforma o white-label).
type BrandingResponse struct {
	DisplayName    string `json:"display_name"`
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	WhiteLabel     bool   `json:"white_label"`
}
