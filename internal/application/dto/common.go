package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageRequest límite de entradas en listados (?limit=).
type PageRequest struct {
	Limit int `query:"limit"`
}

// DefaultPage ajusta Limit al rango [1, 100]; cero usa 20.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = defaultPageLimit
	case p.Limit > maxPageLimit:
		p.Limit = maxPageLimit
	}
}

// ErrorResponse cuerpo de error HTTP: code estable para el frontend, message legible.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
