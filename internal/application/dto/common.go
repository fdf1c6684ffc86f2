package dto

// Límites del listado de clientes.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListRequest parámetros del listado.
type ListRequest struct {
	Limit int `query:"limit"`
}

// Normalize aplica el valor por defecto y el tope.
func (r *ListRequest) Normalize() {
	if r.Limit <= 0 {
		r.Limit = DefaultListLimit
	}
	if r.Limit > MaxListLimit {
		r.Limit = MaxListLimit
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
