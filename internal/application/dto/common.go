package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Fields solo en validación; RemainingDays solo
// cuando la licencia de la empresa no es válida.
type ErrorResponse struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	Fields        []string `json:"fields,omitempty"`
	RemainingDays *int     `json:"remaining_days,omitempty"`
}

// MessageResponse respuesta genérica sin datos.
type MessageResponse struct {
	Message string `json:"message"`
}
