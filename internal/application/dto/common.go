package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrorResponse regla de validación incumplida en un campo del request.
type FieldErrorResponse struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationErrorResponse cuerpo de error 400 con el detalle por campo.
type ValidationErrorResponse struct {
	Code    string               `json:"code"`
	Message string               `json:"message"`
	Fields  []FieldErrorResponse `json:"fields,omitempty"`
}

// StockErrorResponse cuerpo de error 409 cuando una salida supera la existencia.
type StockErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
}
