package dto

import "github.com/shopspring/decimal"

// MatrizFilter is bound from query string of GET /api/precios/matriz.
type MatrizFilter struct {
	SedeID    string `form:"sede_id" validate:"required,uuid"`
	EmpresaID string `form:"empresa_id"`
}

type BuscarExamenesFilter struct {
	SedeID string `form:"sede_id" validate:"required,uuid"`
	Q      string `form:"q"`
}

// ArticuloPrecio is one exam with its applicable price for a sede (the
// sede-specific price when present, otherwise the general price).
type ArticuloPrecio struct {
	ExamenID  string          `json:"examen_id"`
	Nombre    string          `json:"nombre_examen"`
	Categoria string          `json:"examen_principal"`
	Codigo    *string         `json:"codigo"`
	Precio    decimal.Decimal `json:"precio_aplicable"`
}

type MatrizResponse struct {
	Matriz         map[string][]ArticuloPrecio `json:"matriz"`
	TotalArticulos int                         `json:"total_articulos"`
	SedeID         string                      `json:"sede_id"`
}

type BuscarExamenesResponse struct {
	Examenes []ArticuloPrecio `json:"examenes"`
}
