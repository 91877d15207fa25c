package dto

// PacienteFilter is bound from query string of GET /api/pacientes.
type PacienteFilter struct {
	PedidoID string `form:"pedido_id"`
	Search   string `form:"search"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearPacienteRequest struct {
	PedidoID       string   `json:"pedido_id"       validate:"required,uuid"`
	DNI            string   `json:"dni"             validate:"required,min=8,max=15"`
	NombreCompleto string   `json:"nombre_completo" validate:"required"`
	Cargo          *string  `json:"cargo"`
	Area           *string  `json:"area"`
	Examenes       []string `json:"examenes" validate:"omitempty,dive,uuid"`
}

type ActualizarPacienteRequest struct {
	DNI            *string `json:"dni"             validate:"omitempty,min=8,max=15"`
	NombreCompleto *string `json:"nombre_completo"`
	Cargo          *string `json:"cargo"`
	Area           *string `json:"area"`
	// Examenes, when present, replaces the assigned set wholesale.
	Examenes []string `json:"examenes" validate:"omitempty,dive,uuid"`
}

// MarcarExamenRequest — Completado false removes the completion mark.
type MarcarExamenRequest struct {
	ExamenID   string `json:"examen_id" validate:"required,uuid"`
	Completado *bool  `json:"completado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PacienteResponse struct {
	ID                  string   `json:"id"`
	PedidoID            string   `json:"pedido_id"`
	NumeroPedido        string   `json:"numero_pedido,omitempty"`
	DNI                 string   `json:"dni"`
	NombreCompleto      string   `json:"nombre_completo"`
	Cargo               *string  `json:"cargo"`
	Area                *string  `json:"area"`
	ExamenesAsignados   []string `json:"examenes_asignados"`
	ExamenesCompletados []string `json:"examenes_completados"`
}

type PacienteListResponse struct {
	Pacientes []PacienteResponse `json:"pacientes"`
}
