package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies the authenticated user a service call acts on behalf of.
type Actor struct {
	ID     uuid.UUID
	Rol    string
	Nombre string
}

// ─── Filter / scope ──────────────────────────────────────────────────────────

// PedidoFilter is bound from query string of GET /api/pedidos.
type PedidoFilter struct {
	Estado     string `form:"estado"`
	EmpresaID  string `form:"empresa_id"`
	VendedorID string `form:"vendedor_id"`
	UserID     string `form:"user_id"`
	Page       int    `form:"page,default=1"  validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// PedidoScope is the role-based visibility predicate, resolved once per
// request by the service: vendedores see their own or unassigned orders,
// clientes only orders of companies they are linked to.
type PedidoScope struct {
	Rol        string
	UsuarioID  uuid.UUID
	EmpresaIDs []uuid.UUID
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ExamenPedidoRequest struct {
	ExamenID string `json:"examen_id" validate:"required,uuid"`
	Cantidad int    `json:"cantidad"  validate:"min=0"`
}

// EmpleadoRequest carries one roster entry. Examenes lists exam ids to assign;
// when omitted on roster upload, every exam of the order is assigned.
type EmpleadoRequest struct {
	DNI            string   `json:"dni"             validate:"required"`
	NombreCompleto string   `json:"nombre_completo" validate:"required"`
	Cargo          *string  `json:"cargo"`
	Area           *string  `json:"area"`
	Examenes       []string `json:"examenes" validate:"omitempty,dive,uuid"`
}

type CrearPedidoRequest struct {
	EmpresaID        string                `json:"empresa_id" validate:"required,uuid"`
	SedeID           string                `json:"sede_id"    validate:"required,uuid"`
	ClienteUsuarioID *string               `json:"cliente_usuario_id" validate:"omitempty,uuid"`
	Observaciones    *string               `json:"observaciones"`
	CondicionesPago  *string               `json:"condiciones_pago"`
	FechaVencimiento *string               `json:"fecha_vencimiento" validate:"omitempty,datetime=2006-01-02"`
	Examenes         []ExamenPedidoRequest `json:"examenes"  validate:"omitempty,dive"`
	Empleados        []EmpleadoRequest     `json:"empleados" validate:"omitempty,dive"`
	// TotalEmpleados seeds the headcount when the roster is not known yet.
	TotalEmpleados *int `json:"total_empleados" validate:"omitempty,min=0"`
}

type AgregarExamenRequest struct {
	ExamenID string `json:"examen_id" validate:"required,uuid"`
	Cantidad int    `json:"cantidad"  validate:"min=0"`
}

type ActualizarEstadoPedidoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

type CargarEmpleadosRequest struct {
	Empleados []EmpleadoRequest `json:"empleados" validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoResponse struct {
	ID                    string  `json:"id"`
	NumeroPedido          string  `json:"numero_pedido"`
	EmpresaID             string  `json:"empresa_id"`
	EmpresaNombre         string  `json:"empresa_nombre,omitempty"`
	EmpresaRUC            *string `json:"empresa_ruc,omitempty"`
	SedeID                string  `json:"sede_id"`
	SedeNombre            string  `json:"sede_nombre,omitempty"`
	VendedorID            *string `json:"vendedor_id"`
	VendedorNombre        *string `json:"vendedor_nombre,omitempty"`
	ClienteUsuarioID      *string `json:"cliente_usuario_id"`
	Estado                string  `json:"estado"`
	TotalEmpleados        int     `json:"total_empleados"`
	CotizacionPrincipalID *string `json:"cotizacion_principal_id"`
	FacturaID             *string `json:"factura_id"`
	Observaciones         *string `json:"observaciones"`
	CondicionesPago       *string `json:"condiciones_pago"`
	FechaVencimiento      *string `json:"fecha_vencimiento"`
	CreatedAt             string  `json:"created_at"`
	// Estados de las cotizaciones del pedido, principal primero.
	Cotizaciones []string `json:"cotizaciones_estados,omitempty"`
}

type PedidoListResponse struct {
	Pedidos []PedidoResponse `json:"pedidos"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}

type PedidoExamenResponse struct {
	ExamenID     string          `json:"examen_id"`
	ExamenNombre string          `json:"examen_nombre"`
	Cantidad     int             `json:"cantidad"`
	PrecioBase   decimal.Decimal `json:"precio_base"`
}

type CotizacionResumen struct {
	ID               string          `json:"id"`
	NumeroCotizacion string          `json:"numero_cotizacion"`
	Estado           string          `json:"estado"`
	EsComplementaria bool            `json:"es_complementaria"`
	Total            decimal.Decimal `json:"total"`
	MensajeRechazo   *string         `json:"mensaje_rechazo"`
}

type PacienteResumen struct {
	ID                  string  `json:"id"`
	DNI                 string  `json:"dni"`
	NombreCompleto      string  `json:"nombre_completo"`
	Cargo               *string `json:"cargo"`
	Area                *string `json:"area"`
	TotalExamenes       int     `json:"total_examenes"`
	ExamenesCompletados int     `json:"examenes_completados"`
}

type HistorialEventoResponse struct {
	ID            string  `json:"id"`
	CotizacionID  *string `json:"cotizacion_id"`
	TipoEvento    string  `json:"tipo_evento"`
	Descripcion   string  `json:"descripcion"`
	UsuarioNombre *string `json:"usuario_nombre"`
	ValorAnterior *string `json:"valor_anterior"`
	ValorNuevo    *string `json:"valor_nuevo"`
	Atendidos     *int    `json:"atendidos"`
	CreatedAt     string  `json:"created_at"`
}

type PedidoDetalleResponse struct {
	PedidoResponse
	Examenes  []PedidoExamenResponse    `json:"examenes"`
	Detalle   []CotizacionResumen       `json:"cotizaciones"`
	Factura   *FacturaResponse          `json:"factura"`
	Pacientes []PacienteResumen         `json:"pacientes"`
	Historial []HistorialEventoResponse `json:"historial"`
}

// ─── Per-order exam tracking reports ─────────────────────────────────────────

type ExamenPacienteDetalle struct {
	ExamenID        string  `json:"examen_id"`
	Nombre          string  `json:"nombre"`
	Completado      bool    `json:"completado"`
	FechaCompletado *string `json:"fecha_completado"`
}

type PacienteExamenesDetalle struct {
	ID                  string                  `json:"id"`
	DNI                 string                  `json:"dni"`
	NombreCompleto      string                  `json:"nombre_completo"`
	Cargo               *string                 `json:"cargo"`
	Area                *string                 `json:"area"`
	Examenes            []ExamenPacienteDetalle `json:"examenes"`
	ExamenesCompletados int                     `json:"examenes_completados"`
	ExamenesTotal       int                     `json:"examenes_total"`
}

type PacientesExamenesResponse struct {
	NumeroPedido string                    `json:"numero_pedido"`
	Pacientes    []PacienteExamenesDetalle `json:"pacientes"`
	Resumen      ResumenExamenes           `json:"resumen"`
}

type ResumenExamenes struct {
	TotalPacientes           int `json:"total_pacientes"`
	TotalExamenesAsignados   int `json:"total_examenes_asignados"`
	TotalExamenesCompletados int `json:"total_examenes_completados"`
}

type PacienteCompletadoResponse struct {
	ID                  string  `json:"id"`
	DNI                 string  `json:"dni"`
	NombreCompleto      string  `json:"nombre_completo"`
	Cargo               *string `json:"cargo"`
	Area                *string `json:"area"`
	ExamenesAsignados   int     `json:"examenes_asignados"`
	ExamenesCompletados int     `json:"examenes_completados"`
}

type PacientesCompletadosResponse struct {
	NumeroPedido         string                       `json:"numero_pedido"`
	PacientesCompletados []PacienteCompletadoResponse `json:"pacientes_completados"`
	Total                int                          `json:"total"`
}
