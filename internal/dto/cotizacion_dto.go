package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CotizacionFilter is bound from query string of GET /api/cotizaciones.
type CotizacionFilter struct {
	PedidoID  string `form:"pedido_id"`
	UserID    string `form:"user_id"`
	Estado    string `form:"estado"`
	EmpresaID string `form:"empresa_id"`
}

// CotizacionScope mirrors PedidoScope for quotation visibility: vendedores see
// everything except client-authored drafts, managers only what was sent to
// them, clientes their own drafts plus non-draft seller quotations on their
// orders.
type CotizacionScope struct {
	Rol        string
	UsuarioID  uuid.UUID
	EmpresaIDs []uuid.UUID
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CotizacionItemRequest — when precio_base is omitted it defaults to
// precio_final (variación 0).
type CotizacionItemRequest struct {
	ExamenID    *string          `json:"examen_id" validate:"omitempty,uuid"`
	Nombre      string           `json:"nombre"`
	Cantidad    int              `json:"cantidad"     validate:"min=0"`
	PrecioBase  *decimal.Decimal `json:"precio_base"  validate:"omitempty"`
	PrecioFinal decimal.Decimal  `json:"precio_final" validate:"required"`
}

type CrearCotizacionRequest struct {
	PedidoID         string                  `json:"pedido_id" validate:"required,uuid"`
	CotizacionBaseID *string                 `json:"cotizacion_base_id" validate:"omitempty,uuid"`
	EsComplementaria bool                    `json:"es_complementaria"`
	CreadorTipo      string                  `json:"creador_tipo" validate:"omitempty,oneof=VENDEDOR CLIENTE"`
	Items            []CotizacionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ActualizarCotizacionRequest is the full PUT body. Every field is optional;
// items are only applied while the current status is BORRADOR.
type ActualizarCotizacionRequest struct {
	Estado                    *string                 `json:"estado"`
	SolicitudManagerPendiente *bool                   `json:"solicitud_manager_pendiente"`
	MensajeRechazo            *string                 `json:"mensaje_rechazo"`
	Items                     []CotizacionItemRequest `json:"items" validate:"omitempty,dive"`
}

type ActualizarEstadoCotizacionRequest struct {
	Estado         string  `json:"estado" validate:"required"`
	MensajeRechazo *string `json:"mensaje_rechazo"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CotizacionItemResponse struct {
	ID           string          `json:"id"`
	ExamenID     *string         `json:"examen_id"`
	ExamenNombre *string         `json:"examen_nombre,omitempty"`
	Nombre       string          `json:"nombre"`
	Cantidad     int             `json:"cantidad"`
	PrecioBase   decimal.Decimal `json:"precio_base"`
	PrecioFinal  decimal.Decimal `json:"precio_final"`
	VariacionPct decimal.Decimal `json:"variacion_pct"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

type CotizacionResponse struct {
	ID                        string          `json:"id"`
	NumeroCotizacion          string          `json:"numero_cotizacion"`
	PedidoID                  string          `json:"pedido_id"`
	NumeroPedido              string          `json:"numero_pedido,omitempty"`
	EmpresaID                 string          `json:"empresa_id,omitempty"`
	EmpresaNombre             string          `json:"empresa_nombre,omitempty"`
	CotizacionBaseID          *string         `json:"cotizacion_base_id"`
	EsComplementaria          bool            `json:"es_complementaria"`
	Estado                    string          `json:"estado"`
	CreadorTipo               string          `json:"creador_tipo"`
	CreadorID                 *string         `json:"creador_id"`
	CreadorNombre             *string         `json:"creador_nombre,omitempty"`
	Total                     decimal.Decimal `json:"total"`
	SolicitudManagerPendiente bool            `json:"solicitud_manager_pendiente"`
	MensajeRechazo            *string         `json:"mensaje_rechazo"`
	FechaEnvio                *string         `json:"fecha_envio"`
	FechaAprobacion           *string         `json:"fecha_aprobacion"`
	CreatedAt                 string          `json:"created_at"`
}

type CotizacionDetalleResponse struct {
	Cotizacion CotizacionResponse       `json:"cotizacion"`
	Items      []CotizacionItemResponse `json:"items"`
}

type CotizacionListResponse struct {
	Cotizaciones []CotizacionResponse `json:"cotizaciones"`
}
