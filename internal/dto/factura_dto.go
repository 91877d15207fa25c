package dto

import "github.com/shopspring/decimal"

// FacturaFilter is bound from query string of GET /api/facturas.
type FacturaFilter struct {
	PedidoID  string `form:"pedido_id"`
	Estado    string `form:"estado"`
	EmpresaID string `form:"empresa_id"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearFacturaRequest struct {
	PedidoID string `json:"pedido_id" validate:"required,uuid"`
}

type ActualizarFacturaRequest struct {
	Estado    *string `json:"estado"     validate:"omitempty,oneof=PENDIENTE PAGADA ANULADA"`
	FechaPago *string `json:"fecha_pago" validate:"omitempty,datetime=2006-01-02"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FacturaResponse struct {
	ID            string          `json:"id"`
	NumeroFactura string          `json:"numero_factura"`
	PedidoID      string          `json:"pedido_id"`
	NumeroPedido  string          `json:"numero_pedido,omitempty"`
	EmpresaNombre string          `json:"empresa_nombre,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	IGV           decimal.Decimal `json:"igv"`
	Total         decimal.Decimal `json:"total"`
	Estado        string          `json:"estado"`
	FechaEmision  string          `json:"fecha_emision"`
	FechaPago     *string         `json:"fecha_pago"`
}

type FacturaCotizacionResponse struct {
	CotizacionID     string          `json:"cotizacion_id"`
	NumeroCotizacion string          `json:"numero_cotizacion"`
	Monto            decimal.Decimal `json:"monto"`
	EsPrincipal      bool            `json:"es_principal"`
}

type FacturaDetalleResponse struct {
	ExamenID       *string         `json:"examen_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type FacturaCompletaResponse struct {
	Factura      FacturaResponse             `json:"factura"`
	Cotizaciones []FacturaCotizacionResponse `json:"cotizaciones"`
	Detalles     []FacturaDetalleResponse    `json:"detalles"`
}

type FacturaListResponse struct {
	Facturas []FacturaResponse `json:"facturas"`
}
