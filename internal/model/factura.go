package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoFactura — PENDIENTE on creation; once PAGADA the invoice can no longer
// be deleted.
type EstadoFactura string

const (
	FacturaPendiente EstadoFactura = "PENDIENTE"
	FacturaPagada    EstadoFactura = "PAGADA"
	FacturaAnulada   EstadoFactura = "ANULADA"
)

// Factura aggregates one or more approved quotations of an order into a single
// bill. IGV is 18% of the subtotal.
type Factura struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura string          `gorm:"uniqueIndex;not null"`
	PedidoID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IGV           decimal.Decimal `gorm:"type:decimal(12,2);not null;column:igv"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado        EstadoFactura   `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	FechaEmision  time.Time       `gorm:"not null"`
	FechaPago     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Pedido       *Pedido             `gorm:"foreignKey:PedidoID"`
	Cotizaciones []FacturaCotizacion `gorm:"foreignKey:FacturaID"`
	Detalles     []FacturaDetalle    `gorm:"foreignKey:FacturaID"`
}

func (Factura) TableName() string { return "facturas" }

// FacturaCotizacion links an invoice to one of its constituent quotations.
type FacturaCotizacion struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CotizacionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EsPrincipal  bool            `gorm:"not null;default:false"`

	Cotizacion *Cotizacion `gorm:"foreignKey:CotizacionID"`
}

func (FacturaCotizacion) TableName() string { return "factura_cotizacion" }

// FacturaDetalle is an invoice line copied verbatim from a quotation item at
// invoice-creation time.
type FacturaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FacturaID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ExamenID       *uuid.UUID      `gorm:"type:uuid"`
	Descripcion    string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (FacturaDetalle) TableName() string { return "factura_detalle" }
