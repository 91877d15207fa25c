package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCotizacion enumerates the quotation lifecycle states. The manager role
// only approves (APROBADA_POR_MANAGER), never rejects — rejection belongs to
// the client-facing flow.
type EstadoCotizacion string

const (
	CotizacionBorrador           EstadoCotizacion = "BORRADOR"
	CotizacionEnviada            EstadoCotizacion = "ENVIADA"
	CotizacionEnviadaAlCliente   EstadoCotizacion = "ENVIADA_AL_CLIENTE"
	CotizacionEnviadaAlManager   EstadoCotizacion = "ENVIADA_AL_MANAGER"
	CotizacionAprobadaPorManager EstadoCotizacion = "APROBADA_POR_MANAGER"
	CotizacionAprobada           EstadoCotizacion = "APROBADA"
	CotizacionRechazada          EstadoCotizacion = "RECHAZADA"
)

var estadosCotizacion = map[EstadoCotizacion]bool{
	CotizacionBorrador: true, CotizacionEnviada: true, CotizacionEnviadaAlCliente: true,
	CotizacionEnviadaAlManager: true, CotizacionAprobadaPorManager: true,
	CotizacionAprobada: true, CotizacionRechazada: true,
}

func (e EstadoCotizacion) Valido() bool { return estadosCotizacion[e] }

func EstadosCotizacion() []EstadoCotizacion {
	return []EstadoCotizacion{
		CotizacionBorrador, CotizacionEnviada, CotizacionEnviadaAlCliente,
		CotizacionEnviadaAlManager, CotizacionAprobadaPorManager,
		CotizacionAprobada, CotizacionRechazada,
	}
}

// Creator types for a quotation.
const (
	CreadorVendedor = "VENDEDOR"
	CreadorCliente  = "CLIENTE"
)

// Cotizacion is a priced proposal of exam line items against an order.
// CotizacionBaseID links a complementary quotation to its principal on the
// same order; complementary quotations never directly drive the order status.
type Cotizacion struct {
	ID                        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroCotizacion          string           `gorm:"uniqueIndex;not null"`
	PedidoID                  uuid.UUID        `gorm:"type:uuid;index;not null"`
	CotizacionBaseID          *uuid.UUID       `gorm:"type:uuid"`
	EsComplementaria          bool             `gorm:"not null;default:false"`
	Estado                    EstadoCotizacion `gorm:"type:varchar(30);not null;default:'BORRADOR';index"`
	CreadorTipo               string           `gorm:"type:varchar(20);not null;default:'VENDEDOR'"`
	CreadorID                 *uuid.UUID       `gorm:"type:uuid"`
	Total                     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	SolicitudManagerPendiente bool             `gorm:"not null;default:false"`
	MensajeRechazo            *string
	FechaEnvio                *time.Time
	FechaAprobacion           *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	Pedido *Pedido          `gorm:"foreignKey:PedidoID"`
	Items  []CotizacionItem `gorm:"foreignKey:CotizacionID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Cotizacion) TableName() string { return "cotizaciones" }

// CotizacionItem is a quotation line. VariacionPct is derived:
// (PrecioFinal-PrecioBase)/PrecioBase*100, zero when PrecioBase is zero.
// Subtotal = PrecioFinal * Cantidad. Items are replaced wholesale while the
// quotation is still BORRADOR.
type CotizacionItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CotizacionID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ExamenID     *uuid.UUID      `gorm:"type:uuid"`
	Nombre       string          `gorm:"not null"`
	Cantidad     int             `gorm:"not null;default:1"`
	PrecioBase   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioFinal  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VariacionPct decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Examen *Examen `gorm:"foreignKey:ExamenID"`
}

func (CotizacionItem) TableName() string { return "cotizacion_items" }
