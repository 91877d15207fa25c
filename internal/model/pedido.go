package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoPedido enumerates the order lifecycle states.
type EstadoPedido string

const (
	PedidoPendiente              EstadoPedido = "PENDIENTE"
	PedidoEsperaCotizacion       EstadoPedido = "ESPERA_COTIZACION"
	PedidoListoParaCotizacion    EstadoPedido = "LISTO_PARA_COTIZACION"
	PedidoFaltaAprobarCotizacion EstadoPedido = "FALTA_APROBAR_COTIZACION"
	PedidoCotizacionAprobada     EstadoPedido = "COTIZACION_APROBADA"
	PedidoFaltaPagoFactura       EstadoPedido = "FALTA_PAGO_FACTURA"
	PedidoCotizacionRechazada    EstadoPedido = "COTIZACION_RECHAZADA"
	PedidoFacturado              EstadoPedido = "FACTURADO"
	PedidoCompletado             EstadoPedido = "COMPLETADO"
	PedidoCancelado              EstadoPedido = "CANCELADO"
)

var estadosPedido = map[EstadoPedido]bool{
	PedidoPendiente: true, PedidoEsperaCotizacion: true, PedidoListoParaCotizacion: true,
	PedidoFaltaAprobarCotizacion: true, PedidoCotizacionAprobada: true, PedidoFaltaPagoFactura: true,
	PedidoCotizacionRechazada: true, PedidoFacturado: true, PedidoCompletado: true, PedidoCancelado: true,
}

func (e EstadoPedido) Valido() bool { return estadosPedido[e] }

// EstadosPedido returns the full enum, for error messages.
func EstadosPedido() []EstadoPedido {
	return []EstadoPedido{
		PedidoPendiente, PedidoEsperaCotizacion, PedidoListoParaCotizacion,
		PedidoFaltaAprobarCotizacion, PedidoCotizacionAprobada, PedidoFaltaPagoFactura,
		PedidoCotizacionRechazada, PedidoFacturado, PedidoCompletado, PedidoCancelado,
	}
}

// Pedido is a company's request for medical exams on a roster of employees.
// CotizacionPrincipalID and FacturaID are back-references maintained exclusively
// by the cotización/factura services, never set from client input.
type Pedido struct {
	ID                    uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroPedido          string       `gorm:"uniqueIndex;not null"`
	EmpresaID             uuid.UUID    `gorm:"type:uuid;index;not null"`
	SedeID                uuid.UUID    `gorm:"type:uuid;not null"`
	VendedorID            *uuid.UUID   `gorm:"type:uuid;index"`
	ClienteUsuarioID      *uuid.UUID   `gorm:"type:uuid;index"`
	Estado                EstadoPedido `gorm:"type:varchar(30);not null;default:'ESPERA_COTIZACION';index"`
	TotalEmpleados        int          `gorm:"not null;default:0"`
	CotizacionPrincipalID *uuid.UUID   `gorm:"type:uuid"`
	FacturaID             *uuid.UUID   `gorm:"type:uuid"`
	Observaciones         *string
	CondicionesPago       *string
	FechaVencimiento      *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Empresa   *Empresa         `gorm:"foreignKey:EmpresaID"`
	Sede      *Sede            `gorm:"foreignKey:SedeID"`
	Vendedor  *Usuario         `gorm:"foreignKey:VendedorID"`
	Examenes  []PedidoExamen   `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
	Pacientes []PedidoPaciente `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoExamen is an exam line on an order. PrecioBase is snapshotted from the
// price list at add-time; (pedido, examen) is unique and quantity accumulates
// on conflict.
type PedidoExamen struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pedido_examen"`
	ExamenID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pedido_examen"`
	Cantidad   int             `gorm:"not null;default:1"`
	PrecioBase decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt  time.Time

	Examen *Examen `gorm:"foreignKey:ExamenID"`
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (PedidoExamen) TableName() string { return "pedido_examenes" }

// PedidoPaciente is an employee on the order roster, unique by (pedido, dni).
type PedidoPaciente struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pedido_dni"`
	DNI            string    `gorm:"type:varchar(15);not null;uniqueIndex:idx_pedido_dni"`
	NombreCompleto string    `gorm:"not null"`
	Cargo          *string
	Area           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Asignados   []PacienteExamenAsignado   `gorm:"foreignKey:PacienteID;constraint:OnDelete:CASCADE"`
	Completados []PacienteExamenCompletado `gorm:"foreignKey:PacienteID;constraint:OnDelete:CASCADE"`
}

func (PedidoPaciente) TableName() string { return "pedido_pacientes" }

// PacienteExamenAsignado marks an exam an employee must take. Set membership
// only, no payload.
type PacienteExamenAsignado struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_paciente_examen_asig"`
	ExamenID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_paciente_examen_asig"`
}

func (PacienteExamenAsignado) TableName() string { return "paciente_examen_asignado" }

// PacienteExamenCompletado — presence means done, absence means pending. An
// employee is fully processed when this set equals the assigned set.
type PacienteExamenCompletado struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PacienteID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_paciente_examen_comp"`
	ExamenID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_paciente_examen_comp"`
	FechaCompletado time.Time `gorm:"not null;autoCreateTime"`
}

func (PacienteExamenCompletado) TableName() string { return "paciente_examen_completado" }

// HistorialPedido is an append-only order event log. Rows are never mutated;
// they are only deleted en masse when the order is cancelled.
type HistorialPedido struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	CotizacionID  *uuid.UUID `gorm:"type:uuid"`
	TipoEvento    string     `gorm:"type:varchar(40);not null"`
	Descripcion   string     `gorm:"not null"`
	UsuarioID     *uuid.UUID `gorm:"type:uuid"`
	UsuarioNombre *string
	ValorAnterior *string
	ValorNuevo    *string
	Atendidos     *int
	NoAtendidos   *int
	CreatedAt     time.Time
}

func (HistorialPedido) TableName() string { return "historial_pedido" }
