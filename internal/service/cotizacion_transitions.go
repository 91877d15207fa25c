package service

import "github.com/rsg28/TuSalud-Backend/internal/model"

// cotizacionTransition declares the side effects of moving a quotation into a
// state: what happens to its order, which timestamps get stamped, and whether
// an order-history event is appended. Both the full update and the
// state-only patch consult this table, so the cascade behaves identically on
// either path.
type cotizacionTransition struct {
	// estadoPedido, when non-empty, is the state the order is pushed to.
	estadoPedido model.EstadoPedido
	// soloPrincipal restricts the order effect to non-complementary
	// quotations. Complementarias never drive the order on their own.
	soloPrincipal bool
	// vinculaPrincipal records this quotation as the order's principal.
	vinculaPrincipal   bool
	setFechaEnvio      bool
	setFechaAprobacion bool
	// eventoHistorial, when non-empty, is appended to the order history.
	eventoHistorial string
	// notificar marks states whose outcome is emailed to the interested party.
	notificar bool
}

var cotizacionTransitions = map[model.EstadoCotizacion]cotizacionTransition{
	model.CotizacionEnviada: {
		estadoPedido:  model.PedidoFaltaAprobarCotizacion,
		setFechaEnvio: true,
	},
	model.CotizacionEnviadaAlCliente: {
		estadoPedido:  model.PedidoFaltaAprobarCotizacion,
		setFechaEnvio: true,
		notificar:     true,
	},
	model.CotizacionEnviadaAlManager: {
		estadoPedido:  model.PedidoFaltaAprobarCotizacion,
		setFechaEnvio: true,
	},
	model.CotizacionAprobadaPorManager: {
		estadoPedido:    model.PedidoFaltaAprobarCotizacion,
		eventoHistorial: "El manager aprobó la cotización. Lista para enviar al cliente.",
	},
	model.CotizacionAprobada: {
		estadoPedido:       model.PedidoCotizacionAprobada,
		soloPrincipal:      true,
		vinculaPrincipal:   true,
		setFechaAprobacion: true,
		notificar:          true,
	},
	model.CotizacionRechazada: {
		estadoPedido:  model.PedidoCotizacionRechazada,
		soloPrincipal: true,
		notificar:     true,
	},
}
