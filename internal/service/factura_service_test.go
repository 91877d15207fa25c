package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

func TestCrearFacturaAgregaPrincipalYComplementarias(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Minera Andina SAC")
	sede := r.seedSede("Sede Lima")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)

	principal := r.seedCotizacion(pedido.ID, model.CotizacionAprobada, decimal.NewFromInt(1000), false, nil)
	pid := principal.ID
	pedido.CotizacionPrincipalID = &pid
	r.cotizaciones.items[principal.ID] = []model.CotizacionItem{
		{ID: uuid.New(), CotizacionID: principal.ID, Nombre: "Hemograma", Cantidad: 10, PrecioFinal: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(1000)},
	}
	comp := r.seedCotizacion(pedido.ID, model.CotizacionAprobada, decimal.NewFromInt(500), true, &pid)
	r.cotizaciones.items[comp.ID] = []model.CotizacionItem{
		{ID: uuid.New(), CotizacionID: comp.ID, Nombre: "Audiometría", Cantidad: 5, PrecioFinal: decimal.NewFromInt(100), Subtotal: decimal.NewFromInt(500)},
	}

	svc := r.facturaService()
	resp, err := svc.Crear(context.Background(), dto.CrearFacturaRequest{PedidoID: pedido.ID.String()})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.NumeroFactura, "FAC-"))
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(1500)), resp.Subtotal.String())
	assert.True(t, resp.IGV.Equal(decimal.NewFromInt(270)), resp.IGV.String())
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1770)), resp.Total.String())
	assert.Equal(t, string(model.FacturaPendiente), resp.Estado)

	// Vínculos: la principal marcada, la complementaria no.
	require.Len(t, r.facturas.vinculos, 2)
	porCotizacion := make(map[uuid.UUID]model.FacturaCotizacion)
	for _, fc := range r.facturas.vinculos {
		porCotizacion[fc.CotizacionID] = fc
	}
	assert.True(t, porCotizacion[principal.ID].EsPrincipal)
	assert.False(t, porCotizacion[comp.ID].EsPrincipal)

	// Detalle copiado línea a línea de los items.
	assert.Len(t, r.facturas.detalles, 2)

	// El pedido queda facturado y enlazado.
	actualizado := r.pedidos.pedidos[pedido.ID]
	assert.Equal(t, model.PedidoFacturado, actualizado.Estado)
	require.NotNil(t, actualizado.FacturaID)
}

func TestCrearFacturaSinPrincipalAprobada(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Constructora Pacífico")
	sede := r.seedSede("Sede Callao")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoFaltaAprobarCotizacion)

	svc := r.facturaService()
	_, err := svc.Crear(context.Background(), dto.CrearFacturaRequest{PedidoID: pedido.ID.String()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cotización principal aprobada")
}

func TestCrearFacturaSinPendientesDeFacturar(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Textiles del Sur")
	sede := r.seedSede("Sede Arequipa")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	principal := r.seedCotizacion(pedido.ID, model.CotizacionAprobada, decimal.NewFromInt(800), false, nil)
	pid := principal.ID
	pedido.CotizacionPrincipalID = &pid
	// Ya facturada en una corrida anterior.
	r.cotizaciones.facturadas[principal.ID] = true

	svc := r.facturaService()
	_, err := svc.Crear(context.Background(), dto.CrearFacturaRequest{PedidoID: pedido.ID.String()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pendientes de facturar")
}

func TestCrearFacturaRedondeaIGV(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Pesquera Norte")
	sede := r.seedSede("Sede Chimbote")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	principal := r.seedCotizacion(pedido.ID, model.CotizacionAprobada, decimal.RequireFromString("333.33"), false, nil)
	pid := principal.ID
	pedido.CotizacionPrincipalID = &pid

	svc := r.facturaService()
	resp, err := svc.Crear(context.Background(), dto.CrearFacturaRequest{PedidoID: pedido.ID.String()})
	require.NoError(t, err)

	// 333.33 * 0.18 = 59.9994 → 60.00
	assert.Equal(t, "60", resp.IGV.String())
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("393.33")), resp.Total.String())
}

func TestActualizarFacturaMarcaPago(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Agroindustrial Ica")
	sede := r.seedSede("Sede Ica")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoFacturado)
	factura := &model.Factura{
		ID:            uuid.New(),
		NumeroFactura: "FAC-TEST-000001",
		PedidoID:      pedido.ID,
		Subtotal:      decimal.NewFromInt(100),
		IGV:           decimal.NewFromInt(18),
		Total:         decimal.NewFromInt(118),
		Estado:        model.FacturaPendiente,
	}
	r.facturas.facturas[factura.ID] = factura

	svc := r.facturaService()
	resp, err := svc.Actualizar(context.Background(), factura.ID, dto.ActualizarFacturaRequest{
		Estado:    strPtr(string(model.FacturaPagada)),
		FechaPago: strPtr("2026-08-15"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.FacturaPagada), resp.Estado)
	require.NotNil(t, resp.FechaPago)
	assert.Equal(t, "2026-08-15", *resp.FechaPago)
}

func TestActualizarFacturaFechaPagoInvalida(t *testing.T) {
	r := newRepos()
	factura := &model.Factura{ID: uuid.New(), PedidoID: uuid.New(), Estado: model.FacturaPendiente}
	r.facturas.facturas[factura.ID] = factura

	svc := r.facturaService()
	_, err := svc.Actualizar(context.Background(), factura.ID, dto.ActualizarFacturaRequest{
		FechaPago: strPtr("15/08/2026"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fecha_pago")
}

func TestEliminarFacturaPagadaBloqueada(t *testing.T) {
	r := newRepos()
	factura := &model.Factura{ID: uuid.New(), PedidoID: uuid.New(), Estado: model.FacturaPagada}
	r.facturas.facturas[factura.ID] = factura

	svc := r.facturaService()
	err := svc.Eliminar(context.Background(), factura.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factura pagada")
}

func TestEliminarFacturaPendiente(t *testing.T) {
	r := newRepos()
	factura := &model.Factura{ID: uuid.New(), PedidoID: uuid.New(), Estado: model.FacturaPendiente}
	r.facturas.facturas[factura.ID] = factura

	svc := r.facturaService()
	require.NoError(t, svc.Eliminar(context.Background(), factura.ID))
	assert.Contains(t, r.facturas.eliminadas, factura.ID)
}

func TestListarPorPedidoValidaExistencia(t *testing.T) {
	r := newRepos()
	svc := r.facturaService()

	_, err := svc.ListarPorPedido(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPedidoNoEncontrado)
}
