package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/model"
)

func TestCrearPacienteConAsignaciones(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Minera Andina SAC")
	sede := r.seedSede("Sede Lima")
	examen := r.seedExamen("Hemograma", decimal.NewFromInt(60))
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	svc := r.pacienteService()

	resp, err := svc.Crear(context.Background(), dto.CrearPacienteRequest{
		PedidoID:       pedido.ID.String(),
		DNI:            "45678901",
		NombreCompleto: "Juan Pérez",
		Examenes:       []string{examen.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, "45678901", resp.DNI)
	require.Len(t, resp.ExamenesAsignados, 1)
	assert.Equal(t, examen.ID.String(), resp.ExamenesAsignados[0])
	assert.Empty(t, resp.ExamenesCompletados)
}

func TestCrearPacienteDNIDuplicadoEnPedido(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Minera Andina SAC")
	sede := r.seedSede("Sede Lima")
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	svc := r.pacienteService()

	_, err := svc.Crear(context.Background(), dto.CrearPacienteRequest{
		PedidoID:       pedido.ID.String(),
		DNI:            "45678901",
		NombreCompleto: "Juan Pérez",
	})
	require.NoError(t, err)

	_, err = svc.Crear(context.Background(), dto.CrearPacienteRequest{
		PedidoID:       pedido.ID.String(),
		DNI:            "45678901",
		NombreCompleto: "Juan Pérez Quispe",
	})
	require.Error(t, err)
	assert.True(t, EsReglaNegocio(err))
	assert.Contains(t, err.Error(), "ya existe un paciente con ese DNI")
}

func TestCrearPacientePedidoInexistente(t *testing.T) {
	r := newRepos()
	svc := r.pacienteService()

	_, err := svc.Crear(context.Background(), dto.CrearPacienteRequest{
		PedidoID:       uuid.NewString(),
		DNI:            "45678901",
		NombreCompleto: "Juan Pérez",
	})
	assert.ErrorIs(t, err, ErrPedidoNoEncontrado)
}

func TestMarcarExamenYDesmarcar(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Constructora Pacífico")
	sede := r.seedSede("Sede Callao")
	examen := r.seedExamen("Audiometría", decimal.NewFromInt(80))
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	paciente := &model.PedidoPaciente{ID: uuid.New(), PedidoID: pedido.ID, DNI: "40000001", NombreCompleto: "Ana Quispe"}
	r.pacientes.pacientes[paciente.ID] = paciente
	r.pacientes.porDNI[dniKey(pedido.ID, paciente.DNI)] = paciente.ID
	require.NoError(t, r.pacientes.AsignarExamenesTx(context.Background(), nil, paciente.ID, []uuid.UUID{examen.ID}))
	svc := r.pacienteService()

	resp, err := svc.MarcarExamen(context.Background(), paciente.ID, dto.MarcarExamenRequest{
		ExamenID: examen.ID.String(),
	})
	require.NoError(t, err)
	assert.Len(t, resp.ExamenesCompletados, 1)

	desmarcar := false
	resp, err = svc.MarcarExamen(context.Background(), paciente.ID, dto.MarcarExamenRequest{
		ExamenID:   examen.ID.String(),
		Completado: &desmarcar,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ExamenesCompletados)
}

func TestActualizarPacienteReemplazaAsignados(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Textiles del Sur")
	sede := r.seedSede("Sede Arequipa")
	hemograma := r.seedExamen("Hemograma", decimal.NewFromInt(60))
	espirometria := r.seedExamen("Espirometría", decimal.NewFromInt(45))
	pedido := r.seedPedido(empresa.ID, sede.ID, model.PedidoCotizacionAprobada)
	paciente := &model.PedidoPaciente{ID: uuid.New(), PedidoID: pedido.ID, DNI: "40000002", NombreCompleto: "Luis Rojas"}
	r.pacientes.pacientes[paciente.ID] = paciente
	r.pacientes.porDNI[dniKey(pedido.ID, paciente.DNI)] = paciente.ID
	require.NoError(t, r.pacientes.AsignarExamenesTx(context.Background(), nil, paciente.ID, []uuid.UUID{hemograma.ID}))
	svc := r.pacienteService()

	resp, err := svc.Actualizar(context.Background(), paciente.ID, dto.ActualizarPacienteRequest{
		NombreCompleto: strPtr("Luis Rojas Vega"),
		Examenes:       []string{espirometria.ID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, "Luis Rojas Vega", resp.NombreCompleto)
	require.Len(t, resp.ExamenesAsignados, 1)
	assert.Equal(t, espirometria.ID.String(), resp.ExamenesAsignados[0])
}

func TestEliminarPacienteInexistente(t *testing.T) {
	r := newRepos()
	svc := r.pacienteService()

	err := svc.Eliminar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPacienteNoEncontrado)
}
