package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsg28/TuSalud-Backend/internal/dto"
)

func TestCrearEmpresa(t *testing.T) {
	r := newRepos()
	svc := NewEmpresaService(r.empresas)

	resp, err := svc.Crear(context.Background(), dto.CrearEmpresaRequest{
		RazonSocial: "Minera Andina SAC",
		RUC:         strPtr("20123456789"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Minera Andina SAC", resp.RazonSocial)
	assert.True(t, resp.Activa)
}

func TestCrearEmpresaRazonSocialDuplicada(t *testing.T) {
	r := newRepos()
	r.seedEmpresa("Minera Andina SAC")
	svc := NewEmpresaService(r.empresas)

	// La comparación de razón social no distingue mayúsculas.
	_, err := svc.Crear(context.Background(), dto.CrearEmpresaRequest{RazonSocial: "minera andina sac"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "razón social")
}

func TestCrearEmpresaRUCDuplicado(t *testing.T) {
	r := newRepos()
	existente := r.seedEmpresa("Constructora Pacífico")
	ruc := "20987654321"
	existente.RUC = &ruc
	svc := NewEmpresaService(r.empresas)

	_, err := svc.Crear(context.Background(), dto.CrearEmpresaRequest{
		RazonSocial: "Otra Empresa SAC",
		RUC:         strPtr("20987654321"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUC")
}

func TestActualizarEmpresaPermiteSuPropioRUC(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Textiles del Sur")
	ruc := "20111222333"
	empresa.RUC = &ruc
	svc := NewEmpresaService(r.empresas)

	resp, err := svc.Actualizar(context.Background(), empresa.ID, dto.ActualizarEmpresaRequest{
		RUC:      strPtr("20111222333"),
		Contacto: strPtr("María Torres"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Contacto)
	assert.Equal(t, "María Torres", *resp.Contacto)
}

func TestEliminarEmpresaConPedidos(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Pesquera Norte")
	r.empresas.conPedidos[empresa.ID] = true
	svc := NewEmpresaService(r.empresas)

	err := svc.Eliminar(context.Background(), empresa.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pedidos asociados")
}

func TestEliminarEmpresaSinPedidos(t *testing.T) {
	r := newRepos()
	empresa := r.seedEmpresa("Agroindustrial Ica")
	svc := NewEmpresaService(r.empresas)

	require.NoError(t, svc.Eliminar(context.Background(), empresa.ID))
	_, err := svc.Obtener(context.Background(), empresa.ID)
	assert.ErrorIs(t, err, ErrEmpresaNoEncontrada)
}

func TestMiasSoloEmpresasVinculadas(t *testing.T) {
	r := newRepos()
	vinculada := r.seedEmpresa("Transportes Lima")
	r.seedEmpresa("Clínica Central")
	usuario := uuid.New()
	require.NoError(t, r.empresas.VincularUsuario(context.Background(), usuario, vinculada.ID, true))
	svc := NewEmpresaService(r.empresas)

	resp, err := svc.Mias(context.Background(), usuario)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Transportes Lima", resp[0].RazonSocial)
}
