package handler

import (
	"errors"
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// pedidoError maps service sentinels to HTTP status codes.
func pedidoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPedidoNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrNoAutorizado):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		fallbackError(c, err)
	}
}

// Crear godoc
// @Summary Crear pedido
// @Description Crea un pedido con sus examenes y nómina inicial opcional. El precio de cada examen se congela al precio vigente de la sede.
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPedidoRequest true "Datos del pedido"
// @Success 201 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar pedidos
// @Description Lista paginada según el rol: vendedores ven los propios o sin asignar, clientes los de sus empresas, managers todos. Excluye cancelados.
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param estado     query string false "Filtrar por estado"
// @Param empresa_id query string false "Filtrar por empresa"
// @Param page       query int    false "Página (default 1)"
// @Param limit      query int    false "Registros por página (default 20)"
// @Success 200 {object} dto.PedidoListResponse
// @Router /api/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMios godoc
// @Summary Listar mis pedidos
// @Description Lista los pedidos creados por el usuario autenticado, con los mismos filtros y paginación del listado general.
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param estado query string false "Filtrar por estado"
// @Param page   query int    false "Página (default 1)"
// @Param limit  query int    false "Registros por página (default 20)"
// @Success 200 {object} dto.PedidoListResponse
// @Router /api/pedidos/mios [get]
func (h *PedidosHandler) ListarMios(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	actor := actorFromClaims(c)
	filter.UserID = actor.ID.String()
	resp, err := h.svc.Listar(c.Request.Context(), actor, filter)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarConCotizacionAprobada godoc
// @Summary Listar pedidos con cotización aprobada
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.PedidoListResponse
// @Router /api/pedidos/con-cotizacion-aprobada [get]
func (h *PedidosHandler) ListarConCotizacionAprobada(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.ListarConCotizacionAprobada(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de pedido
// @Description Retorna el pedido con examenes, cotizaciones, factura, nómina e historial.
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.PedidoDetalleResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id} [get]
func (h *PedidosHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerEstado godoc
// @Summary Estado actual del pedido
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} map[string]string
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/estado [get]
func (h *PedidosHandler) ObtenerEstado(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	estado, err := h.svc.ObtenerEstado(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estado": estado})
}

// PacientesExamenes godoc
// @Summary Nómina del pedido con examenes asignados y completados
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.PacientesExamenesResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/pacientes-examenes [get]
func (h *PedidosHandler) PacientesExamenes(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.PacientesExamenes(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PacientesCompletados godoc
// @Summary Pacientes del pedido que completaron todos sus examenes
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.PacientesCompletadosResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/pacientes-completados [get]
func (h *PedidosHandler) PacientesCompletados(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.PacientesCompletados(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarExamen godoc
// @Summary Agregar examen al pedido
// @Description Solo permitido mientras el pedido está en PENDIENTE o ESPERA_COTIZACION. Si el examen ya existe se acumula la cantidad.
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Param body body dto.AgregarExamenRequest true "Examen a agregar"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/examenes [post]
func (h *PedidosHandler) AgregarExamen(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	var req dto.AgregarExamenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AgregarExamen(c.Request.Context(), id, req); err != nil {
		pedidoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarcarListo godoc
// @Summary Marcar pedido listo para cotizar
// @Description Pasa el pedido a ESPERA_COTIZACION. Requiere al menos un examen.
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/marcar-listo [patch]
func (h *PedidosHandler) MarcarListo(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.MarcarListo(c.Request.Context(), actorFromClaims(c), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary Actualizar estado del pedido
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Param body body dto.ActualizarEstadoPedidoRequest true "Nuevo estado"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/estado [patch]
func (h *PedidosHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarCompletado godoc
// @Summary Marcar pedido completado
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.PedidoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/completar [patch]
func (h *PedidosHandler) MarcarCompletado(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.MarcarCompletado(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CargarEmpleados godoc
// @Summary Cargar nómina de empleados
// @Description Carga o actualiza empleados por DNI. Solo permitido con la cotización aprobada. Los empleados sin lista de examenes reciben todos los del pedido.
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Param body body dto.CargarEmpleadosRequest true "Nómina"
// @Success 200 {object} map[string]int
// @Failure 400 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/cargar-empleados [post]
func (h *PedidosHandler) CargarEmpleados(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	var req dto.CargarEmpleadosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cargados, err := h.svc.CargarEmpleados(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"empleados_cargados": cargados})
}

// Cancelar godoc
// @Summary Cancelar pedido
// @Description Elimina el pedido y todo lo derivado de él: cotizaciones, facturas, nómina e historial. Los clientes solo pueden cancelar pedidos de sus empresas.
// @Tags pedidos
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 204
// @Failure 403 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id} [delete]
func (h *PedidosHandler) Cancelar(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), actorFromClaims(c), id); err != nil {
		pedidoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Historial godoc
// @Summary Historial de eventos del pedido
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {array} dto.HistorialEventoResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/pedidos/{pedido_id}/historial [get]
func (h *PedidosHandler) Historial(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), id)
	if err != nil {
		pedidoError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
