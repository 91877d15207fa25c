package handler

import (
	"errors"
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type CotizacionesHandler struct{ svc service.CotizacionService }

func NewCotizacionesHandler(svc service.CotizacionService) *CotizacionesHandler {
	return &CotizacionesHandler{svc: svc}
}

func cotizacionError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrCotizacionNoEncontrada) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	fallbackError(c, err)
}

// Crear godoc
// @Summary Crear cotización
// @Description Crea una cotización en borrador con sus items. La variación se calcula sobre el precio base del pedido.
// @Tags cotizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCotizacionRequest true "Datos de la cotización"
// @Success 201 {object} dto.CotizacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/cotizaciones [post]
func (h *CotizacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		cotizacionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar cotizaciones
// @Description Lista según el rol: vendedores no ven borradores de clientes, managers solo las enviadas a ellos, clientes las de sus pedidos y empresas.
// @Tags cotizaciones
// @Produce json
// @Security BearerAuth
// @Param pedido_id query string false "Filtrar por pedido"
// @Param estado    query string false "Filtrar por estado"
// @Success 200 {object} dto.CotizacionListResponse
// @Router /api/cotizaciones [get]
func (h *CotizacionesHandler) Listar(c *gin.Context) {
	var filter dto.CotizacionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), actorFromClaims(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cotizaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarEnviadasAlManager godoc
// @Summary Cotizaciones pendientes de aprobación del manager
// @Tags cotizaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CotizacionListResponse
// @Router /api/cotizaciones/enviadas-al-manager [get]
func (h *CotizacionesHandler) ListarEnviadasAlManager(c *gin.Context) {
	resp, err := h.svc.ListarEnviadasAlManager(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cotizaciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de cotización
// @Tags cotizaciones
// @Produce json
// @Security BearerAuth
// @Param cotizacion_id path string true "UUID de la cotización"
// @Success 200 {object} dto.CotizacionDetalleResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cotizaciones/{cotizacion_id} [get]
func (h *CotizacionesHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "cotizacion_id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		cotizacionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Items godoc
// @Summary Items de la cotización
// @Tags cotizaciones
// @Produce json
// @Security BearerAuth
// @Param cotizacion_id path string true "UUID de la cotización"
// @Success 200 {array} dto.CotizacionItemResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/cotizaciones/{cotizacion_id}/items [get]
func (h *CotizacionesHandler) Items(c *gin.Context) {
	id, ok := parseIDParam(c, "cotizacion_id")
	if !ok {
		return
	}
	resp, err := h.svc.Items(c.Request.Context(), id)
	if err != nil {
		cotizacionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualizar cotización
// @Description Actualiza campos e items (los items solo mientras sigue en borrador). Un cambio de estado dispara la cascada sobre el pedido.
// @Tags cotizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cotizacion_id path string true "UUID de la cotización"
// @Param body body dto.ActualizarCotizacionRequest true "Campos a actualizar"
// @Success 200 {object} dto.CotizacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/cotizaciones/{cotizacion_id} [put]
func (h *CotizacionesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "cotizacion_id")
	if !ok {
		return
	}
	var req dto.ActualizarCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		cotizacionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarEstado godoc
// @Summary Cambiar estado de la cotización
// @Description Transiciona la cotización y aplica la cascada sobre el pedido (envío, aprobación, rechazo).
// @Tags cotizaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cotizacion_id path string true "UUID de la cotización"
// @Param body body dto.ActualizarEstadoCotizacionRequest true "Nuevo estado"
// @Success 200 {object} dto.CotizacionResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/cotizaciones/{cotizacion_id}/estado [patch]
func (h *CotizacionesHandler) ActualizarEstado(c *gin.Context) {
	id, ok := parseIDParam(c, "cotizacion_id")
	if !ok {
		return
	}
	var req dto.ActualizarEstadoCotizacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarEstado(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		cotizacionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar cotización
// @Description Elimina la cotización, sus items y sus vínculos con facturas y pedido.
// @Tags cotizaciones
// @Security BearerAuth
// @Param cotizacion_id path string true "UUID de la cotización"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /api/cotizaciones/{cotizacion_id} [delete]
func (h *CotizacionesHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "cotizacion_id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		cotizacionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
