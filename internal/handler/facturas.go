package handler

import (
	"errors"
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct{ svc service.FacturaService }

func NewFacturasHandler(svc service.FacturaService) *FacturasHandler {
	return &FacturasHandler{svc: svc}
}

func facturaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFacturaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrPedidoNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		fallbackError(c, err)
	}
}

// Crear godoc
// @Summary Generar factura
// @Description Agrega la cotización principal aprobada y sus complementarias aprobadas aún no facturadas en una factura con IGV del 18%. El pedido pasa a FACTURADO.
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearFacturaRequest true "Pedido a facturar"
// @Success 201 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		facturaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar facturas
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param pedido_id  query string false "Filtrar por pedido"
// @Param estado     query string false "Filtrar por estado"
// @Param empresa_id query string false "Filtrar por empresa"
// @Success 200 {object} dto.FacturaListResponse
// @Router /api/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	var filter dto.FacturaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar facturas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorPedido godoc
// @Summary Facturas de un pedido
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param pedido_id path string true "UUID del pedido"
// @Success 200 {object} dto.FacturaListResponse
// @Router /api/facturas/pedido/{pedido_id} [get]
func (h *FacturasHandler) ListarPorPedido(c *gin.Context) {
	id, ok := parseIDParam(c, "pedido_id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPorPedido(c.Request.Context(), id)
	if err != nil {
		facturaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de factura
// @Description Retorna la factura con sus cotizaciones vinculadas y líneas de detalle.
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param factura_id path string true "UUID de la factura"
// @Success 200 {object} dto.FacturaCompletaResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/facturas/{factura_id} [get]
func (h *FacturasHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "factura_id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		facturaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary Actualizar factura
// @Description Actualiza el estado de pago y la fecha de pago.
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param factura_id path string true "UUID de la factura"
// @Param body body dto.ActualizarFacturaRequest true "Campos a actualizar"
// @Success 200 {object} dto.FacturaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/facturas/{factura_id} [put]
func (h *FacturasHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "factura_id")
	if !ok {
		return
	}
	var req dto.ActualizarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		facturaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar factura
// @Description Elimina la factura y sus vínculos. Las facturas pagadas no pueden eliminarse.
// @Tags facturas
// @Security BearerAuth
// @Param factura_id path string true "UUID de la factura"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /api/facturas/{factura_id} [delete]
func (h *FacturasHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "factura_id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		facturaError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
