package handler

import (
	"errors"
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpresasHandler struct{ svc service.EmpresaService }

func NewEmpresasHandler(svc service.EmpresaService) *EmpresasHandler {
	return &EmpresasHandler{svc: svc}
}

func empresaError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEmpresaNoEncontrada) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	fallbackError(c, err)
}

// Listar godoc
// @Summary Listar empresas
// @Tags empresas
// @Produce json
// @Security BearerAuth
// @Param search query string false "Buscar por razón social o RUC"
// @Param activa query string false "true | false"
// @Success 200 {array} dto.EmpresaResponse
// @Router /api/empresas [get]
func (h *EmpresasHandler) Listar(c *gin.Context) {
	var filter dto.EmpresaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar empresas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Mias godoc
// @Summary Empresas vinculadas al usuario autenticado
// @Tags empresas
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EmpresaResponse
// @Router /api/empresas/mias [get]
func (h *EmpresasHandler) Mias(c *gin.Context) {
	actor := actorFromClaims(c)
	resp, err := h.svc.Mias(c.Request.Context(), actor.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar empresas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de empresa
// @Tags empresas
// @Produce json
// @Security BearerAuth
// @Param empresa_id path string true "UUID de la empresa"
// @Success 200 {object} dto.EmpresaResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/empresas/{empresa_id} [get]
func (h *EmpresasHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "empresa_id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		empresaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Crear empresa
// @Description Rechaza razones sociales y RUC duplicados.
// @Tags empresas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearEmpresaRequest true "Datos de la empresa"
// @Success 201 {object} dto.EmpresaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/empresas [post]
func (h *EmpresasHandler) Crear(c *gin.Context) {
	var req dto.CrearEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		empresaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Actualizar empresa
// @Tags empresas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param empresa_id path string true "UUID de la empresa"
// @Param body body dto.ActualizarEmpresaRequest true "Campos a actualizar"
// @Success 200 {object} dto.EmpresaResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/empresas/{empresa_id} [put]
func (h *EmpresasHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "empresa_id")
	if !ok {
		return
	}
	var req dto.ActualizarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		empresaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar empresa
// @Description Bloqueado cuando la empresa tiene pedidos asociados.
// @Tags empresas
// @Security BearerAuth
// @Param empresa_id path string true "UUID de la empresa"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /api/empresas/{empresa_id} [delete]
func (h *EmpresasHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "empresa_id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		empresaError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
