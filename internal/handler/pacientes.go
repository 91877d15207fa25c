package handler

import (
	"errors"
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
)

type PacientesHandler struct{ svc service.PacienteService }

func NewPacientesHandler(svc service.PacienteService) *PacientesHandler {
	return &PacientesHandler{svc: svc}
}

func pacienteError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPacienteNoEncontrado) || errors.Is(err, service.ErrPedidoNoEncontrado) {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	fallbackError(c, err)
}

// Listar godoc
// @Summary Listar pacientes
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Param pedido_id query string false "Filtrar por pedido"
// @Param search    query string false "Buscar por DNI o nombre"
// @Success 200 {object} dto.PacienteListResponse
// @Router /api/pacientes [get]
func (h *PacientesHandler) Listar(c *gin.Context) {
	var filter dto.PacienteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pacientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary Detalle de paciente
// @Tags pacientes
// @Produce json
// @Security BearerAuth
// @Param paciente_id path string true "UUID del paciente"
// @Success 200 {object} dto.PacienteResponse
// @Failure 404 {object} apierror.APIError
// @Router /api/pacientes/{paciente_id} [get]
func (h *PacientesHandler) Obtener(c *gin.Context) {
	id, ok := parseIDParam(c, "paciente_id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		pacienteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Crear paciente
// @Description Agrega un empleado a la nómina de un pedido con sus examenes asignados.
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPacienteRequest true "Datos del paciente"
// @Success 201 {object} dto.PacienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pacientes [post]
func (h *PacientesHandler) Crear(c *gin.Context) {
	var req dto.CrearPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		pacienteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Actualizar paciente
// @Description Actualiza datos del empleado. Si se envía la lista de examenes, reemplaza las asignaciones.
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paciente_id path string true "UUID del paciente"
// @Param body body dto.ActualizarPacienteRequest true "Campos a actualizar"
// @Success 200 {object} dto.PacienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pacientes/{paciente_id} [put]
func (h *PacientesHandler) Actualizar(c *gin.Context) {
	id, ok := parseIDParam(c, "paciente_id")
	if !ok {
		return
	}
	var req dto.ActualizarPacienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		pacienteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarExamen godoc
// @Summary Marcar examen del paciente
// @Description Marca o desmarca un examen asignado como completado.
// @Tags pacientes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paciente_id path string true "UUID del paciente"
// @Param body body dto.MarcarExamenRequest true "Examen y estado"
// @Success 200 {object} dto.PacienteResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/pacientes/{paciente_id}/marcar-examen [patch]
func (h *PacientesHandler) MarcarExamen(c *gin.Context) {
	id, ok := parseIDParam(c, "paciente_id")
	if !ok {
		return
	}
	var req dto.MarcarExamenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.MarcarExamen(c.Request.Context(), id, req)
	if err != nil {
		pacienteError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Eliminar paciente
// @Tags pacientes
// @Security BearerAuth
// @Param paciente_id path string true "UUID del paciente"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /api/pacientes/{paciente_id} [delete]
func (h *PacientesHandler) Eliminar(c *gin.Context) {
	id, ok := parseIDParam(c, "paciente_id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		pacienteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
