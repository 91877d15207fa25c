package handler

import (
	"net/http"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// SedesHandler lists the active service locations. Read-only: sedes are
// provisioned directly in the database.
type SedesHandler struct{ repo repository.SedeRepository }

func NewSedesHandler(repo repository.SedeRepository) *SedesHandler {
	return &SedesHandler{repo: repo}
}

// Listar godoc
// @Summary Listar sedes activas
// @Tags sedes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SedeResponse
// @Router /api/sedes [get]
func (h *SedesHandler) Listar(c *gin.Context) {
	sedes, err := h.repo.ListActivas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sedes"))
		return
	}
	out := make([]dto.SedeResponse, 0, len(sedes))
	for i := range sedes {
		out = append(out, dto.SedeResponse{
			ID:     sedes[i].ID.String(),
			Nombre: sedes[i].Nombre,
			Activa: sedes[i].Activa,
		})
	}
	c.JSON(http.StatusOK, out)
}
