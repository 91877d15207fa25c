package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const matrizCacheTTL = 4 * time.Hour

// PreciosHandler serves the exam price matrix per sede.
// Reads only — the matrix changes rarely, so responses are cached in Redis.
type PreciosHandler struct {
	repo repository.ExamenRepository
	rdb  *redis.Client
}

func NewPreciosHandler(repo repository.ExamenRepository, rdb *redis.Client) *PreciosHandler {
	return &PreciosHandler{repo: repo, rdb: rdb}
}

// Matriz godoc
// @Summary Matriz de precios por sede
// @Description Retorna todos los examenes activos agrupados por categoría con el precio aplicable: el específico de la sede si existe, si no el general.
// @Tags precios
// @Produce json
// @Security BearerAuth
// @Param sede_id query string true "UUID de la sede"
// @Success 200 {object} dto.MatrizResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/precios/matriz [get]
func (h *PreciosHandler) Matriz(c *gin.Context) {
	var filter dto.MatrizFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	sedeID, err := uuid.Parse(filter.SedeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sede_id invalido"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := "precios:matriz:" + filter.SedeID

	// 1. Try Redis cache
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.MatrizResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	rows, err := h.repo.Matriz(ctx, sedeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar precios"))
		return
	}

	matriz := make(map[string][]dto.ArticuloPrecio)
	for _, row := range rows {
		matriz[row.Categoria] = append(matriz[row.Categoria], articuloFromRow(row))
	}
	resp := dto.MatrizResponse{
		Matriz:         matriz,
		TotalArticulos: len(rows),
		SedeID:         filter.SedeID,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, matrizCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

// Buscar godoc
// @Summary Buscar examenes por nombre o código
// @Tags precios
// @Produce json
// @Security BearerAuth
// @Param sede_id query string true "UUID de la sede"
// @Param q       query string false "Término de búsqueda"
// @Success 200 {object} dto.BuscarExamenesResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/precios/buscar [get]
func (h *PreciosHandler) Buscar(c *gin.Context) {
	var filter dto.BuscarExamenesFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	sedeID, err := uuid.Parse(filter.SedeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sede_id invalido"))
		return
	}

	rows, err := h.repo.Buscar(c.Request.Context(), sedeID, filter.Q, 30)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al buscar examenes"))
		return
	}

	examenes := make([]dto.ArticuloPrecio, 0, len(rows))
	for _, row := range rows {
		examenes = append(examenes, articuloFromRow(row))
	}
	c.JSON(http.StatusOK, dto.BuscarExamenesResponse{Examenes: examenes})
}

func articuloFromRow(row repository.ArticuloPrecioRow) dto.ArticuloPrecio {
	return dto.ArticuloPrecio{
		ExamenID:  row.ExamenID.String(),
		Nombre:    row.Nombre,
		Categoria: row.Categoria,
		Codigo:    row.Codigo,
		Precio:    row.Precio,
	}
}
