package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func respondWith(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	pedidoError(c, err)
	return w
}

func TestPedidoErrorSentinelas(t *testing.T) {
	w := respondWith(t, service.ErrPedidoNoEncontrado)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = respondWith(t, service.ErrNoAutorizado)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFallbackReglaNegocioResponde400(t *testing.T) {
	w := respondWith(t, &service.ReglaNegocio{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFallbackClaveDuplicadaResponde400(t *testing.T) {
	w := respondWith(t, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "ya existe"))
}

func TestFallbackErrorInesperadoResponde500SinDetalle(t *testing.T) {
	w := respondWith(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Error interno del servidor")
}
