package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/rsg28/TuSalud-Backend/internal/apierror"
	"github.com/rsg28/TuSalud-Backend/internal/dto"
	"github.com/rsg28/TuSalud-Backend/internal/middleware"
	"github.com/rsg28/TuSalud-Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQueryAndValidate binds the query string and runs validator tags.
func bindQueryAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// actorFromClaims converts the JWT claims stored by the auth middleware into
// the actor identity services use for role scoping.
func actorFromClaims(c *gin.Context) dto.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return dto.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return dto.Actor{ID: id, Rol: claims.Rol, Nombre: claims.NombreCompleto}
}

// fallbackError handles errors that are not sentinels of the resource:
// business rule violations and duplicate keys respond 400 with the message,
// anything else is logged and answered with a generic 500.
func fallbackError(c *gin.Context, err error) {
	switch {
	case service.EsReglaNegocio(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusBadRequest, apierror.New("El registro ya existe"))
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("error no manejado")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// parseIDParam parses the :param path segment as a UUID, writing the 400
// response itself on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}
