package handler

import (
	"errors"
	"net/http"
	"reflect"

	"bogogo/internal/apierror"
	"bogogo/internal/infra"
	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
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
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New("Solicitud invalida"))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// statusPorError maps the services' sentinel errors to HTTP statuses. The
// sentinel's text is the user-facing message.
var statusPorError = []struct {
	err    error
	status int
}{
	{service.ErrCarritoVacio, http.StatusBadRequest},
	{service.ErrProductoNoDisponible, http.StatusConflict},
	{service.ErrStockInsuficiente, http.StatusConflict},
	{service.ErrCheckoutEnCurso, http.StatusConflict},
	{service.ErrCrearPago, http.StatusInternalServerError},
	{service.ErrCrearPedido, http.StatusInternalServerError},
	{service.ErrCrearItems, http.StatusInternalServerError},
	{service.ErrPreferenciaPago, http.StatusBadGateway},
	{service.ErrSinInitPoint, http.StatusBadGateway},

	{service.ErrVarianteInvalida, http.StatusNotFound},
	{service.ErrPedidoSinID, http.StatusBadRequest},
	{service.ErrCargandoPedido, http.StatusInternalServerError},
	{service.ErrPedidoNoEncontrado, http.StatusNotFound},

	{service.ErrPerfilYaCompleto, http.StatusConflict},
	{service.ErrPerfilNoVerificado, http.StatusServiceUnavailable},

	{service.ErrCalificacionEnCurso, http.StatusConflict},
	{service.ErrVendedorNoEncontrado, http.StatusNotFound},

	{service.ErrDashboardTimeout, http.StatusGatewayTimeout},

	{service.ErrProductoNoEncontrado, http.StatusNotFound},
	{service.ErrProductoAjeno, http.StatusForbidden},
	{service.ErrCategoriaInvalida, http.StatusUnprocessableEntity},
	{service.ErrPrecioInvalido, http.StatusUnprocessableEntity},
	{service.ErrProductoConPedidos, http.StatusConflict},

	{service.ErrSinImagenes, http.StatusBadRequest},
	{service.ErrNoEsImagen, http.StatusUnsupportedMediaType},
	{service.ErrImagenMuyGrande, http.StatusRequestEntityTooLarge},
	{service.ErrImagenNoEncontrada, http.StatusNotFound},
}

// responderError writes the envelope for err. Unknown errors are logged and
// answered with fallback so internal detail never reaches the client.
func responderError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrPerfilIncompleto) {
		c.JSON(http.StatusConflict, apierror.NewRedirect(err.Error(), middleware.RutaCompletarPerfil))
		return
	}

	var rechazo *infra.PreferenciaError
	if errors.As(err, &rechazo) {
		c.JSON(http.StatusBadGateway, apierror.New(rechazo.Error()))
		return
	}

	var consulta *service.ConsultaDashboardError
	if errors.As(err, &consulta) {
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("vista", consulta.Vista).
			Err(consulta.Err).
			Msg(fallback)
		c.JSON(http.StatusInternalServerError, apierror.New(consulta.Error()))
		return
	}

	for _, m := range statusPorError {
		if errors.Is(err, m.err) {
			c.JSON(m.status, apierror.New(err.Error()))
			return
		}
	}

	log.Error().
		Str("request_id", c.GetString(middleware.RequestIDKey)).
		Str("path", c.FullPath()).
		Err(err).
		Msg(fallback)
	c.JSON(http.StatusInternalServerError, apierror.New(fallback))
}

// identidadID is the acting identity, empty when anonymous.
func identidadID(c *gin.Context) string {
	if ident := middleware.GetResolver(c).Snapshot().Identidad; ident != nil {
		return ident.ID
	}
	return ""
}
