package handler

import (
	"net/http"

	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	estado   service.EstadoPedidoService
}

func NewCheckoutHandler(checkout service.CheckoutService, estado service.EstadoPedidoService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, estado: estado}
}

// Iniciar godoc
// @Summary Crea pago, orden e items y devuelve la URL de pago
// @Description Sin perfil completo responde 409 con redirect a /complete-profile y deja el checkout pendiente.
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.CheckoutResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.RedirectError
// @Failure 502 {object} apierror.APIError
// @Router /v1/checkout [post]
func (h *CheckoutHandler) Iniciar(c *gin.Context) {
	resp, err := h.checkout.Iniciar(c.Request.Context(), middleware.GetCarritoID(c), identidadID(c))
	if err != nil {
		responderError(c, err, "Error al iniciar el pago")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Estado godoc
// @Summary Página de retorno del pago
// @Tags checkout
// @Produce json
// @Param variante path string true "success, failure o pending"
// @Param orderId query int true "ID de la orden"
// @Success 200 {object} dto.EstadoPedidoResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/checkout/{variante} [get]
func (h *CheckoutHandler) Estado(c *gin.Context) {
	resp, err := h.estado.Ver(c.Request.Context(), c.Param("variante"), c.Query("orderId"), middleware.GetCarritoID(c), identidadID(c))
	if err != nil {
		responderError(c, err, "Error cargando la orden")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pedidos godoc
// @Summary Órdenes del cliente actual
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PedidoResponse
// @Router /v1/pedidos [get]
func (h *CheckoutHandler) Pedidos(c *gin.Context) {
	resp, err := h.estado.Listar(c.Request.Context(), identidadID(c))
	if err != nil {
		responderError(c, err, "Error al listar las órdenes")
		return
	}
	c.JSON(http.StatusOK, resp)
}
