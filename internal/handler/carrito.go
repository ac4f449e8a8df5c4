package handler

import (
	"net/http"
	"strconv"

	"bogogo/internal/apierror"
	"bogogo/internal/dto"
	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

// CarritoHandler serves the cart bound to the request's cart id cookie.
type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

// Obtener godoc
// @Summary Carrito actual con totales
// @Tags carrito
// @Produce json
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/carrito [get]
func (h *CarritoHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), middleware.GetCarritoID(c))
	if err != nil {
		responderError(c, err, "Error al cargar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary Agrega un producto al carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Param body body dto.AgregarItemRequest true "Producto y cantidad"
// @Success 200 {object} dto.CarritoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/carrito/items [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), middleware.GetCarritoID(c), req)
	if err != nil {
		responderError(c, err, "Error al agregar al carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCantidad godoc
// @Summary Cambia la cantidad de una línea; 0 o menos la quita
// @Tags carrito
// @Accept json
// @Produce json
// @Param producto_id path string true "ID del producto"
// @Param body body dto.ActualizarCantidadRequest true "Cantidad"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/carrito/items/{producto_id} [put]
func (h *CarritoHandler) ActualizarCantidad(c *gin.Context) {
	var req dto.ActualizarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCantidad(c.Request.Context(), middleware.GetCarritoID(c), c.Param("producto_id"), req.Cantidad)
	if err != nil {
		responderError(c, err, "Error al actualizar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar godoc
// @Summary Quita un producto del carrito
// @Tags carrito
// @Produce json
// @Param producto_id path string true "ID del producto"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/carrito/items/{producto_id} [delete]
func (h *CarritoHandler) Quitar(c *gin.Context) {
	resp, err := h.svc.Quitar(c.Request.Context(), middleware.GetCarritoID(c), c.Param("producto_id"))
	if err != nil {
		responderError(c, err, "Error al actualizar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vaciar godoc
// @Summary Vacía el carrito
// @Tags carrito
// @Produce json
// @Param silencioso query bool false "Sin mensaje"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/carrito [delete]
func (h *CarritoHandler) Vaciar(c *gin.Context) {
	silencioso := false
	if raw := c.Query("silencioso"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("silencioso debe ser true o false"))
			return
		}
		silencioso = v
	}
	resp, err := h.svc.Vaciar(c.Request.Context(), middleware.GetCarritoID(c), silencioso)
	if err != nil {
		responderError(c, err, "Error al vaciar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetAbierto godoc
// @Summary Abre o cierra el panel del carrito
// @Tags carrito
// @Accept json
// @Produce json
// @Param body body dto.CarritoAbiertoRequest true "Estado del panel"
// @Success 200 {object} dto.CarritoResponse
// @Router /v1/carrito/abierto [put]
func (h *CarritoHandler) SetAbierto(c *gin.Context) {
	var req dto.CarritoAbiertoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetAbierto(c.Request.Context(), middleware.GetCarritoID(c), *req.Abierto)
	if err != nil {
		responderError(c, err, "Error al actualizar el carrito")
		return
	}
	c.JSON(http.StatusOK, resp)
}
