package handler

import (
	"net/http"

	"bogogo/internal/apierror"
	"bogogo/internal/dto"
	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasHandler struct{ svc service.CategoriaService }

func NewCategoriasHandler(svc service.CategoriaService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Listar godoc
// @Summary Categorías ordenadas por nombre
// @Tags catalogo
// @Produce json
// @Success 200 {array} dto.CategoriaResponse
// @Router /v1/categorias [get]
func (h *CategoriasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al listar categorías")
		return
	}
	c.JSON(http.StatusOK, resp)
}

type ProductosHandler struct{ svc service.ProductoService }

func NewProductosHandler(svc service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Listar godoc
// @Summary Catálogo público, más recientes primero
// @Tags catalogo
// @Produce json
// @Param categoria query int false "ID de categoría"
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtro invalido"))
		return
	}
	if err := validate.Struct(filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtro invalido"))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err, "Error al listar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary Detalle de un producto
// @Tags catalogo
// @Produce json
// @Param id path string true "ID del producto"
// @Success 200 {object} dto.ProductoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/productos/{id} [get]
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err, "Error al cargar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPropios godoc
// @Summary Productos del vendedor actual
// @Tags vendedor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ProductoResponse
// @Router /v1/vendedor/productos [get]
func (h *ProductosHandler) ListarPropios(c *gin.Context) {
	resp, err := h.svc.ListarDeVendedor(c.Request.Context(), middleware.GetUsuario(c).ID)
	if err != nil {
		responderError(c, err, "Error al listar productos")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Publica un producto
// @Tags vendedor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearProductoRequest true "Producto"
// @Success 201 {object} dto.ProductoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/vendedor/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), middleware.GetUsuario(c).ID, req)
	if err != nil {
		responderError(c, err, "Error al crear el producto")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar godoc
// @Summary Modifica un producto propio
// @Tags vendedor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param body body dto.ActualizarProductoRequest true "Campos a modificar"
// @Success 200 {object} dto.ProductoResponse
// @Failure 403 {object} apierror.APIError
// @Router /v1/vendedor/productos/{id} [put]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), middleware.GetUsuario(c).ID, c.Param("id"), req)
	if err != nil {
		responderError(c, err, "Error al actualizar el producto")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary Elimina un producto propio y sus imágenes
// @Tags vendedor
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/vendedor/productos/{id} [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetUsuario(c).ID, c.Param("id")); err != nil {
		responderError(c, err, "Error al eliminar el producto")
		return
	}
	c.Status(http.StatusNoContent)
}
