package handler

import (
	"net/http"

	"bogogo/internal/dto"
	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

type PerfilHandler struct{ svc service.PerfilService }

func NewPerfilHandler(svc service.PerfilService) *PerfilHandler { return &PerfilHandler{svc: svc} }

// Completar godoc
// @Summary Completa el perfil de la identidad actual
// @Description Crea la fila de usuario. Si un checkout quedó pendiente, reabrir_carrito es true.
// @Tags perfil
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CompletarPerfilRequest true "Perfil"
// @Success 201 {object} dto.PerfilResponse
// @Failure 409 {object} apierror.APIError
// @Failure 503 {object} apierror.APIError
// @Router /v1/perfil [post]
func (h *PerfilHandler) Completar(c *gin.Context) {
	var req dto.CompletarPerfilRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resolver := middleware.GetResolver(c)
	ident := resolver.Snapshot().Identidad
	resp, err := h.svc.Completar(c.Request.Context(), *ident, middleware.GetCarritoID(c), resolver, req)
	if err != nil {
		responderError(c, err, "Error al guardar el perfil")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
