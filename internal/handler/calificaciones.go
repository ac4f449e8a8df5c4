package handler

import (
	"net/http"

	"bogogo/internal/dto"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

type CalificacionesHandler struct{ svc service.CalificacionService }

func NewCalificacionesHandler(svc service.CalificacionService) *CalificacionesHandler {
	return &CalificacionesHandler{svc: svc}
}

// Crear godoc
// @Summary Califica a un vendedor
// @Tags calificaciones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCalificacionRequest true "Vendedor y valor"
// @Success 201 {object} dto.CalificacionResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/calificaciones [post]
func (h *CalificacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearCalificacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), identidadID(c), req)
	if err != nil {
		responderError(c, err, "Error al guardar la calificación")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
