package handler

import (
	"net/http"

	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregated views. Nothing is cached; a
// refresh is a new request.
type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Admin godoc
// @Summary Dashboard del administrador
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardAdminResponse
// @Failure 504 {object} apierror.APIError
// @Router /v1/dashboard/admin [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	resp, err := h.svc.Admin(c.Request.Context())
	if err != nil {
		responderError(c, err, "Error al cargar el dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Vendedor godoc
// @Summary Dashboard del vendedor actual
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardVendedorResponse
// @Failure 504 {object} apierror.APIError
// @Router /v1/dashboard/vendedor [get]
func (h *DashboardHandler) Vendedor(c *gin.Context) {
	resp, err := h.svc.Vendedor(c.Request.Context(), middleware.GetUsuario(c).ID)
	if err != nil {
		responderError(c, err, "Error al cargar el dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
