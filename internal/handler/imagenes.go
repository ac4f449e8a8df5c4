package handler

import (
	"mime/multipart"
	"net/http"

	"bogogo/internal/apierror"
	"bogogo/internal/middleware"
	"bogogo/internal/service"

	"github.com/gin-gonic/gin"
)

// maxSubida bounds the whole multipart body; the per-image limit is
// enforced by the service.
const maxSubida = 32 << 20

type ImagenesHandler struct{ svc service.ImagenService }

func NewImagenesHandler(svc service.ImagenService) *ImagenesHandler {
	return &ImagenesHandler{svc: svc}
}

// Subir godoc
// @Summary Sube imágenes de un producto propio
// @Tags vendedor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param imagenes formData file true "Imágenes (varias)"
// @Param alt formData string false "Texto alternativo, en el mismo orden"
// @Success 201 {array} dto.ImagenResponse
// @Failure 413 {object} apierror.APIError
// @Failure 415 {object} apierror.APIError
// @Router /v1/vendedor/productos/{id}/imagenes [post]
func (h *ImagenesHandler) Subir(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSubida)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formulario de imágenes invalido"))
		return
	}

	headers := form.File["imagenes"]
	alts := form.Value["alt"]
	archivos := make([]service.ArchivoImagen, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cerrar(archivos)
			c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer "+fh.Filename))
			return
		}
		a := service.ArchivoImagen{Nombre: fh.Filename, Contenido: f}
		if i < len(alts) {
			a.Alt = alts[i]
		}
		archivos = append(archivos, a)
	}
	defer cerrar(archivos)

	resp, err := h.svc.Subir(c.Request.Context(), middleware.GetUsuario(c).ID, c.Param("id"), archivos)
	if err != nil {
		responderError(c, err, "Error al subir las imágenes")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Eliminar godoc
// @Summary Elimina una imagen de un producto propio
// @Tags vendedor
// @Security BearerAuth
// @Param id path string true "ID del producto"
// @Param imagen_id path string true "ID de la imagen"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Router /v1/vendedor/productos/{id}/imagenes/{imagen_id} [delete]
func (h *ImagenesHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), middleware.GetUsuario(c).ID, c.Param("id"), c.Param("imagen_id")); err != nil {
		responderError(c, err, "Error al eliminar la imagen")
		return
	}
	c.Status(http.StatusNoContent)
}

func cerrar(archivos []service.ArchivoImagen) {
	for _, a := range archivos {
		if f, ok := a.Contenido.(multipart.File); ok {
			_ = f.Close()
		}
	}
}
