package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CarritoKey    = "carrito_id"
	CarritoCookie = "bogogo_cart"
	CarritoHeader = "X-Cart-ID"

	carritoMaxAge = 30 * 24 * time.Hour
)

// CarritoID gives every browser an opaque cart id. It is read from the
// cookie, or from X-Cart-ID for non-browser clients, and minted when absent
// or malformed. The id is echoed in the response header.
func CarritoID(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CarritoHeader)
		if id == "" {
			id, _ = c.Cookie(CarritoCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CarritoCookie, id, int(carritoMaxAge.Seconds()), "/", "", secure, true)
		c.Header(CarritoHeader, id)
		c.Set(CarritoKey, id)
		c.Next()
	}
}

func GetCarritoID(c *gin.Context) string {
	return c.GetString(CarritoKey)
}
