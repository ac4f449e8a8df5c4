package middleware

import (
	"net/http"
	"sync"
	"time"

	"bogogo/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana is a fixed-window counter per client IP.
type ventana struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu          sync.Mutex
	entradas    map[string]*entrada
	ultimaPurga time.Time
}

type entrada struct {
	count     int
	windowEnd time.Time
}

func newVentana(limit int, window time.Duration) *ventana {
	return &ventana{limit: limit, window: window, now: time.Now, entradas: make(map[string]*entrada)}
}

// permitir counts one hit for ip and reports whether it is within the limit,
// plus the end of the current window.
func (v *ventana) permitir(ip string) (bool, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.now()
	if now.Sub(v.ultimaPurga) >= purgeInterval {
		v.purgar(now)
	}

	e, ok := v.entradas[ip]
	if !ok || now.After(e.windowEnd) {
		e = &entrada{windowEnd: now.Add(v.window)}
		v.entradas[ip] = e
	}
	e.count++
	return e.count <= v.limit, e.windowEnd
}

// purgar drops expired windows so IPs that never return do not accumulate.
func (v *ventana) purgar(now time.Time) {
	purgadas := 0
	for ip, e := range v.entradas {
		if now.After(e.windowEnd) {
			delete(v.entradas, ip)
			purgadas++
		}
	}
	v.ultimaPurga = now
	if purgadas > 0 {
		log.Debug().Int("purged", purgadas).Int("remaining", len(v.entradas)).Msg("rate limiter purged")
	}
}

func limitar(v *ventana, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := v.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", fin.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// AuthRateLimiter limits sign-in and sign-up attempts to 20 per minute per IP.
func AuthRateLimiter() gin.HandlerFunc {
	return limitar(newVentana(20, time.Minute), "Demasiados intentos. Intenta de nuevo en un minuto.")
}

// RateLimiter is the general API limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limitar(newVentana(limit, window), "Demasiadas solicitudes. Intenta nuevamente en un momento.")
}
