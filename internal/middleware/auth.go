package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bogogo/internal/apierror"
	"bogogo/internal/identity"
	"bogogo/internal/model"
	"bogogo/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ClientKey   = "identity_client"
	ResolverKey = "session_resolver"
	UsuarioKey  = "usuario"

	RutaCompletarPerfil = "/complete-profile"
)

// Session builds the identity client and resolver for the request from the
// bearer token and resolves role and profile before the handler runs. A
// missing or invalid token leaves the request anonymous; gating is done by
// RequireSession and friends.
func Session(svc identity.Service, perfiles session.Perfiles) gin.HandlerFunc {
	return func(c *gin.Context) {
		var persisted *identity.Session
		if tok := bearer(c); tok != "" {
			persisted = &identity.Session{AccessToken: tok}
		}

		client := identity.NewClient(svc, persisted)
		resolver := session.NewResolver(client, perfiles)
		defer resolver.Close()
		resolver.Initialize(c.Request.Context())

		c.Set(ClientKey, client)
		c.Set(ResolverKey, resolver)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetResolver(c).Snapshot().Identidad == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		c.Next()
	}
}

// RequireCompleteProfile sends identities without a profile row to the
// profile completion page. An unreadable profile state is a 503, never a
// redirect.
func RequireCompleteProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch GetResolver(c).Snapshot().Perfil {
		case session.PerfilCompleto:
			c.Next()
		case session.PerfilIncompleto:
			c.AbortWithStatusJSON(http.StatusConflict,
				apierror.NewRedirect("Completa tu perfil para continuar", RutaCompletarPerfil))
		default:
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				apierror.New("No se pudo verificar el perfil. Intenta de nuevo."))
		}
	}
}

// RequireRole rejects requests whose resolved role is not in roles.
func RequireRole(roles ...model.Rol) gin.HandlerFunc {
	allowed := make(map[model.Rol]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		if !allowed[GetResolver(c).Snapshot().Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// UsuarioLookup finds the profile row of an identity.
type UsuarioLookup interface {
	FindByUUID(ctx context.Context, identidadID string) (*model.Usuario, error)
}

// LoadUsuario attaches the acting user's profile row, for routes that need
// the numeric user id (vendor and dashboard routes).
func LoadUsuario(usuarios UsuarioLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := GetResolver(c).Snapshot().Identidad
		if ident == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}
		u, err := usuarios.FindByUUID(c.Request.Context(), ident.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusConflict,
				apierror.NewRedirect("Completa tu perfil para continuar", RutaCompletarPerfil))
			return
		}
		if err != nil {
			log.Error().Err(err).Str("identity_id", ident.ID).Msg("middleware: no se pudo cargar el usuario")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apierror.New("No se pudo verificar el perfil. Intenta de nuevo."))
			return
		}
		c.Set(UsuarioKey, u)
		c.Next()
	}
}

// GetResolver returns the request's resolver. Routes outside Session get an
// anonymous, uninitialized one.
func GetResolver(c *gin.Context) *session.Resolver {
	if r, ok := c.Get(ResolverKey); ok {
		return r.(*session.Resolver)
	}
	return session.NewResolver(identity.NewClient(nil, nil), nil)
}

func GetClient(c *gin.Context) *identity.Client {
	client, _ := c.MustGet(ClientKey).(*identity.Client)
	return client
}

func GetUsuario(c *gin.Context) *model.Usuario {
	u, _ := c.MustGet(UsuarioKey).(*model.Usuario)
	return u
}
