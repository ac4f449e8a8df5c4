package handler

import (
	"errors"
	"net/http"

	"bogogo/internal/apierror"
	"bogogo/internal/dto"
	"bogogo/internal/identity"
	"bogogo/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AuthHandler exposes the identity provider through the request's resolver,
// so sign-in and sign-out go through the same state machine the gating
// middleware reads.
type AuthHandler struct{ svc identity.Service }

func NewAuthHandler(svc identity.Service) *AuthHandler { return &AuthHandler{svc: svc} }

// Registro godoc
// @Summary Registro con email y contraseña
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegistroRequest true "Datos de registro"
// @Success 201 {object} dto.RegistroResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/registro [post]
func (h *AuthHandler) Registro(c *gin.Context) {
	var req dto.RegistroRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id, err := middleware.GetResolver(c).SignUp(c.Request.Context(), req.Email, req.Password, req.Nombre, req.Apellido)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, identity.ErrUserAlreadyRegistered) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(identity.MensajeRegistro(err)))
		return
	}

	resp := dto.RegistroResponse{IdentidadID: id, RequiereConfirmacion: true}
	if sess := middleware.GetClient(c).Session(); sess != nil && sess.User.ID == id {
		resp.RequiereConfirmacion = false
		resp.Sesion = tokensResponse(sess)
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Login con email y contraseña
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.TokensResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sess, err := middleware.GetResolver(c).SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(identity.MensajeLogin(err)))
		return
	}
	c.JSON(http.StatusOK, tokensResponse(sess))
}

// OAuth godoc
// @Summary URL de autorización del proveedor OAuth
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.OAuthRequest true "Proveedor"
// @Success 200 {object} dto.OAuthResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/oauth [post]
func (h *AuthHandler) OAuth(c *gin.Context) {
	var req dto.OAuthRequest
	if !bindAndValidate(c, &req) {
		return
	}

	url, err := middleware.GetResolver(c).SignInWithOAuth(c.Request.Context(), req.Proveedor, req.RedirigirA)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(identity.MensajeLogin(err)))
		return
	}
	c.JSON(http.StatusOK, dto.OAuthResponse{URL: url})
}

// Refresh godoc
// @Summary Renueva el par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.TokensResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client := identity.NewClient(h.svc, &identity.Session{RefreshToken: req.RefreshToken})
	sess, err := client.RefreshSession(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New(identity.MensajeLogin(err)))
		return
	}
	c.JSON(http.StatusOK, tokensResponse(sess))
}

// Logout godoc
// @Summary Cierra la sesión y revoca el token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MensajeResponse
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middleware.GetResolver(c).SignOut(c.Request.Context()); err != nil {
		log.Warn().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("auth: el proveedor fallo al cerrar sesion")
	}
	c.JSON(http.StatusOK, dto.MensajeResponse{Mensaje: "Sesión cerrada"})
}

// Confirmar godoc
// @Summary Confirma el email con el token recibido por correo
// @Tags auth
// @Produce json
// @Param token query string true "Token de confirmación"
// @Success 200 {object} dto.IdentidadResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/confirmar [get]
func (h *AuthHandler) Confirmar(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Falta el token de confirmación"))
		return
	}

	ident, err := middleware.GetClient(c).ConfirmEmail(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, apierror.New("El enlace de confirmación no es válido o expiró."))
			return
		}
		responderError(c, err, "Error al confirmar el email")
		return
	}
	c.JSON(http.StatusOK, identidadResponse(*ident))
}

// Sesion godoc
// @Summary Estado de la sesión actual
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SesionResponse
// @Router /v1/sesion [get]
func (h *AuthHandler) Sesion(c *gin.Context) {
	snap := middleware.GetResolver(c).Snapshot()
	resp := dto.SesionResponse{
		Estado:                  string(snap.Estado),
		NecesitaCompletarPerfil: snap.NecesitaCompletarPerfil(),
	}
	if snap.Identidad != nil {
		u := identidadResponse(*snap.Identidad)
		resp.Usuario = &u
		resp.Rol = snap.Rol.String()
	}
	c.JSON(http.StatusOK, resp)
}

func identidadResponse(i identity.Identity) dto.IdentidadResponse {
	return dto.IdentidadResponse{
		ID:              i.ID,
		Email:           i.Email,
		Nombre:          i.FirstName,
		Apellido:        i.LastName,
		EmailConfirmado: i.EmailConfirmed,
	}
}

func tokensResponse(s *identity.Session) *dto.TokensResponse {
	return &dto.TokensResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    s.ExpiresAt,
		Usuario:      identidadResponse(s.User),
	}
}
