package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistroRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nombre   string `json:"nombre"   validate:"required,min=2,max=100"`
	Apellido string `json:"apellido" validate:"required,min=2,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

type OAuthRequest struct {
	Proveedor  string `json:"proveedor"   validate:"required,oneof=google"`
	RedirigirA string `json:"redirigir_a" validate:"omitempty,url"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IdentidadResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	EmailConfirmado bool   `json:"email_confirmado"`
}

type TokensResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenType    string            `json:"token_type"`
	ExpiresAt    time.Time         `json:"expires_at"`
	Usuario      IdentidadResponse `json:"usuario"`
}

type RegistroResponse struct {
	IdentidadID          string          `json:"identidad_id"`
	RequiereConfirmacion bool            `json:"requiere_confirmacion"`
	Sesion               *TokensResponse `json:"sesion,omitempty"`
}

type OAuthResponse struct {
	URL string `json:"url"`
}

// SesionResponse is the resolver snapshot for the current request.
// NecesitaCompletarPerfil is null while the profile check is unresolved.
type SesionResponse struct {
	Estado                  string             `json:"estado"`
	Usuario                 *IdentidadResponse `json:"usuario"`
	Rol                     string             `json:"rol,omitempty"`
	NecesitaCompletarPerfil *bool              `json:"necesita_completar_perfil"`
}

type MensajeResponse struct {
	Mensaje string `json:"mensaje"`
}
