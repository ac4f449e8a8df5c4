package service

import (
	"context"
	"errors"
	"strings"

	"bogogo/internal/cart"
	"bogogo/internal/dto"
	"bogogo/internal/identity"
	"bogogo/internal/model"
	"bogogo/internal/repository"
	"bogogo/internal/session"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrPerfilYaCompleto   = errors.New("El perfil ya fue completado")
	ErrPerfilNoVerificado = errors.New("No se pudo verificar el perfil. Intenta de nuevo.")
)

// VerificadorPerfil re-reads role and profile state after the insert.
// *session.Resolver implements it.
type VerificadorPerfil interface {
	CheckProfileCompletion(ctx context.Context, identidadID string) session.PerfilEstado
	FetchRole(ctx context.Context, identidadID string) model.Rol
}

// PerfilService creates the local user row bound to an identity.
type PerfilService interface {
	Completar(ctx context.Context, ident identity.Identity, carritoID string, verificador VerificadorPerfil, req dto.CompletarPerfilRequest) (*dto.PerfilResponse, error)
}

type perfilService struct {
	usuarios repository.UsuarioRepository
	carritos repository.CarritoRepository
}

func NewPerfilService(usuarios repository.UsuarioRepository, carritos repository.CarritoRepository) PerfilService {
	return &perfilService{usuarios: usuarios, carritos: carritos}
}

// Completar inserts the profile, then asks the verifier instead of assuming
// success. A pending-checkout marker left by checkout is consumed here and
// reopens the cart panel.
func (s *perfilService) Completar(ctx context.Context, ident identity.Identity, carritoID string, verificador VerificadorPerfil, req dto.CompletarPerfilRequest) (*dto.PerfilResponse, error) {
	rolID := req.RolID
	u := &model.Usuario{
		UUID:     ident.ID,
		Nombre:   strings.TrimSpace(req.Nombre),
		Apellido: strings.TrimSpace(req.Apellido),
		Email:    ident.Email,
		Celular:  req.Celular,
		RolID:    &rolID,
	}
	if err := s.usuarios.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPerfilYaCompleto
		}
		log.Error().Err(err).Str("identity_id", ident.ID).Msg("perfil: error guardando el usuario")
		return nil, err
	}

	if verificador.CheckProfileCompletion(ctx, ident.ID) != session.PerfilCompleto {
		return nil, ErrPerfilNoVerificado
	}
	rol := verificador.FetchRole(ctx, ident.ID)

	resp := &dto.PerfilResponse{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Apellido: u.Apellido,
		Email:    u.Email,
		Celular:  u.Celular,
		Rol:      rol.String(),
	}
	if carritoID != "" {
		resp.ReabrirCarrito = s.reanudarCheckout(ctx, carritoID)
	}
	return resp, nil
}

func (s *perfilService) reanudarCheckout(ctx context.Context, carritoID string) bool {
	pendiente, err := s.carritos.ConsumirCheckoutPendiente(ctx, carritoID)
	if err != nil {
		log.Warn().Err(err).Str("cart_id", carritoID).Msg("perfil: no se pudo leer el checkout pendiente")
		return false
	}
	if !pendiente {
		return false
	}
	if _, err := s.carritos.Update(ctx, carritoID, func(c *cart.Carrito) error {
		c.Abierto = true
		return nil
	}); err != nil {
		log.Warn().Err(err).Str("cart_id", carritoID).Msg("perfil: no se pudo reabrir el carrito")
	}
	return true
}
