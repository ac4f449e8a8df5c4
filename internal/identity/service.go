package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"bogogo/internal/config"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

// Notifier delivers the confirmation link produced at sign-up.
type Notifier interface {
	EnqueueConfirmacion(ctx context.Context, email, nombre, enlace string) error
}

// Options tunes the provider. See OptionsFromConfig.
type Options struct {
	JWTSecret                string
	AccessTTL                time.Duration
	RefreshTTL               time.Duration
	RequireEmailConfirmation bool
	GoogleAuthURL            string
	GoogleClientID           string
	PublicOrigin             string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		JWTSecret:                cfg.JWTSecret,
		AccessTTL:                time.Duration(cfg.JWTExpirationMinutes) * time.Minute,
		RefreshTTL:               time.Duration(cfg.JWTRefreshHours) * time.Hour,
		RequireEmailConfirmation: cfg.AuthRequireEmailConfirmation,
		GoogleAuthURL:            cfg.OAuthGoogleAuthURL,
		GoogleClientID:           cfg.OAuthGoogleClientID,
		PublicOrigin:             cfg.PublicOrigin,
	}
}

type service struct {
	repo     repository.IdentidadRepository
	denylist repository.TokenDenylist
	notifier Notifier
	cfg      Options
	now      func() time.Time
}

// NewService builds the provider. denylist and notifier may be nil.
func NewService(repo repository.IdentidadRepository, denylist repository.TokenDenylist, notifier Notifier, cfg Options) Service {
	return &service{repo: repo, denylist: denylist, notifier: notifier, cfg: cfg, now: time.Now}
}

// HashPassword is the hash stored in identity.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *service) SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, *Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return nil, nil, ErrUserAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("identity: lookup email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	rec := &model.Identidad{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		FirstName:       meta.FirstName,
		LastName:        meta.LastName,
		EmailConfirmado: !s.cfg.RequireEmailConfirmation,
	}
	if s.cfg.RequireEmailConfirmation {
		token := uuid.NewString()
		rec.TokenConfirmacion = &token
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrUserAlreadyRegistered
		}
		return nil, nil, fmt.Errorf("identity: create: %w", err)
	}

	ident := toIdentity(rec)
	if s.cfg.RequireEmailConfirmation {
		s.notificarConfirmacion(ctx, rec)
		return &ident, nil, nil
	}

	sess, err := s.emitirSesion(ident)
	if err != nil {
		return nil, nil, err
	}
	return &ident, sess, nil
}

func (s *service) notificarConfirmacion(ctx context.Context, rec *model.Identidad) {
	if s.notifier == nil || rec.TokenConfirmacion == nil {
		return
	}
	enlace := strings.TrimRight(s.cfg.PublicOrigin, "/") + "/v1/auth/confirmar?token=" + url.QueryEscape(*rec.TokenConfirmacion)
	if err := s.notifier.EnqueueConfirmacion(ctx, rec.Email, rec.FirstName, enlace); err != nil {
		log.Error().Err(err).Str("identity_id", rec.ID).Msg("identity: no se pudo encolar email de confirmacion")
	}
}

func (s *service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	rec, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("identity: lookup email: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !rec.EmailConfirmado {
		return nil, ErrEmailNotConfirmed
	}
	return s.emitirSesion(toIdentity(rec))
}

func (s *service) SignInWithOAuth(_ context.Context, provider, redirectTo string) (string, error) {
	if provider != "google" {
		return "", ErrUnsupportedProvider
	}
	if redirectTo == "" {
		redirectTo = s.cfg.PublicOrigin
	}
	q := url.Values{}
	q.Set("client_id", s.cfg.GoogleClientID)
	q.Set("redirect_uri", redirectTo)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", uuid.NewString())
	return s.cfg.GoogleAuthURL + "?" + q.Encode(), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.parsear(refreshToken, tokenRefresh)
	if err != nil {
		return nil, err
	}
	// Refresh tokens rotate: claiming the token first means concurrent
	// refreshes with the same token cannot both succeed.
	ok, err := s.reclamar(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidToken
	}
	rec, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.emitirSesion(toIdentity(rec))
}

func (s *service) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.parsear(accessToken, tokenAcceso)
	if err != nil {
		return err
	}
	if s.denylist == nil {
		return nil
	}
	return s.denylist.Add(ctx, claims.ID, claims.ExpiresAt.Time.Sub(s.now()))
}

func (s *service) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.parsear(accessToken, tokenAcceso)
	if err != nil {
		return nil, err
	}
	if s.revocado(ctx, claims.ID) {
		return nil, ErrInvalidToken
	}
	rec, err := s.repo.FindByID(ctx, claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("identity: load user: %w", err)
	}
	ident := toIdentity(rec)
	return &ident, nil
}

func (s *service) ConfirmEmail(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	rec, err := s.repo.FindByConfirmationToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("identity: lookup token: %w", err)
	}
	rec.EmailConfirmado = true
	rec.TokenConfirmacion = nil
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("identity: confirm: %w", err)
	}
	ident := toIdentity(rec)
	return &ident, nil
}

// revocado treats denylist read errors as not revoked.
func (s *service) revocado(ctx context.Context, tokenID string) bool {
	if s.denylist == nil {
		return false
	}
	ok, err := s.denylist.Contains(ctx, tokenID)
	if err != nil {
		log.Warn().Err(err).Msg("identity: denylist no disponible")
		return false
	}
	return ok
}

func (s *service) reclamar(ctx context.Context, claims *Claims) (bool, error) {
	if s.denylist == nil {
		return true, nil
	}
	ok, err := s.denylist.Claim(ctx, claims.ID, claims.ExpiresAt.Time.Sub(s.now()))
	if err != nil {
		log.Warn().Err(err).Str("identity_id", claims.Subject).Msg("identity: no se pudo reclamar refresh token")
		return false, fmt.Errorf("identity: claim refresh token: %w", err)
	}
	return ok, nil
}

func toIdentity(rec *model.Identidad) Identity {
	return Identity{
		ID:             rec.ID,
		Email:          rec.Email,
		FirstName:      rec.FirstName,
		LastName:       rec.LastName,
		EmailConfirmed: rec.EmailConfirmado,
	}
}
