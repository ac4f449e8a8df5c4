package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenAcceso  = "access"
	tokenRefresh = "refresh"
)

// Claims are embedded in every token the provider issues.
type Claims struct {
	Email string `json:"email"`
	Tipo  string `json:"token_type"`
	jwt.RegisteredClaims
}

func (s *service) firmar(ident Identity, tipo string, ttl time.Duration) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Email: ident.Email,
		Tipo:  tipo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   ident.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	return signed, claims, err
}

func (s *service) parsear(raw, tipo string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.Tipo != tipo || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *service) emitirSesion(ident Identity) (*Session, error) {
	access, claims, err := s.firmar(ident, tokenAcceso, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.firmar(ident, tokenRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         ident,
	}, nil
}
