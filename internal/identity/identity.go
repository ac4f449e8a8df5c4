// Package identity is the authentication provider: password and OAuth
// sign-in, token issuance and revocation, and a per-session Client that
// publishes auth state changes to subscribers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider errors use the provider's own vocabulary; see MensajeLogin and
// MensajeRegistro for the localized text shown to users.
var (
	ErrInvalidCredentials    = errors.New("Invalid login credentials")
	ErrEmailNotConfirmed     = errors.New("Email not confirmed")
	ErrUserAlreadyRegistered = errors.New("User already registered")
	ErrInvalidToken          = errors.New("Invalid or expired token")
	ErrUnsupportedProvider   = errors.New("Unsupported OAuth provider")
)

// Identity is the provider's view of a user. It exists before, and
// independently of, the local profile row.
type Identity struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	EmailConfirmed bool
}

// Session is an authenticated identity plus its token pair.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         Identity
}

// Metadata is stored with the identity at sign-up.
type Metadata struct {
	FirstName string
	LastName  string
}

// Service is the server side of the identity provider.
type Service interface {
	// SignUp returns a nil Session when email confirmation is required.
	SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, *Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignInWithOAuth returns the provider authorize URL to redirect the browser to.
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	ConfirmEmail(ctx context.Context, token string) (*Identity, error)
}

// Event is the closed set of auth state changes a Client publishes.
type Event int

const (
	SignedIn Event = iota + 1
	SignedOut
	TokenRefreshed
	UserUpdated
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	case TokenRefreshed:
		return "TOKEN_REFRESHED"
	case UserUpdated:
		return "USER_UPDATED"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Valid reports whether e is one of the declared events.
func (e Event) Valid() bool {
	return e >= SignedIn && e <= UserUpdated
}

// ParseEvent maps the wire name back to an Event.
func ParseEvent(s string) (Event, error) {
	for e := SignedIn; e <= UserUpdated; e++ {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("identity: unknown auth event %q", s)
}
