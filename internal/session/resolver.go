// Package session resolves who is acting: identity, role and whether the
// local profile exists, kept in sync with the identity client's events.
package session

import (
	"context"
	"errors"
	"sync"

	"bogogo/internal/identity"
	"bogogo/internal/model"

	"github.com/rs/zerolog/log"
)

// ErrEventoDesconocido is returned for events outside the identity.Event set.
var ErrEventoDesconocido = errors.New("session: evento de autenticacion desconocido")

// PerfilEstado is tri-state: a failed read is not the same as a missing row.
type PerfilEstado int

const (
	PerfilDesconocido PerfilEstado = iota
	PerfilIncompleto
	PerfilCompleto
)

// Estado is the externally visible state of the resolver.
type Estado string

const (
	EstadoSinInicializar    Estado = "uninitialized"
	EstadoCargando          Estado = "loading"
	EstadoAnonimo           Estado = "anonymous"
	EstadoPerfilIncompleto  Estado = "authenticated-incomplete-profile"
	EstadoPerfilCompleto    Estado = "authenticated-complete-profile"
	EstadoPerfilDesconocido Estado = "authenticated-unknown-profile"
)

// Perfiles looks up the local profile row of an identity.
type Perfiles interface {
	RolPorUUID(ctx context.Context, identidadID string) (*int, error)
	ExistePorUUID(ctx context.Context, identidadID string) (bool, error)
}

// AuthClient is the subset of *identity.Client the resolver drives.
type AuthClient interface {
	GetSession(ctx context.Context) (*identity.Session, error)
	SignUp(ctx context.Context, email, password string, meta identity.Metadata) (*identity.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(l identity.Listener) func()
}

// Snapshot is a consistent copy of the resolver state.
type Snapshot struct {
	Estado    Estado
	Cargando  bool
	Identidad *identity.Identity
	Sesion    *identity.Session
	Rol       model.Rol // zero when anonymous
	Perfil    PerfilEstado
}

// NecesitaCompletarPerfil is nil while the answer is unknown.
func (s Snapshot) NecesitaCompletarPerfil() *bool {
	if s.Identidad == nil {
		f := false
		return &f
	}
	switch s.Perfil {
	case PerfilIncompleto:
		t := true
		return &t
	case PerfilCompleto:
		f := false
		return &f
	default:
		return nil
	}
}

// Resolver is the role/profile state machine for one session.
type Resolver struct {
	client   AuthClient
	perfiles Perfiles
	observer func(Estado)

	mu           sync.Mutex
	inicializado bool
	cargando     bool
	identidad    *identity.Identity
	sesion       *identity.Session
	rol          model.Rol
	perfil       PerfilEstado
	perfilDe     string

	unsubscribe func()
}

type Option func(*Resolver)

// WithObserver is called with the new state after every transition.
func WithObserver(fn func(Estado)) Option {
	return func(r *Resolver) { r.observer = fn }
}

// NewResolver subscribes to the client's auth events. Call Close to unsubscribe.
func NewResolver(client AuthClient, perfiles Perfiles, opts ...Option) *Resolver {
	r := &Resolver{client: client, perfiles: perfiles}
	for _, o := range opts {
		o(r)
	}
	r.unsubscribe = client.OnAuthStateChange(func(ctx context.Context, evt identity.Event, sess *identity.Session) {
		if err := r.HandleAuthEvent(ctx, evt, sess); err != nil {
			log.Error().Err(err).Str("event", evt.String()).Msg("session: evento ignorado")
		}
	})
	return r
}

func (r *Resolver) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

// Initialize loads the persisted session and resolves role and profile.
// Loading is cleared whether or not the session fetch succeeds.
func (r *Resolver) Initialize(ctx context.Context) {
	r.setCargando(true)
	defer func() {
		r.mu.Lock()
		r.inicializado = true
		r.cargando = false
		r.mu.Unlock()
		r.notificar()
	}()

	sess, err := r.client.GetSession(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("session: no se pudo obtener la sesion")
		sess = nil
	}
	r.setSesion(sess)
	r.resolver(ctx)
}

// FetchRole resolves the role of the identity. Errors and null roles
// degrade to comprador; nothing is propagated to the caller.
func (r *Resolver) FetchRole(ctx context.Context, identidadID string) model.Rol {
	rol := model.RolComprador
	id, err := r.perfiles.RolPorUUID(ctx, identidadID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("identity_id", identidadID).Msg("session: rol no disponible, se usa comprador")
	default:
		rol = model.RolDesdeID(id)
	}

	r.mu.Lock()
	if r.identidad != nil && r.identidad.ID == identidadID {
		r.rol = rol
	}
	r.mu.Unlock()
	return rol
}

// CheckProfileCompletion reports whether the identity has a profile row.
// On a read error the last known value for the same identity is kept;
// without one the result is PerfilDesconocido.
func (r *Resolver) CheckProfileCompletion(ctx context.Context, identidadID string) PerfilEstado {
	existe, err := r.perfiles.ExistePorUUID(ctx, identidadID)

	r.mu.Lock()
	defer r.mu.Unlock()

	var estado PerfilEstado
	switch {
	case err != nil:
		log.Warn().Err(err).Str("identity_id", identidadID).Msg("session: no se pudo verificar el perfil")
		if r.perfilDe == identidadID {
			estado = r.perfil
		} else {
			estado = PerfilDesconocido
		}
	case existe:
		estado = PerfilCompleto
	default:
		estado = PerfilIncompleto
	}

	if r.identidad != nil && r.identidad.ID == identidadID {
		r.perfil = estado
		r.perfilDe = identidadID
	}
	return estado
}

// HandleAuthEvent applies an auth state change. A token refresh for the
// identity already loaded only swaps the session; every other event toggles
// loading and re-resolves role and profile.
func (r *Resolver) HandleAuthEvent(ctx context.Context, evt identity.Event, sess *identity.Session) error {
	switch evt {
	case identity.TokenRefreshed:
		r.mu.Lock()
		mismo := sess != nil && r.identidad != nil && r.identidad.ID == sess.User.ID
		if mismo {
			r.sesion = sess
		}
		r.mu.Unlock()
		if mismo {
			return nil
		}
		r.cambioSignificativo(ctx, sess)
		return nil
	case identity.SignedIn, identity.UserUpdated:
		r.cambioSignificativo(ctx, sess)
		return nil
	case identity.SignedOut:
		r.cambioSignificativo(ctx, nil)
		return nil
	default:
		return ErrEventoDesconocido
	}
}

func (r *Resolver) cambioSignificativo(ctx context.Context, sess *identity.Session) {
	r.setCargando(true)
	r.setSesion(sess)
	r.resolver(ctx)
	r.setCargando(false)
}

// SignUp creates the identity and returns its id. The profile row is
// created later, by profile completion.
func (r *Resolver) SignUp(ctx context.Context, email, password, nombre, apellido string) (string, error) {
	ident, err := r.client.SignUp(ctx, email, password, identity.Metadata{FirstName: nombre, LastName: apellido})
	if err != nil {
		return "", err
	}
	return ident.ID, nil
}

func (r *Resolver) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	return r.client.SignInWithPassword(ctx, email, password)
}

func (r *Resolver) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return r.client.SignInWithOAuth(ctx, provider, redirectTo)
}

// SignOut clears the local state before calling the provider, so a failed
// provider call still leaves the resolver anonymous.
func (r *Resolver) SignOut(ctx context.Context) error {
	r.setSesion(nil)
	r.limpiarPerfil()
	r.notificar()
	return r.client.SignOut(ctx)
}

func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Snapshot{
		Estado:   r.estadoLocked(),
		Cargando: r.cargando,
		Rol:      r.rol,
		Perfil:   r.perfil,
	}
	if r.identidad != nil {
		ident := *r.identidad
		s.Identidad = &ident
	}
	if r.sesion != nil {
		sess := *r.sesion
		s.Sesion = &sess
	}
	return s
}

func (r *Resolver) Estado() Estado {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.estadoLocked()
}

func (r *Resolver) estadoLocked() Estado {
	switch {
	case r.cargando:
		return EstadoCargando
	case !r.inicializado && r.identidad == nil:
		return EstadoSinInicializar
	case r.identidad == nil:
		return EstadoAnonimo
	case r.perfil == PerfilCompleto:
		return EstadoPerfilCompleto
	case r.perfil == PerfilIncompleto:
		return EstadoPerfilIncompleto
	default:
		return EstadoPerfilDesconocido
	}
}

func (r *Resolver) resolver(ctx context.Context) {
	r.mu.Lock()
	ident := r.identidad
	r.mu.Unlock()

	if ident == nil {
		r.limpiarPerfil()
		return
	}
	r.FetchRole(ctx, ident.ID)
	r.CheckProfileCompletion(ctx, ident.ID)
}

func (r *Resolver) setSesion(sess *identity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inicializado = true
	if sess == nil {
		r.identidad = nil
		r.sesion = nil
		return
	}
	ident := sess.User
	r.identidad = &ident
	r.sesion = sess
	if r.perfilDe != ident.ID {
		r.rol = 0
		r.perfil = PerfilDesconocido
		r.perfilDe = ""
	}
}

func (r *Resolver) limpiarPerfil() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rol = 0
	r.perfil = PerfilDesconocido
	r.perfilDe = ""
}

func (r *Resolver) setCargando(v bool) {
	r.mu.Lock()
	r.cargando = v
	r.mu.Unlock()
	r.notificar()
}

func (r *Resolver) notificar() {
	if r.observer == nil {
		return
	}
	r.observer(r.Estado())
}
