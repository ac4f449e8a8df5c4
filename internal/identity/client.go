package identity

import (
	"context"
	"errors"
	"sync"
)

// Listener receives auth state changes. It runs synchronously on the
// goroutine that caused the change, after the Client's state was updated.
type Listener func(ctx context.Context, evt Event, sess *Session)

// Client is the per-session handle to the provider: it holds the current
// session and notifies subscribers when it changes.
type Client struct {
	svc Service

	mu        sync.Mutex
	session   *Session
	listeners map[int]Listener
	nextID    int
}

// NewClient starts with the persisted session, if any (nil for anonymous).
func NewClient(svc Service, persisted *Session) *Client {
	return &Client{svc: svc, session: persisted, listeners: make(map[int]Listener)}
}

// OnAuthStateChange registers l and returns a function that unregisters it.
func (c *Client) OnAuthStateChange(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// GetSession validates the persisted session against the provider and
// returns it with fresh user data. It returns nil, nil when anonymous.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	current := c.Session()
	if current == nil {
		return nil, nil
	}
	user, err := c.svc.GetUser(ctx, current.AccessToken)
	if errors.Is(err, ErrInvalidToken) {
		c.setSession(nil)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	current.User = *user
	c.setSession(current)
	return c.Session(), nil
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	cp := *c.session
	return &cp
}

func (c *Client) SignUp(ctx context.Context, email, password string, meta Metadata) (*Identity, error) {
	ident, sess, err := c.svc.SignUp(ctx, email, password, meta)
	if err != nil {
		return nil, err
	}
	if sess != nil {
		c.setSession(sess)
		c.emit(ctx, SignedIn, sess)
	}
	return ident, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	sess, err := c.svc.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	c.setSession(sess)
	c.emit(ctx, SignedIn, sess)
	return sess, nil
}

func (c *Client) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return c.svc.SignInWithOAuth(ctx, provider, redirectTo)
}

// RefreshSession swaps the token pair and emits TokenRefreshed.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	current := c.Session()
	if current == nil || current.RefreshToken == "" {
		return nil, ErrInvalidToken
	}
	sess, err := c.svc.Refresh(ctx, current.RefreshToken)
	if err != nil {
		return nil, err
	}
	c.setSession(sess)
	c.emit(ctx, TokenRefreshed, sess)
	return sess, nil
}

// ConfirmEmail confirms the identity and emits UserUpdated when it is the
// identity of the current session.
func (c *Client) ConfirmEmail(ctx context.Context, token string) (*Identity, error) {
	ident, err := c.svc.ConfirmEmail(ctx, token)
	if err != nil {
		return nil, err
	}
	current := c.Session()
	if current != nil && current.User.ID == ident.ID {
		current.User = *ident
		c.setSession(current)
		c.emit(ctx, UserUpdated, current)
	}
	return ident, nil
}

// SignOut always drops the local session and emits SignedOut; the provider
// error, if any, is returned afterwards.
func (c *Client) SignOut(ctx context.Context) error {
	current := c.Session()
	var err error
	if current != nil {
		err = c.svc.SignOut(ctx, current.AccessToken)
	}
	c.setSession(nil)
	c.emit(ctx, SignedOut, nil)
	return err
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

func (c *Client) emit(ctx context.Context, evt Event, sess *Session) {
	c.mu.Lock()
	ls := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		ls = append(ls, l)
	}
	c.mu.Unlock()

	for _, l := range ls {
		var cp *Session
		if sess != nil {
			s := *sess
			cp = &s
		}
		l(ctx, evt, cp)
	}
}
