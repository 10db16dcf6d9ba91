package session

import (
	"context"
	"time"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/rs/zerolog/log"
)

// Manager owns the session lifecycle for one credential store:
// Anonymous -> Authenticated -> (Expired | LoggedOut) -> Anonymous.
//
// A Manager is built where the store becomes available (process start for
// the CLI, each request for the web front-end) and passed to whatever needs
// the session. It is not safe for concurrent use.
type Manager struct {
	store   Store
	now     func() time.Time
	current Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an anonymous manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		now:     time.Now,
		current: Anonymous(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the last computed session.
func (m *Manager) Session() Session {
	return m.current
}

// Init reads the stored credential and restores the session it describes.
// An empty store is a normal anonymous start and not an error. A malformed or
// expired credential is cleared and its error returned.
func (m *Manager) Init(ctx context.Context) (Session, error) {
	s, err := m.Check(ctx)
	if errors.Is(err, errors.ErrNoCredential) {
		return s, nil
	}
	return s, err
}

// Check is the access guard. It re-reads the store on every call and returns
// the session only when a well formed, unexpired credential is present.
// Malformed and expired credentials are cleared exactly as Logout would.
func (m *Manager) Check(ctx context.Context) (Session, error) {
	token, err := m.store.Load(ctx)
	if errors.Is(err, errors.ErrMalformedCredential) {
		err = m.endWith(ctx, err)
		return m.current, err
	}
	if err != nil {
		m.current = Anonymous()
		return m.current, err
	}
	if token == "" {
		m.current = Anonymous()
		return m.current, errors.ErrNoCredential
	}
	return m.adopt(ctx, token)
}

// Login stores token and derives the session from it. A token that cannot be
// decoded leaves the manager anonymous with an empty store.
func (m *Manager) Login(ctx context.Context, token string) (Session, error) {
	if err := m.store.Save(ctx, token); err != nil {
		return m.current, errors.Wrapf(err, "save credential")
	}
	s, err := m.adopt(ctx, token)
	if err == nil {
		log.Debug().Str("role", string(s.Role)).Time("expires_at", s.ExpiresAt).Msg("session started")
	}
	return s, err
}

// Logout clears the stored credential and the role unconditionally.
// The in-memory session is anonymous even when the store reports an error.
func (m *Manager) Logout(ctx context.Context) error {
	m.current = Anonymous()
	if err := m.store.Clear(ctx); err != nil {
		return errors.Wrapf(err, "clear credential")
	}
	return nil
}

func (m *Manager) adopt(ctx context.Context, token string) (Session, error) {
	claims, err := Decode(token)
	if err != nil {
		log.Warn().Err(err).Msg("discarding malformed credential")
		err = m.endWith(ctx, err)
		return m.current, err
	}
	if claims.Expired(m.now()) {
		err = m.endWith(ctx, errors.ErrSessionExpired)
		return m.current, err
	}
	m.current = FromClaims(token, claims)
	return m.current, nil
}

// endWith logs out and reports cause, keeping any store failure visible.
func (m *Manager) endWith(ctx context.Context, cause error) error {
	if err := m.Logout(ctx); err != nil {
		log.Err(err).Msg("failed to clear credential")
		return errors.Wrapf(cause, "%v", err)
	}
	return cause
}
