package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the checked session.Session
	ContextKeySession ContextKey = "session"
	// ContextKeyManager stores the request's *session.Manager
	ContextKeyManager ContextKey = "session_manager"
)

// Messages shown on the login page after the guard turns a visitor away
const (
	loginRequiredMessage  = "Login required"
	sessionExpiredMessage = "Your session has expired, please log in again"
)

// RequireSession guards HTML routes. A visitor without a usable credential
// is sent to the login page; malformed and expired credentials are cleared
// on the way.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			m := s.sessionManager(w, r)
			sess, err := m.Check(r.Context())
			if err != nil {
				if !errors.IsSessionError(err) {
					log.Err(err).Str("path", r.URL.Path).Msg("session check failed")
				}
				msg := loginRequiredMessage
				if errors.Is(err, errors.ErrSessionExpired) {
					msg = sessionExpiredMessage
				}
				redirectToLogin(w, r, msg)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeyManager, m)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole answers 403 when the session lacks role.
// Should be chained after RequireSession to ensure a session is present
func (s *Server) RequireRole(role session.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !SessionFromContext(r.Context()).HasRole(role) {
				s.renderError(w, r, http.StatusForbidden, "You do not have access to this page")
				return
			}
			next(w, r)
		}
	}
}

// SessionFromContext returns the session injected by RequireSession, or an
// anonymous session on unguarded routes.
func SessionFromContext(ctx context.Context) session.Session {
	if sess, ok := ctx.Value(ContextKeySession).(session.Session); ok {
		return sess
	}
	return session.Anonymous()
}

// managerFor returns the manager RequireSession built for r, or a new one.
func (s *Server) managerFor(w http.ResponseWriter, r *http.Request) *session.Manager {
	if m, ok := r.Context().Value(ContextKeyManager).(*session.Manager); ok {
		return m
	}
	return s.sessionManager(w, r)
}

// endSessionOnReject logs the browser out when the API rejected its
// credential. It reports whether it answered the request.
func (s *Server) endSessionOnReject(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, errors.ErrUnauthorized) {
		return false
	}
	if err := s.managerFor(w, r).Logout(r.Context()); err != nil {
		log.Err(err).Msg("failed to clear rejected credential")
	}
	redirectToLogin(w, r, sessionExpiredMessage)
	return true
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, RouteLogin+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
