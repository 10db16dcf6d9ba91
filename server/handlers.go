package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/rs/zerolog/log"
)

// IndexHandler renders the home page, or sends a logged in visitor to the landing page
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessionManager(w, r).Check(r.Context()); err == nil {
			http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
			return
		}
		s.renderPage(w, r, http.StatusOK, "Welcome", tmpl, map[string]interface{}{
			"AppName": s.config.GetAppName(),
		})
	}
}

// SessionInfo is the JSON view of the browser's session
type SessionInfo struct {
	Authenticated bool       `json:"authenticated"`
	Role          string     `json:"role"`
	UserID        string     `json:"user_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	ExpiresIn     int64      `json:"expires_in,omitempty"` // seconds
}

// SessionInfoHandler reports the current session for scripts running in the page.
// It applies the same expiry rules as the HTML guard but never redirects.
func (s *Server) SessionInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		sess, err := s.sessionManager(w, r).Check(r.Context())
		if err != nil && !errors.IsSessionError(err) {
			log.Err(err).Msg("session check failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session store unavailable"})
			return
		}

		info := SessionInfo{
			Authenticated: sess.Authenticated(),
			Role:          string(sess.Role),
			UserID:        sess.UserID,
		}
		if sess.Authenticated() && !sess.ExpiresAt.IsZero() {
			expiresAt := sess.ExpiresAt.UTC()
			info.ExpiresAt = &expiresAt
			info.ExpiresIn = int64(sess.Remaining(s.now()).Seconds())
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, info)
	}
}

// HealthHandler reports whether the front-end and its session backend are usable
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.credentials != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := s.credentials.Ping(ctx); err != nil {
				log.Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}
