package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	Error  string
	Notice string
	Email  string // Preserve email on error
}

// LoginPageHandler displays the login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		// Already logged in: nothing to do here
		if _, err := s.sessionManager(w, r).Check(r.Context()); err == nil {
			http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
			return
		}

		query := r.URL.Query()
		data := LoginPageData{
			Error:  query.Get("error"),
			Notice: query.Get("notice"),
			Email:  query.Get("email"),
		}
		s.renderPage(w, r, http.StatusOK, "Login", tmpl, data)
	}
}

// LoginSubmissionHandler exchanges the login form for a credential and starts the session
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			renderLoginError(w, r, "Email and password are required", email)
			return
		}

		token, err := s.api.Login(r.Context(), email, password)
		if err != nil {
			if !errors.Is(err, errors.ErrInvalidCredentials) {
				log.Err(err).Msg("login request failed")
			}
			renderLoginError(w, r, api.Message(err, "Invalid email or password"), email)
			return
		}

		if _, err := s.sessionManager(w, r).Login(r.Context(), token); err != nil {
			log.Err(err).Msg("login returned an unusable credential")
			renderLoginError(w, r, "Login failed, please try again", email)
			return
		}

		http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
	}
}

// LogoutHandler clears the stored credential and returns to the login page
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessionManager(w, r).Logout(r.Context()); err != nil {
			log.Err(err).Msg("Failed to clear session on logout")
		}
		http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
	}
}

// renderLoginError redirects to login page with an error message
func renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	// Build redirect URL with error and email parameters
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}
	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}
