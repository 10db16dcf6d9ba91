package server

import (
	"net/http"
	"net/mail"
	"net/url"
	"strings"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/students"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 6

// RegisterPageData contains data for rendering the registration page
type RegisterPageData struct {
	Error string
	Name  string
	Email string
}

// RegisterPageHandler renders the account registration page
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, "Register", tmpl, RegisterPageData{})
	}
}

// RegisterSubmissionHandler creates the account. When the API logs the new
// user straight in the session starts; otherwise the user is sent to log in.
func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("register.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		data := RegisterPageData{
			Name:  strings.TrimSpace(r.FormValue("name")),
			Email: strings.TrimSpace(r.FormValue("email")),
		}
		password := r.FormValue("password")

		if msg := validateRegistration(data.Name, data.Email, password); msg != "" {
			data.Error = msg
			s.renderPage(w, r, http.StatusUnprocessableEntity, "Register", tmpl, data)
			return
		}

		token, err := s.api.Register(r.Context(), data.Name, data.Email, password)
		if err != nil {
			log.Err(err).Msg("registration request failed")
			data.Error = api.Message(err, "Registration failed. Please check your details and try again.")
			s.renderPage(w, r, http.StatusOK, "Register", tmpl, data)
			return
		}

		if token == "" {
			http.Redirect(w, r, RouteLogin+"?notice="+url.QueryEscape("Registration successful, please log in")+"&email="+url.QueryEscape(data.Email), http.StatusSeeOther)
			return
		}

		if _, err := s.sessionManager(w, r).Login(r.Context(), token); err != nil {
			log.Err(err).Msg("registration returned an unusable credential")
			renderLoginError(w, r, "Registration succeeded but login failed, please log in", data.Email)
			return
		}
		http.Redirect(w, r, RouteLanding, http.StatusSeeOther)
	}
}

func validateRegistration(name, email, password string) string {
	switch {
	case name == "" || email == "" || password == "":
		return "Name, email and password are required"
	case len(password) < minPasswordLength:
		return "Password must be at least 6 characters"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "Invalid email address"
	}
	return ""
}

// SignupPageData shows the login generated for a newly added student
type SignupPageData struct {
	Created students.Created
}

// SignupHandler answers GET /signup. The credentials page is only reachable
// straight after adding a student, so a direct visit is an invalid access.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderPage(w, r, http.StatusOK, "Registration", signupTmpl, SignupPageData{})
	}
}

var signupTmpl = mustParseTemplate("signup.html")
