package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/internal/config"
	"github.com/jrsteele09/studentdesk/session"
	"github.com/jrsteele09/studentdesk/session/redisstore"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env         string // Environment (e.g., "DEV", "PROD")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	api         *api.Client
	credentials *redisstore.Store // nil when credentials live in the browser cookie
	layout      *template.Template
	now         func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithRedisCredentials keeps credentials in Redis, addressed by a browser session id cookie.
func WithRedisCredentials(store *redisstore.Store) Option {
	return func(s *Server) {
		s.credentials = store
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

func New(c config.Config, client *api.Client, opts ...Option) (*Server, error) {
	layout, err := ParseTemplate("layout.html")
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse layout: %w", err)
	}

	s := &Server{
		env:    c.GetEnv(),
		mux:    http.NewServeMux(),
		config: c,
		api:    client,
		layout: layout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if c.GetSessionBackend() == config.SessionBackendRedis && s.credentials == nil {
		return nil, fmt.Errorf("[Server New] session backend is redis but no redis store was supplied")
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// sessionManager builds the session lifecycle for the browser making r.
func (s *Server) sessionManager(w http.ResponseWriter, r *http.Request) *session.Manager {
	return session.NewManager(s.credentialStore(w, r), session.WithClock(s.now))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", coloredMethod(method), path)
}

func logError(method, path string, err error) {
	log.Error().Msgf("[%-19s] %s %s", coloredMethod(method), path, Red+err.Error()+ResetColor)
}

func coloredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
