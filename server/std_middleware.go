package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type middleware = func(http.HandlerFunc) http.HandlerFunc

// ChainMiddleware wraps handler so that mw[0] runs first.
func ChainMiddleware(handler http.HandlerFunc, mw ...middleware) http.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// HTMLMiddleWare is the stack every page shares, followed by mw.
func (s *Server) HTMLMiddleWare(mw ...middleware) []middleware {
	return append([]middleware{
		s.WWWRedirectMiddleware,
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
	}, mw...)
}

// APIMiddleware is the stack for the JSON session endpoint.
func (s *Server) APIMiddleware() []middleware {
	return []middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.CorsMiddleware,
	}
}

// WWWRedirectMiddleware sends www.host requests to the bare host.
func (s *Server) WWWRedirectMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bare, ok := strings.CutPrefix(r.Host, "www."); ok {
			http.Redirect(w, r, getScheme(r)+"://"+bare+r.RequestURI, http.StatusMovedPermanently)
			return
		}
		next(w, r)
	}
}

// statusRecorder keeps the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs each request. DEV uses the coloured route format.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			logRoute(r.Method, r.URL.Path)
			next(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// FrameSecurityMiddleware keeps pages out of foreign frames.
func (s *Server) FrameSecurityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next(w, r)
	}
}

// RecoverMiddleware turns a handler panic into a logged 500.
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("recovered from panic")
				http.Error(w, "500 - Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// CorsMiddleware lets configured origins read /api/session with the browser's
// cookies. A wildcard origin gets read access without credentials.
// Preflight requests are answered here with 204.
func (s *Server) CorsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preflight := r.Method == http.MethodOptions
		if origin := r.Header.Get("Origin"); origin != "" {
			s.setCORSHeaders(w.Header(), origin, preflight)
		}
		if preflight {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) setCORSHeaders(h http.Header, origin string, preflight bool) {
	allowed := s.config.GetAllowedOrigins()
	switch {
	case allowed.IsAllowedOrigin(origin):
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")
	case allowed.IsAllowedOrigin("*"):
		h.Set("Access-Control-Allow-Origin", "*")
	default:
		return
	}
	if preflight {
		h.Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
		h.Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())
		h.Set("Access-Control-Max-Age", "86400")
	}
}

// gzipWriter sends the body through a gzip stream.
type gzipWriter struct {
	http.ResponseWriter
	zw io.Writer
}

func (g gzipWriter) Write(b []byte) (int, error) {
	return g.zw.Write(b)
}

// CompressionMiddleware gzips text assets for clients that accept it.
// Images are served as they are.
func (s *Server) CompressionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || isImageAsset(r.URL.Path) {
			next(w, r)
			return
		}

		h := w.Header()
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		h.Del("Content-Length")

		zw := gzip.NewWriter(w)
		defer zw.Close()
		next(gzipWriter{ResponseWriter: w, zw: zw}, r)
	}
}

// CacheMiddleware lets browsers keep images for an hour and scripts and
// stylesheets for five minutes.
func (s *Server) CacheMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case isImageAsset(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		case hasExtension(r.URL.Path, ".css", ".js"):
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		}
		next(w, r)
	}
}

func isImageAsset(path string) bool {
	return strings.HasPrefix(path, "/images/") && hasExtension(path, ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico")
}

func hasExtension(path string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
