package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/studentdesk/session"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// REGISTRATION
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteLanding, ChainMiddleware(s.LandingHandler(), s.HTMLMiddleWare(s.RequireSession())...))

	// Admin routes
	admin := s.HTMLMiddleWare(s.RequireSession(), s.RequireRole(session.RoleAdmin))
	s.RegisterRouteHandler("GET "+RouteStudents, ChainMiddleware(s.StudentListHandler(listModeView), admin...))
	s.RegisterRouteHandler("GET "+RouteStudentNew, ChainMiddleware(s.StudentNewPageHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteStudentNew, ChainMiddleware(s.StudentNewSubmissionHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteStudentUpdate, ChainMiddleware(s.StudentListHandler(listModeUpdate), admin...))
	s.RegisterRouteHandler("GET "+RouteStudentUpdateByID, ChainMiddleware(s.StudentUpdatePageHandler(), admin...))
	s.RegisterRouteHandler("POST "+RouteStudentUpdateByID, ChainMiddleware(s.StudentUpdateSubmissionHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteStudentDelete, ChainMiddleware(s.StudentListHandler(listModeDelete), admin...))
	s.RegisterRouteHandler("POST "+RouteStudentDeleteByID, ChainMiddleware(s.StudentDeleteHandler(), admin...))

	// Student routes
	student := s.HTMLMiddleWare(s.RequireSession(), s.RequireRole(session.RoleStudent))
	s.RegisterRouteHandler("GET "+RouteStudentMe, ChainMiddleware(s.ProfileHandler(), student...))
	s.RegisterRouteHandler("GET "+RouteStudentMeSection, ChainMiddleware(s.ProfileHandler(), student...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS "+RouteAPISession, ChainMiddleware(s.SessionInfoHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	static := s.HTMLMiddleWare(s.CacheMiddleware, s.CompressionMiddleware)
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), static...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), static...))
	s.RegisterRouteHandler("GET "+RouteStaticImages, ChainMiddleware(s.serveFileHandler(), static...))
}

// serveFileHandler answers the static routes from the embedded assets.
func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if err := writeAsset(w, name); err != nil {
			logError(r.Method, r.URL.Path, err)
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
