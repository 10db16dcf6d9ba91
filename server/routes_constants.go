package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHome = "/{$}"

	// Auth Routes - Login, Logout & Registration
	RouteLogin    = "/login"
	RouteLogout   = "/logout"
	RouteRegister = "/register"
	RouteSignup   = "/signup"

	RouteLanding = "/landing"

	// Admin Routes
	RouteStudents          = "/student/all"
	RouteStudentNew        = "/student/new"
	RouteStudentUpdate     = "/student/update"
	RouteStudentUpdateByID = "/student/update/{id}"
	RouteStudentDelete     = "/student/delete"
	RouteStudentDeleteByID = "/student/delete/{id}"

	// Student Routes
	RouteStudentMe        = "/student/me"
	RouteStudentMeSection = "/student/me/{section}"

	// API Routes
	RouteAPISession = "/api/session"
	RouteHealth     = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS    = "/css/{file}"
	RouteStaticJS     = "/js/{file}"
	RouteStaticImages = "/images/{file}"
)
