package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/internal/errors"
	"github.com/jrsteele09/studentdesk/students"
	"github.com/rs/zerolog/log"
)

// LandingPageData is the post-login home for both roles
type LandingPageData struct {
	IsAdmin      bool
	StudentCount int
	CountKnown   bool
}

// LandingHandler greets the user. Admins also see the student count.
func (s *Server) LandingHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("landing.html")

	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		data := LandingPageData{IsAdmin: sess.IsAdmin()}

		if sess.IsAdmin() {
			count, err := s.api.As(sess.Token).Count(r.Context())
			if s.endSessionOnReject(w, r, err) {
				return
			}
			if err != nil {
				log.Err(err).Msg("Error fetching student count")
			} else {
				data.StudentCount = count
				data.CountKnown = true
			}
		}

		s.renderPage(w, r, http.StatusOK, "Home", tmpl, data)
	}
}

type listMode string

const (
	listModeView   listMode = "view"
	listModeUpdate listMode = "update"
	listModeDelete listMode = "delete"
)

// StudentListPageData drives the all/update/delete student tables
type StudentListPageData struct {
	Mode     listMode
	Students []students.Student
	Error    string
	Notice   string
}

// StudentListHandler lists every student. The mode decides which action each row offers.
func (s *Server) StudentListHandler(mode listMode) http.HandlerFunc {
	tmpl := mustParseTemplate("students.html")
	titles := map[listMode]string{
		listModeView:   "All Students",
		listModeUpdate: "Update Student Details",
		listModeDelete: "Delete Student",
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		data := StudentListPageData{
			Mode:   mode,
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		}

		list, err := s.api.As(sess.Token).ListStudents(r.Context())
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if err != nil {
			log.Err(err).Msg("Error fetching students")
			data.Error = api.Message(err, "Failed to load students")
		}
		data.Students = list

		s.renderPage(w, r, http.StatusOK, titles[mode], tmpl, data)
	}
}

// StudentFormPageData drives the add and update forms
type StudentFormPageData struct {
	Action           string
	Submit           string
	Student          students.Student
	Errors           students.FieldErrors
	Error            string
	Genders          []string
	SecondaryBoards  []string
	HighSchoolBoards []string
	Received         string
	NotReceived      string
}

func newStudentForm(action, submit string, s students.Student) StudentFormPageData {
	return StudentFormPageData{
		Action:           action,
		Submit:           submit,
		Student:          s,
		Genders:          students.Genders,
		SecondaryBoards:  students.SecondaryBoards,
		HighSchoolBoards: students.HighSchoolBoards,
		Received:         students.ScholarshipReceived,
		NotReceived:      students.ScholarshipNotReceived,
	}
}

var studentFormTmpl = mustParseTemplate("student_form.html")

// StudentNewPageHandler renders the empty registration form
func (s *Server) StudentNewPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := newStudentForm(RouteStudentNew, "Register Student", students.Student{})
		s.renderPage(w, r, http.StatusOK, "Student Registration", studentFormTmpl, data)
	}
}

// StudentNewSubmissionHandler validates and submits a new student, then shows
// the login the API generated for them.
func (s *Server) StudentNewSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		student, fieldErrors := students.FromForm(r.PostForm)
		data := newStudentForm(RouteStudentNew, "Register Student", student)
		if len(fieldErrors) > 0 {
			data.Errors = fieldErrors
			s.renderPage(w, r, http.StatusUnprocessableEntity, "Student Registration", studentFormTmpl, data)
			return
		}

		sess := SessionFromContext(r.Context())
		created, err := s.api.As(sess.Token).CreateStudent(r.Context(), student)
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if err != nil {
			log.Err(err).Msg("Error creating student")
			data.Error = api.Message(err, "Failed to register student")
			s.renderPage(w, r, http.StatusOK, "Student Registration", studentFormTmpl, data)
			return
		}

		s.renderPage(w, r, http.StatusCreated, "Registration Successful", signupTmpl, SignupPageData{Created: created})
	}
}

// StudentUpdatePageHandler renders the update form filled with the student's details
func (s *Server) StudentUpdatePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sess := SessionFromContext(r.Context())

		student, err := s.api.As(sess.Token).GetStudent(r.Context(), id)
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if errors.Is(err, errors.ErrNotFound) {
			s.renderError(w, r, http.StatusNotFound, "Student not found")
			return
		}
		if err != nil {
			log.Err(err).Str("id", id).Msg("Error fetching student")
			redirectWithMessage(w, r, RouteStudentUpdate, "error", api.Message(err, "Failed to load student"))
			return
		}

		data := newStudentForm(updatePath(id), "Update Student", student)
		s.renderPage(w, r, http.StatusOK, "Update Student Details", studentFormTmpl, data)
	}
}

// StudentUpdateSubmissionHandler validates and saves the update form
func (s *Server) StudentUpdateSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		id := r.PathValue("id")
		student, fieldErrors := students.FromForm(r.PostForm)
		student.ID = id
		data := newStudentForm(updatePath(id), "Update Student", student)
		if len(fieldErrors) > 0 {
			data.Errors = fieldErrors
			s.renderPage(w, r, http.StatusUnprocessableEntity, "Update Student Details", studentFormTmpl, data)
			return
		}

		sess := SessionFromContext(r.Context())
		err := s.api.As(sess.Token).UpdateStudent(r.Context(), id, student)
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if err != nil {
			log.Err(err).Str("id", id).Msg("Error updating student")
			data.Error = api.Message(err, "Failed to update student details")
			s.renderPage(w, r, http.StatusOK, "Update Student Details", studentFormTmpl, data)
			return
		}

		redirectWithMessage(w, r, RouteStudentUpdate, "notice", "Student details updated successfully")
	}
}

// StudentDeleteHandler deletes a student and returns to the delete list
func (s *Server) StudentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sess := SessionFromContext(r.Context())

		err := s.api.As(sess.Token).DeleteStudent(r.Context(), id)
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if err != nil {
			log.Err(err).Str("id", id).Msg("Error deleting student")
			redirectWithMessage(w, r, RouteStudentDelete, "error", api.Message(err, "Failed to delete student"))
			return
		}
		redirectWithMessage(w, r, RouteStudentDelete, "notice", "Student deleted")
	}
}

func updatePath(id string) string {
	return RouteStudentUpdate + "/" + url.PathEscape(id)
}

func redirectWithMessage(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	http.Redirect(w, r, path+"?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}
