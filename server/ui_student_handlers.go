package server

import (
	"net/http"

	"github.com/jrsteele09/studentdesk/api"
	"github.com/jrsteele09/studentdesk/students"
	"github.com/rs/zerolog/log"
)

// Profile sections reachable from the student sidebar
var profileSections = map[string]string{
	"":                 "Personal Details",
	"id-details":       "ID Details",
	"external-contact": "External Contact",
	"secondary-school": "Secondary School",
	"high-school":      "High School",
	"scholarship":      "Scholarship",
}

// ProfilePageData shows one section of the logged in student's profile
type ProfilePageData struct {
	Section string
	Student students.Student
	Error   string
}

// ProfileHandler renders /student/me and its sections
func (s *Server) ProfileHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		section := r.PathValue("section")
		title, ok := profileSections[section]
		if !ok {
			s.renderError(w, r, http.StatusNotFound, "Page not found")
			return
		}

		sess := SessionFromContext(r.Context())
		data := ProfilePageData{Section: section}

		me, err := s.api.As(sess.Token).Me(r.Context())
		if s.endSessionOnReject(w, r, err) {
			return
		}
		if err != nil {
			log.Err(err).Msg("Error fetching student profile")
			data.Error = api.Message(err, "Failed to load your details")
		}
		data.Student = me

		s.renderPage(w, r, http.StatusOK, title, tmpl, data)
	}
}
