package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"reflect"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const contentTypeHTML = "text/html; charset=utf-8"

// templates holds the layout and one file per page.
var templates = mustSub(templateFiles, "templates")

var templateFuncs = template.FuncMap{
	// blank renders zero numbers and empty values as nothing, for form inputs
	"blank": func(v any) any {
		if v == nil {
			return ""
		}
		if reflect.ValueOf(v).IsZero() {
			return ""
		}
		return v
	},
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(templates, name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Funcs(templateFuncs).Parse(string(content))
}

// mustParseTemplate is used by handler constructors, which run once at startup.
func mustParseTemplate(name string) *template.Template {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		panic("Failed to parse " + name + " template: " + err.Error())
	}
	return tmpl
}

// renderPage renders content inside the application layout.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, content *template.Template, data any) {
	var contentBuf bytes.Buffer
	if err := content.Execute(&contentBuf, data); err != nil {
		log.Err(err).Str("template", content.Name()).Msg("Failed to render content")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	sess := SessionFromContext(r.Context())
	layoutData := map[string]interface{}{
		"AppName":    s.config.GetAppName(),
		"PageTitle":  title,
		"ActivePage": r.URL.Path,
		"Session":    sess,
		"Content":    template.HTML(contentBuf.String()),
	}

	var page bytes.Buffer
	if err := s.layout.Execute(&page, layoutData); err != nil {
		log.Err(err).Msg("Failed to render layout")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = page.WriteTo(w)
}

var errorTmpl = mustParseTemplate("error.html")

// renderError renders the error page with status.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.renderPage(w, r, status, http.StatusText(status), errorTmpl, map[string]interface{}{
		"Status":  status,
		"Message": message,
	})
}
