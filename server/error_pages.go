package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/rs/zerolog/log"
)

// ErrorPageData is rendered by error.html.
type ErrorPageData struct {
	BasePath string
	Title    string
	Message  string
	Detail   string
}

var errorTemplate = template.Must(ParseTemplate("error.html"))

// renderError writes the generic error page. Only "not found" is
// distinguished; every other failure reads as a plain error.
func (s *Server) renderError(w http.ResponseWriter, status int, err error) {
	data := ErrorPageData{
		BasePath: s.config.GetBasePath(),
		Title:    "Error",
		Message:  "An error has occurred.",
	}
	if status == http.StatusNotFound || errors.Is(err, errors.ErrNotFound) {
		status = http.StatusNotFound
		data.Title = "Page not found"
		data.Message = "This page could not be found."
	}
	if s.config.ShowErrors && err != nil {
		data.Detail = err.Error()
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if execErr := errorTemplate.Execute(w, data); execErr != nil {
		log.Err(execErr).Msg("Failed to render error page")
	}
}

// renderFatal logs an unrecoverable request failure and renders the error page.
func (s *Server) renderFatal(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	s.renderError(w, http.StatusInternalServerError, err)
}

// NotFoundHandler renders the not found page for unknown routes.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, http.StatusNotFound, errors.ErrNotFound)
	}
}

// HealthHandler reports liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
