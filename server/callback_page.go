package server

import (
	"html/template"
	"net/http"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/records"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/rs/zerolog/log"
)

// Error codes rendered on the callback pages.
const (
	errCodeMissingParameters = "missing_parameters"
	errCodeNoSession         = "no_session"
	errCodeInvalidState      = "invalid_state"
	errCodeExpired           = "expired"
	errCodeBadOAuthToken     = "bad_oauth_token"
)

// CallbackPageData is rendered by the callback result pages.
type CallbackPageData struct {
	AppName  string
	BasePath string
	Err      string
	Missing  []string
	Record   *records.Record
	// Persisted is false when the record could not be written.
	Persisted bool
}

// recoverableCode maps a validation or token error to its page code.
func recoverableCode(err error) (string, bool) {
	switch {
	case errors.Is(err, errors.ErrMissingParameters):
		return errCodeMissingParameters, true
	case errors.Is(err, errors.ErrNoSession):
		return errCodeNoSession, true
	case errors.Is(err, errors.ErrStateMismatch):
		return errCodeInvalidState, true
	case errors.Is(err, errors.ErrExpired):
		return errCodeExpired, true
	case errors.Is(err, errors.ErrBadOAuthToken):
		return errCodeBadOAuthToken, true
	}
	return "", false
}

type callbackRenderer struct {
	s    *Server
	tmpl *template.Template
	flow sessions.Flow
}

func (c callbackRenderer) page() CallbackPageData {
	return CallbackPageData{
		AppName:  c.s.config.GetAppName(),
		BasePath: c.s.config.GetBasePath(),
	}
}

func (c callbackRenderer) render(w http.ResponseWriter, data CallbackPageData) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.Header().Set("Cache-Control", "no-store")
	if err := c.tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("flow", string(c.flow)).Msg("Failed to render callback page")
	}
}

// fail renders a recoverable error page, or the fatal error page when err is
// not one of the recoverable kinds.
func (c callbackRenderer) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, ok := recoverableCode(err)
	if !ok {
		c.s.metrics.callbacks.WithLabelValues(string(c.flow), outcomeUpstreamFailure).Inc()
		c.s.renderFatal(w, r, err)
		return
	}
	c.s.metrics.callbacks.WithLabelValues(string(c.flow), code).Inc()
	log.Info().Str("flow", string(c.flow)).Str("err", code).Msg("callback rejected")

	data := c.page()
	data.Err = code
	var missing *errors.MissingParametersError
	if errors.As(err, &missing) {
		data.Missing = missing.Missing
	}
	c.render(w, data)
}

// succeed persists rec under dir and renders it. A persistence failure is
// logged and does not hide the result from the user.
func (c callbackRenderer) succeed(w http.ResponseWriter, dir string, rec records.Record) {
	data := c.page()
	path, err := c.s.records.Write(dir, rec)
	if err != nil {
		c.s.metrics.persistFailures.WithLabelValues(string(c.flow)).Inc()
		log.Error().Err(err).Str("flow", string(c.flow)).Str("name", rec.Name).Msg("Error writing JSON")
	} else {
		data.Persisted = true
		log.Info().Str("flow", string(c.flow)).Str("path", path).Msg("token record written")
	}
	c.s.metrics.callbacks.WithLabelValues(string(c.flow), outcomeSuccess).Inc()

	data.Record = &rec
	c.render(w, data)
}
