package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/amazon-oauth-callback/internal/errors"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/rs/zerolog/log"
)

const (
	spSessionCookieName  = "sp_auth_session"
	adsSessionCookieName = "ads_auth_session"
)

func sessionCookieName(flow sessions.Flow) string {
	if flow == sessions.FlowAds {
		return adsSessionCookieName
	}
	return spSessionCookieName
}

func (s *Server) cookiePath() string {
	if base := s.config.GetBasePath(); base != "" {
		return base
	}
	return "/"
}

// setSessionCookie binds the browser to session. SameSite=Lax keeps the cookie
// on the top-level GET navigation back from Amazon.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, session *sessions.AuthSession) error {
	signed, err := s.tokens.Sign(session)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(session.Flow),
		Value:    signed,
		Path:     s.cookiePath(),
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.tokens.TTL().Seconds()),
	})
	return nil
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request, flow sessions.Flow) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName(flow),
		Value:    "",
		Path:     s.cookiePath(),
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// takeSession consumes the browser's stored session for flow. A missing,
// forged or already used session yields nil without error; only store
// failures are returned.
func (s *Server) takeSession(ctx context.Context, r *http.Request, flow sessions.Flow) (*sessions.AuthSession, error) {
	cookie, err := r.Cookie(sessionCookieName(flow))
	if err != nil {
		return nil, nil
	}
	sessionID, err := s.tokens.SessionID(cookie.Value, flow)
	if err != nil {
		log.Debug().Err(err).Str("flow", string(flow)).Msg("rejected session cookie")
		return nil, nil
	}
	session, err := s.sessions.Take(ctx, sessionID)
	if errors.Is(err, errors.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "take session")
	}
	if session.Flow != flow {
		return nil, nil
	}
	return session, nil
}
