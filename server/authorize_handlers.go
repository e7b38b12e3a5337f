package server

import (
	"net/http"

	"github.com/jrsteele09/amazon-oauth-callback/auth"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/rs/zerolog/log"
)

// AuthorizePageData is rendered by the consent start pages.
type AuthorizePageData struct {
	AppName  string
	BasePath string
}

// AuthorizePageHandler renders a static consent start page (GET).
func (s *Server) AuthorizePageHandler(name string) (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := AuthorizePageData{
			AppName:  s.config.GetAppName(),
			BasePath: s.config.GetBasePath(),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := tmpl.Execute(w, data); err != nil {
			log.Err(err).Str("template", name).Msg("Failed to render authorize page")
		}
	}, nil
}

// SellingPartnerAuthorizeHandler redirects to the Seller Central consent page (POST).
func (s *Server) SellingPartnerAuthorizeHandler() http.HandlerFunc {
	builder := auth.SellingPartnerRedirect{
		AuthGrantURL:      s.config.SellingPartner.AuthGrantURL,
		AuthGrantEndpoint: s.config.SellingPartner.AuthGrantEndpoint,
		AppID:             s.config.SellingPartner.AppID,
		Beta:              s.config.Debug,
	}
	return s.consentRedirect(sessions.FlowSellingPartner, true, builder.URL)
}

// AdsAuthorizeHandler redirects to the Login with Amazon consent page for the
// Advertising API (POST).
func (s *Server) AdsAuthorizeHandler() http.HandlerFunc {
	builder := auth.AdsRedirect{
		OAuthURL:      s.config.Ads.OAuthURL,
		OAuthEndpoint: s.config.Ads.OAuthEndpoint,
		ClientID:      s.config.Ads.ClientID,
		RedirectURI:   s.config.Ads.RedirectURI,
		Scope:         s.config.Ads.Scope,
	}
	return s.consentRedirect(sessions.FlowAds, s.config.Ads.VerifyState, builder.URL)
}

func (s *Server) consentRedirect(flow sessions.Flow, withState bool, buildURL func(state string) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.issuer.Issue(r.Context(), flow, withState)
		if err != nil {
			s.renderFatal(w, r, err)
			return
		}
		location, err := buildURL(session.State)
		if err != nil {
			s.renderFatal(w, r, err)
			return
		}
		if err := s.setSessionCookie(w, r, session); err != nil {
			s.renderFatal(w, r, err)
			return
		}
		s.metrics.redirects.WithLabelValues(string(flow)).Inc()

		// Keep the consent URL and its state out of the Referer sent by Amazon's page.
		w.Header().Set("Referrer-Policy", "no-referrer")
		http.Redirect(w, r, location, http.StatusFound)
	}
}
