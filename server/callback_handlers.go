package server

import (
	"net/http"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/adsapi"
	"github.com/jrsteele09/amazon-oauth-callback/auth"
	"github.com/jrsteele09/amazon-oauth-callback/lwa"
	"github.com/jrsteele09/amazon-oauth-callback/records"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/rs/zerolog/log"
)

// SellingPartnerCallbackHandler completes the SP consent flow (GET /redirect).
// After consent Amazon sends the seller back with an LWA authorization code,
// which is exchanged for the refresh token that SP API calls are made with.
func (s *Server) SellingPartnerCallbackHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("sp_redirect.html")
	if err != nil {
		return nil, err
	}
	page := callbackRenderer{s: s, tmpl: tmpl, flow: sessions.FlowSellingPartner}
	rules := auth.SellingPartnerRules

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		if err := s.validator.CheckRequired(query, rules); err != nil {
			page.fail(w, r, err)
			return
		}

		session, err := s.takeSession(ctx, r, sessions.FlowSellingPartner)
		if err != nil {
			s.renderFatal(w, r, err)
			return
		}
		if session != nil {
			s.clearSessionCookie(w, r, sessions.FlowSellingPartner)
		}

		params, err := s.validator.Validate(query, session, rules)
		if err != nil {
			page.fail(w, r, err)
			return
		}
		sellerID := params.Get(auth.ParamSellingPartnerID)

		start := time.Now()
		token, err := s.lwa.Exchange(ctx, lwa.ExchangeRequest{
			Code:         params.Get(auth.ParamSPAPIOAuthCode),
			ClientID:     s.config.LWA.ClientID,
			ClientSecret: s.config.LWA.ClientSecret,
		})
		s.metrics.observe("lwa_token", start, err)
		if err != nil {
			page.fail(w, r, err)
			return
		}

		rec := records.Record{
			AccessToken:      token.AccessToken,
			RefreshToken:     token.RefreshToken,
			TokenType:        token.TokenType,
			ExpiresIn:        token.ExpiresIn,
			SellingPartnerID: sellerID,
		}

		start = time.Now()
		_, err = s.sellers.GetMarketplaceParticipations(ctx, token.AccessToken)
		s.metrics.observe("sp_marketplace_participations", start, err)
		if err != nil {
			log.Warn().Err(err).Str("selling_partner_id", sellerID).Msg("marketplace participation check failed")
		} else {
			rec.Success = true
		}

		start = time.Now()
		name, err := s.storefront.SellerNameOrID(ctx, sellerID)
		s.metrics.observe("sp_storefront", start, err)
		if err != nil {
			log.Warn().Err(err).Str("selling_partner_id", sellerID).Msg("seller name lookup failed, using seller id")
		}
		rec.Name = name

		page.succeed(w, records.DirSellingPartner, rec)
	}, nil
}

// AdsCallbackHandler completes the Advertising consent flow (GET /ads-redirect).
func (s *Server) AdsCallbackHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("ads_redirect.html")
	if err != nil {
		return nil, err
	}
	page := callbackRenderer{s: s, tmpl: tmpl, flow: sessions.FlowAds}
	rules := auth.AdsRules(s.config.Ads.VerifyState)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()

		if err := s.validator.CheckRequired(query, rules); err != nil {
			page.fail(w, r, err)
			return
		}

		session, err := s.takeSession(ctx, r, sessions.FlowAds)
		if err != nil {
			s.renderFatal(w, r, err)
			return
		}
		if session != nil {
			s.clearSessionCookie(w, r, sessions.FlowAds)
		}

		params, err := s.validator.Validate(query, session, rules)
		if err != nil {
			page.fail(w, r, err)
			return
		}

		start := time.Now()
		token, err := s.lwa.Exchange(ctx, lwa.ExchangeRequest{
			Code:         params.Get(auth.ParamCode),
			ClientID:     s.config.Ads.ClientID,
			ClientSecret: s.config.Ads.ClientSecret,
			RedirectURI:  s.config.Ads.RedirectURI,
		})
		s.metrics.observe("lwa_token", start, err)
		if err != nil {
			page.fail(w, r, err)
			return
		}

		start = time.Now()
		profiles, err := s.ads.ListProfiles(ctx, token.Token(s.now()))
		s.metrics.observe("ads_profiles", start, err)
		if err != nil {
			page.fail(w, r, err)
			return
		}

		rec := records.Record{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			TokenType:    token.TokenType,
			ExpiresIn:    token.ExpiresIn,
		}
		if profile, ok := adsapi.SelectProfile(profiles, adsapi.CountryUS); ok {
			rec.AdProfileID = profile.ProfileID
			rec.AdAccountID = profile.AccountID
			rec.MarketplaceStringID = profile.MarketplaceStringID
			rec.Name = profile.AccountName
		} else {
			log.Warn().Msg("no US advertising profile found")
		}

		page.succeed(w, records.DirAds, rec)
	}, nil
}
