package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() error {
	spPage, err := s.AuthorizePageHandler("sp_authorize.html")
	if err != nil {
		return err
	}
	adsPage, err := s.AuthorizePageHandler("ads_authorize.html")
	if err != nil {
		return err
	}
	spCallback, err := s.SellingPartnerCallbackHandler()
	if err != nil {
		return err
	}
	adsCallback, err := s.AdsCallbackHandler()
	if err != nil {
		return err
	}

	// Consent start pages and redirects
	s.RegisterRouteHandler("GET "+RouteSellingPartnerAuthorize, ChainMiddleware(spPage, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAdsAuthorize, ChainMiddleware(adsPage, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSellingPartnerAuthorize, ChainMiddleware(s.SellingPartnerAuthorizeHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAdsAuthorize, ChainMiddleware(s.AdsAuthorizeHandler(), s.HTMLMiddleWare()...))

	// OAuth callbacks
	s.RegisterRouteHandler("GET "+RouteSellingPartnerCallback, ChainMiddleware(spCallback, s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAdsCallback, ChainMiddleware(adsCallback, s.HTMLMiddleWare()...))

	// Operations
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	s.RegisterRouteHandler("GET "+RouteStatic, StaticHandler())

	s.RegisterRouteHandler("/", ChainMiddleware(s.NotFoundHandler(), s.HTMLMiddleWare()...))
	return nil
}
