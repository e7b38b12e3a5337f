package server

// Route path constants
const (
	RouteSellingPartnerAuthorize = "/sp-authorization"
	RouteAdsAuthorize            = "/ads-authorization"
	RouteSellingPartnerCallback  = "/redirect"
	RouteAdsCallback             = "/ads-redirect"

	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
	RouteStatic  = "/static/"
)
