package server

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/amazon-oauth-callback/adsapi"
	"github.com/jrsteele09/amazon-oauth-callback/auth"
	"github.com/jrsteele09/amazon-oauth-callback/internal/config"
	"github.com/jrsteele09/amazon-oauth-callback/lwa"
	"github.com/jrsteele09/amazon-oauth-callback/records"
	"github.com/jrsteele09/amazon-oauth-callback/sessions"
	"github.com/jrsteele09/amazon-oauth-callback/spapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Options carries the collaborators New would otherwise build from config.
type Options struct {
	Sessions   sessions.Repo
	HTTPClient *http.Client
	Registry   *prometheus.Registry
	Now        func() time.Time
	// STSEndpoint overrides the STS endpoint used when ROLE_ARN is set.
	STSEndpoint string
}

type Server struct {
	env     string
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
	config  *config.Config
	now     func() time.Time

	sessions   sessions.Repo
	issuer     *auth.SessionIssuer
	validator  *auth.Validator
	tokens     *auth.SessionTokens
	lwa        *lwa.Client
	sellers    *spapi.SellersClient
	storefront *spapi.StorefrontScraper
	ads        *adsapi.Client
	records    *records.FileStore

	registry *prometheus.Registry
	metrics  *metrics
}

func New(cfg *config.Config, opts Options) (*Server, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if opts.Sessions == nil {
		opts.Sessions = sessions.NewInMemoryRepo(cfg.GetSessionRetention()).WithClock(opts.Now)
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	secret, err := sessionSecret(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("[Server New] session secret: %w", err)
	}

	sellers, err := spapi.NewSellersClient(spapi.Config{
		Endpoint:        cfg.SellingPartner.Endpoint,
		Region:          cfg.SellingPartner.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		RoleARN:         cfg.AWS.RoleARN,
		STSEndpoint:     opts.STSEndpoint,
	}, opts.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("[Server New] sellers client: %w", err)
	}

	m, err := newMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("[Server New] metrics: %w", err)
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		now:        opts.Now,
		sessions:   opts.Sessions,
		issuer:     auth.NewSessionIssuer(opts.Sessions).WithClock(opts.Now),
		validator:  auth.NewValidator(cfg.GetMaxSessionAge()).WithClock(opts.Now),
		tokens:     auth.NewSessionTokens(secret, cfg.GetSessionRetention()).WithClock(opts.Now),
		lwa:        lwa.NewClient(cfg.TokenURL, opts.HTTPClient),
		sellers:    sellers,
		storefront: spapi.NewStorefrontScraper(cfg.SellingPartner.StorefrontURL, opts.HTTPClient),
		ads:        adsapi.NewClient(cfg.Ads.APIURL, cfg.Ads.ClientID, opts.HTTPClient),
		records:    records.NewFileStore(cfg.GetDataFolder()).WithClock(opts.Now),
		registry:   opts.Registry,
		metrics:    m,
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] routes: %w", err)
	}
	s.handler = s.mux
	if base := cfg.GetBasePath(); base != "" {
		s.handler = http.StripPrefix(base, s.mux)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], s.config.GetBasePath()+parts[1])
		} else {
			logRoute("", s.config.GetBasePath()+parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

// sessionSecret returns the configured signing key, or a random one that
// invalidates outstanding sessions on restart.
func sessionSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	log.Warn().Msg("SESSION_SECRET not set, using a random per-process key")
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
