package config

import (
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

// Config is the full service configuration, parsed from the environment.
type Config struct {
	EnvVars
	LWA
	SellingPartner
	Ads
	AWS
	Security
}

// New parses the configuration from the environment and validates it.
func New() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the cross-field rules the env tags cannot express.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"OAUTH_URL":             c.TokenURL,
		"SP_AUTH_GRANT_URL":     c.SellingPartner.AuthGrantURL,
		"ADS_OAUTH_URL":         c.Ads.OAuthURL,
		"SPAPI_ENDPOINT":        c.SellingPartner.Endpoint,
		"SELLER_STOREFRONT_URL": c.SellingPartner.StorefrontURL,
		"ADS_API_URL":           c.Ads.APIURL,
	} {
		if raw == "" {
			continue
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("[config Validate] %s is not a valid URL: %w", name, err)
		}
	}
	if c.SessionStore != SessionStoreMemory && c.SessionStore != SessionStoreRedis {
		return fmt.Errorf("[config Validate] SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.SessionStore)
	}
	if c.SessionStore == SessionStoreRedis && c.RedisURL == "" {
		return fmt.Errorf("[config Validate] REDIS_URL is required when SESSION_STORE=%s", SessionStoreRedis)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("[config Validate] SESSION_MAX_AGE must be positive")
	}
	return nil
}
