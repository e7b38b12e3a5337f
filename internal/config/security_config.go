package config

import "time"

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Security struct {
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"30m"`
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisURL      string        `env:"REDIS_URL"`
}

// GetMaxSessionAge is the window in which an issued state may be redeemed.
func (s Security) GetMaxSessionAge() time.Duration {
	return s.SessionMaxAge
}

// GetSessionRetention is how long a stored session outlives its max age, so a
// late callback still finds it and is rejected as expired rather than missing.
func (s Security) GetSessionRetention() time.Duration {
	return 2 * s.SessionMaxAge
}
