// Package config loads the login host configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/dropin/pkg/db"
	"github.com/dmitrymomot/dropin/pkg/linkedin"
	"github.com/dmitrymomot/dropin/pkg/logger"
	"github.com/dmitrymomot/dropin/pkg/redis"
)

// Credential store drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	ErrParse              = errors.New("config: parse environment")
	ErrUnknownStoreDriver = errors.New("config: unknown store driver")
)

// App holds the HTTP host settings.
type App struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
	// BaseURL is the public origin used to build the callback URL,
	// e.g. https://login.example.com. Derived per request when empty.
	BaseURL         string        `env:"BASE_URL"`
	CallbackPath    string        `env:"CALLBACK_PATH" envDefault:"/auth/linkedin/callback"`
	StoreDriver     string        `env:"STORE_DRIVER" envDefault:"memory"`
	CookieSecret    string        `env:"COOKIE_SECRET,required"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"true"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CredentialTTL   time.Duration `env:"CREDENTIAL_TTL"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Config is the full process configuration.
// DB and Redis are only parsed when the store driver needs them.
type Config struct {
	App      App
	LinkedIn linkedin.Config
	Log      logger.Config
	Sentry   logger.SentryConfig
	DB       db.Config
	Redis    redis.Config
}

type common struct {
	App      App
	LinkedIn linkedin.Config
	Log      logger.Config
	Sentry   logger.SentryConfig
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environ, or from the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (Config, error) {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	opts := env.Options{Environment: environ}

	var c common
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	cfg := Config{App: c.App, LinkedIn: c.LinkedIn, Log: c.Log, Sentry: c.Sentry}

	switch cfg.App.StoreDriver {
	case DriverMemory:
	case DriverRedis:
		if err := env.ParseWithOptions(&cfg.Redis, opts); err != nil {
			return Config{}, errors.Join(ErrParse, err)
		}
	case DriverPostgres:
		if err := env.ParseWithOptions(&cfg.DB, opts); err != nil {
			return Config{}, errors.Join(ErrParse, err)
		}
	default:
		return Config{}, errors.Join(ErrUnknownStoreDriver, fmt.Errorf("STORE_DRIVER=%q", cfg.App.StoreDriver))
	}

	if err := cfg.LinkedIn.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
