// internal/config/config.go
//
// Server configuration, read from the environment (a .env file is loaded
// first by main).
//
// Environment variables:
//   PORT             listen port (default 5175)
//   LOG_LEVEL        zerolog level: trace|debug|info|warn|error (default info)
//   LOG_FORMAT       json|console (default json)
//   CLIENT_ORIGIN    single origin allowed by CORS (default http://localhost:5173)
//   SESSION_SECRET   secret the session signing key is derived from
//   SESSION_TTL      session token lifetime and idle timeout (default 24h)
//   SESSION_COOKIE   session cookie name (default yahtzee_session)
//   REQUEST_TIMEOUT  per-request handler timeout (default 10s)
//   PRUNE_INTERVAL   how often idle sessions are dropped (default 5m)
//   PRODUCTION       secure cookies, refuses the dev secret (default false)
//   DAILY_SALT       salt for the daily dice seed

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// DevSessionSecret is the default secret; it is rejected in production.
const DevSessionSecret = "dev_secret_change_me"

type Config struct {
	Port           string        `env:"PORT" envDefault:"5175"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionCookie  string        `env:"SESSION_COOKIE" envDefault:"yahtzee_session"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	PruneInterval  time.Duration `env:"PRUNE_INTERVAL" envDefault:"5m"`
	Production     bool          `env:"PRODUCTION" envDefault:"false"`
	DailySalt      string        `env:"DAILY_SALT" envDefault:"local_dev_salt"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.PruneInterval <= 0 {
		return fmt.Errorf("PRUNE_INTERVAL must be positive, got %s", c.PruneInterval)
	}
	if c.Production && c.SessionSecret == DevSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	return nil
}

// Level returns the parsed log level. Load has already validated it.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }
