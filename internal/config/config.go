// Package config assembles the application configuration from the
// environment. Startup aborts on a missing or malformed required value.
package config

import (
	"github.com/viralpost/authgate/internal/identity"
	"github.com/viralpost/authgate/pkg/config"
	"github.com/viralpost/authgate/pkg/environment"
	"github.com/viralpost/authgate/pkg/validator"
)

// Config is the full application configuration.
type Config struct {
	Environment environment.Environment `env:"ENVIRONMENT" envDefault:"development"`
	Addr        string                  `env:"ADDR" envDefault:":8080"`

	// AppURL is the public base URL of the web app. Optional: when empty,
	// redirect targets are derived from the request origin.
	AppURL string `env:"APP_URL"`

	// CookieSecrets signs the UI preference cookie; the first entry signs,
	// the rest verify so secrets can rotate.
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`

	Provider identity.Config
	Google   identity.GoogleConfig
}

// Load parses and validates the application configuration.
func Load() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad loads the configuration and panics on failure.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}
	return cfg
}

// Validate checks the URL-shaped settings beyond env parsing.
func (c Config) Validate() error {
	rules := []validator.Rule{
		validator.Required("SUPABASE_URL", c.Provider.URL),
		validator.ValidURL("SUPABASE_URL", c.Provider.URL),
		validator.Required("SUPABASE_ANON_KEY", c.Provider.AnonKey),
	}
	if c.AppURL != "" {
		rules = append(rules, validator.ValidURL("APP_URL", c.AppURL))
	}
	return validator.Apply(rules...)
}
