// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package config loads and validates the identityd configuration.
//
// Values are resolved in order of increasing precedence: built-in
// defaults, the YAML config file, then command-line flags. The token
// secret and database URL can additionally be injected through the
// IDENTITY_TOKEN_SECRET and IDENTITY_DATABASE_URL environment
// variables so they can stay out of files and shell history.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/deskhub/identity/internal/auth"
)

// Config is the root configuration for identityd.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http" json:"http"`
	Metrics  MetricsConfig  `koanf:"metrics" json:"metrics"`
	Database DatabaseConfig `koanf:"database" json:"database"`
	Auth     AuthConfig     `koanf:"auth" json:"auth"`
	Mail     MailConfig     `koanf:"mail" json:"mail"`
	Log      LogConfig      `koanf:"log" json:"log"`
}

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr" json:"addr" validate:"required"`
	// BaseURL is the externally reachable root used in mailed links.
	BaseURL string `koanf:"base_url" json:"base_url" validate:"required,url"`
}

// MetricsConfig configures the observability listener.
type MetricsConfig struct {
	Addr string `koanf:"addr" json:"addr" validate:"required"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url" json:"url" validate:"required"`
}

// AuthConfig configures token issuance and password hashing.
type AuthConfig struct {
	// TokenSecret signs every issued token. Rotating it invalidates
	// all outstanding sessions and pending confirmation links.
	TokenSecret string `koanf:"token_secret" json:"token_secret" validate:"required,min=16"`
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL time.Duration `koanf:"token_ttl" json:"token_ttl"`
	// BcryptCost is the hashing work factor. Zero means the default.
	BcryptCost int `koanf:"bcrypt_cost" json:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
}

// MailConfig configures the SMTP relay for notification mails.
type MailConfig struct {
	Host     string `koanf:"host" json:"host" validate:"required"`
	Port     int    `koanf:"port" json:"port" validate:"required,min=1,max=65535"`
	Username string `koanf:"username" json:"username"`
	Password string `koanf:"password" json:"password"`
	From     string `koanf:"from" json:"from" validate:"required"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format" json:"format" validate:"oneof=json text"`
	Level  string `koanf:"level" json:"level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration. It is not valid on its
// own: the database URL, token secret, and mail relay have no sane
// defaults.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:    ":8080",
			BaseURL: "http://localhost:8080",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Auth: AuthConfig{
			TokenTTL:   auth.DefaultTokenTTL,
			BcryptCost: auth.DefaultBcryptCost,
		},
		Mail: MailConfig{
			Port: 587,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
		},
	}
}

// Load resolves the configuration from the given file path and flag
// set. An empty path skips the file layer; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if v := os.Getenv("IDENTITY_TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv("IDENTITY_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	return nil
}
