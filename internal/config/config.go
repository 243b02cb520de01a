// Package config loads immutable process configuration from an optional YAML
// file and TASKHIVE_* environment variables, env taking precedence. The
// result is threaded explicitly into constructors at startup; nothing reads
// configuration ambiently after that.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrMissingSecret aborts startup when no signing key is configured.
// Serving with a guessable key would silently void every session.
var ErrMissingSecret = errors.New("auth secret is required (set TASKHIVE_AUTH_SECRET)")

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	Auth   AuthConfig   `koanf:"auth"`
}

type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
}

type DBConfig struct {
	// Path is the SQLite database file path.
	Path string `koanf:"path"`
}

type AuthConfig struct {
	// Secret signs session tokens. Required; there is no default.
	Secret string `koanf:"secret"`
}

// Load reads configuration from path (skipped if the file does not exist)
// and then overlays TASKHIVE_* environment variables, e.g.
// TASKHIVE_SERVER_ADDR or TASKHIVE_AUTH_SECRET.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider("TASKHIVE_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TASKHIVE_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "./data/taskhive.db"
	}
	if cfg.Auth.Secret == "" {
		return nil, ErrMissingSecret
	}

	return cfg, nil
}
