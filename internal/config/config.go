// Package config loads the portal configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/foodwaste/portal/internal/domain"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every portal environment variable carries.
const EnvPrefix = "PORTAL_"

// Load overlays PORTAL_* environment variables (and a .env file, if present)
// onto domain.DefaultConfig and validates the result.
//
// The first underscore after the prefix separates the section from the key:
//
//	PORTAL_SERVER_PORT=9090            -> server.port
//	PORTAL_DATABASE_SQLITE_PATH=x.db   -> database.sqlite_path
//	PORTAL_BUS_TYPE=nats               -> bus.type
func Load() (*domain.Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := domain.DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: config: %w", domain.ErrInvalidInput, err)
	}

	return cfg, nil
}

// envKey maps PORTAL_DATABASE_SQLITE_PATH to database.sqlite_path.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}
