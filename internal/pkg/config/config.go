// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from environment variables; defaults suit local
// development.
type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"backoffice-api"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// DBPath is the main SQLite file; OrderLogPath the audit-trail file.
	// An empty OrderLogPath disables the order event log.
	DBPath       string `envconfig:"DB_PATH" default:"./data/backoffice.db"`
	OrderLogPath string `envconfig:"ORDER_LOG_PATH" default:"./data/orderlog.db"`

	// RedisAddr enables the token-verification cache when set.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`

	// AdminToken, when set, is accepted by the static verifier as an admin
	// identity. Local development only; a real deployment plugs in an
	// external verifier.
	AdminToken string `envconfig:"ADMIN_TOKEN" default:""`

	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"100"`
}

// Load reads the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
