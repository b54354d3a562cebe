// Package config loads application settings from the environment.
//
// Sources, lowest precedence first:
//   - built-in defaults (see defaults below)
//   - a `.env` file in the working directory, if present
//   - process environment variables prefixed with BOOKSHELF_
//
// Nested keys use a double underscore, so BOOKSHELF_SERVER__PORT maps to
// server.port and BOOKSHELF_DATABASE__DSN maps to database.dsn.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment before
	// the env provider reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "BOOKSHELF_"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `koanf:"server"   validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log"      validate:"required"`
	Security SecurityConfig `koanf:"security"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required"`
}

// DatabaseConfig selects the GORM dialect.
//
// For sqlite, DSN is a file path or ":memory:". For postgres it is a
// libpq-style connection string, e.g.
// "host=localhost user=app password=secret dbname=bookshelf sslmode=disable".
type DatabaseConfig struct {
	Driver       string `koanf:"driver"         validate:"required,oneof=sqlite postgres"`
	DSN          string `koanf:"dsn"            validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"min=0"`
}

type LogConfig struct {
	Level  string `koanf:"level"  validate:"required,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"required,oneof=text json"`
}

// SecurityConfig toggles behaviour that changes what is stored.
// HashPasswords is off by default: sign-up stores passwords as given.
type SecurityConfig struct {
	HashPasswords bool `koanf:"hash_passwords"`
	BcryptCost    int  `koanf:"bcrypt_cost" validate:"omitempty,min=4,max=31"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":             8080,
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "60s",
		"server.shutdown_timeout": "30s",
		"database.driver":         DriverSQLite,
		"database.dsn":            "data/bookshelf.db",
		"database.max_open_conns": 10,
		"database.max_idle_conns": 5,
		"log.level":               "info",
		"log.format":              "text",
		"security.hash_passwords": false,
		"security.bcrypt_cost":    12,
	}
}

// Load builds a Config from defaults and BOOKSHELF_* environment variables,
// then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// envKey maps BOOKSHELF_DATABASE__MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}
