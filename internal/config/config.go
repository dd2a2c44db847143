// internal/config/config.go
//
// Runtime configuration for the Worldle server.
// Values come from the process environment; a .env file in the working
// directory is loaded first when present (development convenience).

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends accepted by STORE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds every tunable of the server.
type Config struct {
	Port     string `env:"PORT" envDefault:"5175"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	DBPath       string `env:"DB_PATH" envDefault:"./data/worldle.db"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret      string `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`
	CookieName     string `env:"COOKIE_NAME" envDefault:"worldle_token"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	// Timezone decides where the daily puzzle rolls over.
	Timezone      string `env:"TIMEZONE" envDefault:"UTC"`
	CountriesFile string `env:"COUNTRIES_FILE"`
	GameURL       string `env:"GAME_URL" envDefault:"https://worldle.teuteuf.fr"`
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: TIMEZONE: %w", err)
	}
	if c.JWTExpiresDays <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_DAYS must be positive")
	}
	return nil
}

// Location returns the time zone used for day strings.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Production reports whether cookies must be Secure/SameSite=None.
func (c *Config) Production() bool { return c.AppEnv == "production" }

// TokenTTL is the lifetime of account tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiresDays) * 24 * time.Hour
}
