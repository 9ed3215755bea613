package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment of the service.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// Config holds all environment-supplied settings for the service.
// Secrets (JWT signing key, payment provider key) are never defaulted.
type Config struct {
	Environment       Environment `default:"development"`
	Port              string      `default:"8080"`
	DatabaseURL       string      `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret         string      `envconfig:"JWT_SECRET" required:"true"`
	RedisURL          string      `envconfig:"REDIS_URL"`
	PaystackSecretKey string      `envconfig:"PAYSTACK_SECRET_KEY"`
	PaystackBaseURL   string      `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
}

// Load reads .env (when present) and processes the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// PaymentsLive reports whether a real payment provider is configured.
func (c *Config) PaymentsLive() bool {
	return c.PaystackSecretKey != ""
}
