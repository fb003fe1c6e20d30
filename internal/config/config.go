// Package config loads the checkout engine configuration from the
// environment.
package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/Lukaszwutkowski/QuickCashEasy/pkg/config"
)

// Config holds all configuration for the checkout engine.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"quickcash"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"quickcash_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"quickcash"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis cart snapshots
	RedisHost           string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort           int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	CartSnapshotTTLHrs  int    `env:"CART_SNAPSHOT_TTL_HOURS" envDefault:"12"`
	CartSnapshotEnabled bool   `env:"CART_SNAPSHOT_ENABLED" envDefault:"true"`

	// Kafka
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"true"`

	// Bank settlement gateway
	BankPaymentURL        string `env:"BANK_PAYMENT_URL" envDefault:"http://localhost:9090/payments"`
	GatewayTimeoutSeconds int    `env:"GATEWAY_TIMEOUT_SECONDS" envDefault:"10"`

	// Circuit breaker for the bank gateway
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`
}

// Load reads configuration from environment variables. Invariant checks run
// through the loader's Validatable hook.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load checkout engine config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.BankPaymentURL == "" {
		return fmt.Errorf("BANK_PAYMENT_URL is required")
	}
	if _, err := url.ParseRequestURI(c.BankPaymentURL); err != nil {
		return fmt.Errorf("invalid BANK_PAYMENT_URL %q: %w", c.BankPaymentURL, err)
	}
	if c.GatewayTimeoutSeconds < 1 {
		return fmt.Errorf("GATEWAY_TIMEOUT_SECONDS must be at least 1, got %d", c.GatewayTimeoutSeconds)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when events are enabled")
	}
	if c.CartSnapshotEnabled && c.CartSnapshotTTLHrs < 1 {
		return fmt.Errorf("CART_SNAPSHOT_TTL_HOURS must be at least 1, got %d", c.CartSnapshotTTLHrs)
	}
	return nil
}
