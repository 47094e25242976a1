package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// devJWTSecret is only accepted outside production.
const devJWTSecret = "familytree-dev-secret"

// Config holds all application configuration
type Config struct {
	// Server settings
	ServerPort    int    `env:"SERVER_PORT" envDefault:"3002"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Apply pending goose migrations before the server starts
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"false"`

	Database  DatabaseConfig
	Auth      AuthConfig
	Otel      OtelConfig
	Relatives RelativesConfig

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string        `env:"POSTGRES_USER" envDefault:"familytree"`
	Password     string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database     string        `env:"POSTGRES_DB" envDefault:"familytree"`
	SSLMode      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	QueryDebug   bool          `env:"DB_QUERY_DEBUG" envDefault:"false"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AuthConfig holds token signing and login throttling settings
type AuthConfig struct {
	// HMAC secret for HS256 access tokens
	JWTSecret string `env:"AUTH_JWT_SECRET" envDefault:"familytree-dev-secret"`
	// Issuer claim stamped on and required from tokens
	Issuer   string        `env:"AUTH_ISSUER" envDefault:"familytree"`
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"24h"`

	// Login attempts allowed per client IP
	LoginRatePerMin int `env:"AUTH_LOGIN_RATE_PER_MIN" envDefault:"10"`
	LoginBurst      int `env:"AUTH_LOGIN_BURST" envDefault:"5"`
}

// RelativesConfig controls the reverse-edge audit job
type RelativesConfig struct {
	// Cron expression with seconds, e.g. "0 0 3 * * *". Empty disables the job.
	AuditSchedule string `env:"RELATIVES_AUDIT_SCHEDULE" envDefault:""`
	// Insert missing reverse edges and fix mismatched kinds when auditing
	AuditRepair bool `env:"RELATIVES_AUDIT_REPAIR" envDefault:"false"`
}

// AuditEnabled returns true when a schedule is configured
func (r RelativesConfig) AuditEnabled() bool {
	return r.AuditSchedule != ""
}

// Validate rejects settings that are unsafe for the current environment
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Auth.JWTSecret == devJWTSecret || len(c.Auth.JWTSecret) < 32) {
		return errors.New("AUTH_JWT_SECRET must be set to at least 32 characters in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("AUTH_TOKEN_TTL must be positive")
	}
	if c.Auth.LoginRatePerMin <= 0 || c.Auth.LoginBurst <= 0 {
		return errors.New("AUTH_LOGIN_RATE_PER_MIN and AUTH_LOGIN_BURST must be positive")
	}
	return nil
}

// Load parses configuration from the environment without logging.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	log.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("db_host", cfg.Database.Host),
		slog.Bool("relatives_audit", cfg.Relatives.AuditEnabled()),
	)

	return cfg, nil
}
