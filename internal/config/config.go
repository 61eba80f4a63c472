package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"APP_PORT" default:"5000"`
	StaticDir string `envconfig:"STATIC_DIR"`
	Store     StoreConfig
	Redis     RedisConfig
	Limiter   RateLimiterConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Admin     AdminConfig
	SMTP      SMTPConfig
}

// storage configuration
type StoreConfig struct {
	Driver      string        `envconfig:"STORE_DRIVER" default:"mongo"`
	MongoURI    string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	Database    string        `envconfig:"MONGODB_DATABASE" default:"portfolio"`
	PostgresURL string        `envconfig:"DATABASE_URL"`
	SQLitePath  string        `envconfig:"SQLITE_PATH" default:"portfolio.db"`
	MaxConns    int32         `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	Timeout     time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
}

// redis configuration, used for shared rate limit counters
type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// rate limiting configuration
type RateLimiterConfig struct {
	Enabled         bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	PublicLimit     int           `envconfig:"RATE_LIMIT_PUBLIC_MAX" default:"100"`
	PublicWindow    time.Duration `envconfig:"RATE_LIMIT_PUBLIC_WINDOW" default:"15m"`
	AdminLimit      int           `envconfig:"RATE_LIMIT_ADMIN_MAX" default:"20"`
	AdminWindow     time.Duration `envconfig:"RATE_LIMIT_ADMIN_WINDOW" default:"15m"`
	ContactLimit    int           `envconfig:"RATE_LIMIT_CONTACT_MAX" default:"5"`
	ContactWindow   time.Duration `envconfig:"RATE_LIMIT_CONTACT_WINDOW" default:"1h"`
	CleanupInterval time.Duration `envconfig:"RATE_LIMIT_CLEANUP_INTERVAL" default:"5m"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:4173,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"12h"`
	Issuer         string        `envconfig:"JWT_ISSUER" default:"portfolio-api"`
}

// AdminConfig holds the single admin account. An empty PasswordHash disables
// the admin API.
type AdminConfig struct {
	Username     string `envconfig:"ADMIN_USERNAME" default:"admin"`
	PasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
	BcryptCost   int    `envconfig:"BCRYPT_COST" default:"12"`
}

// SMTP configuration for contact notifications
type SMTPConfig struct {
	Enabled  bool          `envconfig:"SMTP_ENABLED" default:"false"`
	Host     string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int           `envconfig:"SMTP_PORT" default:"587"`
	Username string        `envconfig:"EMAIL_USER"`
	Password string        `envconfig:"EMAIL_PASS"`
	From     string        `envconfig:"EMAIL_FROM"`
	To       string        `envconfig:"EMAIL_TO"`
	Timeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// LoadStore reads only the storage section, for tools that never serve HTTP.
func LoadStore() (*StoreConfig, error) {
	var sc StoreConfig
	if err := envconfig.Process("", &sc); err != nil {
		return nil, fmt.Errorf("failed to process store config: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &sc, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.Limiter.Enabled {
		for name, p := range map[string]struct {
			limit  int
			window time.Duration
		}{
			"PUBLIC":  {c.Limiter.PublicLimit, c.Limiter.PublicWindow},
			"ADMIN":   {c.Limiter.AdminLimit, c.Limiter.AdminWindow},
			"CONTACT": {c.Limiter.ContactLimit, c.Limiter.ContactWindow},
		} {
			if p.limit < 1 {
				return fmt.Errorf("RATE_LIMIT_%s_MAX must be at least 1", name)
			}
			if p.window <= 0 {
				return fmt.Errorf("RATE_LIMIT_%s_WINDOW must be positive", name)
			}
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
	}
	if c.AdminEnabled() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters")
		}
		if c.JWT.AccessTokenTTL <= 0 {
			return fmt.Errorf("JWT_ACCESS_TOKEN_TTL must be positive")
		}
		if c.Admin.Username == "" {
			return fmt.Errorf("ADMIN_USERNAME is required when ADMIN_PASSWORD_HASH is set")
		}
	}
	if c.SMTP.Enabled {
		if c.SMTP.Host == "" || c.SMTP.To == "" {
			return fmt.Errorf("SMTP_HOST and EMAIL_TO are required when SMTP_ENABLED is set")
		}
		if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP_PORT: %d", c.SMTP.Port)
		}
	}
	if len(c.GetCORSOrigins()) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (s *StoreConfig) Validate() error {
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" || s.Database == "" {
			return fmt.Errorf("MONGODB_URI and MONGODB_DATABASE are required for the mongo driver")
		}
	case DriverPostgres:
		if s.PostgresURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		if s.MaxConns < 1 {
			return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
		}
	case DriverSQLite:
		if s.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s (must be one of: mongo, postgres, sqlite, memory)", s.Driver)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) AdminEnabled() bool {
	return c.Admin.PasswordHash != ""
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, Store.Driver=%s, Redis.Enabled=%t, "+
		"Limiter.Enabled=%t, Limiter.Public=%d/%s, Limiter.Admin=%d/%s, Limiter.Contact=%d/%s, "+
		"CORS.Origins=%d, JWT.AccessTokenTTL=%s, Admin.Enabled=%t, SMTP.Enabled=%t, StaticDir=%q}",
		c.Env, c.Port, c.Store.Driver, c.Redis.Enabled,
		c.Limiter.Enabled, c.Limiter.PublicLimit, c.Limiter.PublicWindow,
		c.Limiter.AdminLimit, c.Limiter.AdminWindow, c.Limiter.ContactLimit, c.Limiter.ContactWindow,
		len(c.CORS.TrustedOrigins), c.JWT.AccessTokenTTL, c.AdminEnabled(), c.SMTP.Enabled, c.StaticDir)
}
