package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DriverMongo, cfg.Store.Driver)
	require.Equal(t, 100, cfg.Limiter.PublicLimit)
	require.Equal(t, 15*time.Minute, cfg.Limiter.PublicWindow)
	require.Equal(t, 20, cfg.Limiter.AdminLimit)
	require.Equal(t, 5, cfg.Limiter.ContactLimit)
	require.Equal(t, time.Hour, cfg.Limiter.ContactWindow)
	require.False(t, cfg.AdminEnabled())
	require.Equal(t, ":5000", cfg.GetServerAddr())
}

func TestLoadNestedKeys(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/portfolio")
	t.Setenv("RATE_LIMIT_ADMIN_MAX", "7")
	t.Setenv("CORS_TRUSTED_ORIGINS", " https://example.com , ,https://www.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
	require.Equal(t, DriverPostgres, cfg.Store.Driver)
	require.Equal(t, "postgres://localhost/portfolio", cfg.Store.PostgresURL)
	require.Equal(t, 7, cfg.Limiter.AdminLimit)
	require.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.GetCORSOrigins())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown env", map[string]string{"APP_ENV": "prod"}, "invalid environment"},
		{"bad port", map[string]string{"APP_PORT": "70000"}, "invalid port"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "dynamo"}, "invalid STORE_DRIVER"},
		{"postgres without url", map[string]string{"STORE_DRIVER": "postgres"}, "DATABASE_URL"},
		{"admin without secret", map[string]string{"ADMIN_PASSWORD_HASH": "$2a$12$abc"}, "JWT_SECRET"},
		{"smtp without recipient", map[string]string{"SMTP_ENABLED": "true"}, "EMAIL_TO"},
		{"zero contact limit", map[string]string{"RATE_LIMIT_CONTACT_MAX": "0"}, "RATE_LIMIT_CONTACT_MAX"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestAdminEnabledWithSecret(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$12$abc")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.AdminEnabled())
	require.Equal(t, "admin", cfg.Admin.Username)
	require.Equal(t, 12*time.Hour, cfg.JWT.AccessTokenTTL)
}

func TestLoadStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/portfolio.db")

	sc, err := LoadStore()
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, sc.Driver)
	require.Equal(t, "/tmp/portfolio.db", sc.SQLitePath)
	require.Equal(t, 10*time.Second, sc.Timeout)
}
