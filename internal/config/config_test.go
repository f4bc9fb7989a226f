package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)

	assert.Equal(t, "jwt", cfg.Auth.TokenDriver)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)

	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("TOKEN_DRIVER", "paseto")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TOKEN_DURATION", "7200")
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "paseto", cfg.Auth.TokenDriver)
	assert.Equal(t, []byte("0123456789abcdef0123456789abcdef"), cfg.Auth.SigningSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenDuration)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Address())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
}

func TestLoad_MissingSecretIsNotFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.SigningSecret)
}

func TestLoad_RejectsUnknownTokenDriver(t *testing.T) {
	t.Setenv("TOKEN_DRIVER", "opaque")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "api",
		Password: "pw",
		DBName:   "volunteerhub",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=api password=pw dbname=volunteerhub sslmode=require",
		cfg.ConnectionString(),
	)

	cfg.ChannelBinding = "require"
	assert.Contains(t, cfg.ConnectionString(), "channel_binding=require")
}
