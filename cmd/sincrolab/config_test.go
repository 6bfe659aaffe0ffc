package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	cfg := &AppConfig{}
	cfg.Auth.JWT.Secret = "s"
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, serviceName, cfg.Name)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "file:./dev.db", cfg.Database.DSN)
	assert.Equal(t, 2*time.Minute, cfg.Auth.JWT.TTL)
	assert.Equal(t, "sincrolab", cfg.Auth.JWT.Issuer)
	assert.Equal(t, 10, cfg.Auth.Password.BcryptCost)
}

func TestAppConfig_MissingSecretFails(t *testing.T) {
	cfg := &AppConfig{}
	cfg.ApplyDefaults()
	assert.ErrorContains(t, cfg.Validate(), "secret is required")
}

func TestLoadConfig_LegacyEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: sincrolab\nauth:\n  jwt:\n    ttl: 2m\n"), 0o644))

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PORT", "4000")
	t.Setenv("DATABASE_URL", "file::memory:?cache=shared")
	t.Setenv("CLIENT_URL", "http://localhost:5173")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "file::memory:?cache=shared", cfg.Database.DSN)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORS.AllowedOrigins)
}
