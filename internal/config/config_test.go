package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("STATUSPAGE_DATABASE__URL", "postgres://app@localhost/status")
	t.Setenv("STATUSPAGE_JWT__SECRET_KEY", "secret")
	t.Setenv("STATUSPAGE_SERVER__READ_TIMEOUT", "30s")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "postgres://app@localhost/status", cfg.Database.URL)
	assert.Equal(t, "secret", cfg.JWT.SecretKey)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Duration(0), cfg.JWT.AccessTokenDuration)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9999"
database:
  url: postgres://file@localhost/status
jwt:
  secret_key: file-secret
  access_token_duration: 15m
log:
  level: debug
  format: text
cors:
  allowed_origins:
    - https://status.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("STATUSPAGE_JWT__SECRET_KEY", "env-wins")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "postgres://file@localhost/status", cfg.Database.URL)
	assert.Equal(t, "env-wins", cfg.JWT.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"https://status.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	t.Setenv("STATUSPAGE_DATABASE__URL", "postgres://app@localhost/status")

	_, err := Load("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret_key")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
