package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "LOG_LEVEL", "LOG_PRETTY", "CATALOG_URL", "CATALOG_TIMEOUT",
	"GOOGLE_API_KEY", "GEMINI_API_KEY", "AI_BASE_URL", "AI_MODEL", "AI_TIMEOUT",
	"AI_RATE_LIMIT", "AI_RATE_BURST", "BCRYPT_COST", "PORT",
	"PRODUCT_SERVICE_URL", "ORDER_SERVICE_URL", "USER_SERVICE_URL",
}

// clearEnv empties every key Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port("8081"))
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "https://dummyjson.com/products?limit=30", cfg.Catalog.URL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.False(t, cfg.AI.Configured())
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Zero(t, cfg.AI.RequestsPerSecond)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "8080", cfg.Gateway.Port)
	assert.Equal(t, "http://localhost:8082", cfg.Gateway.OrderServiceURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "fallback-key")
	t.Setenv("AI_TIMEOUT", "5s")
	t.Setenv("AI_RATE_LIMIT", "2.5")
	t.Setenv("AI_RATE_BURST", "4")
	t.Setenv("LOG_PRETTY", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port("8081"))
	assert.Equal(t, "fallback-key", cfg.AI.APIKey())
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, 2.5, cfg.AI.RequestsPerSecond)
	assert.Equal(t, 4, cfg.AI.Burst)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_MODEL", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOOGLE_API_KEY=file-key\nAI_MODEL=from-file\nBCRYPT_COST=4\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.AI.GoogleAPIKey)
	assert.Equal(t, "from-env", cfg.AI.Model, "environment wins over the file")
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "AI_TIMEOUT", value: "soon"},
		{key: "CATALOG_TIMEOUT", value: "10"},
		{key: "AI_RATE_LIMIT", value: "fast"},
		{key: "BCRYPT_COST", value: "ten"},
		{key: "LOG_PRETTY", value: "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.ErrorContains(t, err, tt.key)
		})
	}
}
