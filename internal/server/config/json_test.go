package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":      "0.0.0.0:8080",
		"database_dsn":            "postgres://db",
		"secret_key":              "my_secret_key",
		"token_validity_duration": "15m",
		"allow_degraded_trust":    true,
		"auth_rate_limit":         1.5,
		"request_timeout":         3000000000,
		"log_level":               "debug",
	})

	t.Run("loads from json and keeps absent fields", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "0.0.0.0:8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 15*time.Minute, cfg.TokenValidityDuration)
		assert.True(t, cfg.AllowDegradedTrust)
		assert.Equal(t, rate.Limit(1.5), cfg.AuthRateLimit)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)

		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, "elite-glam", cfg.ProjectID)
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, Config{}, *cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
