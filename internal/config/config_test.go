package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "http://localhost:8080/api", cfg.APIBase)
	assert.Equal(t, "https://horizon-testnet.stellar.org", cfg.Horizon)
	assert.Equal(t, 15000, cfg.TimeoutMs)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CLEARGIVE_API", "http://api.test/api")
	t.Setenv("CLEARGIVE_TOKEN", "firebase-uid-123")
	t.Setenv("CLEARGIVE_TIMEOUT_MS", "2500")
	t.Setenv("CLEARGIVE_LOG_CALLS", "true")
	t.Setenv("CLEARGIVE_DB", "/tmp/cg.db")

	cfg := Load()

	assert.Equal(t, "http://api.test/api", cfg.APIBase)
	assert.Equal(t, "firebase-uid-123", cfg.Token)
	assert.Equal(t, 2500, cfg.TimeoutMs)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, "/tmp/cg.db", cfg.DBPath)
}

func TestLoad_IgnoresBadTimeout(t *testing.T) {
	t.Setenv("CLEARGIVE_TIMEOUT_MS", "-1")
	cfg := Load()
	assert.Equal(t, 15000, cfg.TimeoutMs)
}
