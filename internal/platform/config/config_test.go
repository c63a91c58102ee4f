package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ISSUER", "ledger-test")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOCK_TTL", "45s")
	t.Setenv("RATE_LIMIT", "10-S")
	t.Setenv("DEFAULT_CURRENCY", "usd")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "ledger-test", cfg.JWTIssuer)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.LockTTL)
	assert.Equal(t, "10-S", cfg.RateLimit)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
}

func TestLoadConfigInvalidLockTTL(t *testing.T) {
	t.Setenv("LOCK_TTL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.LockTTL)
}
