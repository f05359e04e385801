package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/neows/internal/service"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "NEOWS_BASE_URL", "NASA_API_KEY", "NEOWS_CACHE_TTL", "NEOWS_CACHE_CAPACITY",
		"NEOWS_SESSION_TTL", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "NEOWS_PUBLIC_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.nasa.gov", cfg.BaseURL)
	assert.Equal(t, service.DemoAPIKey, cfg.APIKey)
	assert.True(t, cfg.UsingDemoKey())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 256, cfg.CacheCapacity)
	assert.Empty(t, cfg.PublicURL)
	assert.False(t, cfg.AuthEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NASA_API_KEY", "personal-key")
	t.Setenv("NEOWS_CACHE_TTL", "90s")
	t.Setenv("NEOWS_CACHE_CAPACITY", "32")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")
	t.Setenv("NEOWS_PUBLIC_URL", "https://neo.example.org")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.UsingDemoKey())
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 32, cfg.CacheCapacity)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, "https://neo.example.org", cfg.PublicURL)
	assert.Equal(t, "https://neo.example.org/auth/callback", cfg.CallbackURL("9000"))
}

func TestCallbackURLFollowsListenPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/auth/callback", cfg.CallbackURL("9000"))
	assert.Equal(t, "http://localhost:8080/auth/callback", cfg.CallbackURL(cfg.Port))
}

func TestFromEnvRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEOWS_CACHE_TTL", "five minutes")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEOWS_CACHE_TTL")
}
