package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jjenkins/neows/internal/service"
)

// Config captures runtime configuration for the dashboard and CLI.
type Config struct {
	Port          string
	BaseURL       string
	APIKey        string
	CacheTTL      time.Duration
	CacheCapacity int
	SessionTTL    time.Duration

	GitHubClientID     string
	GitHubClientSecret string
	PublicURL          string
}

// FromEnv creates a configuration instance sourced from environment variables,
// after loading a .env file from the working directory if one exists.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		BaseURL:            getEnv("NEOWS_BASE_URL", "https://api.nasa.gov"),
		APIKey:             getEnv("NASA_API_KEY", service.DemoAPIKey),
		CacheTTL:           5 * time.Minute,
		CacheCapacity:      256,
		SessionTTL:         12 * time.Hour,
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		PublicURL:          getEnv("NEOWS_PUBLIC_URL", ""),
	}

	if ttl := os.Getenv("NEOWS_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("parse NEOWS_CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}

	if capacity := os.Getenv("NEOWS_CACHE_CAPACITY"); capacity != "" {
		if _, err := fmt.Sscanf(capacity, "%d", &cfg.CacheCapacity); err != nil {
			return Config{}, fmt.Errorf("parse NEOWS_CACHE_CAPACITY: %w", err)
		}
	}

	if ttl := os.Getenv("NEOWS_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, fmt.Errorf("parse NEOWS_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	return cfg, nil
}

// UsingDemoKey reports whether requests will go out under the shared demo key.
func (c Config) UsingDemoKey() bool {
	return c.APIKey == service.DemoAPIKey
}

// CallbackURL is the OAuth redirect target. Without NEOWS_PUBLIC_URL it
// points at localhost on the port the server actually listens on.
func (c Config) CallbackURL(port string) string {
	base := c.PublicURL
	if base == "" {
		base = "http://localhost:" + port
	}
	return strings.TrimSuffix(base, "/") + "/auth/callback"
}

// AuthEnabled reports whether GitHub sign-in is configured.
func (c Config) AuthEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
