package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestLoadProduction(t *testing.T) {
	t.Setenv("ENV", "Production")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
}

func TestAllowedOriginsFromEnv(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	cfg := Load()
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestAllowedOriginsFallsBackToFrontendURL(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://app.example.com")
	cfg := Load()
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
}
