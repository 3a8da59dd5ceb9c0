package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("AUDIT_BACKEND", "")
		t.Setenv("BOOKINGS_PERSIST_ON_SHUTDOWN", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
		assert.Equal(t, AuditNone, cfg.AuditBackend)
		assert.False(t, cfg.BookingsPersistOnShutdown)
		assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("OUTBOUND_RPS", "2.5")
		t.Setenv("BOOKINGS_PERSIST_ON_SHUTDOWN", "true")
		t.Setenv("AUDIT_BACKEND", "Mongo")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 2.5, cfg.OutboundRPS)
		assert.True(t, cfg.BookingsPersistOnShutdown)
		assert.Equal(t, AuditMongo, cfg.AuditBackend)
	})

	t.Run("invalid numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("READ_TIMEOUT", "soon")
		t.Setenv("AUDIT_BACKEND", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	})

	t.Run("unknown audit backend", func(t *testing.T) {
		t.Setenv("AUDIT_BACKEND", "redis")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}
