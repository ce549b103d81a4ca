package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/booking")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.test, http://localhost:5173 ,")
	t.Setenv("NOTIFICATION_DEDUP_TTL", "6h")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ETB", cfg.Payment.Currency)
	assert.Equal(t, "memory", cfg.Notification.DedupBackend)
	assert.Equal(t, MaxDedupTTL, cfg.Notification.DedupTTL)
	assert.Equal(t, []string{"https://clinic.test", "http://localhost:5173"}, cfg.App.AllowedOrigins)
	assert.Equal(t, "300", cfg.Booking.RegistrationFee.String())
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:          AppConfig{Port: "8080", Timezone: "Africa/Addis_Ababa"},
			DB:           DBConfig{URL: "postgres://localhost/booking"},
			Notification: NotificationConfig{DedupBackend: "redis"},
		}
	}

	require.NoError(t, base().Validate())

	missing := base()
	missing.DB.URL = ""
	missing.App.Port = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "APP_PORT")

	backend := base()
	backend.Notification.DedupBackend = "memcached"
	assert.Error(t, backend.Validate())

	tz := base()
	tz.App.Timezone = "Mars/Olympus"
	assert.Error(t, tz.Validate())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "nowhere"}.Location())
	assert.Equal(t, "Africa/Addis_Ababa", AppConfig{Timezone: "Africa/Addis_Ababa"}.Location().String())
}
