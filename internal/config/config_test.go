package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/clinicgeo/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromEnv(t *testing.T) {
	t.Setenv("GEOCODER_ENV", "local")
	t.Setenv("GEOCODER_API_KEY", "testAPIKey")
	t.Setenv("GEOCODER_INPUT", "clinics.csv")
	t.Setenv("GEOCODER_OUTPUT", "")
	t.Setenv("GEOCODER_PROVIDER", "nominatim")
	t.Setenv("GEOCODER_TIMEOUT", "5s")
	t.Setenv("GEOCODER_DELAY", "250ms")
	t.Setenv("GEOCODER_PROGRESS_EVERY", "25")
	t.Setenv("GEOCODER_METRICS_PORT", "9090")
	t.Setenv("DB_HOST", "testHost")
	t.Setenv("DB_PORT", "12345")
	t.Setenv("DB_USERNAME", "admin")
	t.Setenv("DB_PASSWORD", "adminpass")
	t.Setenv("DB_NAME", "testName")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "testAPIKey", cfg.APIKey)
	assert.Equal(t, "clinics.csv", cfg.InputPath)
	assert.Empty(t, cfg.OutputPath)
	assert.Equal(t, "nominatim", cfg.ProviderType)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay)
	assert.Equal(t, 25, cfg.ProgressEvery)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "testHost", cfg.Database.Host)
	assert.Equal(t, "12345", cfg.Database.Port)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "adminpass", cfg.Database.Password)
	assert.Equal(t, "testName", cfg.Database.Name)
}

func TestMustLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "input_file.csv", cfg.InputPath)
	assert.Equal(t, "output_file.csv", cfg.OutputPath)
	assert.Equal(t, "google", cfg.ProviderType)
	assert.Equal(t, "my", cfg.CountryCode)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Delay)
	assert.Equal(t, 10, cfg.ProgressEvery)
	assert.Equal(t, 0, cfg.Port)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.False(t, cfg.Database.Enabled())
}

func TestMustLoad_TimeoutError(t *testing.T) {
	t.Setenv("GEOCODER_TIMEOUT", "error_value")

	assert.PanicsWithValue(t, "failed to parse request timeout from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_DelayError(t *testing.T) {
	t.Setenv("GEOCODER_DELAY", "error_value")

	assert.PanicsWithValue(t, "failed to parse delay from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ProgressError(t *testing.T) {
	t.Setenv("GEOCODER_PROGRESS_EVERY", "error_value")

	assert.PanicsWithValue(t, "failed to parse progress interval from configuration, must be an integer", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("GEOCODER_METRICS_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}
