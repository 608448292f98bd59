package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimal = `
[database]
user = "postgres"
dbname = "booking_flow"

[booking_api]
url = "http://api.local"
`

func TestLoad_DefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimal+`
[session]
timezone = "UTC"
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "http://api.local", cfg.BookingAPI.URL)
	assert.Equal(t, 10, cfg.BookingAPI.Timeout)
	assert.Equal(t, 20, cfg.Session.DefaultMaxPartySize)
	assert.Equal(t, 30, cfg.Session.ConfirmationResetDelay)
	assert.False(t, cfg.Redis.Enabled)

	loc, err := cfg.Session.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
	assert.Contains(t, cfg.Database.DSN(), "dbname=booking_flow")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_API_URL", "http://override.local")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_ADDR", "redis:6380")

	cfg, err := Load(writeConfig(t, minimal))
	require.NoError(t, err)

	assert.Equal(t, "http://override.local", cfg.BookingAPI.URL)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, `
[logs]
level = "loud"

[session]
default_max_party_size = 0
timezone = "Mars/Olympus"
`))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "booking_api.url")
	assert.Contains(t, err.Error(), "logs.level")
	assert.Contains(t, err.Error(), "default_max_party_size")
	assert.Contains(t, err.Error(), "session.timezone")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, ErrLoadConfig)
}
