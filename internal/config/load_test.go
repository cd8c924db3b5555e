package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LEXREAD_DATABASE_URL", "postgres://localhost:5432/lexread_test")
	t.Setenv("LEXREAD_SERVER_PORT", "9090")
	t.Setenv("LEXREAD_SERVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/lexread_test", cfg.Database.URL)
	assert.Equal(t, 20, cfg.Session.DueLimit, "due limit defaults to 20")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEXREAD_DATABASE_URL", "postgres://localhost:5432/lexread_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("LEXREAD_DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err, "missing database URL must fail validation")
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("LEXREAD_DATABASE_URL", "postgres://localhost:5432/lexread_test")
	t.Setenv("LEXREAD_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
