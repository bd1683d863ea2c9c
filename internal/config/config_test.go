package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "sqlite", cfg.Directory.Backend)
	assert.True(t, cfg.Directory.Seed)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KIOSK_SERVER_PORT", "8443")
	t.Setenv("KIOSK_SESSION_TTL", "30s")
	t.Setenv("KIOSK_DIRECTORY_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8443", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Session.TTL)
	assert.False(t, cfg.Directory.Seed)
}

func TestLoad_RejectsUnknownBackends(t *testing.T) {
	t.Setenv("KIOSK_SESSION_BACKEND", "bogus")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("KIOSK_DIRECTORY_BACKEND", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_TLSPairedOptions(t *testing.T) {
	t.Setenv("KIOSK_SERVER_TLS_CERT", "/etc/kiosk/cert.pem")

	_, err := Load()
	assert.Error(t, err)
}

func TestDirectoryConfig_DatabasePath(t *testing.T) {
	c := DirectoryConfig{}
	assert.Equal(t, "db/database.sqlite", c.DatabasePath(false))
	assert.Equal(t, "/tmp/database.sqlite", c.DatabasePath(true))

	c.SQLitePath = "/var/lib/kiosk/clients.sqlite"
	assert.Equal(t, "/var/lib/kiosk/clients.sqlite", c.DatabasePath(true))
}
