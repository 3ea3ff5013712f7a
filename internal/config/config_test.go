package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: http
storage:
  backend: redis
  redis_addr: localhost:6379
export:
  delimiter: tab
  ordinal_sort: numeric
refresh:
  interval: 1m
log:
  level: debug
`), 0o644))

	t.Setenv("PIRARUCU_CONFIG_PATH", path)
	t.Setenv("PIRARUCU_SERVER_HOST", "127.0.0.1")
	t.Setenv("PIRARUCU_REDIS_DB", "2")
	t.Setenv("PIRARUCU_REFRESH_INTERVAL", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.Equal(t, "redis", cfg.Storage.Backend)
	require.Equal(t, 2, cfg.Storage.RedisDB)
	require.Equal(t, "tab", cfg.Export.Delimiter)
	require.Equal(t, "numeric", cfg.Export.OrdinalSort)
	require.Equal(t, 45*time.Second, cfg.Refresh.Interval)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("PIRARUCU_SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "PIRARUCU_SERVER_PORT")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("PIRARUCU_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	require.Error(t, cfg.Validate())
	cfg.Storage.PostgresURL = "postgres://localhost/counts"
	require.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Transport.Mode = "carrier-pigeon"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Export.OrdinalSort = "random"
	require.Error(t, cfg.Validate())
}
