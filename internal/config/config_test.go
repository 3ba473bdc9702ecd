package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-warehouse-console/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("BASE_URL", "")
	t.Setenv("AUTH_TIMEOUT", "")

	c := config.New()
	require.Equal(t, "http://localhost:8080", c.GetBaseURL())
	require.Equal(t, 10*time.Second, c.GetAuthTimeout())
	require.Equal(t, "/login", c.GetLoginView())
	require.Equal(t, "/dashboard", c.GetDefaultView())
	require.Empty(t, c.GetRedisAddr())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BASE_URL", "https://wms.example.com/")
	t.Setenv("AUTH_TIMEOUT", "3s")
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	c := config.New()
	require.Equal(t, "https://wms.example.com", c.GetBaseURL())
	require.Equal(t, 3*time.Second, c.GetAuthTimeout())
	require.Equal(t, 30*time.Second, c.GetRequestTimeout())
}

func TestFileTakesPrecedence(t *testing.T) {
	t.Setenv("BASE_URL", "https://from-env.example.com")
	t.Setenv("LOG_LEVEL", "warn")

	c, err := config.Parse([]byte(`
base_url: https://from-file.example.com
redis:
  address: localhost:6379
timeouts:
  auth: 2s
views:
  default: /orders
`))
	require.NoError(t, err)
	require.Equal(t, "https://from-file.example.com", c.GetBaseURL())
	require.Equal(t, "warn", c.GetLogLevel())
	require.Equal(t, "localhost:6379", c.GetRedisAddr())
	require.Equal(t, 2*time.Second, c.GetAuthTimeout())
	require.Equal(t, "/orders", c.GetDefaultView())
	require.Equal(t, "/login", c.GetLoginView())
}

func TestLoad(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_name: Depot\n"), 0o600))
	c, err = config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "Depot", c.GetAppName())

	_, err = config.Parse([]byte("base_url: [unterminated"))
	require.Error(t, err)
}
