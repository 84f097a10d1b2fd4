package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/njchilds90/symexpr/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "rat", cfg.Numeric)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "symexpr.yaml", `
numeric: float
log_level: debug
http:
  addr: ":9090"
cache:
  backend: redis
  ttl: 30s
  redis:
    addr: "cache:6379"
    db: 2
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "float", cfg.Numeric)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "cache:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	// Untouched fields keep their defaults.
	assert.Equal(t, "stdio", cfg.MCP.Transport)
	assert.Equal(t, "symexpr:tool:", cfg.Cache.Redis.Prefix)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "symexpr.json", `{"numeric":"int","mcp":{"transport":"sse","port":7000}}`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "int", cfg.Numeric)
	assert.Equal(t, "sse", cfg.MCP.Transport)
	assert.Equal(t, 7000, cfg.MCP.Port)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"numeric":   "numeric: complex\n",
		"log level": "log_level: loud\n",
		"transport": "mcp:\n  transport: ws\n",
		"backend":   "cache:\n  backend: disk\n",
		"syntax":    "numeric: [unterminated\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, "bad.yaml", content))
			assert.Error(t, err)
		})
	}
}
