package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/symexpr"
	"github.com/njchilds90/symexpr/internal/logging"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "symexpr.yaml"

// Config is the structure of symexpr.yaml.
type Config struct {
	Numeric  string      `yaml:"numeric" json:"numeric"`
	LogLevel string      `yaml:"log_level" json:"log_level"`
	HTTP     HTTPConfig  `yaml:"http" json:"http"`
	MCP      MCPConfig   `yaml:"mcp" json:"mcp"`
	Cache    CacheConfig `yaml:"cache" json:"cache"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
}

// CacheConfig selects where tool responses are cached: "memory", "redis" or "none".
type CacheConfig struct {
	Backend string        `yaml:"backend" json:"backend"`
	Size    int           `yaml:"size" json:"size"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
	Redis   RedisConfig   `yaml:"redis" json:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Numeric:  "rat",
		LogLevel: "info",
		HTTP:     HTTPConfig{Addr: ":8080"},
		MCP:      MCPConfig{Transport: "stdio", Port: 8081},
		Cache: CacheConfig{
			Backend: "memory",
			Size:    1024,
			TTL:     10 * time.Minute,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "symexpr:tool:"},
		},
	}
}

// Load reads a YAML (or .json) file over the defaults. A missing file is not
// an error; the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields and ranges.
func (c Config) Validate() error {
	if !slices.Contains(symexpr.NumericKinds, c.Numeric) {
		return fmt.Errorf("numeric: %q is not one of %v", c.Numeric, symexpr.NumericKinds)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("mcp.transport: %q is not stdio or sse", c.MCP.Transport)
	}
	if c.MCP.Port <= 0 || c.MCP.Port > 65535 {
		return fmt.Errorf("mcp.port: %d out of range", c.MCP.Port)
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend: %q is not none, memory or redis", c.Cache.Backend)
	}
	if c.Cache.Backend == "memory" && c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size: must be positive")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl: must not be negative")
	}
	return nil
}
