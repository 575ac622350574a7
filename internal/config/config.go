// ABOUTME: Configuration loader for the hostdesk CLI and dev server
// ABOUTME: Layers defaults, config.yaml, .env, and environment variables

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/markalston/hostdesk/internal/session"
)

// FileName is the config file looked up in the config dir
const FileName = "config.yaml"

// Session backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory" // nothing written to disk, lost on exit
)

type Config struct {
	// Backend API
	APIURL   string        `yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
	AllProxy string        `yaml:"all_proxy"` // ssh+socks5://user@host:port?private-key=path

	// Session storage
	SessionBackend string `yaml:"session_backend"` // file (default), redis or memory
	RedisURL       string `yaml:"redis_url"`
	RedisPrefix    string `yaml:"redis_prefix"`

	// Token seeds a memory session, from HOSTDESK_TOKEN only
	Token string `yaml:"-"`

	// Serve ListProperties from a fresh cache slot instead of the backend
	PropertiesCache bool `yaml:"properties_cache"`

	Dev DevConfig `yaml:"dev"`

	// Directory holding config.yaml, session.json and debug.log
	Dir string `yaml:"-"`
}

// DevConfig configures the local development backend
type DevConfig struct {
	Port      string        `yaml:"port"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		APIURL:         "http://localhost:8080",
		Timeout:        30 * time.Second,
		SessionBackend: BackendFile,
		RedisPrefix:    session.DefaultRedisPrefix,
		Dev: DevConfig{
			Port:      "8080",
			JWTSecret: "hostdesk-dev-secret",
			TokenTTL:  time.Hour,
		},
	}
}

// Load reads configuration for the given config dir (empty means the default dir).
// A .env file in the working directory is loaded without overriding the real environment.
func Load(dir string) (*Config, error) {
	return load(dir, ".env")
}

func load(dir, envFile string) (*Config, error) {
	if dir == "" {
		dir = session.DefaultConfigDir()
	}

	cfg := Defaults()
	cfg.Dir = dir

	if err := cfg.loadFile(filepath.Join(dir, FileName)); err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.APIURL = getEnv("HOSTDESK_API_URL", c.APIURL)
	c.AllProxy = getEnv("HOSTDESK_ALL_PROXY", c.AllProxy)
	c.SessionBackend = getEnv("HOSTDESK_SESSION_BACKEND", c.SessionBackend)
	c.RedisURL = getEnv("HOSTDESK_REDIS_URL", c.RedisURL)
	c.RedisPrefix = getEnv("HOSTDESK_REDIS_PREFIX", c.RedisPrefix)
	c.Token = getEnv("HOSTDESK_TOKEN", c.Token)
	c.PropertiesCache = getEnvBool("HOSTDESK_PROPERTIES_CACHE", c.PropertiesCache)

	c.Dev.Port = getEnv("HOSTDESK_DEV_PORT", c.Dev.Port)
	c.Dev.JWTSecret = getEnv("HOSTDESK_DEV_JWT_SECRET", c.Dev.JWTSecret)

	var err error
	if c.Timeout, err = getEnvDuration("HOSTDESK_TIMEOUT", c.Timeout); err != nil {
		return err
	}
	if c.Dev.TokenTTL, err = getEnvDuration("HOSTDESK_DEV_TOKEN_TTL", c.Dev.TokenTTL); err != nil {
		return err
	}
	return nil
}

// Validate checks values and normalizes the API URL
func (c *Config) Validate() error {
	c.APIURL = ensureScheme(strings.TrimSpace(c.APIURL))
	if c.APIURL == "" {
		return fmt.Errorf("HOSTDESK_API_URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("HOSTDESK_TIMEOUT must be positive, got %s", c.Timeout)
	}

	c.SessionBackend = strings.ToLower(c.SessionBackend)
	switch c.SessionBackend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("HOSTDESK_REDIS_URL is required when HOSTDESK_SESSION_BACKEND is redis")
		}
	default:
		return fmt.Errorf("HOSTDESK_SESSION_BACKEND must be file, redis or memory, got %q", c.SessionBackend)
	}

	if c.AllProxy != "" && !strings.Contains(c.AllProxy, "://") {
		return fmt.Errorf("HOSTDESK_ALL_PROXY must be a URL, got %q", c.AllProxy)
	}

	if c.Dev.TokenTTL <= 0 {
		return fmt.Errorf("HOSTDESK_DEV_TOKEN_TTL must be positive, got %s", c.Dev.TokenTTL)
	}
	if c.Dev.JWTSecret == "" {
		return fmt.Errorf("HOSTDESK_DEV_JWT_SECRET is required")
	}
	return nil
}

// DebugLogPath is where the TUI writes its logs
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.Dir, "debug.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s, got %q", key, value)
	}
	return d, nil
}

// ensureScheme adds a scheme if the URL has none: http for localhost, https otherwise
func ensureScheme(url string) string {
	if url == "" || strings.Contains(url, "://") {
		return url
	}
	if strings.HasPrefix(url, "localhost") || strings.HasPrefix(url, "127.0.0.1") {
		return "http://" + url
	}
	return "https://" + url
}
