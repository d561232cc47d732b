package wikiquiz

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	// DefaultAPIBase is used when API_URL is not set.
	DefaultAPIBase = "/api"
)

// Config holds the frontend settings. Values come from an optional YAML file
// named by CONFIG_FILE, then from the environment, which wins.
type Config struct {
	Port          string        `yaml:"port"`
	APIURL        string        `yaml:"api_url"`
	BackendURL    string        `yaml:"backend_url"`
	APITimeout    time.Duration `yaml:"api_timeout"`
	SessionSecret string        `yaml:"session_secret"`
	SessionSecure bool          `yaml:"session_secure"`
	ViewStore     string        `yaml:"view_store"`
	SQLitePath    string        `yaml:"sqlite_path"`
	RedisAddr     string        `yaml:"redis_addr"`
	ViewTTL       time.Duration `yaml:"view_ttl"`
	LogMode       string        `yaml:"log_mode"`
	Verbose       bool          `yaml:"verbose"`
	CORSOrigins   []string      `yaml:"cors_origins"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Port:          "8180",
		APIURL:        "",
		BackendURL:    "http://127.0.0.1:8000",
		SessionSecret: "wikiquiz-dev-session-key",
		ViewStore:     StoreMemory,
		SQLitePath:    "./views.db",
		ViewTTL:       24 * time.Hour,
		LogMode:       "dev",
		CORSOrigins:   []string{"http://localhost:5173", "http://localhost:8180"},
	}
}

// FromEnv loads the configuration.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIURL = envOr("API_URL", cfg.APIURL)
	cfg.BackendURL = envOr("BACKEND_URL", cfg.BackendURL)
	cfg.SessionSecret = envOr("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionSecure = envBool("SESSION_SECURE", cfg.SessionSecure)
	cfg.ViewStore = strings.ToLower(envOr("VIEW_STORE", cfg.ViewStore))
	cfg.SQLitePath = envOr("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = envOr("REDIS_ADDR", cfg.RedisAddr)
	cfg.LogMode = envOr("LOG_MODE", cfg.LogMode)
	cfg.Verbose = envBool("VERBOSE", cfg.Verbose)
	cfg.CORSOrigins = csvOr("CORS_ORIGINS", cfg.CORSOrigins)

	var err error
	if cfg.APITimeout, err = envDuration("API_TIMEOUT", cfg.APITimeout); err != nil {
		return err
	}
	if cfg.ViewTTL, err = envDuration("VIEW_TTL", cfg.ViewTTL); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	switch c.ViewStore {
	case StoreMemory, StoreSQLite:
	case StoreRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis view store")
		}
	default:
		return fmt.Errorf("unknown VIEW_STORE %q", c.ViewStore)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET must not be empty")
	}
	if _, err := c.APIBase(); err != nil {
		return err
	}
	return nil
}

// APIBase resolves the address the API client talks to. An absolute API_URL
// is used as is; a relative one (the default "/api") is resolved against
// BACKEND_URL.
func (c Config) APIBase() (string, error) {
	base := strings.TrimSpace(c.APIURL)
	if base == "" {
		base = DefaultAPIBase
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid API_URL %q: %w", base, err)
	}
	if u.IsAbs() {
		return strings.TrimSuffix(base, "/"), nil
	}
	backend, err := url.Parse(c.BackendURL)
	if err != nil || !backend.IsAbs() {
		return "", fmt.Errorf("invalid BACKEND_URL %q", c.BackendURL)
	}
	return strings.TrimSuffix(c.BackendURL, "/") + "/" + strings.Trim(base, "/"), nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return d, nil
}
