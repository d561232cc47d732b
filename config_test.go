package wikiquiz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"CONFIG_FILE", "PORT", "API_URL", "BACKEND_URL", "API_TIMEOUT", "SESSION_SECRET", "SESSION_SECURE",
	"VIEW_STORE", "SQLITE_PATH", "REDIS_ADDR", "VIEW_TTL", "LOG_MODE", "VERBOSE", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "8180" || cfg.ViewStore != StoreMemory || cfg.APITimeout != 0 || cfg.ViewTTL != 24*time.Hour {
		t.Fatalf("defaults = %+v", cfg)
	}
	base, err := cfg.APIBase()
	if err != nil || base != "http://127.0.0.1:8000/api" {
		t.Fatalf("APIBase() = %q, %v", base, err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("API_URL", "https://quiz.example.com/api/")
	t.Setenv("VIEW_STORE", "SQLite")
	t.Setenv("VERBOSE", "true")
	t.Setenv("API_TIMEOUT", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "9000" || cfg.ViewStore != StoreSQLite || !cfg.Verbose || cfg.APITimeout != 90*time.Second {
		t.Fatalf("cfg = %+v", cfg)
	}
	if got := strings.Join(cfg.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Fatalf("CORSOrigins = %q", got)
	}
	if base, _ := cfg.APIBase(); base != "https://quiz.example.com/api" {
		t.Fatalf("APIBase() = %q", base)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown store", map[string]string{"VIEW_STORE": "etcd"}},
		{"redis without addr", map[string]string{"VIEW_STORE": "redis"}},
		{"bad duration", map[string]string{"API_TIMEOUT": "soon"}},
		{"bad backend", map[string]string{"BACKEND_URL": "not a url"}},
		{"missing file", map[string]string{"CONFIG_FILE": "/nonexistent/wikiquiz.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wikiquiz.yaml")
	data := `port: "7000"
backend_url: http://backend:8000
view_store: redis
redis_addr: redis:6379
view_ttl: 2h
cors_origins:
  - https://quiz.example.com
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	clearEnv(t)
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Port != "7100" {
		t.Fatalf("environment must win over the file, Port = %q", cfg.Port)
	}
	if cfg.ViewStore != StoreRedis || cfg.RedisAddr != "redis:6379" || cfg.ViewTTL != 2*time.Hour {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://quiz.example.com" {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if base, _ := cfg.APIBase(); base != "http://backend:8000/api" {
		t.Fatalf("APIBase() = %q", base)
	}
}
