package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/curvesvg/pkg/errors"
)

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	cfg := Default()

	want := &Config{
		Convert: ConvertConfig{MinFormatVersion: 44, MaxDepth: 256, MaxElements: 100_000},
		Cache:   CacheConfig{Dir: "/tmp/xdg-cache/curvesvg", TTL: Duration{7 * 24 * time.Hour}},
		Server:  ServerConfig{Addr: ":8080", MaxUploadMB: 64},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Default() mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() should validate: %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[convert]
min_format_version = 40
precision = 2

[cache]
ttl = "36h"
redis_url = "redis://localhost:6379/0"

[server]
addr = "127.0.0.1:9000"
max_upload_mb = 8
`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Convert.MinFormatVersion != 40 || cfg.Convert.Precision != 2 {
		t.Errorf("convert = %+v", cfg.Convert)
	}
	if cfg.Convert.MaxDepth != 256 {
		t.Errorf("unset max_depth should default, got %d", cfg.Convert.MaxDepth)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("ttl = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("redis_url = %q", cfg.Cache.RedisURL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxUploadBytes() != 8<<20 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `[convert`},
		{"unknown key", "[convert]\nprecison = 3"},
		{"bad duration", "[cache]\nttl = \"soon\""},
		{"negative depth", "[convert]\nmax_depth = -1"},
		{"precision too high", "[convert]\nprecision = 11"},
		{"negative upload", "[server]\nmax_upload_mb = -5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestParseUnknownKeyNamed(t *testing.T) {
	_, err := Parse([]byte("[server]\nport = 1"))
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error should name the unknown key: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	path := filepath.Join(dir, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[convert]\nprecision = 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Convert.Precision != 3 {
		t.Errorf("precision = %d, want 3 from default file", cfg.Convert.Precision)
	}

	_, err = Load(filepath.Join(dir, "nope.toml"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("explicit missing file: err = %v, want NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = Duration{90 * time.Minute}

	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(string(data), `ttl = "1h30m0s"`) {
		t.Errorf("encoded ttl missing:\n%s", data)
	}

	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) error: %v", err)
	}
	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/cache"); got != filepath.Join(home, "cache") {
		t.Errorf("expandHome(~/cache) = %q", got)
	}
	if got := expandHome("/abs"); got != "/abs" {
		t.Errorf("expandHome(/abs) = %q", got)
	}
}
