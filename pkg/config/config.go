// Package config loads curvesvg settings from a TOML file.
//
// The file is optional. Every field has a default, and command-line flags
// override whatever the file sets:
//
//	[convert]
//	min_format_version = 44
//	max_depth = 256
//	max_elements = 100000
//	precision = 0  # decimals in path data, 0 writes exact values
//
//	[cache]
//	dir = "~/.cache/curvesvg"
//	ttl = "168h"
//	redis_url = ""
//	disabled = false
//
//	[server]
//	addr = ":8080"
//	max_upload_mb = 64
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/curvesvg/pkg/cache"
	"github.com/matzehuels/curvesvg/pkg/errors"
	"github.com/matzehuels/curvesvg/pkg/scene"
)

// AppName names the config and cache directories.
const AppName = "curvesvg"

// Defaults for fields the file leaves unset.
const (
	DefaultMinFormatVersion = 44
	DefaultAddr             = ":8080"
	DefaultMaxUploadMB      = 64
)

// Config is the full settings file.
type Config struct {
	Convert ConvertConfig `toml:"convert"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// ConvertConfig tunes the conversion itself.
type ConvertConfig struct {
	MinFormatVersion int `toml:"min_format_version"`
	MaxDepth         int `toml:"max_depth"`
	MaxElements      int `toml:"max_elements"`
	Precision        int `toml:"precision"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Dir      string   `toml:"dir"`
	TTL      Duration `toml:"ttl"`
	RedisURL string   `toml:"redis_url"`
	Disabled bool     `toml:"disabled"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string `toml:"addr"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

// MaxUploadBytes returns the request body limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Convert.MinFormatVersion == 0 {
		c.Convert.MinFormatVersion = DefaultMinFormatVersion
	}
	if c.Convert.MaxDepth == 0 {
		c.Convert.MaxDepth = scene.DefaultMaxDepth
	}
	if c.Convert.MaxElements == 0 {
		c.Convert.MaxElements = scene.DefaultMaxElements
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = cache.TTLArtifact
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}
}

// Load reads the file at path and fills unset fields with defaults.
//
// An empty path loads the default location. A missing file at the default
// location yields [Default]; a missing file that was asked for explicitly is
// a NOT_FOUND error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "config file %s does not exist", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML settings and applies defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no conversion could run with.
func (c *Config) Validate() error {
	switch {
	case c.Convert.MinFormatVersion < 0:
		return errors.New(errors.ErrCodeInvalidInput, "convert.min_format_version must not be negative")
	case c.Convert.MaxDepth < 1:
		return errors.New(errors.ErrCodeInvalidInput, "convert.max_depth must be at least 1")
	case c.Convert.MaxElements < 1:
		return errors.New(errors.ErrCodeInvalidInput, "convert.max_elements must be at least 1")
	case c.Convert.Precision < 0 || c.Convert.Precision > 10:
		return errors.New(errors.ErrCodeInvalidInput, "convert.precision must be between 0 and 10")
	case c.Cache.TTL.Duration < 0:
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	case c.Server.MaxUploadMB < 1:
		return errors.New(errors.ErrCodeInvalidInput, "server.max_upload_mb must be at least 1")
	}
	return nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DefaultPath returns the XDG config location (~/.config/curvesvg/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the XDG cache location (~/.cache/curvesvg).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
