package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the playground and the CLI.
// Zero values mean "unspecified" and are replaced by Defaults via Merge.
type Config struct {
	Addr              string            `json:"addr" yaml:"addr" toml:"addr"`
	Endpoint          string            `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	TimeoutSeconds    int               `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	LogLevel          string            `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes      int64             `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	MaxSessions       int               `json:"max_sessions" yaml:"max_sessions" toml:"max_sessions"`
	SessionTTLSeconds int               `json:"session_ttl_seconds" yaml:"session_ttl_seconds" toml:"session_ttl_seconds"`
	CORSEnabled       bool              `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins       []string          `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods       []string          `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders       []string          `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
	SecureCookies     bool              `json:"secure_cookies" yaml:"secure_cookies" toml:"secure_cookies"`
	Labels            map[string]string `json:"labels" yaml:"labels" toml:"labels"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:              ":8080",
		Endpoint:          "http://localhost:5000/predict",
		TimeoutSeconds:    30,
		LogLevel:          "info",
		MaxBodyBytes:      1 << 20,
		MaxSessions:       1000,
		SessionTTLSeconds: 3600,
		CORSMethods:       []string{"GET", "POST", "PUT", "OPTIONS"},
		CORSHeaders:       []string{"Content-Type", "X-Request-ID"},
	}
}

// Merge fills every zero field of c from def.
func (c Config) Merge(def Config) Config {
	if c.Addr == "" {
		c.Addr = def.Addr
	}
	if c.Endpoint == "" {
		c.Endpoint = def.Endpoint
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = def.MaxBodyBytes
	}
	if c.MaxSessions == 0 {
		c.MaxSessions = def.MaxSessions
	}
	if c.SessionTTLSeconds == 0 {
		c.SessionTTLSeconds = def.SessionTTLSeconds
	}
	if !c.CORSEnabled {
		c.CORSEnabled = def.CORSEnabled
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = def.CORSOrigins
	}
	if len(c.CORSMethods) == 0 {
		c.CORSMethods = def.CORSMethods
	}
	if len(c.CORSHeaders) == 0 {
		c.CORSHeaders = def.CORSHeaders
	}
	if !c.SecureCookies {
		c.SecureCookies = def.SecureCookies
	}
	if len(c.Labels) == 0 {
		c.Labels = def.Labels
	}
	return c
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("endpoint must be an http(s) URL: %q", c.Endpoint)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be >= 0")
	}
	return nil
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// FromEnv reads SENTIVIEW_* variables. Unset variables leave zero values.
func FromEnv() Config {
	var cfg Config
	cfg.Addr = os.Getenv("SENTIVIEW_ADDR")
	cfg.Endpoint = os.Getenv("SENTIVIEW_ENDPOINT")
	cfg.LogLevel = os.Getenv("SENTIVIEW_LOG_LEVEL")
	if v := os.Getenv("SENTIVIEW_TIMEOUT_SECONDS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := strings.ToLower(os.Getenv("SENTIVIEW_CORS_ENABLED")); v == "1" || v == "true" || v == "yes" {
		cfg.CORSEnabled = true
	}
	if v := strings.ToLower(os.Getenv("SENTIVIEW_SECURE_COOKIES")); v == "1" || v == "true" || v == "yes" {
		cfg.SecureCookies = true
	}
	if v := os.Getenv("SENTIVIEW_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = SplitCSV(v)
	}
	return cfg
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empty
// items.
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
