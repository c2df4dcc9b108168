package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nendpoint: http://cls:5000/predict\ntimeout_seconds: 7\nlabels:\n  positive: good\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.Endpoint != "http://cls:5000/predict" || cfg.TimeoutSeconds != 7 || cfg.Labels["positive"] != "good" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","endpoint":"http://x/predict","max_sessions":3,"cors_enabled":true,"cors_origins":["*"]}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.MaxSessions != 3 || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nendpoint=\"https://api/predict\"\nlog_level=\"debug\"\n\n[labels]\nnegative=\"bad\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.Endpoint != "https://api/predict" || cfg.LogLevel != "debug" || cfg.Labels["negative"] != "bad" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestMergeFillsZeroValues(t *testing.T) {
	cfg := Config{Endpoint: "http://custom/predict", TimeoutSeconds: 5}.Merge(Defaults())
	if cfg.Endpoint != "http://custom/predict" || cfg.TimeoutSeconds != 5 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
	def := Defaults()
	if cfg.Addr != def.Addr || cfg.MaxBodyBytes != def.MaxBodyBytes || cfg.LogLevel != def.LogLevel {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	bad := []Config{
		{Endpoint: ""},
		{Endpoint: "localhost:5000"},
		{Endpoint: "http://x", TimeoutSeconds: -1},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected error for %+v", c)
		}
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SENTIVIEW_ENDPOINT", "http://env/predict")
	t.Setenv("SENTIVIEW_TIMEOUT_SECONDS", "12")
	t.Setenv("SENTIVIEW_CORS_ENABLED", "true")
	t.Setenv("SENTIVIEW_CORS_ORIGINS", "http://a, http://b")
	t.Setenv("SENTIVIEW_SECURE_COOKIES", "yes")
	cfg := FromEnv()
	if cfg.Endpoint != "http://env/predict" || cfg.TimeoutSeconds != 12 || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 2 || !cfg.SecureCookies {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
		{" , ", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
