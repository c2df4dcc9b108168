package config

import (
	"strings"
	"testing"
)

func TestLoad_Rejects(t *testing.T) {
	d := t.TempDir()
	cases := []struct {
		name, file, body, wantErr string
	}{
		{"yaml", "bad.yaml", "endpoint: http://x\n: broken\n", "parse"},
		{"json", "bad.json", `{ "addr": ":8080", "endpoint": }`, "parse"},
		{"toml", "bad.toml", "addr=:8080\nendpoint\n", "parse"},
		{"extension", "sentiview.ini", "endpoint=http://x\n", "unsupported config extension"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeTempFile(t, d, tc.file, tc.body)
			_, err := Load(p)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Load(%s) err=%v, want %q", tc.file, err, tc.wantErr)
			}
		})
	}
	if _, err := Load(d + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
