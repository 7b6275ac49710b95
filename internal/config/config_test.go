package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brine/internal/config"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[miri]
jobs = 4
stats = true
max_steps = 1000

[output]
color = "OFF"

[cache]
enabled = true
dir = "cache"
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Miri.Jobs != 4 || !cfg.Miri.Stats || cfg.Miri.VMTrace || cfg.Miri.MaxSteps != 1000 {
		t.Fatalf("unexpected [miri]: %+v", cfg.Miri)
	}
	if cfg.Output.Color != "off" {
		t.Fatalf("color = %q, want off", cfg.Output.Color)
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != filepath.Join(dir, "cache") {
		t.Fatalf("unexpected [cache]: %+v", cfg.Cache)
	}
	if cfg.Path != path {
		t.Fatalf("Path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[miri]\nvm_trace = true\n")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Miri.Jobs != 1 || cfg.Output.Color != "auto" || !cfg.Miri.VMTrace {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[miri\n", "failed to parse TOML"},
		{"unknown key", "[miri]\nspeed = 3\n", "unknown keys: miri.speed"},
		{"negative jobs", "[miri]\njobs = -2\n", "invalid [miri].jobs -2"},
		{"bad color", "[output]\ncolor = \"rainbow\"\n", "invalid [output].color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestInvalidColorIsWrapped(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[output]\ncolor = \"blue\"\n")
	_, err := config.Load(path)
	if !errors.Is(err, config.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	got, ok, err := config.Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %q, want %q", got, want)
	}

	cfg, err := config.Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != want {
		t.Fatalf("Discover path = %q, want %q", cfg.Path, want)
	}
}
