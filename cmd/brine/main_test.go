package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"

	"brine/internal/config"
)

func newColorCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().String("color", "auto", "")
	if err := cmd.PersistentFlags().Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		cfg     string
		want    bool
		wantErr bool
	}{
		{name: "config on", cfg: "on", want: true},
		{name: "config off", cfg: "off", want: false},
		{name: "flag beats config", args: []string{"--color=off"}, cfg: "on", want: false},
		{name: "flag on", args: []string{"--color=on"}, cfg: "off", want: true},
		{name: "bad flag", args: []string{"--color=sometimes"}, cfg: "auto", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Output.Color = tt.cfg
			got, err := resolveColor(newColorCmd(t, tt.args...), cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveColor: %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolveColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderVersionJSON(t *testing.T) {
	info := versionInfo{Version: "1.0.0", GitCommit: "abc123"}
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, info, versionOptions{showHash: true, showDate: true}); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	want := versionPayload{Tool: "brine", Version: "1.0.0", GitCommit: "abc123", BuildDate: "unknown"}
	if payload != want {
		t.Fatalf("payload = %+v, want %+v", payload, want)
	}
}

func TestMiriOptionsFromConfig(t *testing.T) {
	prev := activeConfig
	defer func() { activeConfig = prev }()

	activeConfig = config.Default()
	activeConfig.Miri.Jobs = 3
	activeConfig.Miri.MaxSteps = 500
	activeConfig.Miri.Stats = true

	cmd := &cobra.Command{Use: "miri"}
	registerMiriFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--max-steps=10"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	opts, err := miriOptions(cmd)
	if err != nil {
		t.Fatalf("miriOptions: %v", err)
	}
	if opts.Jobs != 3 || !opts.Stats || opts.MaxSteps != 10 {
		t.Fatalf("unexpected options: jobs=%d stats=%v max_steps=%d", opts.Jobs, opts.Stats, opts.MaxSteps)
	}
	if opts.Cache != nil || opts.VMTrace != nil {
		t.Fatal("cache and vm trace should stay off")
	}
}
