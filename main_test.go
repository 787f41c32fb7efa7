package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sheikhrachel/torus-life/utils"
)

func TestRunStopsAtGenerationLimit(t *testing.T) {
	dir := t.TempDir()
	config := utils.DefaultConfig()
	config.SideLength = 8
	config.Seed = 42
	config.InitialDelay = 0
	config.TickInterval = time.Millisecond
	config.MaxGenerations = 5
	config.Render = false
	config.TelemetryPath = filepath.Join(dir, "run", "telemetry.csv")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := run(ctx, config, logger, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("run only ended on the test timeout")
	}
	if !strings.Contains(out.String(), "Final stats:") {
		t.Fatalf("missing final stats in output:\n%s", out.String())
	}

	data, err := os.ReadFile(config.TelemetryPath)
	if err != nil {
		t.Fatalf("reading telemetry: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 1+config.MaxGenerations {
		t.Fatalf("telemetry has %d lines, want at least %d", len(lines), 1+config.MaxGenerations)
	}

	saved, err := utils.LoadConfig(filepath.Join(dir, "run", "telemetry.config.yaml"))
	if err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if saved.SideLength != 8 || saved.MaxGenerations != 5 {
		t.Fatalf("saved config %+v does not match run", saved)
	}
}

func TestCheckStopConditions(t *testing.T) {
	config := utils.Config{MaxGenerations: 10, StagnationThreshold: 3, StopOnExtinction: true}
	tests := []struct {
		name                         string
		living, stagnant, generation int
		wantReason                   string
	}{
		{"active", 5, 0, 1, ""},
		{"limit", 5, 0, 10, "generation limit"},
		{"extinct", 0, 0, 2, "extinction"},
		{"stagnant", 5, 3, 4, "stagnation detected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, stop := checkStopConditions(tt.living, tt.stagnant, tt.generation, config)
			if reason != tt.wantReason || stop != (tt.wantReason != "") {
				t.Fatalf("got (%q, %v), want %q", reason, stop, tt.wantReason)
			}
		})
	}

	if _, stop := checkStopConditions(0, 100, 100, utils.Config{}); stop {
		t.Fatalf("zero limits must never stop a run")
	}
	if reason, stop := checkStopConditions(0, 0, 1, utils.Config{StopOnExtinction: true}); !stop || reason != "extinction" {
		t.Fatalf("extinction must stop the run without a stagnation threshold, got (%q, %v)", reason, stop)
	}
	if _, stop := checkStopConditions(0, 0, 1, utils.Config{StagnationThreshold: 3}); stop {
		t.Fatalf("a stagnation threshold alone must not stop an extinct run")
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	config, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if config.SideLength != utils.DefaultConfig().SideLength {
		t.Fatalf("did not fall back to defaults: %+v", config)
	}
}
