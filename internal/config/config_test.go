package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pkgbench/internal/design"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pkgbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Design.Repetitions != 3 {
		t.Fatalf("unexpected default repetitions: %d", cfg.Design.Repetitions)
	}
	if cfg.Cooldown != 30*time.Second || cfg.Pause != 60*time.Second {
		t.Fatalf("unexpected default timing: %v %v", cfg.Cooldown, cfg.Pause)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
version: 1
tools: [pip, uv]
modes: [cold, lock]
repetitions: 5
shuffle: true
seed: 42
cooldownSeconds: 10
pauseSeconds: 0
intervalMs: 500
packages: [requests]
resultsDir: out
samplerPath: /opt/energibridge
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Design.Tools) != 2 || cfg.Design.Tools[1] != design.ToolUv {
		t.Fatalf("unexpected tools: %v", cfg.Design.Tools)
	}
	if len(cfg.Design.Modes) != 2 || cfg.Design.Modes[1] != design.ModeLock {
		t.Fatalf("unexpected modes: %v", cfg.Design.Modes)
	}
	if cfg.Design.Repetitions != 5 || !cfg.Shuffle {
		t.Fatalf("unexpected design: %+v", cfg)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Fatalf("unexpected seed: %v", cfg.Seed)
	}
	if cfg.Cooldown != 10*time.Second || cfg.Pause != 0 {
		t.Fatalf("unexpected timing: %v %v", cfg.Cooldown, cfg.Pause)
	}
	if cfg.IntervalMs != 500 || cfg.ResultsDir != "out" || cfg.SamplerPath != "/opt/energibridge" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.PythonExe != "python3" {
		t.Fatalf("unexpected python: %q", cfg.PythonExe)
	}
}

func TestLoad_MissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Design.Repetitions != Default().Design.Repetitions {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_Rejections(t *testing.T) {
	if _, err := Load(writeConfig(t, "version: 2\n")); err == nil {
		t.Fatalf("expected version error")
	}
	if _, err := Load(writeConfig(t, "tools: [cargo]\n")); !errors.Is(err, design.ErrInvalidDesign) {
		t.Fatalf("expected ErrInvalidDesign, got %v", err)
	}
	if _, err := Load(writeConfig(t, "modes: [hot]\n")); !errors.Is(err, design.ErrInvalidDesign) {
		t.Fatalf("expected ErrInvalidDesign, got %v", err)
	}
	if _, err := Load(writeConfig(t, ": not yaml\n")); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestValidate_Ranges(t *testing.T) {
	base := Default()

	cfg := base
	cfg.Design.Repetitions = 0
	if err := cfg.Validate(); !errors.Is(err, design.ErrInvalidDesign) {
		t.Fatalf("expected ErrInvalidDesign, got %v", err)
	}

	cfg = base
	cfg.Cooldown = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative cooldown must fail")
	}

	cfg = base
	cfg.IntervalMs = 100
	if err := cfg.Validate(); err == nil {
		t.Fatalf("sub-minimum interval must fail")
	}

	cfg = base
	bad := int64(-1)
	cfg.Seed = &bad
	if err := cfg.Validate(); err == nil {
		t.Fatalf("negative seed must fail")
	}

	cfg = base
	cfg.Packages = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty package list must fail")
	}
}
