// Package config loads and validates the experiment configuration: the
// design, timing parameters, and paths. A YAML file provides the base;
// CLI flags override individual fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pkgbench/internal/design"
	"pkgbench/internal/sampler"
)

// FileV1 is the on-disk YAML shape.
type FileV1 struct {
	Version         int      `yaml:"version"`
	Tools           []string `yaml:"tools"`
	Modes           []string `yaml:"modes"`
	Repetitions     int      `yaml:"repetitions"`
	Shuffle         bool     `yaml:"shuffle"`
	Seed            *int64   `yaml:"seed"`
	CooldownSeconds *int     `yaml:"cooldownSeconds"`
	PauseSeconds    *int     `yaml:"pauseSeconds"`
	IntervalMs      int      `yaml:"intervalMs"`
	Packages        []string `yaml:"packages"`
	ResultsDir      string   `yaml:"resultsDir"`
	WorkRoot        string   `yaml:"workRoot"`
	SamplerPath     string   `yaml:"samplerPath"`
	PythonExe       string   `yaml:"pythonExe"`
}

// Config is the resolved, validated configuration.
type Config struct {
	Design      design.Design
	Shuffle     bool
	Seed        *int64
	Cooldown    time.Duration
	Pause       time.Duration
	IntervalMs  int
	Packages    []string
	ResultsDir  string
	WorkRoot    string
	SamplerPath string
	PythonExe   string
}

func Default() Config {
	return Config{
		Design: design.Design{
			Tools:       design.KnownTools(),
			Modes:       design.KnownModes(),
			Repetitions: 3,
		},
		Cooldown:   30 * time.Second,
		Pause:      60 * time.Second,
		IntervalMs: sampler.MinIntervalMs,
		Packages:   []string{"requests", "numpy", "flask"},
		ResultsDir: "results",
		WorkRoot:   filepath.Join(os.TempDir(), "pkgbench"),
		PythonExe:  "python3",
	}
}

// Load reads path (YAML) over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var f FileV1
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Config{}, fmt.Errorf("invalid config yaml: %w", err)
	}
	if f.Version == 0 {
		// Allow omission as v1 for early ergonomics.
		f.Version = 1
	}
	if f.Version != 1 {
		return Config{}, fmt.Errorf("unsupported config version %d (expected 1)", f.Version)
	}

	if len(f.Tools) > 0 {
		tls, err := ParseTools(strings.Join(f.Tools, ","))
		if err != nil {
			return Config{}, err
		}
		cfg.Design.Tools = tls
	}
	if len(f.Modes) > 0 {
		modes, err := ParseModes(strings.Join(f.Modes, ","))
		if err != nil {
			return Config{}, err
		}
		cfg.Design.Modes = modes
	}
	if f.Repetitions != 0 {
		cfg.Design.Repetitions = f.Repetitions
	}
	cfg.Shuffle = f.Shuffle
	if f.Seed != nil {
		cfg.Seed = f.Seed
	}
	if f.CooldownSeconds != nil {
		cfg.Cooldown = time.Duration(*f.CooldownSeconds) * time.Second
	}
	if f.PauseSeconds != nil {
		cfg.Pause = time.Duration(*f.PauseSeconds) * time.Second
	}
	if f.IntervalMs != 0 {
		cfg.IntervalMs = f.IntervalMs
	}
	if len(f.Packages) > 0 {
		cfg.Packages = normalizePackages(f.Packages)
	}
	if f.ResultsDir != "" {
		cfg.ResultsDir = f.ResultsDir
	}
	if f.WorkRoot != "" {
		cfg.WorkRoot = f.WorkRoot
	}
	if f.SamplerPath != "" {
		cfg.SamplerPath = f.SamplerPath
	}
	if f.PythonExe != "" {
		cfg.PythonExe = f.PythonExe
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Design.Validate(); err != nil {
		return err
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown must be >= 0, got %v", c.Cooldown)
	}
	if c.Pause < 0 {
		return fmt.Errorf("pause must be >= 0, got %v", c.Pause)
	}
	if c.IntervalMs < sampler.MinIntervalMs {
		return fmt.Errorf("interval %dms below minimum %dms", c.IntervalMs, sampler.MinIntervalMs)
	}
	if c.Seed != nil && *c.Seed < 0 {
		return fmt.Errorf("seed must be >= 0, got %d", *c.Seed)
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("no packages to install")
	}
	if c.ResultsDir == "" || c.WorkRoot == "" {
		return fmt.Errorf("resultsDir and workRoot must be set")
	}
	return nil
}

// ParseTools parses a comma-separated tool list from flags or YAML.
func ParseTools(csv string) ([]design.ToolID, error) {
	var out []design.ToolID
	for _, part := range splitCSV(csv) {
		t, err := design.ParseTool(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseModes parses a comma-separated mode list from flags or YAML.
func ParseModes(csv string) ([]design.Mode, error) {
	var out []design.Mode
	for _, part := range splitCSV(csv) {
		m, err := design.ParseMode(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizePackages(in []string) []string {
	var out []string
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
