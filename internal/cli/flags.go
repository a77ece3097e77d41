package cli

import (
	"flag"
	"fmt"
	"time"

	"pkgbench/internal/config"
)

// cfgFlags are the configuration overrides shared by plan, run, doctor and
// report. YAML provides the base; any flag set here wins over it. Numeric
// flags apply only when explicitly passed, so an out-of-range value is a
// usage error rather than a silent fall-through to the default.
type cfgFlags struct {
	fs         *flag.FlagSet
	configPath *string
	tools      *string
	modes      *string
	reps       *int
	shuffle    *bool
	seed       *int64
	interval   *int
	cooldown   *int
	pause      *int
	resultsDir *string
	workRoot   *string
	sampler    *string
	python     *string
}

func registerCfgFlags(fs *flag.FlagSet) *cfgFlags {
	return &cfgFlags{
		fs:         fs,
		configPath: fs.String("config", "", "YAML config path (optional)"),
		tools:      fs.String("tools", "", "comma-separated tools: pip,uv,poetry"),
		modes:      fs.String("modes", "", "comma-separated modes: cold,warm,lock"),
		reps:       fs.Int("reps", 0, "repetitions per design point"),
		shuffle:    fs.Bool("shuffle", false, "shuffle the run order"),
		seed:       fs.Int64("seed", 0, "shuffle seed (>= 0)"),
		interval:   fs.Int("interval", 0, "sampling interval in ms"),
		cooldown:   fs.Int("cooldown", 0, "cooldown between trials in seconds"),
		pause:      fs.Int("pause", 0, "extra pause on design point switch in seconds"),
		resultsDir: fs.String("results-dir", "", "results directory"),
		workRoot:   fs.String("work-root", "", "working directory for environments and scratch"),
		sampler:    fs.String("sampler", "", "telemetry sampler binary path"),
		python:     fs.String("python", "", "python interpreter for venv creation"),
	}
}

// changed reports whether the named flag was explicitly passed.
func (f *cfgFlags) changed(name string) bool {
	seen := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			seen = true
		}
	})
	return seen
}

// resolve loads the YAML base and overlays the flags that were set.
func (f *cfgFlags) resolve() (config.Config, error) {
	cfg, err := config.Load(*f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if *f.tools != "" {
		tls, err := config.ParseTools(*f.tools)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Design.Tools = tls
	}
	if *f.modes != "" {
		modes, err := config.ParseModes(*f.modes)
		if err != nil {
			return config.Config{}, err
		}
		cfg.Design.Modes = modes
	}
	if f.changed("reps") {
		if *f.reps < 1 {
			return config.Config{}, fmt.Errorf("repetitions must be >= 1, got %d", *f.reps)
		}
		cfg.Design.Repetitions = *f.reps
	}
	if *f.shuffle {
		cfg.Shuffle = true
	}
	if f.changed("seed") {
		if *f.seed < 0 {
			return config.Config{}, fmt.Errorf("seed must be >= 0, got %d", *f.seed)
		}
		s := *f.seed
		cfg.Seed = &s
	}
	if f.changed("interval") {
		if *f.interval < 1 {
			return config.Config{}, fmt.Errorf("interval must be >= 1ms, got %d", *f.interval)
		}
		cfg.IntervalMs = *f.interval
	}
	if f.changed("cooldown") {
		if *f.cooldown < 0 {
			return config.Config{}, fmt.Errorf("cooldown must be >= 0 seconds, got %d", *f.cooldown)
		}
		cfg.Cooldown = time.Duration(*f.cooldown) * time.Second
	}
	if f.changed("pause") {
		if *f.pause < 0 {
			return config.Config{}, fmt.Errorf("pause must be >= 0 seconds, got %d", *f.pause)
		}
		cfg.Pause = time.Duration(*f.pause) * time.Second
	}
	if *f.resultsDir != "" {
		cfg.ResultsDir = *f.resultsDir
	}
	if *f.workRoot != "" {
		cfg.WorkRoot = *f.workRoot
	}
	if *f.sampler != "" {
		cfg.SamplerPath = *f.sampler
	}
	if *f.python != "" {
		cfg.PythonExe = *f.python
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
