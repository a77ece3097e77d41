package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"pkgbench/internal/execx"
	"pkgbench/internal/platform"
	"pkgbench/internal/results"
	"pkgbench/internal/sampler"
	"pkgbench/internal/schedule"
	"pkgbench/internal/suite"
	"pkgbench/internal/trial"
)

const (
	scheduleLogName = "schedule.csv"
	resultsName     = "results.csv"
)

func (r Runner) runRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cf := registerCfgFlags(fs)
	schedPath := fs.String("schedule", "", "reuse a persisted run-order CSV instead of building one")
	verbose := fs.Bool("verbose", false, "debug logging")
	help := fs.Bool("help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return r.failUsage("run: invalid flags")
	}
	if *help {
		printRunHelp(r.Stdout)
		return 0
	}
	cfg, err := cf.resolve()
	if err != nil {
		return r.failUsage("run: " + err.Error())
	}

	var s schedule.Schedule
	if *schedPath != "" {
		// Reuse a previously planned order; ReadLog validates shape and
		// contiguous run indexes.
		s, err = schedule.ReadLog(*schedPath)
	} else {
		s, err = schedule.Build(cfg.Design, schedule.Options{Shuffle: cfg.Shuffle, Seed: cfg.Seed})
	}
	if err != nil {
		return r.failUsage("run: " + err.Error())
	}

	log := newLogger(r.Stderr, *verbose)
	info := platform.Probe()

	samplerBin, err := platform.ResolveSampler(cfg.SamplerPath, info)
	if err != nil {
		fmt.Fprintf(r.Stderr, "%s: %s\n", trial.CodeEnvironment, err.Error())
		return 1
	}

	// raw/ holds the per-trial samples, command logs and prep logs; the
	// executor assumes both directories exist.
	for _, dir := range []string{filepath.Join(cfg.ResultsDir, "raw"), cfg.WorkRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(r.Stderr, "PKB_E_IO: %s\n", err.Error())
			return 1
		}
	}

	// The run order must be on disk under the results dir before the first
	// trial starts: if the suite dies midway, the log is the ground truth
	// for what was intended. A reused schedule is re-persisted here too.
	schedulePath := filepath.Join(cfg.ResultsDir, scheduleLogName)
	if err := s.WriteLog(schedulePath); err != nil {
		fmt.Fprintf(r.Stderr, "PKB_E_IO: writing schedule log: %s\n", err.Error())
		return 1
	}
	log.Info().Int("trials", s.Len()).Str("schedule", schedulePath).Msg("schedule persisted")

	shell := execx.Shell{}
	exec := &trial.Executor{
		Cfg: trial.Config{
			WorkRoot:    cfg.WorkRoot,
			ResultsDir:  cfg.ResultsDir,
			IntervalMs:  cfg.IntervalMs,
			Packages:    cfg.Packages,
			Python:      cfg.PythonExe,
			SamplerPath: samplerBin,
			// The driver owns all inter-trial delays.
			Cooldown: 0,
		},
		Runner:   shell,
		Sampler:  sampler.EnergiBridge{Bin: samplerBin, Runner: shell},
		Index:    results.Index{Path: filepath.Join(cfg.ResultsDir, resultsName)},
		Platform: info,
		Now:      r.Now,
		Log:      log,
	}
	drv := &suite.Driver{
		Trials:   exec,
		Cooldown: cfg.Cooldown,
		Pause:    cfg.Pause,
		Now:      r.Now,
		Log:      log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, runErr := drv.RunSuite(ctx, s)
	if runErr != nil {
		log.Error().Err(runErr).Str("code", trial.Code(runErr)).
			Int("completed", sum.Completed).Int("total", sum.Total).Msg("suite aborted")
	} else {
		log.Info().Int("completed", sum.Completed).Dur("elapsed", sum.Elapsed).Msg("suite complete")
	}
	fmt.Fprintf(r.Stdout, "completed %d/%d trials in %s (results: %s)\n",
		sum.Completed, sum.Total, sum.Elapsed.Round(time.Second), filepath.Join(cfg.ResultsDir, resultsName))
	return suite.ExitCode(sum, runErr)
}

func printRunHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  pkgbench run [--config <path>] [--tools pip,uv] [--modes cold,warm,lock] [--reps 3]
               [--shuffle] [--seed <n>] [--schedule <schedule.csv>]
               [--interval 200] [--cooldown 30] [--pause 60]
               [--results-dir results] [--work-root <dir>] [--sampler <path>] [--verbose]
`)
}
