// Package trial runs exactly one (tool, mode) measurement trial through its
// lifecycle: VALIDATE, CLEAN, PRIME, MEASURE, RECORD, CLEANUP, COOLDOWN.
// The ordering is the entire discipline that keeps repeated trials
// independent of each other; there is no concurrency to guard against.
package trial

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"pkgbench/internal/design"
	"pkgbench/internal/execx"
	"pkgbench/internal/ids"
	"pkgbench/internal/platform"
	"pkgbench/internal/results"
	"pkgbench/internal/sampler"
	"pkgbench/internal/tools"
)

type Config struct {
	// WorkRoot holds the per-tool isolated environments and the disposable
	// scratch workspaces.
	WorkRoot   string
	ResultsDir string
	IntervalMs int
	Packages   []string
	Python     string
	// SamplerPath is the resolved telemetry sampler binary.
	SamplerPath string
	// Cooldown is slept after RECORD so the thermal/power baseline recovers
	// before the next trial. Zero disables the sleep.
	Cooldown time.Duration
	// CooldownAfterFailure keeps the cooldown even when the trial failed.
	// Default false: a failed trial aborts the suite, so there is nothing to
	// keep fair afterwards.
	CooldownAfterFailure bool
}

type Executor struct {
	Cfg      Config
	Runner   execx.Runner
	Sampler  sampler.Sampler
	Index    results.Index
	Platform platform.Info

	// LookPath, Now and Sleep are injectable for tests; nil means the real thing.
	LookPath func(string) (string, error)
	Now      func() time.Time
	Sleep    func(time.Duration)
	Log      zerolog.Logger
}

func (e *Executor) lookPath(name string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(name)
	}
	return platform.LookTool(name)
}

func (e *Executor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Executor) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Run executes one trial. On measurement failure the returned Row is valid
// and already recorded; the error tells the caller to stop the suite.
func (e *Executor) Run(ctx context.Context, pt design.Point) (results.Row, error) {
	// VALIDATE. Parsing also canonicalizes: the CLEAN/PRIME/MEASURE switches
	// below match the canonical values only, so pt must carry them.
	tool, err := design.ParseTool(string(pt.Tool))
	if err != nil {
		return results.Row{}, fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	mode, err := design.ParseMode(string(pt.Mode))
	if err != nil {
		return results.Row{}, fmt.Errorf("%w: %v", ErrEnvironment, err)
	}
	pt = design.Point{Tool: tool, Mode: mode}
	if !platform.Supported(e.Platform) {
		return results.Row{}, fmt.Errorf("%w: platform %s/%s is not supported", ErrEnvironment, e.Platform.OS, e.Platform.Arch)
	}
	cmds := tools.Commands{Tool: pt.Tool, Python: e.Cfg.Python}
	if _, err := e.lookPath(cmds.Binary()); err != nil {
		return results.Row{}, fmt.Errorf("%w: %s executable %q not found", ErrEnvironment, pt.Tool, cmds.Binary())
	}
	if e.Cfg.SamplerPath == "" {
		return results.Row{}, fmt.Errorf("%w: no telemetry sampler configured", ErrEnvironment)
	}
	if _, err := os.Stat(e.Cfg.SamplerPath); err != nil {
		return results.Row{}, fmt.Errorf("%w: sampler binary %s: %v", ErrEnvironment, e.Cfg.SamplerPath, err)
	}

	trialID, err := ids.NewTrialID(e.now(), string(pt.Tool), string(pt.Mode))
	if err != nil {
		return results.Row{}, err
	}
	log := e.Log.With().Str("trial", trialID).Str("tool", string(pt.Tool)).Str("mode", string(pt.Mode)).Logger()

	// Scratch project workspace for this trial: manifests live here and the
	// measured process runs here. Removed on every exit path.
	projectDir, cleanupProject, err := e.newScratch("project")
	if err != nil {
		return results.Row{}, err
	}
	defer cleanupProject()
	if err := tools.WriteManifests(projectDir, pt.Tool, e.Cfg.Packages); err != nil {
		return results.Row{}, err
	}

	env := tools.NewEnv(e.Cfg.WorkRoot, pt.Tool)
	prepLog := filepath.Join(e.Cfg.ResultsDir, "raw", trialID+".prep.log")

	// CLEAN: mode-dependent reset so this trial inherits nothing.
	switch pt.Mode {
	case design.ModeCold:
		log.Debug().Msg("clean: removing environment and purging cache")
		if err := env.Remove(); err != nil {
			return results.Row{}, fmt.Errorf("%w: removing %s: %v", ErrEnvironment, env.Dir, err)
		}
		if err := e.prep(ctx, cmds.PurgeCache(), projectDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: cache purge: %v", ErrEnvironment, err)
		}
	case design.ModeWarm:
		log.Debug().Msg("clean: removing environment, cache preserved")
		if err := env.Remove(); err != nil {
			return results.Row{}, fmt.Errorf("%w: removing %s: %v", ErrEnvironment, env.Dir, err)
		}
	case design.ModeLock:
		// Lock trials resolve in scratch workspaces only; the shared
		// environment and cache stay untouched.
	}

	// PRIME: unmeasured warm-up, plus the empty environment MEASURE installs into.
	switch pt.Mode {
	case design.ModeCold:
		if err := e.prep(ctx, cmds.CreateEnv(env.Dir), projectDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: creating environment: %v", ErrEnvironment, err)
		}
	case design.ModeWarm:
		// Force the cache to a fully populated state with one real install,
		// then throw the environment away so the measured run is a real
		// install served entirely from warm cache.
		log.Debug().Msg("prime: unmeasured install to warm the cache")
		if err := e.prep(ctx, cmds.CreateEnv(env.Dir), projectDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: creating environment: %v", ErrPriming, err)
		}
		if err := e.prep(ctx, cmds.Install(env.Dir), projectDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: priming install: %v", ErrPriming, err)
		}
		if err := env.Remove(); err != nil {
			return results.Row{}, fmt.Errorf("%w: removing primed environment: %v", ErrPriming, err)
		}
		if err := e.prep(ctx, cmds.CreateEnv(env.Dir), projectDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: recreating environment: %v", ErrPriming, err)
		}
	case design.ModeLock:
		// One unmeasured resolve in its own disposable workspace warms the
		// resolver's metadata cache.
		log.Debug().Msg("prime: unmeasured resolve")
		primeDir, cleanupPrime, err := e.newScratch("prime")
		if err != nil {
			return results.Row{}, err
		}
		defer cleanupPrime()
		if err := tools.WriteManifests(primeDir, pt.Tool, e.Cfg.Packages); err != nil {
			return results.Row{}, err
		}
		if err := e.prep(ctx, cmds.Lock(), primeDir, prepLog); err != nil {
			return results.Row{}, fmt.Errorf("%w: priming resolve: %v", ErrPriming, err)
		}
	}

	// MEASURE: the only long-running step. The sampler wraps the command and
	// reports the wrapped command's exit code.
	command := cmds.Install(env.Dir)
	if pt.Mode == design.ModeLock {
		command = cmds.Lock()
	}
	samplesFile := filepath.Join("raw", trialID+".samples.csv")
	cmdlogFile := filepath.Join("raw", trialID+".cmd.log")

	log.Info().Str("command", command).Msg("measuring")
	started := e.now()
	exitCode, sampleErr := e.Sampler.Sample(ctx, sampler.Spec{
		IntervalMs:  e.Cfg.IntervalMs,
		SamplesPath: filepath.Join(e.Cfg.ResultsDir, samplesFile),
		CmdlogPath:  filepath.Join(e.Cfg.ResultsDir, cmdlogFile),
		Command:     command,
		Workdir:     projectDir,
	})
	wall := e.now().Sub(started).Seconds()
	if sampleErr != nil {
		exitCode = -1
	}

	// RECORD: failed trials still produce an auditable row.
	row := results.Row{
		Tool:         pt.Tool,
		Mode:         pt.Mode,
		PlatformOS:   e.Platform.OS,
		PlatformArch: e.Platform.Arch,
		StartedAt:    started,
		IntervalMs:   e.Cfg.IntervalMs,
		WallSeconds:  wall,
		ExitCode:     exitCode,
		SamplesFile:  samplesFile,
		CmdlogFile:   cmdlogFile,
	}
	if err := e.Index.Append(row); err != nil {
		return row, err
	}

	failed := sampleErr != nil || exitCode != 0

	// COOLDOWN: let transient load and thermal state settle. Skipped on
	// failure unless configured otherwise, since a failure aborts the suite.
	if e.Cfg.Cooldown > 0 && (!failed || e.Cfg.CooldownAfterFailure) {
		log.Debug().Dur("cooldown", e.Cfg.Cooldown).Msg("cooling down")
		e.sleep(e.Cfg.Cooldown)
	}

	if sampleErr != nil {
		return row, fmt.Errorf("%w: sampler invocation: %v", ErrMeasurement, sampleErr)
	}
	if exitCode != 0 {
		return row, fmt.Errorf("%w: %s exited %d (see %s)", ErrMeasurement, pt, exitCode, filepath.Join(e.Cfg.ResultsDir, cmdlogFile))
	}
	log.Info().Float64("seconds", wall).Msg("trial done")
	return row, nil
}

// prep runs an unmeasured setup command, treating a nonzero exit as failure.
func (e *Executor) prep(ctx context.Context, command, workdir, logPath string) error {
	res, err := e.Runner.Run(ctx, command, workdir, logPath)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%q exited %d (see %s)", command, res.ExitCode, logPath)
	}
	return nil
}

// newScratch creates a uniquely named disposable workspace and its cleanup.
// Unique names mean a crashed earlier run's leftovers are never reused.
func (e *Executor) newScratch(kind string) (string, func(), error) {
	name, err := ids.NewScratchName(kind)
	if err != nil {
		return "", nil, err
	}
	dir := filepath.Join(e.Cfg.WorkRoot, "scratch", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, err
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
