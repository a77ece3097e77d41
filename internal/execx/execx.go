// Package execx is the single place pkgbench shells out from. Everything the
// orchestrator needs from an external process is its exit code and a log of
// its combined output; both the telemetry sampler and the package-manager
// commands go through the same Runner so tests can script them.
package execx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

type Result struct {
	ExitCode int
	Duration time.Duration
}

// Runner executes one shell command in workdir, appending combined
// stdout/stderr to logPath (discarded when empty). A nonzero exit code is
// reported in Result, not as an error; errors mean the command could not be
// run at all.
type Runner interface {
	Run(ctx context.Context, command string, workdir string, logPath string) (Result, error)
}

// Shell runs commands through `sh -c`.
type Shell struct{}

func (Shell) Run(ctx context.Context, command string, workdir string, logPath string) (Result, error) {
	if command == "" {
		return Result{}, errors.New("missing command")
	}

	var sink io.Writer = io.Discard
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return Result{}, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return Result{}, err
		}
		defer func() { _ = f.Close() }()
		sink = f
	}

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workdir
	cmd.Stdout = sink
	cmd.Stderr = sink

	start := time.Now()
	err := cmd.Run()
	res := Result{Duration: time.Since(start)}
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			res.ExitCode = ee.ExitCode()
			return res, nil
		}
		return Result{}, fmt.Errorf("run %q: %w", command, err)
	}
	return res, nil
}
