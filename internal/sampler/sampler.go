// Package sampler wraps the external hardware-telemetry process around a
// measured command. The sampler is opaque to pkgbench: it takes an interval,
// writes a timestamped samples file, logs the wrapped command's output, and
// must hand back the wrapped command's exit code, not its own.
package sampler

import (
	"context"
	"fmt"
	"strings"

	"pkgbench/internal/execx"
)

// MinIntervalMs is the floor enforced on the sampling interval. Shorter
// intervals make the sampler itself a measurable load.
const MinIntervalMs = 200

type Spec struct {
	IntervalMs  int
	SamplesPath string
	CmdlogPath  string
	Command     string
	Workdir     string
}

func (s Spec) validate() error {
	if s.IntervalMs < MinIntervalMs {
		return fmt.Errorf("sampling interval %dms below minimum %dms", s.IntervalMs, MinIntervalMs)
	}
	if s.SamplesPath == "" || s.CmdlogPath == "" {
		return fmt.Errorf("sampler output paths must be set")
	}
	if strings.TrimSpace(s.Command) == "" {
		return fmt.Errorf("missing measured command")
	}
	return nil
}

// Sampler returns the wrapped command's exit code.
type Sampler interface {
	Sample(ctx context.Context, spec Spec) (int, error)
}

// EnergiBridge invokes an energibridge-compatible sampler binary through the
// shared process runner.
type EnergiBridge struct {
	Bin    string
	Runner execx.Runner
}

func (e EnergiBridge) Sample(ctx context.Context, spec Spec) (int, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	if e.Bin == "" {
		return 0, fmt.Errorf("sampler binary not configured")
	}
	cmd := fmt.Sprintf("%s --interval %d --output %s --command-output %s -- sh -c %s",
		shellQuote(e.Bin), spec.IntervalMs, shellQuote(spec.SamplesPath), shellQuote(spec.CmdlogPath), shellQuote(spec.Command))
	res, err := e.Runner.Run(ctx, cmd, spec.Workdir, spec.CmdlogPath)
	if err != nil {
		return 0, err
	}
	return res.ExitCode, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
