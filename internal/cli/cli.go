// Package cli is the pkgbench command surface. Commands parse flags, resolve
// configuration, and delegate to the internal packages; all policy lives
// there, not here.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

type Runner struct {
	Version string
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
}

func (r Runner) Run(args []string) int {
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
	if r.Now == nil {
		r.Now = time.Now
	}

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printRootHelp(r.Stdout)
		return 0
	}

	switch args[0] {
	case "plan":
		return r.runPlan(args[1:])
	case "run":
		return r.runRun(args[1:])
	case "doctor":
		return r.runDoctor(args[1:])
	case "report":
		return r.runReport(args[1:])
	case "version":
		fmt.Fprintf(r.Stdout, "%s\n", r.Version)
		return 0
	default:
		fmt.Fprintf(r.Stderr, "PKB_E_USAGE: unknown command %q\n", args[0])
		printRootHelp(r.Stderr)
		return 2
	}
}

func (r Runner) writeJSON(v any) int {
	enc := json.NewEncoder(r.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(r.Stderr, "PKB_E_IO: failed to encode json\n")
		return 1
	}
	return 0
}

func (r Runner) failUsage(msg string) int {
	fmt.Fprintf(r.Stderr, "PKB_E_USAGE: %s\n", msg)
	return 2
}

func printRootHelp(w io.Writer) {
	fmt.Fprint(w, `pkgbench - package manager energy benchmark orchestrator

Usage:
  pkgbench plan [--config <path>] [--shuffle] [--seed <n>] [--out <schedule.csv>]
  pkgbench run [--config <path>] [--verbose]
  pkgbench doctor [--config <path>] [--json]
  pkgbench report [--config <path>] [--json]

Commands:
  plan     Expand the design into a run order and optionally persist it.
  run      Execute the full benchmark suite (schedule, trials, results).
  doctor   Preflight the host: tools, sampler, writable directories.
  report   Summarize the results index per (tool, mode).
  version  Print version.
`)
}
