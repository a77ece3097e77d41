package cli

import (
	"flag"
	"fmt"
	"io"

	"pkgbench/internal/schedule"
)

func (r Runner) runPlan(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.SetOutput(io.Discard) // avoid flag package writing to stderr

	cf := registerCfgFlags(fs)
	out := fs.String("out", "", "persist the run order as CSV at this path")
	jsonOut := fs.Bool("json", false, "print JSON output")
	help := fs.Bool("help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return r.failUsage("plan: invalid flags")
	}
	if *help {
		printPlanHelp(r.Stdout)
		return 0
	}
	cfg, err := cf.resolve()
	if err != nil {
		return r.failUsage("plan: " + err.Error())
	}

	s, err := schedule.Build(cfg.Design, schedule.Options{Shuffle: cfg.Shuffle, Seed: cfg.Seed})
	if err != nil {
		return r.failUsage("plan: " + err.Error())
	}
	if *out != "" {
		if err := s.WriteLog(*out); err != nil {
			fmt.Fprintf(r.Stderr, "PKB_E_IO: writing schedule log: %s\n", err.Error())
			return 1
		}
	}

	if *jsonOut {
		return r.writeJSON(s)
	}
	fmt.Fprintf(r.Stdout, "%d trials (%d design points x %d repetitions)\n",
		s.Len(), len(cfg.Design.Combos()), cfg.Design.Repetitions)
	for _, e := range s.Entries {
		fmt.Fprintf(r.Stdout, "%4d  %s\n", e.RunIndex, e.Point)
	}
	return 0
}

func printPlanHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  pkgbench plan [--config <path>] [--tools pip,uv] [--modes cold,warm] [--reps 3] [--shuffle] [--seed <n>] [--out schedule.csv] [--json]
`)
}
