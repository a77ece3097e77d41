package cli

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"pkgbench/internal/report"
	"pkgbench/internal/results"
)

func (r Runner) runReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cf := registerCfgFlags(fs)
	resultsPath := fs.String("results", "", "results CSV path (default <results-dir>/results.csv)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	help := fs.Bool("help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return r.failUsage("report: invalid flags")
	}
	if *help {
		printReportHelp(r.Stdout)
		return 0
	}
	cfg, err := cf.resolve()
	if err != nil {
		return r.failUsage("report: " + err.Error())
	}

	path := *resultsPath
	if path == "" {
		path = filepath.Join(cfg.ResultsDir, resultsName)
	}
	rows, err := results.Load(path)
	if err != nil {
		fmt.Fprintf(r.Stderr, "PKB_E_IO: %s\n", err.Error())
		return 1
	}
	groups := report.Build(rows)

	if *jsonOut {
		return r.writeJSON(groups)
	}
	if err := report.WriteText(r.Stdout, groups); err != nil {
		fmt.Fprintf(r.Stderr, "PKB_E_IO: %s\n", err.Error())
		return 1
	}
	return 0
}

func printReportHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  pkgbench report [--config <path>] [--results <results.csv>] [--json]
`)
}
