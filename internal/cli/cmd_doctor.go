package cli

import (
	"flag"
	"fmt"
	"io"

	"pkgbench/internal/doctor"
)

func (r Runner) runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cf := registerCfgFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	help := fs.Bool("help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return r.failUsage("doctor: invalid flags")
	}
	if *help {
		printDoctorHelp(r.Stdout)
		return 0
	}
	cfg, err := cf.resolve()
	if err != nil {
		return r.failUsage("doctor: " + err.Error())
	}

	res := doctor.Run(cfg)
	if *jsonOut {
		if code := r.writeJSON(res); code != 0 {
			return code
		}
	} else {
		fmt.Fprintf(r.Stdout, "platform: %s/%s", res.Platform.OS, res.Platform.Arch)
		if res.Platform.Kernel != "" {
			fmt.Fprintf(r.Stdout, " (%s)", res.Platform.Kernel)
		}
		fmt.Fprintln(r.Stdout)
		for _, c := range res.Checks {
			status := "ok  "
			if !c.OK {
				status = "FAIL"
			}
			if c.Message != "" {
				fmt.Fprintf(r.Stdout, "%s  %-14s %s\n", status, c.ID, c.Message)
			} else {
				fmt.Fprintf(r.Stdout, "%s  %s\n", status, c.ID)
			}
		}
	}
	if !res.OK {
		return 1
	}
	return 0
}

func printDoctorHelp(w io.Writer) {
	fmt.Fprint(w, `Usage:
  pkgbench doctor [--config <path>] [--json]
`)
}
