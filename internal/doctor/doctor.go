// Package doctor runs preflight checks so an operator can tell whether a
// benchmark suite would get past VALIDATE before committing hours to one.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"pkgbench/internal/config"
	"pkgbench/internal/design"
	"pkgbench/internal/energy"
	"pkgbench/internal/platform"
	"pkgbench/internal/tools"
)

type Check struct {
	ID      string `json:"id"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type Result struct {
	OK       bool          `json:"ok"`
	Platform platform.Info `json:"platform"`
	Checks   []Check       `json:"checks"`
}

// Run probes the host against cfg. Tool binaries missing for tools outside
// the configured design are reported but do not fail the result.
func Run(cfg config.Config) Result {
	info := platform.Probe()
	res := Result{OK: true, Platform: info}
	fail := func(id, msg string) {
		res.OK = false
		res.Checks = append(res.Checks, Check{ID: id, OK: false, Message: msg})
	}
	pass := func(id, msg string) {
		res.Checks = append(res.Checks, Check{ID: id, OK: true, Message: msg})
	}

	if platform.Supported(info) {
		pass("platform", fmt.Sprintf("%s/%s", info.OS, info.Arch))
	} else {
		fail("platform", fmt.Sprintf("%s/%s is not supported", info.OS, info.Arch))
	}

	inDesign := map[design.ToolID]bool{}
	for _, t := range cfg.Design.Tools {
		inDesign[t] = true
	}
	for _, t := range design.KnownTools() {
		cmds := tools.Commands{Tool: t, Python: cfg.PythonExe}
		id := "tool_" + string(t)
		if path, err := platform.LookTool(cmds.Binary()); err == nil {
			pass(id, path)
		} else if inDesign[t] {
			fail(id, fmt.Sprintf("%s not on PATH", cmds.Binary()))
		} else {
			pass(id, fmt.Sprintf("%s not on PATH (not in design)", cmds.Binary()))
		}
	}

	if path, err := platform.ResolveSampler(cfg.SamplerPath, info); err == nil {
		pass("sampler", path)
	} else {
		fail("sampler", err.Error())
	}

	// RAPL is informational: the sampler may read energy elsewhere (e.g.
	// powermetrics on darwin).
	if energy.Available(energy.DefaultRAPLBase) {
		pass("rapl", energy.DefaultRAPLBase)
	} else {
		pass("rapl", "no RAPL domains visible (sampler may use another source)")
	}

	if err := checkWritable(cfg.ResultsDir); err != nil {
		fail("results_dir", err.Error())
	} else {
		pass("results_dir", cfg.ResultsDir)
	}
	if err := checkWritable(cfg.WorkRoot); err != nil {
		fail("work_root", err.Error())
	} else {
		pass("work_root", cfg.WorkRoot)
	}

	return res
}

// checkWritable creates dir if needed and round-trips a probe file in it.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".doctor.tmp")
	if err := os.WriteFile(tmp, []byte("ok\n"), 0o644); err != nil {
		return err
	}
	return os.Remove(tmp)
}
