// Package energy probes Intel RAPL counters under /sys/class/powercap.
// Trials are measured by the external sampler; this probe only feeds the
// doctor command so operators can see whether hardware counters back the
// sampler on this machine.
package energy

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultRAPLBase = "/sys/class/powercap"

type Reading struct {
	Joules   float64 `json:"joules"`
	Packages int     `json:"packages"`
}

// raplPackages lists top-level package dirs (intel-rapl:<n>, not the
// :<n>:<m> subzones) that expose an energy_uj counter.
func raplPackages(base string) []string {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "intel-rapl:") {
			continue
		}
		if strings.Contains(strings.TrimPrefix(name, "intel-rapl:"), ":") {
			continue
		}
		dir := filepath.Join(base, name)
		if _, err := os.Stat(filepath.Join(dir, "energy_uj")); err != nil {
			continue
		}
		out = append(out, dir)
	}
	return out
}

func Available(base string) bool {
	return len(raplPackages(base)) > 0
}

// Read sums energy_uj across all RAPL packages and converts to joules.
func Read(base string) (Reading, error) {
	pkgs := raplPackages(base)
	if len(pkgs) == 0 {
		return Reading{}, fmt.Errorf("no RAPL packages under %s", base)
	}
	var totalUJ float64
	for _, dir := range pkgs {
		raw, err := os.ReadFile(filepath.Join(dir, "energy_uj"))
		if err != nil {
			return Reading{}, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("%s/energy_uj: %w", dir, err)
		}
		totalUJ += v
	}
	return Reading{Joules: totalUJ / 1e6, Packages: len(pkgs)}, nil
}
