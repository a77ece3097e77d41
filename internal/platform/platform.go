// Package platform answers the VALIDATE-step questions: what machine is
// this, is it supported, and where are the binaries we depend on.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

type Info struct {
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	Kernel string `json:"kernel,omitempty"`
}

func Probe() Info {
	info := Info{OS: runtime.GOOS, Arch: runtime.GOARCH}
	info.Kernel = kernelRelease()
	return info
}

// Supported reports whether energy trials can run here at all. The sampler
// ships for linux and darwin only.
func Supported(info Info) bool {
	switch info.OS {
	case "linux", "darwin":
		return true
	}
	return false
}

// LookTool resolves an executable on PATH. Thin wrapper kept separate so the
// trial executor can inject a fake.
func LookTool(name string) (string, error) {
	return exec.LookPath(name)
}

// DefaultSamplerName is the telemetry sampler binary searched on PATH when
// no explicit path is configured.
const DefaultSamplerName = "energibridge"

// ResolveSampler returns the sampler binary to wrap measured commands with.
// An explicit path must exist; otherwise the platform-suffixed name is tried
// on PATH before the bare one.
func ResolveSampler(explicit string, info Info) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("sampler binary %s: %w", explicit, err)
		}
		return explicit, nil
	}
	suffixed := fmt.Sprintf("%s-%s-%s", DefaultSamplerName, info.OS, info.Arch)
	if path, err := exec.LookPath(suffixed); err == nil {
		return path, nil
	}
	path, err := exec.LookPath(DefaultSamplerName)
	if err != nil {
		return "", fmt.Errorf("no telemetry sampler found (tried %s and %s on PATH)", suffixed, DefaultSamplerName)
	}
	return path, nil
}
