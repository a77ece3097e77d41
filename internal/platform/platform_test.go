package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestProbe_MatchesRuntime(t *testing.T) {
	info := Probe()
	if info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Fatalf("unexpected probe: %+v", info)
	}
}

func TestSupported(t *testing.T) {
	if !Supported(Info{OS: "linux", Arch: "amd64"}) {
		t.Fatalf("linux must be supported")
	}
	if !Supported(Info{OS: "darwin", Arch: "arm64"}) {
		t.Fatalf("darwin must be supported")
	}
	if Supported(Info{OS: "windows", Arch: "amd64"}) {
		t.Fatalf("windows must not be supported")
	}
}

func TestResolveSampler_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "energibridge")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ResolveSampler(bin, Info{OS: "linux", Arch: "amd64"})
	if err != nil {
		t.Fatalf("ResolveSampler: %v", err)
	}
	if got != bin {
		t.Fatalf("expected %s, got %s", bin, got)
	}

	if _, err := ResolveSampler(filepath.Join(dir, "missing"), Info{}); err == nil {
		t.Fatalf("expected error for missing explicit sampler")
	}
}

func TestResolveSampler_PathLookup(t *testing.T) {
	dir := t.TempDir()
	info := Info{OS: "linux", Arch: "amd64"}
	suffixed := filepath.Join(dir, "energibridge-linux-amd64")
	if err := os.WriteFile(suffixed, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", dir)

	got, err := ResolveSampler("", info)
	if err != nil {
		t.Fatalf("ResolveSampler: %v", err)
	}
	if got != suffixed {
		t.Fatalf("expected suffixed binary %s, got %s", suffixed, got)
	}
}
