package energy

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRAPL(t *testing.T, base, pkg, uj string) {
	t.Helper()
	dir := filepath.Join(base, pkg)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "energy_uj"), []byte(uj), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRead_SumsPackagesSkipsSubzones(t *testing.T) {
	base := t.TempDir()
	writeRAPL(t, base, "intel-rapl:0", "1500000\n")
	writeRAPL(t, base, "intel-rapl:1", "500000\n")
	// Subzone counters (core, uncore) must not be double-counted.
	writeRAPL(t, base, "intel-rapl:0:0", "999999999\n")

	if !Available(base) {
		t.Fatalf("expected RAPL available")
	}
	r, err := Read(base)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Packages != 2 {
		t.Fatalf("expected 2 packages, got %d", r.Packages)
	}
	if r.Joules != 2.0 {
		t.Fatalf("expected 2.0 J, got %v", r.Joules)
	}
}

func TestRead_UnavailableBase(t *testing.T) {
	base := t.TempDir()
	if Available(base) {
		t.Fatalf("empty base should not report RAPL")
	}
	if _, err := Read(base); err == nil {
		t.Fatalf("expected error for empty base")
	}
}

func TestRead_MalformedCounter(t *testing.T) {
	base := t.TempDir()
	writeRAPL(t, base, "intel-rapl:0", "not-a-number\n")
	if _, err := Read(base); err == nil {
		t.Fatalf("expected parse error")
	}
}
