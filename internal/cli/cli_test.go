package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func newTestRunner() (Runner, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	r := Runner{
		Version: "1.2.3-test",
		Now:     func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
		Stdout:  &stdout,
		Stderr:  &stderr,
	}
	return r, &stdout, &stderr
}

func TestRun_NoArgsPrintsHelp(t *testing.T) {
	r, stdout, _ := newTestRunner()
	if code := r.Run(nil); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Fatalf("expected usage text, got %q", stdout.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	r, _, stderr := newTestRunner()
	if code := r.Run([]string{"frobnicate"}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "PKB_E_USAGE") {
		t.Fatalf("expected usage error code, got %q", stderr.String())
	}
}

func TestRun_Version(t *testing.T) {
	r, stdout, _ := newTestRunner()
	if code := r.Run([]string{"version"}); code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != "1.2.3-test" {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestRun_InvalidFlagsAreUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"plan", "--no-such-flag"},
		{"run", "--no-such-flag"},
		{"doctor", "--no-such-flag"},
		{"report", "--no-such-flag"},
	} {
		r, _, stderr := newTestRunner()
		if code := r.Run(args); code != 2 {
			t.Fatalf("%v: expected exit 2, got %d", args, code)
		}
		if !strings.Contains(stderr.String(), "PKB_E_USAGE") {
			t.Fatalf("%v: expected usage error, got %q", args, stderr.String())
		}
	}
}

func TestRun_HelpFlagsExitZero(t *testing.T) {
	for _, args := range [][]string{
		{"plan", "--help"},
		{"run", "--help"},
		{"doctor", "--help"},
		{"report", "--help"},
	} {
		r, stdout, _ := newTestRunner()
		if code := r.Run(args); code != 0 {
			t.Fatalf("%v: expected exit 0, got %d", args, code)
		}
		if !strings.Contains(stdout.String(), "Usage:") {
			t.Fatalf("%v: expected usage text, got %q", args, stdout.String())
		}
	}
}

func mustJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, raw)
	}
	return v
}
