package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"pkgbench/internal/design"
	"pkgbench/internal/schedule"
)

func TestPlan_TextOutputGroupedOrder(t *testing.T) {
	r, stdout, _ := newTestRunner()
	code := r.Run([]string{"plan", "--tools", "pip", "--modes", "cold,warm", "--reps", "2"})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "4 trials (2 design points x 2 repetitions)") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header + 4 entries, got %d lines:\n%s", len(lines), out)
	}
	// Grouped order keeps repetitions contiguous, combos in declaration order.
	for i, want := range []string{"pip/cold", "pip/cold", "pip/warm", "pip/warm"} {
		if !strings.Contains(lines[i+1], want) {
			t.Fatalf("line %d: expected %s, got %q", i+1, want, lines[i+1])
		}
	}
}

func TestPlan_OutWritesReadableScheduleLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "schedule.csv")
	r, _, _ := newTestRunner()
	code := r.Run([]string{"plan", "--tools", "uv", "--modes", "lock", "--reps", "3", "--out", logPath})
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	s, err := schedule.ReadLog(logPath)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", s.Len())
	}
	for _, e := range s.Entries {
		if e.Point.Tool != design.ToolUv || e.Point.Mode != design.ModeLock {
			t.Fatalf("unexpected entry %+v", e)
		}
	}
}

func TestPlan_SeededJSONIsReproducible(t *testing.T) {
	args := []string{"plan", "--shuffle", "--seed", "7", "--json"}

	r1, out1, _ := newTestRunner()
	r2, out2, _ := newTestRunner()
	if code := r1.Run(args); code != 0 {
		t.Fatalf("first plan failed: %d", code)
	}
	if code := r2.Run(args); code != 0 {
		t.Fatalf("second plan failed: %d", code)
	}
	if out1.String() != out2.String() {
		t.Fatalf("same seed must yield identical plans:\n%s\nvs\n%s", out1.String(), out2.String())
	}

	s := mustJSON[schedule.Schedule](t, out1.Bytes())
	if s.Len() != 27 { // 3 tools x 3 modes x 3 reps default
		t.Fatalf("expected 27 entries, got %d", s.Len())
	}
}

func TestPlan_RejectsUnknownTool(t *testing.T) {
	r, _, stderr := newTestRunner()
	if code := r.Run([]string{"plan", "--tools", "cargo"}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown tool") {
		t.Fatalf("expected tool parse error, got %q", stderr.String())
	}
}

func TestPlan_RejectsSubMinimumInterval(t *testing.T) {
	r, _, stderr := newTestRunner()
	if code := r.Run([]string{"plan", "--interval", "50"}); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "below minimum") {
		t.Fatalf("expected interval error, got %q", stderr.String())
	}
}
