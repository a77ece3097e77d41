package schedule

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkgbench/internal/design"
)

func TestWriteLogAndReadLog_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schedule.csv")

	d := design.Design{
		Tools:       []design.ToolID{design.ToolPip, design.ToolPoetry},
		Modes:       []design.Mode{design.ModeCold, design.ModeLock},
		Repetitions: 2,
	}
	s, err := Build(d, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := s.WriteLog(path); err != nil {
		t.Fatalf("WriteLog: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if lines[0] != "run_index,tool,mode" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if len(lines) != 1+s.Len() {
		t.Fatalf("expected %d lines, got %d", 1+s.Len(), len(lines))
	}
	if lines[1] != "1,pip,cold" {
		t.Fatalf("unexpected first row: %q", lines[1])
	}

	got, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if got.Len() != s.Len() {
		t.Fatalf("round trip length: %d vs %d", got.Len(), s.Len())
	}
	for i := range s.Entries {
		if got.Entries[i] != s.Entries[i] {
			t.Fatalf("entry %d: %+v vs %+v", i, got.Entries[i], s.Entries[i])
		}
	}
}

func TestWriteLog_SeededScheduleIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	d := design.Design{
		Tools:       []design.ToolID{design.ToolPip},
		Modes:       []design.Mode{design.ModeCold, design.ModeWarm},
		Repetitions: 2,
	}
	seed := int64(7)

	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	for _, path := range []string{pathA, pathB} {
		s, err := Build(d, Options{Shuffle: true, Seed: &seed})
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if err := s.WriteLog(path); err != nil {
			t.Fatalf("WriteLog: %v", err)
		}
	}
	a, err := os.ReadFile(pathA)
	if err != nil {
		t.Fatalf("ReadFile a: %v", err)
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		t.Fatalf("ReadFile b: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("same seed must produce byte-identical logs:\n%s\nvs\n%s", a, b)
	}
}

func TestReadLog_RejectsCorruptLogs(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"empty":        "",
		"bad header":   "index,tool,mode\n1,pip,cold\n",
		"bad index":    "run_index,tool,mode\nx,pip,cold\n",
		"gap in index": "run_index,tool,mode\n1,pip,cold\n3,pip,cold\n",
		"bad tool":     "run_index,tool,mode\n1,cargo,cold\n",
		"bad mode":     "run_index,tool,mode\n1,pip,frozen\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "-")+".csv")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := ReadLog(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
