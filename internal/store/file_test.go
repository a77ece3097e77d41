package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic_CreatesParentsAndReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "schedule.csv")

	if err := WriteFileAtomic(path, []byte("one\n")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("two\n")); err != nil {
		t.Fatalf("WriteFileAtomic overwrite: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "two\n" {
		t.Fatalf("expected replaced content, got %q", b)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestWriteJSONAtomic_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")

	type meta struct {
		RunID string `json:"runId"`
	}
	if err := WriteJSONAtomic(path, meta{RunID: "r1"}); err != nil {
		t.Fatalf("WriteJSONAtomic: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "{\n  \"runId\": \"r1\"\n}\n" {
		t.Fatalf("unexpected json: %q", b)
	}
}

func TestAppendFile_Accumulates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.csv")

	if err := AppendFile(path, []byte("a\n")); err != nil {
		t.Fatalf("AppendFile: %v", err)
	}
	if err := AppendFile(path, []byte("b\n")); err != nil {
		t.Fatalf("AppendFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "a\nb\n" {
		t.Fatalf("unexpected content: %q", b)
	}
}
