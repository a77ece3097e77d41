package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"pkgbench/internal/design"
	"pkgbench/internal/store"
)

var logHeader = []string{"run_index", "tool", "mode"}

// WriteLog persists the run order as a human-auditable CSV table. The write
// is atomic and must complete before the first trial starts: if the suite
// dies midway, this file is the ground truth for the intended order.
func (s Schedule) WriteLog(path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(logHeader); err != nil {
		return err
	}
	for _, e := range s.Entries {
		rec := []string{strconv.Itoa(e.RunIndex), string(e.Point.Tool), string(e.Point.Mode)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return store.WriteFileAtomic(path, buf.Bytes())
}

// ReadLog loads a previously persisted schedule, validating shape and the
// 1-based contiguous run indexes.
func ReadLog(path string) (Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schedule{}, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid schedule log %s: %w", path, err)
	}
	if len(records) == 0 {
		return Schedule{}, fmt.Errorf("schedule log %s is empty", path)
	}
	if len(records[0]) != 3 || records[0][0] != logHeader[0] {
		return Schedule{}, fmt.Errorf("schedule log %s: unexpected header %v", path, records[0])
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule log %s row %d: bad run_index %q", path, i+1, rec[0])
		}
		if idx != i+1 {
			return Schedule{}, fmt.Errorf("schedule log %s row %d: run_index %d out of order", path, i+1, idx)
		}
		tool, err := design.ParseTool(rec[1])
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule log %s row %d: %w", path, i+1, err)
		}
		mode, err := design.ParseMode(rec[2])
		if err != nil {
			return Schedule{}, fmt.Errorf("schedule log %s row %d: %w", path, i+1, err)
		}
		entries = append(entries, Entry{RunIndex: idx, Point: design.Point{Tool: tool, Mode: mode}})
	}
	return Schedule{Entries: entries}, nil
}
