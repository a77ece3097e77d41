// Package results is the append-only index of executed trials. Every trial
// writes exactly one row, failed trials included, so the index is a complete
// audit of what actually ran.
package results

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"pkgbench/internal/design"
	"pkgbench/internal/store"
)

var header = []string{
	"tool", "mode", "platform_os", "platform_arch", "timestamp",
	"interval_ms", "wall_clock_seconds", "exit_code", "samples_file", "cmdlog_file",
}

// Row is immutable once written.
type Row struct {
	Tool         design.ToolID
	Mode         design.Mode
	PlatformOS   string
	PlatformArch string
	StartedAt    time.Time
	IntervalMs   int
	WallSeconds  float64
	ExitCode     int
	SamplesFile  string
	CmdlogFile   string
}

func (r Row) record() []string {
	return []string{
		string(r.Tool),
		string(r.Mode),
		r.PlatformOS,
		r.PlatformArch,
		r.StartedAt.UTC().Format(time.RFC3339),
		strconv.Itoa(r.IntervalMs),
		strconv.FormatFloat(r.WallSeconds, 'f', 4, 64),
		strconv.Itoa(r.ExitCode),
		r.SamplesFile,
		r.CmdlogFile,
	}
}

type Index struct {
	Path string
}

// Append writes one row, creating the file with a header first when absent.
func (ix Index) Append(r Row) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if _, err := os.Stat(ix.Path); os.IsNotExist(err) {
		if err := w.Write(header); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	if err := w.Write(r.record()); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return store.AppendFile(ix.Path, buf.Bytes())
}

// Load reads the whole index back, tolerant of nothing but its own format.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid results index %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if len(records[0]) != len(header) || records[0][0] != header[0] {
		return nil, fmt.Errorf("results index %s: unexpected header %v", path, records[0])
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("results index %s row %d: %w", path, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRecord(rec []string) (Row, error) {
	if len(rec) != len(header) {
		return Row{}, fmt.Errorf("expected %d columns, got %d", len(header), len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[4])
	if err != nil {
		return Row{}, fmt.Errorf("bad timestamp %q", rec[4])
	}
	interval, err := strconv.Atoi(rec[5])
	if err != nil {
		return Row{}, fmt.Errorf("bad interval %q", rec[5])
	}
	wall, err := strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad wall_clock_seconds %q", rec[6])
	}
	exit, err := strconv.Atoi(rec[7])
	if err != nil {
		return Row{}, fmt.Errorf("bad exit_code %q", rec[7])
	}
	return Row{
		Tool:         design.ToolID(rec[0]),
		Mode:         design.Mode(rec[1]),
		PlatformOS:   rec[2],
		PlatformArch: rec[3],
		StartedAt:    ts,
		IntervalMs:   interval,
		WallSeconds:  wall,
		ExitCode:     exit,
		SamplesFile:  rec[8],
		CmdlogFile:   rec[9],
	}, nil
}
