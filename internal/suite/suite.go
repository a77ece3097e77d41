// Package suite drives a persisted schedule through the trial executor,
// strictly sequentially, with cooldown gaps between trials and an extra
// pause whenever the design point switches.
package suite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pkgbench/internal/design"
	"pkgbench/internal/results"
	"pkgbench/internal/schedule"
)

// TrialRunner is what the driver needs from the trial executor.
type TrialRunner interface {
	Run(ctx context.Context, pt design.Point) (results.Row, error)
}

type Driver struct {
	Trials   TrialRunner
	Cooldown time.Duration
	// Pause is slept in addition to Cooldown when the next scheduled entry's
	// design point differs from the current one. Only meaningful for grouped
	// schedules; in shuffled order nearly every gap is a switch.
	Pause time.Duration

	Sleep func(time.Duration)
	Now   func() time.Time
	Log   zerolog.Logger
}

type Summary struct {
	Total     int
	Completed int
	Elapsed   time.Duration
	Rows      []results.Row
	// Failed is set when the suite aborted; its row carries the exit code.
	Failed *schedule.Entry
}

func (d *Driver) sleep(t time.Duration) {
	if d.Sleep != nil {
		d.Sleep(t)
		return
	}
	time.Sleep(t)
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// RunSuite executes the schedule in order, fail-fast: the first failed trial
// aborts the rest. Partial artifacts stay on disk for inspection. The
// returned error wraps the trial's error; the summary is valid either way.
func (d *Driver) RunSuite(ctx context.Context, s schedule.Schedule) (Summary, error) {
	start := d.now()
	sum := Summary{Total: s.Len()}

	for i, entry := range s.Entries {
		d.Log.Info().
			Int("run", entry.RunIndex).
			Int("of", s.Len()).
			Str("point", entry.Point.String()).
			Msg("starting trial")

		row, err := d.Trials.Run(ctx, entry.Point)
		if err != nil {
			e := entry
			sum.Failed = &e
			sum.Rows = append(sum.Rows, row)
			sum.Elapsed = d.now().Sub(start)
			d.Log.Error().
				Int("run", entry.RunIndex).
				Str("point", entry.Point.String()).
				Int("exitCode", row.ExitCode).
				Str("cmdlog", row.CmdlogFile).
				Msg("trial failed, aborting remaining schedule")
			return sum, fmt.Errorf("run %d (%s): %w", entry.RunIndex, entry.Point, err)
		}
		sum.Rows = append(sum.Rows, row)
		sum.Completed++

		if i == len(s.Entries)-1 {
			break
		}
		gap := d.Cooldown
		if s.Entries[i+1].Point != entry.Point {
			gap += d.Pause
		}
		if gap > 0 {
			d.Log.Debug().Dur("gap", gap).Msg("inter-trial gap")
			d.sleep(gap)
		}
	}

	sum.Elapsed = d.now().Sub(start)
	return sum, nil
}

// RunRepeated runs reps trials of one design point with cooldown between
// consecutive trials only. Stops on the first failure, no retries.
func (d *Driver) RunRepeated(ctx context.Context, pt design.Point, reps int) ([]results.Row, error) {
	if reps < 1 {
		return nil, fmt.Errorf("%w: repetitions must be >= 1, got %d", design.ErrInvalidDesign, reps)
	}
	rows := make([]results.Row, 0, reps)
	for i := 1; i <= reps; i++ {
		row, err := d.Trials.Run(ctx, pt)
		if err != nil {
			return rows, fmt.Errorf("repetition %d/%d (%s): %w", i, reps, pt, err)
		}
		rows = append(rows, row)
		if i < reps && d.Cooldown > 0 {
			d.sleep(d.Cooldown)
		}
	}
	return rows, nil
}

// ExitCode maps a finished suite to the process exit code: 0 on success,
// the failing trial's wrapped exit code otherwise, 1 when the failure had
// no usable exit code (validation or priming).
func ExitCode(sum Summary, err error) int {
	if err == nil {
		return 0
	}
	if sum.Failed != nil && len(sum.Rows) > 0 {
		if code := sum.Rows[len(sum.Rows)-1].ExitCode; code > 0 {
			return code
		}
	}
	return 1
}
