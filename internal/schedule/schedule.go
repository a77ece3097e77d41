// Package schedule expands an experiment design into a concrete run order
// and persists that order for audit before anything executes.
package schedule

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"

	"pkgbench/internal/design"
)

// Entry is one scheduled trial. RunIndex is 1-based and reflects the final
// execution order.
type Entry struct {
	RunIndex int          `json:"runIndex"`
	Point    design.Point `json:"point"`
}

// Schedule is immutable once built: the suite driver consumes Entries
// strictly in order and never reorders them.
type Schedule struct {
	Entries []Entry `json:"entries"`
}

type Options struct {
	Shuffle bool
	// Seed pins the shuffled permutation; nil means system entropy.
	Seed *int64
}

// Build expands the design into |tools|×|modes|×R entries. Grouped order
// keeps all R repetitions of each combo contiguous, combos in declaration
// order. With Shuffle the grouped multiset is permuted by one Fisher-Yates
// pass over a generator owned by this call: the same seed always yields the
// same permutation, and no process-wide random state is touched.
func Build(d design.Design, opts Options) (Schedule, error) {
	if err := d.Validate(); err != nil {
		return Schedule{}, err
	}

	combos := d.Combos()
	points := make([]design.Point, 0, len(combos)*d.Repetitions)
	for _, c := range combos {
		for r := 0; r < d.Repetitions; r++ {
			points = append(points, c)
		}
	}

	if opts.Shuffle {
		rng := mrand.New(mrand.NewSource(seedValue(opts.Seed)))
		for i := len(points) - 1; i >= 1; i-- {
			j := rng.Intn(i + 1)
			points[i], points[j] = points[j], points[i]
		}
	}

	entries := make([]Entry, len(points))
	for i, p := range points {
		entries[i] = Entry{RunIndex: i + 1, Point: p}
	}
	return Schedule{Entries: entries}, nil
}

func seedValue(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Entropy read failures are effectively impossible; an unseeded
		// schedule is allowed to be arbitrary anyway.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func (s Schedule) Len() int { return len(s.Entries) }

// Counts returns how often each design point occurs. Both construction modes
// must agree on this multiset; only the order differs.
func (s Schedule) Counts() map[design.Point]int {
	out := make(map[design.Point]int, len(s.Entries))
	for _, e := range s.Entries {
		out[e.Point]++
	}
	return out
}
