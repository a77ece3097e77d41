// Package design models the factorial experiment design: which package
// managers are measured, in which cache modes, and how often.
package design

import (
	"errors"
	"fmt"
	"strings"
)

type ToolID string

const (
	ToolPip    ToolID = "pip"
	ToolUv     ToolID = "uv"
	ToolPoetry ToolID = "poetry"
)

type Mode string

const (
	// ModeCold measures an install with no isolated environment and a purged
	// package cache.
	ModeCold Mode = "cold"
	// ModeWarm measures an install into a fresh environment sourced entirely
	// from an actively re-primed cache.
	ModeWarm Mode = "warm"
	// ModeLock measures dependency resolution only, in a disposable scratch
	// workspace that never mutates the shared cache.
	ModeLock Mode = "lock"
)

var ErrInvalidDesign = errors.New("invalid experiment design")

func KnownTools() []ToolID {
	return []ToolID{ToolPip, ToolUv, ToolPoetry}
}

func KnownModes() []Mode {
	return []Mode{ModeCold, ModeWarm, ModeLock}
}

func ParseTool(s string) (ToolID, error) {
	t := ToolID(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case ToolPip, ToolUv, ToolPoetry:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown tool %q (expected pip|uv|poetry)", ErrInvalidDesign, s)
}

func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeCold, ModeWarm, ModeLock:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q (expected cold|warm|lock)", ErrInvalidDesign, s)
}

// Point is one cell of the factorial design. Value equality on both fields.
type Point struct {
	Tool ToolID `json:"tool"`
	Mode Mode   `json:"mode"`
}

func (p Point) String() string {
	return string(p.Tool) + "/" + string(p.Mode)
}

// Design is the full factorial description: Tools × Modes × Repetitions.
type Design struct {
	Tools       []ToolID
	Modes       []Mode
	Repetitions int
}

func (d Design) Validate() error {
	if len(d.Tools) == 0 {
		return fmt.Errorf("%w: no tools", ErrInvalidDesign)
	}
	if len(d.Modes) == 0 {
		return fmt.Errorf("%w: no modes", ErrInvalidDesign)
	}
	if d.Repetitions < 1 {
		return fmt.Errorf("%w: repetitions must be >= 1, got %d", ErrInvalidDesign, d.Repetitions)
	}
	seenTools := map[ToolID]bool{}
	for _, t := range d.Tools {
		if _, err := ParseTool(string(t)); err != nil {
			return err
		}
		if seenTools[t] {
			return fmt.Errorf("%w: duplicate tool %q", ErrInvalidDesign, t)
		}
		seenTools[t] = true
	}
	seenModes := map[Mode]bool{}
	for _, m := range d.Modes {
		if _, err := ParseMode(string(m)); err != nil {
			return err
		}
		if seenModes[m] {
			return fmt.Errorf("%w: duplicate mode %q", ErrInvalidDesign, m)
		}
		seenModes[m] = true
	}
	return nil
}

// Combos expands the Cartesian product in declaration order: outer loop over
// tools, inner loop over modes. Never sorted.
func (d Design) Combos() []Point {
	out := make([]Point, 0, len(d.Tools)*len(d.Modes))
	for _, t := range d.Tools {
		for _, m := range d.Modes {
			out = append(out, Point{Tool: t, Mode: m})
		}
	}
	return out
}
