package trial

import "errors"

// Stable machine-readable codes surfaced by the CLI. None of these are
// retried: a retry would contaminate timing and cache state.
const (
	CodeEnvironment = "PKB_E_ENVIRONMENT"
	CodePriming     = "PKB_E_PRIMING"
	CodeMeasurement = "PKB_E_MEASUREMENT"
)

var (
	// ErrEnvironment: missing executable, unsupported platform, or a failed
	// CLEAN/setup step. Caught before anything is measured.
	ErrEnvironment = errors.New("environment check failed")
	// ErrPriming: the unmeasured warm-up (warm install or lock resolve)
	// failed; the trial cannot produce a fair measurement.
	ErrPriming = errors.New("cache priming failed")
	// ErrMeasurement: the wrapped command exited nonzero (or could not be
	// wrapped at all). The trial is still recorded.
	ErrMeasurement = errors.New("measured command failed")
)

// Code maps a trial error to its stable code, or "" for unknown errors.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrEnvironment):
		return CodeEnvironment
	case errors.Is(err, ErrPriming):
		return CodePriming
	case errors.Is(err, ErrMeasurement):
		return CodeMeasurement
	}
	return ""
}
