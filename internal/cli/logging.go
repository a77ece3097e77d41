package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the console logger commands hand down to the suite driver
// and trial executor. Logs go to stderr; stdout stays parseable.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
