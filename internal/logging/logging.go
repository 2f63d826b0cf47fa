// Package logging sets up the slog.Logger used at the cache boundary (C9)
// and by cmd/tagtplctl, per SPEC_FULL.md §4.9. The core tagtpl package never
// imports this package — the compiler and renderer stay free of logging.
package logging

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Options configures New.
type Options struct {
	// Level is the minimum level that will be logged. Defaults to slog.LevelInfo.
	Level slog.Level
	// Debug enables source file/line annotations on each record.
	Debug bool
}

// New returns a logger that writes tint-formatted, human-readable lines to
// stderr — the console rendering the teacher pack reaches for instead of
// slog's default JSON handler.
func New(opts Options) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:     opts.Level,
		AddSource: opts.Debug,
	}))
}
