package fern

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger creates the logger a Context reports diagnostics through.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "fern",
		Level:           level,
	})
}

func parseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, fmt.Errorf("fern: invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// loggerFor builds the default logger for cfg: stderr at the configured
// level, lowered to debug in debug mode.
func loggerFor(cfg Config) *log.Logger {
	lvl, err := parseLevel(cfg.LogLevel)
	if err != nil {
		lvl = log.WarnLevel
	}
	if cfg.Debug {
		lvl = log.DebugLevel
	}
	return NewLogger(os.Stderr, lvl)
}
