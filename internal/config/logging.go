package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger. With a log file configured, records
// go there; otherwise to fallback, which may be io.Discard for full-screen
// commands. The returned close func is always non-nil.
func (c Config) NewLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}

	out := fallback
	closeFn := func() error { return nil }
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = io.Discard
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}
