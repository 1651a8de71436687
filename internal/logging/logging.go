// Package logging constructs the per-run log handle. The logger is passed
// explicitly to each component; there is no process-global logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ytmux/internal/util"
)

// NewRunLogger creates a timestamped log file under dir and returns a logger
// writing to it. With echo, every record is also written to stderr. The
// returned closer owns the file handle.
func NewRunLogger(dir string, echo bool, verbose bool) (*slog.Logger, io.Closer, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("run_%s.log", time.Now().Format("20060102_150405"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	var w io.Writer = f
	if echo {
		w = io.MultiWriter(f, os.Stderr)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, f, nil
}

// Discard returns a logger that drops every record. Used by tests and as a
// safe default when no log handle was provided.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
