package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Logger is the leveled logger used by the long-running modes (serve, watch, mcp)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

var logLevels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type implLogger struct {
	logger *log.Logger
	level  int
	prefix string
}

// NewLogger creates a logger writing to w at the given minimum level
func NewLogger(w io.Writer, level, prefix string) Logger {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = logLevels["info"]
	}
	if prefix != "" {
		prefix = "[" + prefix + "] "
	}
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		level:  lvl,
		prefix: prefix,
	}
}

// NewFileLogger creates a logger appending to path. Used where stdout is a
// protocol channel.
func NewFileLogger(path, level, prefix string) (Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return NewLogger(f, level, prefix), f, nil
}

// NopLogger discards everything
func NopLogger() Logger {
	return NewLogger(io.Discard, "error", "")
}

func (l *implLogger) logf(level int, tag, msg string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf(l.prefix+"["+tag+"] "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logf(0, "DEBUG", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logf(1, "INFO", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logf(2, "WARN", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logf(3, "ERROR", msg, args...)
}
