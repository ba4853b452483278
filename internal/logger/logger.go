// Package logger writes docchat's diagnostic lines. Debug and Info lines
// appear only with --verbose; warnings and errors always do.
//
// The CLI logs to stderr. The terminal UI owns the screen, so it sends
// everything to a file with ToFile instead.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

var (
	mu         sync.Mutex
	verbose    bool
	output     io.Writer = os.Stderr
	timestamps bool
	now        = time.Now
)

// SetVerbose turns Debug and Info output on or off.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether Debug and Info lines are written.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sends lines to w without timestamps.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	timestamps = false
}

// ToFile appends timestamped lines to path until the returned function is
// called, which switches back to stderr and closes the file.
func ToFile(path string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	output, timestamps = f, true
	mu.Unlock()

	return func() error {
		SetOutput(os.Stderr)
		return f.Close()
	}, nil
}

func Debug(format string, args ...any) { logf(levelDebug, format, args...) }

func Info(format string, args ...any) { logf(levelInfo, format, args...) }

// Warn is written even without --verbose.
func Warn(format string, args ...any) { logf(levelWarn, format, args...) }

// Error is written even without --verbose.
func Error(format string, args ...any) { logf(levelError, format, args...) }

func logf(lvl level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !verbose && (lvl == levelDebug || lvl == levelInfo) {
		return
	}
	line := fmt.Sprintf("[%s] "+format, append([]any{lvl}, args...)...)
	if timestamps {
		line = now().Format(time.RFC3339) + " " + line
	}
	fmt.Fprintln(output, line)
}
