package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LogLevel defines the severity of the log entry.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String makes LogLevel satisfy the fmt.Stringer interface.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromEnv reads KR_LOG_LEVEL, defaulting to info.
func LevelFromEnv() LogLevel {
	switch strings.ToLower(os.Getenv("KR_LOG_LEVEL")) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

var (
	defaultLogger *slog.Logger
	logFile       *os.File
)

// Mockable for tests.
var osUserHomeDir = os.UserHomeDir

// InitForTUI routes logs to ~/.config/kr/kr.log; the UI owns the terminal,
// so nothing may write to stderr while the program runs. Returns a closer
// for the log file. Failure to open the file is non-fatal: logs are dropped.
func InitForTUI(level LogLevel) func() {
	home, err := osUserHomeDir()
	if err != nil {
		initWith(io.Discard, level)
		return func() {}
	}
	dir := filepath.Join(home, ".config", "kr")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		initWith(io.Discard, level)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "kr.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		initWith(io.Discard, level)
		return func() {}
	}
	logFile = f
	initWith(f, level)
	return func() { _ = f.Close() }
}

// InitForCLI logs to the provided writer, usually os.Stderr.
func InitForCLI(level LogLevel, output io.Writer) {
	initWith(output, level)
}

func initWith(w io.Writer, level LogLevel) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.SlogLevel()})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func logInternal(level LogLevel, subsystem string, err error, messageFmt string, args ...interface{}) {
	if defaultLogger == nil {
		return
	}
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}
	attrs := []slog.Attr{slog.String("subsystem", subsystem)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	defaultLogger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem string, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}
