// Package logging provides the leveled logger used by the bondsim binaries.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name, case-insensitive. Unknown names mean info.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Logger writes leveled lines with a [LEVEL] prefix. It satisfies
// bonding.Logger directly.
type Logger struct {
	level LogLevel
	out   *log.Logger
}

// NewLogger creates a logger writing to stderr.
func NewLogger(level string) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w.
func NewLoggerTo(w io.Writer, level string) *Logger {
	return &Logger{
		level: ParseLogLevel(level),
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Logger) Level() LogLevel {
	return l.level
}

func (l *Logger) logf(level LogLevel, prefix, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Printf(prefix+format, v...)
}

func (l *Logger) Debugf(format string, v ...any) { l.logf(LogLevelDebug, "[DEBUG] ", format, v...) }
func (l *Logger) Infof(format string, v ...any)  { l.logf(LogLevelInfo, "[INFO] ", format, v...) }
func (l *Logger) Warnf(format string, v ...any)  { l.logf(LogLevelWarn, "[WARN] ", format, v...) }
func (l *Logger) Errorf(format string, v ...any) { l.logf(LogLevelError, "[ERROR] ", format, v...) }

// Fatalf logs and exits regardless of level.
func (l *Logger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}
