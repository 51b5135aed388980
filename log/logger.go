// Package log is this module's ambient logger: leveled, prefixed, with a
// package-level default instance so cmd/browser and any future entrypoint
// can log without constructing one. No third-party structured-logging
// library is pulled in — see DESIGN.md for why.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level is a log message's severity.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, optionally-prefixed messages to out, dropping
// anything below its configured level.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	prefix string
}

// std is the package-level default logger; cmd/browser and the functions
// below all route through it unless a caller builds its own with New.
var std = &Logger{out: os.Stderr, level: WarnLevel}

// New returns a standalone Logger writing at level to out.
func New(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

// SetOutput redirects the default logger's output.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.out = w
}

// SetLevel changes the default logger's minimum emitted level.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// GetLevel reports the default logger's current minimum level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// SetPrefix tags every message the default logger emits with prefix.
func SetPrefix(prefix string) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.prefix = prefix
}

func (l *Logger) log(level Level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	var line string
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s [%s] %s", timestamp, l.prefix, level.String(), msg)
	} else {
		line = fmt.Sprintf("[%s] [%s] %s", timestamp, level.String(), msg)
	}

	for k, v := range fields {
		line += fmt.Sprintf(" %s=%v", k, v)
	}

	fmt.Fprintln(l.out, line)
}

func (l *Logger) Debug(msg string) { l.log(DebugLevel, msg, nil) }
func (l *Logger) Info(msg string)  { l.log(InfoLevel, msg, nil) }
func (l *Logger) Warn(msg string)  { l.log(WarnLevel, msg, nil) }
func (l *Logger) Error(msg string) { l.log(ErrorLevel, msg, nil) }

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(DebugLevel, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(InfoLevel, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(WarnLevel, fmt.Sprintf(format, args...), nil) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(ErrorLevel, fmt.Sprintf(format, args...), nil) }

// WithFields logs msg at level with structured key=value pairs appended.
func (l *Logger) WithFields(level Level, msg string, fields map[string]interface{}) {
	l.log(level, msg, fields)
}

// Package-level functions route through the default logger (std).

func Debug(msg string) { std.Debug(msg) }
func Info(msg string)  { std.Info(msg) }
func Warn(msg string)  { std.Warn(msg) }
func Error(msg string) { std.Error(msg) }

func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { std.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { std.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// WithFields logs msg at level through the default logger with structured
// key=value pairs appended.
func WithFields(level Level, msg string, fields map[string]interface{}) {
	std.WithFields(level, msg, fields)
}
