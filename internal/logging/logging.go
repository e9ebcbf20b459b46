// Package logging provides the leveled stderr logger the CLI and core use
// for diagnostic output (spec.md §6.3's --log-level, §7's "non-fatal errors
// logged at WARNING ... fatal errors logged at ERROR"). The teacher carries
// no structured logging library (see DESIGN.md), so this keeps the
// teacher's plain fmt.Fprintf(os.Stderr, ...) idiom with level filtering
// layered on top, rather than introducing one.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level is one of the four levels spec.md §6.3 names.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
)

// ParseLevel maps a --log-level flag value to a Level; unrecognized values
// default to Info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return Debug
	case "WARNING", "WARN":
		return Warning
	case "ERROR":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger writes leveled lines to an io.Writer (stderr by default),
// filtering anything below its configured Level.
type Logger struct {
	out   io.Writer
	level Level
	now   func() time.Time
}

// New constructs a Logger at the given level, writing to os.Stderr.
func New(level Level) *Logger {
	return &Logger{out: os.Stderr, level: level, now: time.Now}
}

// WithOutput overrides the destination writer (tests, `diagnose-*`
// commands redirecting to a buffer).
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{out: w, level: l.level, now: l.now}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s [%s] %s\n", l.now().UTC().Format(time.RFC3339), level, msg)
}

func (l *Logger) Debugf(format string, args ...any)   { l.log(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...any)    { l.log(Info, format, args...) }
func (l *Logger) Warningf(format string, args ...any) { l.log(Warning, format, args...) }
func (l *Logger) Errorf(format string, args ...any)   { l.log(Error, format, args...) }
