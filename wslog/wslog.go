// Package wslog is a small leveled logger in the style of the consensus
// library's utils logger: plain text lines to stdout, no external logging
// framework, because none of the retrieval pack's CryptoNote-family repos
// pull one in for this kind of component-internal logging.
package wslog

import (
	"fmt"
	"os"
	"time"
)

type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Logger writes leveled, prefixed lines to stdout. The zero value logs
// only at LevelError; New returns a Logger at LevelInfo.
type Logger struct {
	Prefix string
	Level  Level
}

func New(prefix string) *Logger {
	return &Logger{Prefix: prefix, Level: LevelInfo}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil {
		return
	}
	if level > l.Level {
		return
	}
	line := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stdout, "%s [%s] %s: %s\n", time.Now().UTC().Format("2006-01-02 15:04:05.000"), level, l.Prefix, line)
}

func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Panicf logs at error level then panics, for invariant violations that are
// programmer error rather than recoverable data anomalies: fail fast
// instead of continuing on corrupted state.
func (l *Logger) Panicf(format string, args ...any) {
	l.log(LevelError, format, args...)
	panic(fmt.Sprintf(format, args...))
}
