// Package logging provides the logging interface used to surface
// recovery warnings (a skipped corrupt block, §4.5.2) without forcing a
// dependency on a particular logging library.
//
// Grounded on aalhour-rockyardkv/internal/logging/logger.go, trimmed:
// this log has no "fatal background error" concept (recovery either
// warns and continues, or fails Open outright), so the teacher's
// FatalHandler/Fatalf machinery is dropped.
package logging

import (
	"fmt"
	"io"
	"log"
)

// Level gates which messages a DefaultLogger emits.
type Level int

const (
	// LevelError logs only errors.
	LevelError Level = iota
	// LevelWarn logs warnings and errors.
	LevelWarn
	// LevelInfo logs info, warnings, and errors.
	LevelInfo
	// LevelDebug logs everything.
	LevelDebug
)

// Logger is the logging interface mrecordlog.Options accepts.
type Logger interface {
	Errorf(format string, args ...any)
	Warnf(format string, args ...any)
	Infof(format string, args ...any)
	Debugf(format string, args ...any)
}

// DefaultLogger writes level-gated, log.Logger-formatted lines to an
// io.Writer.
type DefaultLogger struct {
	logger *log.Logger
	level  Level
}

// NewLogger creates a DefaultLogger writing to w at the given level.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{logger: log.New(w, "", log.LstdFlags), level: level}
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	if l.level >= LevelError {
		_ = l.logger.Output(2, "ERROR "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	if l.level >= LevelWarn {
		_ = l.logger.Output(2, "WARN "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	if l.level >= LevelInfo {
		_ = l.logger.Output(2, "INFO "+fmt.Sprintf(format, args...))
	}
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.level >= LevelDebug {
		_ = l.logger.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
	}
}
