package mrecordlog

import (
	"time"

	"github.com/quickwit-oss/mrecordlog/internal/logging"
)

// Logger is an alias for the logging.Logger interface, so callers never
// need to import the internal package directly.
type Logger = logging.Logger

// PersistAction is the durability level applied when a policy decides to
// persist.
type PersistAction int

const (
	// ActionFlush drains in-process buffers to the OS.
	ActionFlush PersistAction = iota
	// ActionFlushAndFsync additionally fsyncs the current file and the
	// directory inode.
	ActionFlushAndFsync
)

func (a PersistAction) fsync() bool {
	return a == ActionFlushAndFsync
}

// PersistPolicy is the persistence policy state machine (spec §4.6): it
// decides, after each non-critical op, whether and how to persist.
// Critical ops (CreateQueue, DeleteQueue, the pre-unlink RecordPosition
// flush) always use ActionFlushAndFsync regardless of the configured
// policy; see log.go.
type PersistPolicy struct {
	kind        persistKind
	action      PersistAction
	interval    time.Duration
	nextPersist time.Time
}

type persistKind int

const (
	persistAlways persistKind = iota
	persistOnDelay
	persistNever
)

// Always persists after every non-critical op, using action.
func Always(action PersistAction) PersistPolicy {
	return PersistPolicy{kind: persistAlways, action: action}
}

// OnDelay persists using action only once interval has elapsed since the
// policy was created or last triggered a persist. Explicit Persist calls
// and critical-op flushes do not restart the interval.
func OnDelay(interval time.Duration, action PersistAction) PersistPolicy {
	return PersistPolicy{kind: persistOnDelay, action: action, interval: interval, nextPersist: nowFunc().Add(interval)}
}

// Never persists only when Persist is called explicitly.
func Never() PersistPolicy {
	return PersistPolicy{kind: persistNever}
}

// next reports whether a persist is due right now, and with which
// action, advancing the internal OnDelay clock as a side effect.
func (p *PersistPolicy) next(now time.Time) (bool, PersistAction) {
	switch p.kind {
	case persistAlways:
		return true, p.action
	case persistOnDelay:
		if !now.Before(p.nextPersist) {
			p.nextPersist = now.Add(p.interval)
			return true, p.action
		}
		return false, 0
	default: // persistNever
		return false, 0
	}
}

// Options configures OpenWithOptions.
type Options struct {
	// PersistPolicy governs non-critical durability. The zero value is
	// Always(ActionFlush), the same policy DefaultOptions returns.
	PersistPolicy PersistPolicy
	// Logger receives recovery warnings. nil falls back to a package
	// no-op logger, mirroring the teacher's logging.Discard pattern.
	Logger Logger
}

// DefaultOptions returns the options used by Open: Always(ActionFlush),
// per spec §4.6.
func DefaultOptions() Options {
	return Options{PersistPolicy: Always(ActionFlush)}
}

func (o Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Discard
}
