package logging

// discardLogger is a no-op Logger, used whenever mrecordlog.Options
// leaves Logger nil.
type discardLogger struct{}

// Discard is the singleton no-op logger.
var Discard Logger = discardLogger{}

func (discardLogger) Errorf(format string, args ...any) {}
func (discardLogger) Warnf(format string, args ...any)  {}
func (discardLogger) Infof(format string, args ...any)  {}
func (discardLogger) Debugf(format string, args ...any) {}
