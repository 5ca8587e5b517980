package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDefaultLoggerLevelGating(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn)
	l.Debugf("debug %d", 1)
	l.Infof("info %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged below LevelWarn, got %q", buf.String())
	}
	l.Warnf("warn %d", 1)
	if !strings.Contains(buf.String(), "WARN warn 1") {
		t.Fatalf("expected warn line, got %q", buf.String())
	}
}

func TestDiscardLoggerIsNoop(t *testing.T) {
	Discard.Errorf("x")
	Discard.Warnf("x")
	Discard.Infof("x")
	Discard.Debugf("x")
}
