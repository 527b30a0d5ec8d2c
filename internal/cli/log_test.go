package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (%q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected default logger for empty context")
	}
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), logger)) != logger {
		t.Error("logger not retrieved from context")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := &progress{logger: newLogger(&buf, log.DebugLevel), start: time.Now().Add(-1500 * time.Millisecond)}
	p.done("Framed 2 documents")
	if out := buf.String(); !strings.Contains(out, "Framed 2 documents (1.5") {
		t.Fatalf("unexpected progress output %q", out)
	}
}
