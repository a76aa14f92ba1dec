package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)
	prog.done("Scanned 3 packages")

	out := buf.String()
	if !strings.Contains(out, "Scanned 3 packages") {
		t.Errorf("missing message in output: %q", out)
	}
	if !strings.Contains(out, "ms") && !strings.Contains(out, "s)") {
		t.Errorf("missing duration in output: %q", out)
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	got := loggerFromContext(ctx)

	if got != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	got := loggerFromContext(context.Background())
	if got == nil {
		t.Error("loggerFromContext should never return nil")
	}
}
