package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("loaded dataset")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).Match(buf.Bytes()) {
		t.Errorf("log line %q should start with a 15:04:05.00 timestamp", buf.String())
	}
}

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
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Rendered 3 frames")

	if !bytes.Contains(buf.Bytes(), []byte("Rendered 3 frames (")) {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}
