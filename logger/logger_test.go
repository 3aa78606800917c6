package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "notice", "test")

	log.Info("hidden")
	log.Notice("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected INFO message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "NOTICE") {
		t.Errorf("expected NOTICE message to be logged, got %q", out)
	}
}

func TestNewLoggerUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "verbose", "test")

	log.Debug("hidden")
	log.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected DEBUG message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected INFO message to be logged, got %q", out)
	}
}

func TestNewLoggerRaisesModuleLevels(t *testing.T) {
	logging.SetLevel(logging.WARNING, "quiet")

	var buf bytes.Buffer
	NewLoggerTo(&buf, "debug", "test")
	logging.MustGetLogger("quiet").Debug("traced")

	if !strings.Contains(buf.String(), "traced") {
		t.Errorf("expected DEBUG message of a quiet module, got %q",
			buf.String())
	}
}

func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLoggerTo(&buf, "info", "test")
}
