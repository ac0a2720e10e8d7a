package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewDefaultLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Info("hidden")
	logger.Debug("hidden too")
	if buf.Len() != 0 {
		t.Errorf("default logger wrote %q, want nothing below warn", buf.String())
	}

	logger.Warn("release check failed", "error", "timeout")
	out := buf.String()
	if !strings.Contains(out, "release check failed") {
		t.Errorf("warn record missing: %q", out)
	}
	if !strings.Contains(out, prefix) {
		t.Errorf("record should carry prefix %q: %q", prefix, out)
	}
}

func TestNewVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true)

	logger.Debug("probing", "binary", "apt-get")
	if !strings.Contains(buf.String(), "probing") {
		t.Errorf("verbose logger should emit debug records, got %q", buf.String())
	}
}

func TestInit(t *testing.T) {
	before := Logger()
	Init(true)
	t.Cleanup(func() { Init(false) })

	if Logger() == before {
		t.Error("Init() should replace the process logger")
	}
}
