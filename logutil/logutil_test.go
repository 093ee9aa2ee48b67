package logutil

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{0, false, slog.LevelInfo},
		{1, false, slog.LevelDebug},
		{2, false, LevelTrace},
		{3, false, LevelTrace},
		{0, true, slog.LevelWarn},
		{2, true, slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := Level(tt.verbosity, tt.quiet); got != tt.want {
			t.Errorf("Level(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
		}
	}
}

func TestTrace_EmittedAtTraceLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(NewLogger(&buf, Level(2, false)))
	Trace("bound function", "prototype", "void lammps_close(void *)")
	if out := buf.String(); !strings.Contains(out, "level=TRACE") || !strings.Contains(out, "lammps_close") {
		t.Errorf("expected trace record, got %q", out)
	}

	buf.Reset()
	slog.SetDefault(NewLogger(&buf, Level(1, false)))
	Trace("bound function")
	if buf.Len() != 0 {
		t.Errorf("trace record emitted at debug level: %q", buf.String())
	}
}

func TestNewLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)
	logger.Log(context.Background(), LevelTrace, "hello", "k", "v")

	out := buf.String()
	if !strings.Contains(out, "level=TRACE") {
		t.Errorf("expected TRACE level name, got %q", out)
	}
	if !strings.Contains(out, "source=logutil_test.go:") {
		t.Errorf("expected shortened source file, got %q", out)
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("unexpected output %q", out)
	}
}
