package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNamedLoggersTagLines(t *testing.T) {
	var buf bytes.Buffer
	ref, dut := New(&buf, slog.LevelInfo, false)

	ref.Info("ref line")
	dut.Info("dut line")

	out := buf.String()
	if !strings.Contains(out, "["+NameRef+"]") {
		t.Errorf("expected ref line tagged %q, got %q", NameRef, out)
	}
	if !strings.Contains(out, "["+NameDut+"]") {
		t.Errorf("expected dut line tagged %q, got %q", NameDut, out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	ref, _ := New(&buf, slog.LevelWarn, false)
	ref.Info("should not appear")
	ref.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info line leaked through a warn-level handler: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestAttrsAreRendered(t *testing.T) {
	var buf bytes.Buffer
	ref, _ := New(&buf, slog.LevelInfo, false)
	ref.Info("diff mismatch", "detail", "pc mismatch")

	if !strings.Contains(buf.String(), "detail=pc mismatch") {
		t.Errorf("expected attr rendered, got %q", buf.String())
	}
}
