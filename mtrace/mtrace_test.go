package mtrace

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
)

func TestWriteMtraceLogsSelectedLanesOnly(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := New(log)

	tr.WriteMtrace(0x10, bus.BusInfo{Size: 1, WriteEnable: 0x1}, 0xab)
	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("--")) {
		t.Errorf("expected unselected-lane markers in output, got %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("AB")) {
		t.Errorf("expected selected byte AB in output, got %q", out)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	tr := New(nil)
	tr.ReadMtrace(0, bus.BusInfo{Size: 4}, 0)
	tr.WriteMtrace(0, bus.BusInfo{Size: 4, WriteEnable: 0xf}, 0)
}
