package monitor

import (
	"strings"
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/isa"
)

func newTestMonitor(t *testing.T) *Monitor {
	t.Helper()
	b := bus.NewPaddrBus()
	ram := bus.NewRAM(0x1000)
	rng, err := bus.NewAddrRange(0xBFC00000, 0x1000)
	if err != nil {
		t.Fatalf("NewAddrRange: %v", err)
	}
	if err := b.AddDevice(rng, ram); err != nil {
		t.Fatalf("AddDevice: %v", err)
	}
	// lui $4, 0x8000 ; nop
	ram.LoadImage(0, []byte{0x00, 0x80, 0x04, 0x3c, 0, 0, 0, 0})
	return &Monitor{Ref: isa.New(b, 0xBFC00000)}
}

func TestStepAdvancesPC(t *testing.T) {
	m := newTestMonitor(t)
	if _, err := m.ProcessCommand("si"); err != nil {
		t.Fatalf("si: %v", err)
	}
	if m.Ref.Arch.PC != 0xBFC00004 {
		t.Errorf("got pc=%#08x, want 0xBFC00004", m.Ref.Arch.PC)
	}
}

func TestStepWritesGPR4(t *testing.T) {
	m := newTestMonitor(t)
	if _, err := m.ProcessCommand("si"); err != nil {
		t.Fatalf("si: %v", err)
	}
	if m.Ref.Arch.GPR[4] != 0x80000000 {
		t.Errorf("got $4=%#08x, want 0x80000000", m.Ref.Arch.GPR[4])
	}
}

func TestPrintRegister(t *testing.T) {
	m := newTestMonitor(t)
	m.Ref.Arch.GPR[4] = 0x1234
	v, err := evalExpr(m, "$4")
	if err != nil {
		t.Fatalf("evalExpr: %v", err)
	}
	if v != 0x1234 {
		t.Errorf("got %#x, want 0x1234", v)
	}
}

func TestTooShortPrefixReportsUnknownCommand(t *testing.T) {
	m := newTestMonitor(t)
	// "s" is a prefix of "si", but si has min=2, so a one-character
	// prefix matches no command at all.
	_, err := m.ProcessCommand("s")
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("got err=%v, want an unknown-command error (si requires 2 chars)", err)
	}
}

func TestQuitRequestsExit(t *testing.T) {
	m := newTestMonitor(t)
	quit, err := m.ProcessCommand("quit")
	if err != nil {
		t.Fatalf("quit: %v", err)
	}
	if !quit {
		t.Errorf("expected quit to request exit")
	}
}
