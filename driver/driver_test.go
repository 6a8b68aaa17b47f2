package driver

import (
	"testing"

	"github.com/rcornwell/mipsdiff/diffengine"
	"github.com/rcornwell/mipsdiff/dualsoc"
)

// fakeDUT mirrors REF exactly, letting tests drive a clean Run to
// completion or force a single injected mismatch.
type fakeDUT struct {
	pc         uint32
	mismatch   bool
	mismatchAt uint32
}

func (d *fakeDUT) Step(extInt uint8) (diffengine.DiffSnapshot, bool) {
	d.pc += 4
	snap := diffengine.DiffSnapshot{PC: d.pc}
	if d.mismatch && d.pc == d.mismatchAt {
		snap.PC = 0xDEADBEEF
	}
	return snap, false
}

func newTestSoc(t *testing.T) *dualsoc.DualSoc {
	t.Helper()
	ds, err := dualsoc.New(dualsoc.VariantBasic, 0x1000)
	if err != nil {
		t.Fatalf("dualsoc.New: %v", err)
	}
	return ds
}

func TestRunEndsCleanlyAtTerminalPC(t *testing.T) {
	cfg := Config{
		StartPC:    dualsoc.BootROMBase,
		TerminalPC: dualsoc.BootROMBase + 4,
	}
	dut := &fakeDUT{pc: dualsoc.BootROMBase}
	code := Run(cfg, newTestSoc(t), dut, nil)
	if code != ExitClean {
		t.Errorf("got exit %d, want ExitClean", code)
	}
}

func TestRunAbortsOnMismatch(t *testing.T) {
	cfg := Config{
		StartPC:    dualsoc.BootROMBase,
		TerminalPC: dualsoc.BootROMBase + 0x100,
	}
	dut := &fakeDUT{pc: dualsoc.BootROMBase, mismatch: true, mismatchAt: dualsoc.BootROMBase + 4}
	code := Run(cfg, newTestSoc(t), dut, nil)
	if code != ExitAbort {
		t.Errorf("got exit %d, want ExitAbort", code)
	}
}

func TestRunHonorsMaxTicks(t *testing.T) {
	cfg := Config{
		StartPC:    dualsoc.BootROMBase,
		TerminalPC: 0xFFFFFFFF, // never reached
		MaxTicks:   3,
	}
	dut := &fakeDUT{pc: dualsoc.BootROMBase}
	code := Run(cfg, newTestSoc(t), dut, nil)
	if code != ExitAbort {
		t.Errorf("got exit %d, want ExitAbort (max-ticks bound)", code)
	}
}
