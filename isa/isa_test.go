package isa

import (
	"testing"

	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/cp0"
)

const resetVector = 0xBFC0_0000

func newTestInterp(t *testing.T, image []uint32) *Interpreter {
	t.Helper()
	ram := bus.NewRAM(0x1000)
	raw := make([]byte, len(image)*4)
	for i, w := range image {
		raw[i*4+0] = byte(w)
		raw[i*4+1] = byte(w >> 8)
		raw[i*4+2] = byte(w >> 16)
		raw[i*4+3] = byte(w >> 24)
	}
	ram.LoadImage(0, raw)

	// The interpreter hands data addresses to the bus unchanged, so the
	// same RAM is also attached at 0 and 0x8000_0000 for the tests that
	// load and store through those addresses.
	b := bus.NewPaddrBus()
	for _, base := range []uint32{resetVector, 0, 0x8000_0000} {
		rng, err := bus.NewAddrRange(base, 0x1000)
		if err != nil {
			t.Fatalf("addr range: %v", err)
		}
		if err := b.AddDevice(rng, ram); err != nil {
			t.Fatalf("add device: %v", err)
		}
	}
	return New(b, resetVector)
}

// TestMinimalImage is scenario S1: lui/sw/lw/sdbbp sequence.
func TestMinimalImage(t *testing.T) {
	in := newTestInterp(t, []uint32{
		0x3C048000, // lui $4, 0x8000
		0xAC800000, // sw $0, 0($4)
		0x8C820000, // lw $2, 0($4)
		0x7000003F, // sdbbp
	})

	in.Step(0)
	if in.Arch.GPR[4] != 0x8000_0000 {
		t.Fatalf("got $4 = %#x, want 0x80000000", in.Arch.GPR[4])
	}
	in.Step(0)
	in.Step(0)
	if in.Arch.GPR[2] != 0 {
		t.Errorf("got $2 = %#x, want 0", in.Arch.GPR[2])
	}
	ist := in.Step(0)
	if ist.Status != StatusRun {
		t.Fatalf("unexpected status %v", ist.Status)
	}
	if in.Arch.CP0.Cause&0x7c>>2 != uint32(cp0.ExcBp) {
		t.Errorf("expected Bp exception from sdbbp, cause=%#x", in.Arch.CP0.Cause)
	}
}

// TestAddOverflow is scenario S2.
func TestAddOverflow(t *testing.T) {
	// Build $1 = 0x7FFFFFFF via lui+ori, $2 = 1, then add $3,$1,$2.
	in3 := newTestInterp(t, []uint32{
		0x3C017FFF, // lui $1, 0x7FFF
		0x3421FFFF, // ori $1, $1, 0xFFFF  -> $1 = 0x7FFFFFFF
		0x34020001, // ori $2, $0, 1
		0x00221820, // add $3, $1, $2
	})
	in3.Step(0)
	in3.Step(0)
	in3.Step(0)
	if in3.Arch.GPR[1] != 0x7FFFFFFF {
		t.Fatalf("got $1=%#x, want 0x7FFFFFFF", in3.Arch.GPR[1])
	}
	before := in3.Arch.GPR[3]
	ist := in3.Step(0)
	if in3.Arch.CP0.Cause&0x7c>>2 != uint32(cp0.ExcOv) {
		t.Errorf("expected Ov exception, cause=%#x", in3.Arch.CP0.Cause)
	}
	if in3.Arch.GPR[3] != before {
		t.Errorf("$3 must be unchanged on overflow, got %#x", in3.Arch.GPR[3])
	}
	_ = ist
}

// TestBranchDelaySlot is scenario S3.
func TestBranchDelaySlot(t *testing.T) {
	in := newTestInterp(t, []uint32{
		0x10000002, // beq $0,$0,+2 (target = pc+4+2*4 = pc+12)
		0x20010007, // addi $1,$0,7   (delay slot, always executes)
		0x20010009, // addi $1,$0,9   (skipped: branch lands past this)
		0x20010011, // addi $1,$0,17  (branch target)
	})
	in.Step(0) // beq: sets up delay slot
	in.Step(0) // delay slot: addi $1,$0,7
	if in.Arch.GPR[1] != 7 {
		t.Fatalf("got $1=%d, want 7 (delay slot must execute)", in.Arch.GPR[1])
	}
	if in.Arch.PC != resetVector+12 {
		t.Fatalf("got pc=%#x, want branch target %#x", in.Arch.PC, resetVector+12)
	}
}

// TestUnalignedLoad is scenario S4.
func TestUnalignedLoad(t *testing.T) {
	in := newTestInterp(t, []uint32{
		0x8C010001, // lw $1, 1($0)
	})
	pc := in.Arch.PC
	in.Step(0)
	if in.Arch.CP0.Cause&0x7c>>2 != uint32(cp0.ExcAdEL) {
		t.Errorf("expected AdEL, cause=%#x", in.Arch.CP0.Cause)
	}
	if in.Arch.CP0.EPC != pc {
		t.Errorf("got epc=%#x, want %#x", in.Arch.CP0.EPC, pc)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	in := newTestInterp(t, []uint32{
		0x3C04DEAD, // lui $4, 0xDEAD
		0x3484BEEF, // ori $4, $4, 0xBEEF  -> $4 = 0xDEADBEEF
		0xAC040010, // sw $4, 16($0)
		0x8C020010, // lw $2, 16($0)
	})
	for i := 0; i < 4; i++ {
		in.Step(0)
	}
	if in.Arch.GPR[2] != 0xDEADBEEF {
		t.Errorf("got $2=%#x, want 0xDEADBEEF", in.Arch.GPR[2])
	}
}

func TestMultThenMflo(t *testing.T) {
	in := newTestInterp(t, []uint32{
		0x34017D00, // ori $1, $0, 0x7D00
		0x34020002, // ori $2, $0, 2
		0x00220018, // mult $1, $2
		0x00004012, // mflo $8
	})
	for i := 0; i < 4; i++ {
		in.Step(0)
	}
	if in.Arch.GPR[8] != 0x7D00*2 {
		t.Errorf("got $8=%#x, want %#x", in.Arch.GPR[8], 0x7D00*2)
	}
}
