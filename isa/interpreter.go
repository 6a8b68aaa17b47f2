package isa

import (
	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/cp0"
)

// Interpreter is the REF model: architectural state plus the bus it
// fetches and accesses memory through.
type Interpreter struct {
	Arch  *ArchState
	bus   *bus.PaddrBus
	delay delayState

	lastAccess MemAccess
}

// New builds an Interpreter over the given physical bus, with its own CP0
// and register file, reset to fetch from pc.
func New(b *bus.PaddrBus, pc uint32) *Interpreter {
	in := &Interpreter{
		Arch: &ArchState{CP0: cp0.New()},
		bus:  b,
	}
	in.Arch.Reset(pc)
	return in
}

// Step executes exactly one instruction and returns its InstState, per the
// contract in the interpreter's design: snapshot pc, fetch (which may raise
// AdEL on a misaligned pc), then only once the fetch succeeds check for a
// pending interrupt, then decode+execute, then land pc at dnpc. This mirrors
// original_source's isa_exec_once: the fetch happens inside the fallible
// section before has_int is ever tested, so a misaligned fetch always wins
// the race against a pending interrupt.
func (in *Interpreter) Step(extInt uint8) InstState {
	var ist InstState
	ist.PC = in.Arch.PC
	ist.SNPC = ist.PC
	ist.IsDelaySlot = in.delay.pending
	in.delay.pending = false
	in.lastAccess = MemAccess{}

	in.Arch.CP0.TickAndInt(extInt)

	fetchPC := ist.PC
	word, f := in.fetchWord(fetchPC)
	if f != noFault {
		in.raise(&ist, f)
		return ist
	}
	ist.Inst = word

	ist.SNPC = fetchPC + 4
	if ist.IsDelaySlot {
		ist.DNPC = in.delay.npc
	} else {
		ist.DNPC = ist.SNPC
	}

	if in.Arch.CP0.PendingIRQMaskedByStatus() {
		vec := in.Arch.CP0.RaiseIntr(cp0.ExcInt, ist.PC, ist.IsDelaySlot)
		in.Arch.LLBit = false
		in.Arch.PC = vec
		ist.DNPC = vec
		ist.Status = StatusRun
		return ist
	}

	_, exec := decode(word)
	if f := exec(in, &ist, word); f != noFault {
		in.raise(&ist, f)
		return ist
	}

	if !ist.eretTaken {
		in.Arch.GPR[0] = 0
		in.Arch.PC = ist.DNPC
	}
	ist.Status = StatusRun
	return ist
}

// raise enters a CP0 exception for fault f, which is always a valid
// coprocessor exception code (never noFault — callers check first).
func (in *Interpreter) raise(ist *InstState, f fault) {
	vec := in.Arch.CP0.RaiseIntr(uint8(f), ist.PC, ist.IsDelaySlot)
	in.delay.pending = false
	in.Arch.LLBit = false
	in.Arch.PC = vec
	ist.DNPC = vec
	ist.Status = StatusRun
}
