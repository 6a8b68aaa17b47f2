/*
 * mipsdiff - diffengine: the differential-testing control loop.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package diffengine drives the REF interpreter one retire at a time,
// pairing it against a DUT-supplied snapshot, reconciling interrupt timing,
// and comparing architectural state at every commit boundary.
package diffengine

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/mipsdiff/ftrace"
	"github.com/rcornwell/mipsdiff/isa"
	"github.com/rcornwell/mipsdiff/mtrace"
	"github.com/rcornwell/mipsdiff/simstate"
)

// maxIntDelay is the number of REF steps a pending interrupt may go
// unacknowledged by the DUT before the engine gives up on it (spec §4.7,
// §8 invariant 6).
const maxIntDelay = 32

// DiffSnapshot is what the DUT exposes after a retire.
type DiffSnapshot struct {
	PC     uint32
	GPR    [32]uint32
	HI, LO uint32
}

// Engine pairs a REF interpreter against DUT snapshots supplied by the
// driver loop, one retire at a time.
type Engine struct {
	Ref        *isa.Interpreter
	TerminalPC uint32
	Ftrace     *ftrace.Tracer
	Mtrace     *mtrace.Tracer
	log        *slog.Logger

	intDelay uint32
}

// New returns an Engine bound to ref, halting cleanly when REF's PC hits
// terminalPC. ft/mt may be nil.
func New(ref *isa.Interpreter, terminalPC uint32, ft *ftrace.Tracer, mt *mtrace.Tracer, log *slog.Logger) *Engine {
	return &Engine{Ref: ref, TerminalPC: terminalPC, Ftrace: ft, Mtrace: mt, log: log}
}

// Step executes one REF instruction, reconciles interrupt timing against
// the DUT-observed mycpuInt, and compares DiffSnapshot state against REF's
// own post-retire ArchState. Returns the engine's new status; the driver
// loop continues while it returns simstate.Run.
func (e *Engine) Step(dut DiffSnapshot, mycpuInt bool, extInt uint8) simstate.Status {
	if e.Ref.Arch.PC == e.TerminalPC {
		simstate.Set(simstate.End)
		return simstate.End
	}

	nemuInt := e.Ref.Arch.CP0.PendingIRQMaskedByStatus()
	ist := e.Ref.Step(extInt)

	e.trace(ist)

	if st := e.reconcile(mycpuInt, nemuInt); st != simstate.Run {
		return st
	}

	if st := e.compare(dut, ist); st != simstate.Run {
		return st
	}

	return simstate.Run
}

// trace emits this retire's ftrace/mtrace side-records: a shadow call-stack
// push/pop on jal/jalr/jr-to-$ra, and a read/write log line for whatever
// data access loadWord/storeWord (etc.) made. Purely diagnostic — neither
// tracer ever changes the engine's status.
func (e *Engine) trace(ist isa.InstState) {
	if e.Ftrace != nil {
		switch ist.Flag {
		case isa.FlagCall:
			e.Ftrace.OnCall(ist.PC, ist.CallTo, ist.SNPC+4)
		case isa.FlagReturn:
			if err := e.Ftrace.OnRet(ist.PC, ist.RetTo); err != nil && e.log != nil {
				e.log.Warn("diffengine: ftrace call/return mismatch", "error", err)
			}
		}
	}

	if e.Mtrace != nil {
		if acc := e.Ref.LastAccess(); acc.Valid {
			if acc.Write {
				e.Mtrace.WriteMtrace(acc.Addr, acc.Info, acc.Value)
			} else {
				e.Mtrace.ReadMtrace(acc.Addr, acc.Info, acc.Value)
			}
		}
	}
}

// reconcile applies the int_delay accounting from spec §4.7 step 4: a
// pending REF interrupt the DUT hasn't acknowledged yet accumulates delay;
// exceeding maxIntDelay aborts. A DUT-asserted interrupt REF never saw
// pending is an immediate abort.
func (e *Engine) reconcile(mycpuInt, nemuInt bool) simstate.Status {
	if !mycpuInt {
		if nemuInt {
			e.intDelay++
		}
		if e.intDelay >= maxIntDelay {
			e.abort("interrupt wait trigger too long")
			return simstate.Abort
		}
		return simstate.Run
	}
	if !nemuInt {
		e.abort("DUT asserted an interrupt REF did not see pending")
		return simstate.Abort
	}
	e.intDelay = 0
	return simstate.Run
}

func (e *Engine) compare(dut DiffSnapshot, ist isa.InstState) simstate.Status {
	ref := e.Ref.Arch
	mismatches := make([]string, 0)

	if dut.PC != ref.PC {
		mismatches = append(mismatches, fmt.Sprintf("pc: dut=%#08x ref=%#08x", dut.PC, ref.PC))
	}
	for i := 0; i < 32; i++ {
		if dut.GPR[i] != ref.GPR[i] {
			mismatches = append(mismatches, fmt.Sprintf("$%d: dut=%#08x ref=%#08x", i, dut.GPR[i], ref.GPR[i]))
		}
	}
	if ist.HiloValid {
		if dut.HI != ref.HI {
			mismatches = append(mismatches, fmt.Sprintf("hi: dut=%#08x ref=%#08x", dut.HI, ref.HI))
		}
		if dut.LO != ref.LO {
			mismatches = append(mismatches, fmt.Sprintf("lo: dut=%#08x ref=%#08x", dut.LO, ref.LO))
		}
	}

	if len(mismatches) == 0 {
		return simstate.Run
	}

	if e.log != nil {
		for _, m := range mismatches {
			e.log.Error("diff mismatch", "detail", m)
		}
	}
	simstate.Set(simstate.Abort)
	return simstate.Abort
}

func (e *Engine) abort(reason string) {
	if e.log != nil {
		e.log.Error("diffengine abort", "reason", reason)
	}
	simstate.Set(simstate.Abort)
}
