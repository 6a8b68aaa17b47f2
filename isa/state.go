/*
 * mipsdiff - isa: MIPS32 architectural state and the decode/execute core.
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

// Package isa is the MIPS32 architectural reference interpreter: decode,
// execute, exception delivery, and the load/store path through a bus.Device
// map. It is the "REF" side of the differential-testing harness.
package isa

import "github.com/rcornwell/mipsdiff/cp0"

// Flag tags the kind of control transfer an instruction performed, driving
// ftrace's call/return shadow stack.
type Flag uint8

const (
	FlagNone Flag = iota
	FlagCall
	FlagReturn
)

// Status mirrors sim_status_t: what the interpreter believes happened on
// the last Step.
type Status uint8

const (
	StatusRun Status = iota
	StatusEnd
	StatusAbort
)

// ArchState is the architecturally visible register file: general
// registers, HI/LO, PC, the LL reservation bit, and CP0.
type ArchState struct {
	PC     uint32
	GPR    [32]uint32
	HI, LO uint32
	LLBit  bool
	CP0    *cp0.CP0
}

// Reset restores ArchState to its power-on values.
func (a *ArchState) Reset(pc uint32) {
	a.PC = pc
	a.GPR = [32]uint32{}
	a.HI, a.LO = 0, 0
	a.LLBit = false
	a.CP0.Restart()
}

// InstState is per-retire scratch space rebuilt on every Step.
type InstState struct {
	PC          uint32
	SNPC        uint32
	DNPC        uint32
	Inst        uint32
	IsDelaySlot bool
	Flag        Flag
	CallTo      uint32 // valid when Flag == FlagCall
	RetTo       uint32 // valid when Flag == FlagReturn
	HiloValid   bool   // true if this retire wrote HI/LO and it's diff-comparable
	Status      Status
	eretTaken   bool // eret overrides the normal dnpc/delay-slot bookkeeping
}

// delayState carries the "next instruction is a delay slot" signal from one
// Step to the next, exactly mirroring next_is_delay_slot/delay_slot_npc in
// the reference sources.
type delayState struct {
	pending bool
	npc     uint32
}
