/*
 * mipsdiff - CP0: MIPS32 system-control coprocessor state.
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

// Package cp0 implements the MIPS32 privileged coprocessor 0: the
// count/compare timer, cause/status interrupt plumbing, and the TLB.
package cp0

// TLBNR is CONFIG_TLB_NR: the number of TLB entries. 16 matches the small
// embedded MIPS32 cores this harness targets (U-Boot and the reference
// kernel both size their TLB refill handlers for it).
const TLBNR = 16

// Exception codes, MIPS32 Cause.ExcCode encoding.
const (
	ExcInt  uint8 = 0  // interrupt
	ExcMod  uint8 = 1  // TLB modified
	ExcTLBL uint8 = 2  // TLB miss, load/fetch
	ExcTLBS uint8 = 3  // TLB miss, store
	ExcAdEL uint8 = 4  // address error, load/fetch
	ExcAdES uint8 = 5  // address error, store
	ExcSys  uint8 = 8  // syscall
	ExcBp   uint8 = 9  // breakpoint
	ExcRI   uint8 = 10 // reserved instruction
	ExcCpU  uint8 = 11 // coprocessor unusable
	ExcOv   uint8 = 12 // arithmetic overflow
	ExcTr   uint8 = 13 // trap
)

// Status register bit positions relevant to this harness.
const (
	statusIE  = 1 << 0 // interrupts enabled
	statusEXL = 1 << 1 // exception level
	statusERL = 1 << 2 // error level
	statusBEV = 1 << 22
)

// Vector addresses used by exception/interrupt entry.
const (
	generalVector     = 0xBFC00380
	interruptVector   = 0xBFC00200 // only reached when Cause.IV is set
	resetVector       = 0xBFC00000
)

// TLBEntry mirrors one row of the MIPS32 TLB.
type TLBEntry struct {
	PageMask uint32
	EntryHi  uint32
	EntryLo0 uint32
	EntryLo1 uint32
}

// CP0 holds every named coprocessor-0 register from spec.md §3, plus the
// TLB array and the divide-by-two clock_tick toggle that paces Count.
type CP0 struct {
	Index    uint32
	Random   uint32
	EntryHi  uint32
	EntryLo0 uint32
	EntryLo1 uint32
	Context  uint32
	PageMask uint32
	Wired    uint32
	Count    uint32
	Compare  uint32
	Status   uint32
	Cause    uint32
	EPC      uint32
	PRId     uint32
	Config   uint32
	Config1  uint32
	TagLo    uint32
	TagHi    uint32
	ErrorEPC uint32

	TLB [TLBNR]TLBEntry

	clockTick uint8 // 0 or 1: Count advances every other REF step
}

// New returns a CP0 in its post-reset state.
func New() *CP0 {
	c := &CP0{}
	c.Restart()
	return c
}

// Restart resets CP0 to power-on values, matching the C reference's
// cp0_init: random and wired start at the top/bottom of the TLB range,
// status.BEV is set (boot exception vectors), and the core is in
// kernel mode with interrupts disabled.
func (c *CP0) Restart() {
	*c = CP0{}
	c.Random = TLBNR - 1
	c.Wired = 0
	c.Status = statusBEV
	c.PRId = 0x0001_8000 // a plausible MIPS32r1-family PRId
	c.Config = 0x8000_0080
	c.Config1 = uint32(TLBNR-1) << 25
	c.ErrorEPC = resetVector
}

// pendingIRQ computes Cause.IP[7:2], i.e. which of the external/timer
// lines currently have an interrupt request latched.
func (c *CP0) pendingIRQ() uint8 {
	return uint8((c.Cause >> 8) & 0xff)
}

// PendingIRQMaskedByStatus reports nemu_int: whether an interrupt is both
// pending and currently unmasked by Status.{IE,EXL,ERL,IM}.
func (c *CP0) PendingIRQMaskedByStatus() bool {
	if c.Status&statusEXL != 0 || c.Status&statusERL != 0 {
		return false
	}
	if c.Status&statusIE == 0 {
		return false
	}
	im := uint8((c.Status >> 8) & 0xff)
	return c.pendingIRQ()&im != 0
}

// TickAndInt runs once per REF step, before instruction execute:
//  1. Count advances every other step (clockTick toggles).
//  2. The timer line (IP[7], Cause bit 15) is sampled exactly once from
//     Count==Compare — see spec.md §9's second open question: the source
//     ORs and then reassigns the same bit, which is redundant; this
//     implementation samples timerFire a single time.
//  3. The external lines (IP[6:2]) are latched from ext_int's low 5 bits.
//  4. Random cycles from TLBNR-1 down to Wired, then wraps.
func (c *CP0) TickAndInt(extInt uint8) {
	c.Count += uint32(c.clockTick)
	c.clockTick ^= 1

	timerFire := c.Count == c.Compare
	ip := uint32(extInt&0x1f) << 10 // external IP[6:2] live in Cause bits 10-14
	if timerFire {
		ip |= 1 << 15 // IP[7], the timer interrupt line
	}
	const ipMask = 0x3fc00
	c.Cause = (c.Cause &^ ipMask) | ip

	if c.Random == c.Wired {
		c.Random = TLBNR - 1
	} else {
		c.Random--
	}
}

// RaiseIntr enters an exception: records ExcCode, saves EPC (adjusting for
// a delay slot), sets Status.EXL, and returns the PC to redirect to. The
// caller (isa) is responsible for actually assigning dnpc to the result.
func (c *CP0) RaiseIntr(code uint8, pc uint32, isDelaySlot bool) uint32 {
	if c.Status&statusEXL == 0 {
		if isDelaySlot {
			c.EPC = pc - 4
			c.Cause |= 1 << 31 // Cause.BD
		} else {
			c.EPC = pc
			c.Cause &^= 1 << 31
		}
	}
	c.Cause = (c.Cause &^ 0x7c) | (uint32(code&0x1f) << 2)
	c.Status |= statusEXL

	if code == ExcInt && c.Cause&(1<<23) != 0 { // Cause.IV
		return interruptVector
	}
	return generalVector
}

// Eret restores PC from EPC (or ErrorEPC if Status.ERL is set), clears
// Status.EXL/ERL, and returns the restored PC. Clearing the LL bit is the
// caller's responsibility since it lives in ArchState, not CP0.
func (c *CP0) Eret() uint32 {
	var pc uint32
	if c.Status&statusERL != 0 {
		pc = c.ErrorEPC
		c.Status &^= statusERL
	} else {
		pc = c.EPC
		c.Status &^= statusEXL
	}
	return pc
}

// MFC0 reads coprocessor register (rd, sel). sel is decoded only for rd 16
// (sel 1 reads Config1, any other sel reads Config); every other register
// ignores sel. Unmodeled register numbers read as 0 rather than raising RI.
func (c *CP0) MFC0(rd uint8, sel uint8) uint32 {
	switch rd {
	case 0:
		return c.Index
	case 1:
		return c.Random
	case 2:
		return c.EntryLo0
	case 3:
		return c.EntryLo1
	case 4:
		return c.Context
	case 5:
		return c.PageMask
	case 6:
		return c.Wired
	case 9:
		return c.Count
	case 10:
		return c.EntryHi
	case 11:
		return c.Compare
	case 12:
		return c.Status
	case 13:
		return c.Cause
	case 14:
		return c.EPC
	case 15:
		return c.PRId
	case 16:
		if sel == 1 {
			return c.Config1
		}
		return c.Config
	case 28:
		return c.TagLo
	case 29:
		return c.TagHi
	case 30:
		return c.ErrorEPC
	default:
		return 0
	}
}

// MTC0 writes coprocessor register (rd, sel).
func (c *CP0) MTC0(rd uint8, sel uint8, value uint32) {
	switch rd {
	case 0:
		c.Index = value & (uint32(TLBNR-1) | 0x8000_0000)
	case 2:
		c.EntryLo0 = value
	case 3:
		c.EntryLo1 = value
	case 4:
		c.Context = value
	case 5:
		c.PageMask = value
	case 6:
		c.Wired = value % TLBNR
	case 9:
		c.Count = value
	case 10:
		c.EntryHi = value
	case 11:
		c.Compare = value
		c.Cause &^= 1 << 15 // writing Compare acks the pending timer line
	case 12:
		c.Status = value
	case 13:
		c.Cause = (c.Cause &^ 0x300) | (value & 0x300) // only IP[1:0] are software-writable
	case 14:
		c.EPC = value
	case 16:
		if sel == 1 {
			c.Config1 = value
		} else {
			c.Config = value
		}
	case 28:
		c.TagLo = value
	case 29:
		c.TagHi = value
	case 30:
		c.ErrorEPC = value
	}
}
