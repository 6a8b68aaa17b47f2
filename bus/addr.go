/*
 * mipsdiff - Physical address range and access descriptors.
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

// Package bus implements the physical-address bus: an ordered device map
// that decodes a physical address to a sub-device and forwards masked,
// byte-enabled reads and writes.
package bus

import "fmt"

// AddrRange describes a power-of-two-sized, naturally aligned interval of
// physical address space. Size is mask+1; start must be mask-aligned.
type AddrRange struct {
	Start uint32
	Mask  uint32
}

// End returns the last address belonging to the range.
func (r AddrRange) End() uint32 {
	return r.Start + r.Mask
}

// Size returns the number of bytes covered by the range.
func (r AddrRange) Size() uint32 {
	return r.Mask + 1
}

// Contains reports whether the byte at addr falls inside the range.
func (r AddrRange) Contains(addr uint32) bool {
	return addr >= r.Start && addr <= r.End()
}

// Offset returns the in-device offset of addr, valid only when Contains(addr).
func (r AddrRange) Offset(addr uint32) uint32 {
	return addr & r.Mask
}

// overlaps reports whether two ranges share any byte.
func (r AddrRange) overlaps(o AddrRange) bool {
	lo := r.Start
	if o.Start > lo {
		lo = o.Start
	}
	hi := r.End()
	if o.End() < hi {
		hi = o.End()
	}
	return lo <= hi
}

// NewAddrRange builds a range from a base and size, rounding size up is not
// performed: size must already be exactly mask+1 and a power of two.
func NewAddrRange(start, size uint32) (AddrRange, error) {
	if size == 0 || size&(size-1) != 0 {
		return AddrRange{}, fmt.Errorf("bus: size %#x is not a power of two", size)
	}
	mask := size - 1
	if start&mask != 0 {
		return AddrRange{}, fmt.Errorf("bus: start %#08x is not aligned to size %#x", start, size)
	}
	return AddrRange{Start: start, Mask: mask}, nil
}

// BusInfo describes the width and, for writes, the per-byte enable mask of
// a single bus access. Size is 1, 2 or 4 bytes; WriteEnable is meaningful
// only for writes, one bit per byte lane of the aligned word containing
// the access, starting at the low-order byte.
type BusInfo struct {
	Size        uint8
	WriteEnable uint8
}
