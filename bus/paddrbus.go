/*
 * mipsdiff - Ordered physical-address device map.
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

package bus

import (
	"fmt"
	"log/slog"
)

type mapping struct {
	rng AddrRange
	dev Device
}

// PaddrBus is an ordered sequence of (AddrRange, Device) pairs. Ranges must
// be pairwise non-overlapping; lookup is linear, in insertion order, and an
// access must fit entirely inside a single range or it is rejected.
type PaddrBus struct {
	devices []mapping
	log     *slog.Logger
}

// NewPaddrBus returns an empty bus.
func NewPaddrBus() *PaddrBus {
	return &PaddrBus{log: slog.Default()}
}

// SetLogger installs the logger used for out-of-bound diagnostics and
// propagates it to every already-attached device, matching the teacher's
// "weak back-reference" device-logger capability pattern.
func (b *PaddrBus) SetLogger(log *slog.Logger) {
	b.log = log
	for _, m := range b.devices {
		m.dev.SetLogger(log)
	}
}

// AddDevice attaches dev at rng, rejecting any overlap with an existing
// range. The bus installs its logger onto the device at attach time.
func (b *PaddrBus) AddDevice(rng AddrRange, dev Device) error {
	for _, m := range b.devices {
		if m.rng.overlaps(rng) {
			return fmt.Errorf("bus: range %#08x-%#08x overlaps existing %#08x-%#08x",
				rng.Start, rng.End(), m.rng.Start, m.rng.End())
		}
	}
	dev.SetLogger(b.log)
	b.devices = append(b.devices, mapping{rng: rng, dev: dev})
	return nil
}

// find returns the mapping whose range wholly contains [addr, addr+size-1],
// or false if no single range does.
func (b *PaddrBus) find(addr uint32, size uint8) (mapping, bool) {
	for _, m := range b.devices {
		if m.rng.Start <= addr && addr+uint32(size)-1 <= m.rng.End() {
			return m, true
		}
	}
	return mapping{}, false
}

// Read decodes addr, forwards the access to the owning device, and returns
// ErrOutOfBound when no device covers the whole access.
func (b *PaddrBus) Read(addr uint32, info BusInfo) (uint32, error) {
	m, ok := b.find(addr, info.Size)
	if !ok {
		b.log.Error("read out of bound", "addr", fmt.Sprintf("%#08x", addr), "size", info.Size)
		return 0, &ErrOutOfBound{Addr: addr, Size: info.Size, Op: "read"}
	}
	return m.dev.Read(m.rng.Offset(addr), info)
}

// Write decodes addr, forwards the access to the owning device honoring
// info.WriteEnable, and returns ErrOutOfBound when no device covers it.
func (b *PaddrBus) Write(addr uint32, info BusInfo, data uint32) error {
	m, ok := b.find(addr, info.Size)
	if !ok {
		b.log.Error("write out of bound", "addr", fmt.Sprintf("%#08x", addr), "size", info.Size)
		return &ErrOutOfBound{Addr: addr, Size: info.Size, Op: "write"}
	}
	return m.dev.Write(m.rng.Offset(addr), info, data)
}

// Tick advances every attached device's internal clock by one step.
func (b *PaddrBus) Tick() {
	for _, m := range b.devices {
		m.dev.Tick()
	}
}

// Devices exposes the attached (range, device) pairs for diagnostics;
// callers must not mutate the returned slice's devices concurrently with
// bus access.
func (b *PaddrBus) Devices() []struct {
	Range AddrRange
	Dev   Device
} {
	out := make([]struct {
		Range AddrRange
		Dev   Device
	}, len(b.devices))
	for i, m := range b.devices {
		out[i] = struct {
			Range AddrRange
			Dev   Device
		}{Range: m.rng, Dev: m.dev}
	}
	return out
}
