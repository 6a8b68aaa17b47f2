/*
 * mipsdiff - Bus device interface.
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

// Device is implemented by anything that can be attached to a PaddrBus.
// Read and Write receive an address already reduced to the device's own
// offset (addr & range.Mask) by the bus.
type Device interface {
	Read(offset uint32, info BusInfo) (uint32, error)
	Write(offset uint32, info BusInfo, data uint32) error

	// SetLogger installs the logger the bus owner wants this device to use
	// for diagnostics. Devices treat it as a capability handle, never as
	// something they own the lifetime of.
	SetLogger(log *slog.Logger)

	// Tick advances any internal device clock by one step (e.g. the
	// config-register tick counter). Devices with no internal clock,
	// such as the transmit-only UART, implement it as a no-op.
	Tick()
}

// ErrOutOfBound is returned by PaddrBus when no device claims an address.
type ErrOutOfBound struct {
	Addr uint32
	Size uint8
	Op   string // "read" or "write"
}

func (e *ErrOutOfBound) Error() string {
	return fmt.Sprintf("%s addr %#08x %d bytes out of bound", e.Op, e.Addr, e.Size)
}
