/*
 * mipsdiff - mtrace: human-readable memory-access logging.
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

// Package mtrace formats memory accesses as debug-level log records. It
// never influences pass/fail; it is purely diagnostic.
package mtrace

import (
	"log/slog"
	"strings"

	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/util/hex"
)

// Tracer writes formatted read/write records to a logger. A nil logger
// makes every call a no-op, so callers need not guard each call.
type Tracer struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Tracer {
	return &Tracer{log: log}
}

// ReadMtrace logs a completed read: address, size, and the value with
// unselected bytes (beyond info.Size) shown as "--".
func (t *Tracer) ReadMtrace(addr uint32, info bus.BusInfo, value uint32) {
	if t.log == nil {
		return
	}
	we := sizeToEnable(info.Size)
	var b strings.Builder
	hex.FormatByteEnable(&b, value, we)
	t.log.Debug("mtrace read", "addr", formatAddr(addr), "size", info.Size, "value", b.String())
}

// WriteMtrace logs a completed write, using the access's actual
// write-enable mask so a partial-word store only shows the lanes that
// carried data.
func (t *Tracer) WriteMtrace(addr uint32, info bus.BusInfo, value uint32) {
	if t.log == nil {
		return
	}
	var b strings.Builder
	hex.FormatByteEnable(&b, value<<((addr&3)*8), info.WriteEnable)
	t.log.Debug("mtrace write", "addr", formatAddr(addr), "size", info.Size, "value", b.String())
}

func sizeToEnable(size uint8) uint8 {
	switch size {
	case 1:
		return 0x1
	case 2:
		return 0x3
	default:
		return 0xf
	}
}

func formatAddr(addr uint32) string {
	var b strings.Builder
	hex.FormatWord(&b, []uint32{addr})
	return strings.TrimSpace(b.String())
}
