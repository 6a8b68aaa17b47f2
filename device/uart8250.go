/*
 * mipsdiff - Uart8250: a transmit-only, 8250-compatible serial device.
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

package device

import (
	"log/slog"

	"github.com/rcornwell/mipsdiff/bus"
)

// 8250 register offsets relevant to a transmit-only model.
const (
	uartTHR = 0x0 // transmit holding register (write)
	uartLSR = 0x5 // line status register (read)

	uartLSRTHRE = 0x20 // transmitter holding register empty
	uartLSRTEMT = 0x40 // transmitter empty (shift register idle)
)

// Uart8250 is transmit-only from the simulator's perspective: the guest
// writes characters to THR and polls LSR for THRE/TEMT. Every transmitted
// byte is appended to a FIFO the DualSoC drains to compare DUT and REF
// output byte-for-byte.
type Uart8250 struct {
	log *slog.Logger
	tx  []byte
}

// NewUart8250 returns an idle 8250 with an empty transmit FIFO.
func NewUart8250() *Uart8250 {
	return &Uart8250{}
}

func (u *Uart8250) SetLogger(log *slog.Logger) { u.log = log }

func (u *Uart8250) Tick() {}

func (u *Uart8250) Read(offset uint32, _ bus.BusInfo) (uint32, error) {
	switch offset {
	case uartLSR:
		// Transmit-only model: the holding register and shift register
		// are always immediately drained, so both empty bits are live.
		return uartLSRTHRE | uartLSRTEMT, nil
	default:
		return 0, nil
	}
}

func (u *Uart8250) Write(offset uint32, info bus.BusInfo, data uint32) error {
	if offset != uartTHR {
		return nil
	}
	if info.WriteEnable&0x1 != 0 {
		u.tx = append(u.tx, byte(data))
	}
	return nil
}

// DrainTX removes and returns every byte transmitted since the last call,
// for the DualSoC's lockstep FIFO comparison between DUT and REF.
func (u *Uart8250) DrainTX() []byte {
	out := u.tx
	u.tx = nil
	return out
}
