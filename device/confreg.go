/*
 * mipsdiff - Confreg: benchmark-switch and LED config register device.
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

// Package device implements the two devices attached to the boot/kernel
// SoC variants: Confreg (benchmark switch + LEDs) and Uart8250 (transmit
// only, from the simulator's perspective).
package device

import (
	"log/slog"

	"github.com/rcornwell/mipsdiff/bus"
)

// Register offsets inside Confreg's 64KiB window.
const (
	ConfregSwitch  = 0x00 // benchmark switch, set by the driver via SetSwitch
	ConfregLED     = 0x04 // LED output, guest-writable; reads return the last value written
	ConfregNumTick = 0x08 // free-running tick counter, advanced by Tick
)

// Confreg is a minimal config-register block: a switch the driver can set
// from outside (selecting which benchmark iteration is running), an LED
// register the guest can write for diagnostics, and a tick counter the SoC
// advances once per DualSoC.Tick call.
type Confreg struct {
	log      *slog.Logger
	switches uint32
	leds     uint32
	ticks    uint32
}

// NewConfreg returns a Confreg with all registers cleared.
func NewConfreg() *Confreg {
	return &Confreg{}
}

func (c *Confreg) SetLogger(log *slog.Logger) { c.log = log }

// SetSwitch is called by the driver between benchmark runs; it is not a
// guest-visible bus operation.
func (c *Confreg) SetSwitch(value uint8) {
	c.switches = uint32(value)
}

func (c *Confreg) Tick() {
	c.ticks++
}

func (c *Confreg) Read(offset uint32, _ bus.BusInfo) (uint32, error) {
	switch offset &^ 3 {
	case ConfregSwitch:
		return c.switches, nil
	case ConfregLED:
		return c.leds, nil
	case ConfregNumTick:
		return c.ticks, nil
	default:
		return 0, nil
	}
}

func (c *Confreg) Write(offset uint32, info bus.BusInfo, data uint32) error {
	if offset&^3 != ConfregLED {
		// Switches and the tick counter are not guest-writable; ignore
		// silently the way the 8250's reserved registers do.
		return nil
	}
	mask := writeEnableMask(info.WriteEnable)
	c.leds = (c.leds &^ mask) | ((data << ((offset & 3) * 8)) & mask)
	return nil
}
