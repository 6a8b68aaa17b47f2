/*
 * mipsdiff - dualsoc: twin physical-address buses, one per model, with
 * synchronized device ticking and lockstep UART comparison.
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

package dualsoc

import (
	"bytes"
	"fmt"

	"github.com/rcornwell/mipsdiff/bus"
	"github.com/rcornwell/mipsdiff/device"
)

// SocVariant selects which device map Build assembles, per spec.md §6.
type SocVariant int

const (
	VariantBasic SocVariant = iota
	VariantBoot
	VariantKernel
)

// Memory map constants from spec.md §6's boot SoC table.
const (
	RAMBase    = 0x0000_0000
	RAMSizeDef = 128 * 1024 * 1024
	KernelRAM  = 256 * 1024 * 1024

	ConfregBase = 0x1FAF_0000
	ConfregSize = 64 * 1024

	UartBase = 0x1FE4_0000
	UartSize = 64 * 1024

	BootROMBase = 0xBFC0_0000
	BootROMSize = 128 * 1024
)

// Soc is one side's bus plus the device handles dualsoc needs direct
// access to (for switch broadcast and TX draining).
type Soc struct {
	Bus     *bus.PaddrBus
	Confreg *device.Confreg
	Uart    *device.Uart8250
	ram     *bus.RAM
}

// Build assembles a bus matching the requested SoC variant. ramSize, when
// nonzero, overrides the variant's default RAM size (config package's
// override hook).
func Build(variant SocVariant, ramSize uint32) (*Soc, error) {
	s := &Soc{Bus: bus.NewPaddrBus()}

	size := uint32(RAMSizeDef)
	if variant == VariantKernel {
		size = KernelRAM
	}
	if ramSize != 0 {
		size = ramSize
	}
	s.ram = bus.NewRAM(size)
	if err := addRange(s.Bus, RAMBase, size, s.ram); err != nil {
		return nil, fmt.Errorf("dualsoc: ram: %w", err)
	}

	// The boot ROM mirrors low RAM: the reset vector lives in kseg1 and
	// the image is loaded through it, but it decodes to the same RAM
	// device so a single LoadImage call populates both views.
	if err := addRange(s.Bus, BootROMBase, BootROMSize, s.ram); err != nil {
		return nil, fmt.Errorf("dualsoc: boot rom: %w", err)
	}

	if variant == VariantBasic {
		return s, nil
	}

	s.Confreg = device.NewConfreg()
	if err := addRange(s.Bus, ConfregBase, ConfregSize, s.Confreg); err != nil {
		return nil, fmt.Errorf("dualsoc: confreg: %w", err)
	}

	s.Uart = device.NewUart8250()
	if err := addRange(s.Bus, UartBase, UartSize, s.Uart); err != nil {
		return nil, fmt.Errorf("dualsoc: uart: %w", err)
	}

	return s, nil
}

// LoadImage populates RAM (and its boot-ROM mirror, being the same
// device) starting at byteOffset.
func (s *Soc) LoadImage(byteOffset uint32, image []byte) {
	s.ram.LoadImage(byteOffset, image)
}

func addRange(b *bus.PaddrBus, start, size uint32, dev bus.Device) error {
	rng, err := bus.NewAddrRange(start, size)
	if err != nil {
		return err
	}
	return b.AddDevice(rng, dev)
}

// DualSoc pairs a DUT-side and a REF-side Soc under identical device maps,
// per spec.md §9's preferred {dut, ref} struct shape over an enum-indexed
// array.
type DualSoc struct {
	Dut *Soc
	Ref *Soc
}

// New builds a DualSoc with isomorphic DUT/REF device maps.
func New(variant SocVariant, ramSize uint32) (*DualSoc, error) {
	dut, err := Build(variant, ramSize)
	if err != nil {
		return nil, fmt.Errorf("dualsoc: dut: %w", err)
	}
	ref, err := Build(variant, ramSize)
	if err != nil {
		return nil, fmt.Errorf("dualsoc: ref: %w", err)
	}
	return &DualSoc{Dut: dut, Ref: ref}, nil
}

// Tick advances both sides' devices in lockstep.
func (d *DualSoc) Tick() {
	d.Dut.Bus.Tick()
	d.Ref.Bus.Tick()
}

// SetSwitch broadcasts the benchmark-selection switch value to both
// Confregs, when the variant carries one.
func (d *DualSoc) SetSwitch(value uint8) {
	if d.Dut.Confreg != nil {
		d.Dut.Confreg.SetSwitch(value)
	}
	if d.Ref.Confreg != nil {
		d.Ref.Confreg.SetSwitch(value)
	}
}

// CompareUART drains both sides' UART transmit FIFOs and reports whether
// they agree byte-for-byte; a mismatch is a differential-testing failure
// per spec.md §4.6.
func (d *DualSoc) CompareUART() (dutOut, refOut []byte, ok bool) {
	if d.Dut.Uart == nil || d.Ref.Uart == nil {
		return nil, nil, true
	}
	dutOut = d.Dut.Uart.DrainTX()
	refOut = d.Ref.Uart.DrainTX()
	return dutOut, refOut, bytes.Equal(dutOut, refOut)
}
