/*
 * mipsdiff - Flat RAM device.
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

import "log/slog"

// RAM is a byte-addressed, little-endian-accessed word array backing a
// single AddrRange. Word offset is computed the way the teacher's flat
// memory array did (offset>>2), generalized from a fixed 4MiB table to an
// arbitrary, caller-sized store per device instance.
type RAM struct {
	words []uint32
	log   *slog.Logger
}

// NewRAM allocates size bytes (rounded down to a word) of backing store.
func NewRAM(size uint32) *RAM {
	return &RAM{words: make([]uint32, size/4)}
}

func (m *RAM) SetLogger(log *slog.Logger) { m.log = log }

func (m *RAM) Tick() {}

// Read returns size bytes at offset, little-endian, byte-enable mask is
// not meaningful for reads per BusInfo's contract.
func (m *RAM) Read(offset uint32, info BusInfo) (uint32, error) {
	word := m.words[offset>>2]
	shift := (offset & 3) * 8
	switch info.Size {
	case 1:
		return (word >> shift) & 0xff, nil
	case 2:
		return (word >> shift) & 0xffff, nil
	default:
		return word, nil
	}
}

// Write merges data into the addressed word according to info.WriteEnable,
// one bit per byte lane of the aligned word (bit 0 = lowest byte); data is
// right-justified, its low byte going to offset. A full 4-byte write with
// all lanes enabled simply replaces the word.
func (m *RAM) Write(offset uint32, info BusInfo, data uint32) error {
	idx := offset >> 2
	shift := (offset & 3) * 8
	word := m.words[idx]
	for lane := uint8(0); lane < info.Size; lane++ {
		if info.WriteEnable&(1<<(uint32(lane)+offset&3)) == 0 {
			continue
		}
		byteShift := shift + uint32(lane)*8
		word &^= 0xff << byteShift
		word |= ((data >> (lane * 8)) & 0xff) << byteShift
	}
	m.words[idx] = word
	return nil
}

// LoadImage copies a raw binary image into RAM starting at byteOffset,
// matching the way the reference loader seeds RESET_VECTOR with the
// benchmark image before the first fetch.
func (m *RAM) LoadImage(byteOffset uint32, image []byte) {
	for i := 0; i < len(image); i += 4 {
		var word uint32
		for b := 0; b < 4 && i+b < len(image); b++ {
			word |= uint32(image[i+b]) << (8 * b)
		}
		m.words[(byteOffset+uint32(i))>>2] = word
	}
}
