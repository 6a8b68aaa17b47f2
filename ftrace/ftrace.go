/*
 * mipsdiff - ftrace: a shadow call/return stack checked against an ELF
 * symbol table, for diagnostic call-stack reporting.
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

package ftrace

import (
	"fmt"
	"sort"
	"strings"
)

// FuncSym is one ELF symbol-table record: the external ELF loader's only
// contract with this package is that it can hand over a slice of these.
type FuncSym struct {
	Start uint32
	End   uint32
	Name  string
}

const unknown = "???"

// frame is one pending call: where the call instruction lived and the
// return address it implied.
type frame struct {
	callAt uint32
	retTo  uint32
}

// Tracer maintains a shadow call stack validated against a sorted symbol
// table. It never fails the differential test on its own; OnRet reports a
// mismatch as an error for the caller to log.
type Tracer struct {
	syms  []FuncSym
	stack []frame
}

// New returns a Tracer over syms, which need not already be sorted.
func New(syms []FuncSym) *Tracer {
	sorted := append([]FuncSym(nil), syms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	return &Tracer{syms: sorted}
}

// Lookup returns the name of the function containing pc, or "???".
func (t *Tracer) Lookup(pc uint32) string {
	i := sort.Search(len(t.syms), func(i int) bool { return t.syms[i].Start > pc })
	if i == 0 {
		return unknown
	}
	s := t.syms[i-1]
	if pc >= s.Start && pc < s.End {
		return s.Name
	}
	return unknown
}

// OnCall pushes a frame when the interpreter decodes a call (jal/jalr).
func (t *Tracer) OnCall(callAt, callTo, retTo uint32) {
	t.stack = append(t.stack, frame{callAt: callAt, retTo: retTo})
	_ = callTo
}

// OnRet pops the top frame, verifying retTo matches what OnCall recorded.
// Reports an error (for logging, not aborting the differential test) on
// stack underflow or an address mismatch.
func (t *Tracer) OnRet(retAt, retTo uint32) error {
	if len(t.stack) == 0 {
		return fmt.Errorf("ftrace: return at %#08x with empty call stack", retAt)
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	if top.retTo != retTo {
		return fmt.Errorf("ftrace: return at %#08x went to %#08x, expected %#08x", retAt, retTo, top.retTo)
	}
	return nil
}

// CallstackInfo renders the current shadow stack for diagnostic output,
// most recent call last, e.g. "main -> foo -> bar".
func (t *Tracer) CallstackInfo(pc uint32) string {
	names := make([]string, 0, len(t.stack)+1)
	for _, f := range t.stack {
		names = append(names, t.Lookup(f.callAt))
	}
	names = append(names, t.Lookup(pc))
	return strings.Join(names, " -> ")
}

// Depth reports how many calls are currently pending, for tests and
// diagnostics.
func (t *Tracer) Depth() int { return len(t.stack) }
