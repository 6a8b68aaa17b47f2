/*
 * mipsdiff - Process-wide simulation status.
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

// Package simstate holds the single process-wide run status that the
// driver loop, the SIGINT handler, and the DiffEngine all observe and set.
// The simulator is single-threaded and synchronous, so a package-level
// variable (mirroring the teacher's global sysCPU-style state) is
// sufficient; there is never more than one writer.
package simstate

// Status is the run state of the differential simulation.
type Status int

const (
	Run   Status = iota // still running
	Stop                // breakpoint or watchpoint hit
	Abort               // difftest mismatch or memory/bus error
	End                 // reached a configured terminal PC
	Int                 // SIGINT observed, winding down cooperatively
)

func (s Status) String() string {
	switch s {
	case Run:
		return "RUN"
	case Stop:
		return "STOP"
	case Abort:
		return "ABORT"
	case End:
		return "END"
	case Int:
		return "INT"
	default:
		return "UNKNOWN"
	}
}

// Current holds the process-wide status. Set returns the previous value.
var Current Status = Run

// Set installs a new status and returns the one it replaced.
func Set(s Status) Status {
	prev := Current
	Current = s
	return prev
}

// Reset puts the status back to Run, used between benchmark runs.
func Reset() {
	Current = Run
}
