/*
 * mipsdiff - driver: the benchmark/switch-value loop wiring DiffEngine to
 * a DUT and a pair of SoC device maps.
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

// Package driver runs the benchmark/switch-value loop: for each configured
// switch value it drives the DiffEngine, retire by retire, until the run
// ends, aborts, or is interrupted, then maps the terminal simstate.Status
// to a process exit code. Deliberately a plain synchronous for loop, not
// the teacher's goroutine+channel core.Start() pattern: spec's concurrency
// model is single-threaded.
package driver

import (
	"log/slog"

	"github.com/rcornwell/mipsdiff/diffengine"
	"github.com/rcornwell/mipsdiff/dualsoc"
	"github.com/rcornwell/mipsdiff/ftrace"
	"github.com/rcornwell/mipsdiff/isa"
	"github.com/rcornwell/mipsdiff/mtrace"
	"github.com/rcornwell/mipsdiff/simstate"
)

// DUT is the harness's only contract with the device under test: one
// retired instruction's committed architectural state, and whether it is
// currently asserting the external interrupt line. The DUT itself, and
// whatever DPI shim drives real RTL, are out of scope for this module.
type DUT interface {
	Step(extInt uint8) (diffengine.DiffSnapshot, bool)
}

// Config parameterizes one driver run. The caller builds and seeds (loads
// the benchmark image into) the SoC up front, since the DUT-side bus it
// contains must be the same object the caller's DUT implementation steps
// against — driver only ever reads it for device ticking and UART compare.
type Config struct {
	StartPC      uint32
	TerminalPC   uint32
	SwitchValues []uint8
	MaxTicks     uint64
	Log          *slog.Logger
}

// Process exit codes, per spec.md §6.
const (
	ExitClean     = 0
	ExitAbort     = 1
	ExitSigInt    = 130
	exitUnhandled = 2
)

// Run builds the REF interpreter over ds.Ref.Bus and drives DiffEngine,
// against dut, over every configured switch value. ds must already carry
// the benchmark image (both sides loaded by the caller); it returns the
// process exit code appropriate to the terminal simstate.Status.
func Run(cfg Config, ds *dualsoc.DualSoc, dut DUT, funcSyms []ftrace.FuncSym) int {
	startPC := cfg.StartPC
	if startPC == 0 {
		startPC = dualsoc.BootROMBase
	}
	ref := isa.New(ds.Ref.Bus, startPC)
	ft := ftrace.New(funcSyms)
	mt := mtrace.New(cfg.Log)
	eng := diffengine.New(ref, cfg.TerminalPC, ft, mt, cfg.Log)

	switchValues := cfg.SwitchValues
	if len(switchValues) == 0 {
		switchValues = []uint8{0}
	}

	simstate.Reset()
	var ticks uint64
	lastStatus := simstate.Run
	for _, sw := range switchValues {
		ds.SetSwitch(sw)

		for {
			if simstate.Current == simstate.Int {
				return ExitSigInt
			}
			if cfg.MaxTicks != 0 && ticks >= cfg.MaxTicks {
				if cfg.Log != nil {
					cfg.Log.Warn("driver: max-ticks bound reached", "ticks", ticks)
				}
				return ExitAbort
			}

			snapshot, mycpuInt := dut.Step(0)
			status := eng.Step(snapshot, mycpuInt, 0)
			ds.Tick()
			ticks++

			if _, _, ok := ds.CompareUART(); !ok {
				if cfg.Log != nil {
					cfg.Log.Error("driver: UART output diverged")
				}
				simstate.Set(simstate.Abort)
				status = simstate.Abort
			}

			if status != simstate.Run {
				lastStatus = status
				break
			}
		}

		if lastStatus == simstate.Abort || lastStatus == simstate.Int {
			break
		}
		simstate.Reset()
	}

	return exitForStatus(lastStatus)
}

func exitForStatus(s simstate.Status) int {
	switch s {
	case simstate.End, simstate.Stop, simstate.Run:
		return ExitClean
	case simstate.Abort:
		return ExitAbort
	case simstate.Int:
		return ExitSigInt
	default:
		return exitUnhandled
	}
}
