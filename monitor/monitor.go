/*
 * mipsdiff - Interactive "sdb" debug monitor, REF-side only.
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

// Package monitor is an optional "-i" driver mode: a readline-backed
// command shell that single-steps the REF model for triage. It is a
// convenience wrapper around diffengine/isa, never a substitute for the
// DiffEngine's own automatic pass/fail loop.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/mipsdiff/diffengine"
	"github.com/rcornwell/mipsdiff/isa"
	"github.com/rcornwell/mipsdiff/simstate"
)

// Monitor wraps a REF interpreter (and, optionally, the DiffEngine driving
// it against a DUT) with an interactive command loop.
type Monitor struct {
	Ref *isa.Interpreter
	Eng *diffengine.Engine
}

type cmd struct {
	name    string
	min     int
	process func(*Monitor, *cmdLine) (bool, error)
}

var cmdList = []cmd{
	{name: "continue", min: 1, process: cmdContinue},
	{name: "si", min: 2, process: cmdStep},
	{name: "info", min: 1, process: cmdInfo},
	{name: "x", min: 1, process: cmdExamine},
	{name: "p", min: 1, process: cmdPrint},
	{name: "help", min: 1, process: cmdHelp},
	{name: "quit", min: 1, process: cmdQuit},
}

type cmdLine struct {
	line string
	pos  int
}

func (c *cmdLine) isEOL() bool { return c.pos >= len(c.line) }

func (c *cmdLine) skipSpace() {
	for !c.isEOL() && c.line[c.pos] == ' ' {
		c.pos++
	}
}

func (c *cmdLine) getWord() string {
	c.skipSpace()
	start := c.pos
	for !c.isEOL() && c.line[c.pos] != ' ' {
		c.pos++
	}
	return c.line[start:c.pos]
}

// matchList returns every command whose name has name as a prefix at
// least min characters long, exactly the teacher's prefix-dispatch idiom.
func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if len(name) < c.min || len(name) > len(c.name) {
			continue
		}
		if c.name[:len(name)] == name {
			out = append(out, c)
		}
	}
	return out
}

// ProcessCommand dispatches one command line; the bool return is true
// when the monitor should exit.
func (m *Monitor) ProcessCommand(line string) (bool, error) {
	cl := &cmdLine{line: line}
	name := cl.getWord()
	if name == "" {
		return false, nil
	}
	match := matchList(name)
	switch len(match) {
	case 0:
		return false, fmt.Errorf("unknown command: %s", name)
	case 1:
		return match[0].process(m, cl)
	default:
		return false, fmt.Errorf("ambiguous command: %s", name)
	}
}

// Run starts the readline loop. It returns when the user quits or aborts
// (Ctrl-D/Ctrl-C).
func (m *Monitor) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		var out []string
		for _, c := range matchList(in) {
			out = append(out, c.name)
		}
		return out
	})

	for {
		input, err := line.Prompt("mipsdiff> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			return err
		}
		line.AppendHistory(input)
		quit, cmdErr := m.ProcessCommand(input)
		if cmdErr != nil {
			fmt.Println("error: " + cmdErr.Error())
		}
		if quit {
			return nil
		}
	}
}

func cmdQuit(_ *Monitor, _ *cmdLine) (bool, error) { return true, nil }

func cmdHelp(_ *Monitor, _ *cmdLine) (bool, error) {
	fmt.Println("commands: continue, si [n], info r, x n addr, p expr, help, quit")
	return false, nil
}

func cmdContinue(m *Monitor, _ *cmdLine) (bool, error) {
	if m.Eng == nil {
		return false, errors.New("continue requires a DiffEngine-driven session")
	}
	for {
		status := simstate.Current
		if status == simstate.End || status == simstate.Abort || status == simstate.Int {
			break
		}
		m.Eng.Step(diffengine.DiffSnapshot{}, false, 0)
	}
	return false, nil
}

func cmdStep(m *Monitor, cl *cmdLine) (bool, error) {
	n := 1
	if w := cl.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil {
			return false, fmt.Errorf("bad step count %q: %w", w, err)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		ist := m.Ref.Step(0)
		fmt.Printf("pc=%#08x inst=%#08x\n", ist.PC, ist.Inst)
	}
	return false, nil
}

func cmdInfo(m *Monitor, cl *cmdLine) (bool, error) {
	what := cl.getWord()
	if what != "r" && what != "registers" {
		return false, fmt.Errorf("unknown info topic: %s", what)
	}
	a := m.Ref.Arch
	fmt.Printf("pc=%#08x hi=%#08x lo=%#08x\n", a.PC, a.HI, a.LO)
	for i := 0; i < 32; i += 4 {
		fmt.Printf("$%-2d=%#08x $%-2d=%#08x $%-2d=%#08x $%-2d=%#08x\n",
			i, a.GPR[i], i+1, a.GPR[i+1], i+2, a.GPR[i+2], i+3, a.GPR[i+3])
	}
	fmt.Printf("status=%#08x cause=%#08x epc=%#08x\n", a.CP0.Status, a.CP0.Cause, a.CP0.EPC)
	return false, nil
}

func cmdExamine(m *Monitor, cl *cmdLine) (bool, error) {
	nStr := cl.getWord()
	addrStr := cl.getWord()
	n, err := strconv.Atoi(nStr)
	if err != nil {
		return false, fmt.Errorf("bad count %q: %w", nStr, err)
	}
	addr, err := parseNumber(addrStr)
	if err != nil {
		return false, err
	}
	for i := 0; i < n; i++ {
		a := addr + uint32(i)*4
		v, err := m.Ref.ReadWord(a)
		if err != nil {
			return false, fmt.Errorf("read %#08x: %w", a, err)
		}
		fmt.Printf("%#08x: %#08x\n", a, v)
	}
	return false, nil
}

func cmdPrint(m *Monitor, cl *cmdLine) (bool, error) {
	expr := strings.TrimSpace(cl.line[cl.pos:])
	v, err := evalExpr(m, expr)
	if err != nil {
		return false, err
	}
	fmt.Printf("%s = %#08x (%d)\n", expr, v, v)
	return false, nil
}

func evalExpr(m *Monitor, expr string) (uint32, error) {
	switch expr {
	case "pc":
		return m.Ref.Arch.PC, nil
	case "hi":
		return m.Ref.Arch.HI, nil
	case "lo":
		return m.Ref.Arch.LO, nil
	}
	if strings.HasPrefix(expr, "$") {
		n, err := strconv.Atoi(expr[1:])
		if err != nil || n < 0 || n > 31 {
			return 0, fmt.Errorf("bad register %q", expr)
		}
		return m.Ref.Arch.GPR[n], nil
	}
	return parseNumber(expr)
}

func parseNumber(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", s, err)
	}
	return uint32(n), nil
}
