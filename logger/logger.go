/*
 * mipsdiff - Wrapper for slog
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

// Package logger renders "[file:line func] message" ANSI-colored log
// lines and names the two loggers the harness distinguishes: NJemu (the
// REF interpreter) and MyCPU (the DUT side).
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const (
	colorReset = "\x1b[0m"
	colorGray  = "\x1b[90m"
	colorCyan  = "\x1b[36m"
	colorRed   = "\x1b[31m"
	colorBlue  = "\x1b[34m"
)

// Handler renders Source-annotated records as "[file:line func] message
// attr=value ...", colored by level.
type Handler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	color bool
	name  string
}

// NewHandler builds a Handler writing to out at the given level. color
// enables ANSI escape codes; pass false for non-terminal sinks (log files,
// CI).
func NewHandler(out io.Writer, level slog.Leveler, color bool) *Handler {
	return &Handler{out: out, mu: &sync.Mutex{}, level: level, color: color}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *Handler) WithGroup(_ string) slog.Handler      { return h }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	file, line, fn := "???", 0, "???"
	if r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := frames.Next()
		if f.File != "" {
			file = filepath.Base(f.File)
			line = f.Line
			fn = filepath.Base(f.Function)
		}
	}

	var b strings.Builder
	levelColor := h.colorFor(r.Level)
	if h.color {
		b.WriteString(levelColor)
	}
	if h.name != "" {
		fmt.Fprintf(&b, "[%s] ", h.name)
	}
	fmt.Fprintf(&b, "[%s:%d %s] %s", file, line, fn, r.Message)
	if h.color {
		b.WriteString(colorReset)
	}

	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) colorFor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorBlue
	case level >= slog.LevelInfo:
		return colorReset
	default:
		return colorGray
	}
}

// named returns a copy of h tagged with a logger name, used by New to
// distinguish NJemu (REF) from MyCPU (DUT) lines sharing one sink.
func (h *Handler) named(name string) *Handler {
	cp := *h
	cp.name = name
	return &cp
}

// Names the two loggers the differential harness distinguishes.
const (
	NameRef = "NJemu"
	NameDut = "MyCPU"
)

// New builds the REF ("NJemu") and DUT ("MyCPU") loggers sharing one
// output sink and level, matching spec.md §6's log-format contract.
func New(out io.Writer, level slog.Leveler, color bool) (ref, dut *slog.Logger) {
	h := NewHandler(out, level, color)
	return slog.New(h.named(NameRef)), slog.New(h.named(NameDut))
}

// Default builds loggers writing to stderr at LevelInfo with color enabled,
// for callers that don't need a custom sink.
func Default() (ref, dut *slog.Logger) {
	return New(os.Stderr, slog.LevelInfo, true)
}
