/*
 * mipsdiff - Configuration file parser
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

// Package config reads an optional ".cfg" override file: SoC base
// addresses, RAM size, and the wired TLB count. Absent a file, every field
// keeps the dualsoc/cp0 package defaults. The mipsdiff command applies
// only RAMSize; ConfregBase, UartBase and WiredTLB are parsed and stored
// but not applied to the SoC or CP0.
//
// Format, one "key value" pair per line:
//
//	# comment
//	ram_size      0x8000000
//	confreg_base  0x1FAF0000
//	uart_base     0x1FE40000
//	wired_tlb     2
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds every override a .cfg file may set. Zero value means "use
// the package default".
type Config struct {
	RAMSize     uint32
	ConfregBase uint32
	UartBase    uint32
	WiredTLB    uint32
}

// Load reads and parses the override file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse scans r line by line, same hand-rolled scanner idiom as the rest
// of this codebase's config tooling: '#' starts a comment, blank lines are
// skipped, and each remaining line is "key value".
func Parse(r io.Reader) (Config, error) {
	var cfg Config
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return Config{}, fmt.Errorf("config: line %d: expected \"key value\", got %q", lineNo, line)
		}
		if err := cfg.set(fields[0], fields[1]); err != nil {
			return Config{}, fmt.Errorf("config: line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func (c *Config) set(key, value string) error {
	n, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return fmt.Errorf("bad value for %s: %w", key, err)
	}
	switch key {
	case "ram_size":
		c.RAMSize = uint32(n)
	case "confreg_base":
		c.ConfregBase = uint32(n)
	case "uart_base":
		c.UartBase = uint32(n)
	case "wired_tlb":
		c.WiredTLB = uint32(n)
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
