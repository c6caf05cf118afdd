/*
 * PRC68K - Per-line listing assembly.
 *
 * Copyright 2025, PRC68K Authors
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

// Package listing builds the pass-2 listing file of spec §6.5: one line
// per source line, an 8-hex-digit address, up to 31 characters of emitted
// object code (or an `=value`/`=typename` annotation for EQU/SET/TYPEDEF
// lines), the source line number, and the source text.
package listing

import (
	"fmt"
	"strings"

	"github.com/rcornwell/prc68k/util/hex"
)

// codeColumnWidth is the object-code field's width in characters before a
// line must continue or elide, per spec §6.5.
const codeColumnWidth = 31

// Entry is one source line's worth of listing output.
type Entry struct {
	Addr       uint32
	Bytes      []byte
	LineNo     int
	Text       string
	Annotation string // "=value" or "=typename"; empty for ordinary lines
}

// File accumulates Entries across pass 2 and renders them to text.
type File struct {
	Entries  []Entry
	Continue bool // -c: continue overflowing object code instead of eliding
}

// Add records one source line's listing entry.
func (f *File) Add(e Entry) {
	f.Entries = append(f.Entries, e)
}

// Render produces the full listing text.
func (f *File) Render() string {
	var b strings.Builder
	for _, e := range f.Entries {
		renderEntry(&b, e, f.Continue)
	}
	return b.String()
}

func renderEntry(b *strings.Builder, e Entry, cont bool) {
	code := e.Annotation
	if code == "" {
		code = groupedHex(e.Bytes)
	}

	first, rest := splitCodeColumn(code, cont)
	fmt.Fprintf(b, "%08X %-*s %5d %s\n", e.Addr, codeColumnWidth, first, e.LineNo, e.Text)
	for _, chunk := range rest {
		fmt.Fprintf(b, "%8s %-*s\n", "", codeColumnWidth, chunk)
	}
}

// splitCodeColumn returns the first codeColumnWidth-character chunk of code
// plus any continuation chunks; without -c, overflow is elided with a
// single "..." marker instead of being split across lines.
func splitCodeColumn(code string, cont bool) (first string, rest []string) {
	if len(code) <= codeColumnWidth {
		return code, nil
	}
	if !cont {
		return code[:codeColumnWidth-3] + "...", nil
	}
	first = code[:codeColumnWidth]
	remaining := code[codeColumnWidth:]
	for len(remaining) > 0 {
		n := codeColumnWidth
		if n > len(remaining) {
			n = len(remaining)
		}
		rest = append(rest, remaining[:n])
		remaining = remaining[n:]
	}
	return first, rest
}

// groupedHex renders bytes as space-separated word-sized (2-byte) hex
// groups, the natural emission unit for a 68000 encoder; a trailing odd
// byte stands alone.
func groupedHex(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 2 {
		b.WriteString(hex.Byte(data[i]))
		if i+1 < len(data) {
			b.WriteString(hex.Byte(data[i+1]))
		}
		if i+2 < len(data) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
