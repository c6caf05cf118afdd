/*
 * PRC68K - Assembler context: the single home for cross-pass state.
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

// Package asmctx collects every piece of mutable state a pass of assembly
// touches into one struct, per the design note on global mutable state:
// segment buffers, location counters, pass number, symbol table, guard
// store, source stack, expand buffer, error state, and CLI options. Every
// directive handler and the instruction encoder receive a *Context rather
// than reaching for package-level globals.
package asmctx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rcornwell/prc68k/expand"
	"github.com/rcornwell/prc68k/guard"
	"github.com/rcornwell/prc68k/srcstack"
	"github.com/rcornwell/prc68k/symtab"
)

// Segment names one of the three independent output buffers a location
// counter and write address correspond to.
type Segment int

const (
	SegCode Segment = iota
	SegData
	SegRes
)

func (s Segment) String() string {
	switch s {
	case SegCode:
		return "code"
	case SegData:
		return "data"
	case SegRes:
		return "resource"
	default:
		return "unknown"
	}
}

// Severity is the four-tier diagnostic taxonomy of spec §7.
type Severity int

const (
	SevWarning Severity = iota
	SevMinor
	SevError
	SevSevere
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevMinor:
		return "minor"
	case SevError:
		return "error"
	case SevSevere:
		return "severe"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported condition, tagged with the source position it
// concerns and the severity that governs whether assembly of the current
// line continues.
type Diagnostic struct {
	Pos      srcstack.Position
	Severity Severity
	Tag      string // e.g. "PHASE_ERROR", "INV_ADDR_MODE"
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s: %s", d.Pos, d.Severity, d.Tag, d.Message)
}

// Options mirrors the CLI flags of spec §6.1.
type Options struct {
	ExpandDC     bool   // -c
	Listing      bool   // -l
	Verbose      bool   // -d
	ResourceOnly bool   // -r
	MacsbugSyms  bool   // -s
	DBType       string // -t, default "appl"
}

// DefaultOptions returns the flag defaults named in spec §6.1.
func DefaultOptions() Options {
	return Options{DBType: "appl"}
}

// Segments holds one write buffer and location counter per output segment.
type Segments struct {
	buf [3][]byte
	loc [3]uint32
}

// Bytes returns the accumulated contents of a segment.
func (s *Segments) Bytes(seg Segment) []byte { return s.buf[seg] }

// Loc returns a segment's current location counter.
func (s *Segments) Loc(seg Segment) uint32 { return s.loc[seg] }

// SetLoc forces a segment's location counter (used by ORG).
func (s *Segments) SetLoc(seg Segment, addr uint32) { s.loc[seg] = addr }

// Advance bumps a segment's location counter without writing bytes; used in
// passes 0/1, where only the size of an encoding matters.
func (s *Segments) Advance(seg Segment, n uint32) { s.loc[seg] += n }

// Emit appends bytes to a segment and advances its location counter; only
// called in pass 2.
func (s *Segments) Emit(seg Segment, data []byte) {
	s.buf[seg] = append(s.buf[seg], data...)
	s.loc[seg] += uint32(len(data))
}

// Reset clears every segment's buffer and location counter; called between
// independent assembly runs, not between passes (buffers accumulate only
// once, during pass 2; passes 0/1 only ever Advance).
func (s *Segments) Reset() {
	*s = Segments{}
}

// ResetPass clears only the location counters, keeping whatever bytes pass
// 2 has already emitted intact; called at the top of every pass per §4.1.
func (s *Segments) ResetPass() {
	s.loc = [3]uint32{}
}

// Context is the full cross-pass assembler state.
type Context struct {
	Pass    int // 0, 1, or 2
	Segs    Segments
	Segment Segment // currently selected segment

	Symbols *symtab.Table
	Guards  *guard.Store
	Src     *srcstack.Stack
	Expand  *expand.Buffer

	Proc    *symtab.Scope  // non-nil while inside PROC/PROXY; PROCDEF/TRAPDEF do not open a scope
	ProcSym *symtab.Symbol // the open procedure's own symbol, for its ProcInfo

	Opts Options
	Log  *slog.Logger

	Diagnostics []Diagnostic
	lineSevere  bool

	SawAPPL  bool
	Creator  string // four-char creator id from APPL
	rootPath string

	CondStack []CondFrame   // IF/IFDEF/IFNDEF/ELSE/ENDIF nesting (spec §4.11)
	Aggs      []*AggBuilder // STRUCT/UNION/ENUM bodies currently open

	ResType string // most recent RES 'type',id
	ResID   int32

	ResMarks []ResMark // one per RES directive seen on the final pass
}

// ResMark records where one RES-declared resource begins in the resource
// segment's buffer; spec §6.3's resource map is built by slicing SegRes's
// bytes between consecutive marks (and up to the end of the buffer for the
// last one).
type ResMark struct {
	Type   string
	ID     int32
	Name   string
	Offset uint32
}

// MarkResource records the start of a new RES-declared resource at the
// resource segment's current location; called only on the final pass,
// since the resource map is only meaningful once bytes have been emitted.
func (c *Context) MarkResource(typ string, id int32, name string) {
	c.ResMarks = append(c.ResMarks, ResMark{Type: typ, ID: id, Name: name, Offset: c.Segs.Loc(SegRes)})
}

// ReadIncludedFile reads a file for INCBIN and WBMP. The path is used as
// written, so a relative path resolves against the working directory.
func (c *Context) ReadIncludedFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// New builds a Context ready to run pass 0 against rootPath.
func New(rootPath string, opts Options, log *slog.Logger) (*Context, error) {
	st, err := srcstack.NewFromPath(rootPath)
	if err != nil {
		return nil, err
	}
	return &Context{
		Segs:     Segments{},
		Symbols:  symtab.NewTable(),
		Guards:   guard.New(),
		Src:      st,
		Expand:   expand.New(),
		Opts:     opts,
		Log:      log,
		rootPath: rootPath,
	}, nil
}

// FinalPass reports whether the context is running the last pass (2), the
// only one where Guards are verified rather than recorded.
func (c *Context) FinalPass() bool { return c.Pass >= 2 }

// StartPass resets everything spec §4.1 step 1 calls for at the top of a
// pass: location counters, selected segment, temp-label counters, and the
// re-opened root file. It does not clear the symbol table or guard store,
// which persist across passes by design.
func (c *Context) StartPass(pass int) error {
	c.Pass = pass
	c.Segs.ResetPass()
	c.Segment = SegCode
	c.Symbols.ResetTempLabels(pass)
	c.Expand.Reset()
	c.lineSevere = false
	c.CondStack = nil
	c.Aggs = nil
	if pass > 0 {
		c.Diagnostics = nil
	}
	return c.Src.ResetForPass(c.rootPath)
}

// Report records a diagnostic and, on pass 2, logs it immediately (spec
// §7: "errors are written immediately to the diagnostic stream"). A Severe
// diagnostic also marks the current line as short-circuited.
func (c *Context) Report(pos srcstack.Position, sev Severity, tag, format string, args ...any) {
	d := Diagnostic{Pos: pos, Severity: sev, Tag: tag, Message: fmt.Sprintf(format, args...)}
	c.Diagnostics = append(c.Diagnostics, d)
	if sev == SevSevere {
		c.lineSevere = true
	}
	if c.FinalPass() && c.Log != nil {
		c.Log.Warn(d.String())
	}
}

// LineSevere reports whether the line in progress already hit a Severe
// diagnostic and should stop processing further sub-steps.
func (c *Context) LineSevere() bool { return c.lineSevere }

// ResetLine clears the per-line severity latch; called at the start of
// every new source line per spec §7.
func (c *Context) ResetLine() { c.lineSevere = false }

// ErrorCount returns the number of diagnostics at Error severity or worse,
// which becomes the process exit code.
func (c *Context) ErrorCount() int {
	n := 0
	for _, d := range c.Diagnostics {
		if d.Severity >= SevError {
			n++
		}
	}
	return n
}

// CurrentScope returns the scope a bare name should resolve against first:
// the open procedure's, if any.
func (c *Context) CurrentScope() *symtab.Scope { return c.Proc }
