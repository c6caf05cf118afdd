/*
 * PRC68K - Assembler context tests.
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

package asmctx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/prc68k/srcstack"
)

func newTestContext(t *testing.T, body string) *Context {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "t.s")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	c, err := New(path, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestSegmentsEmitAdvancesLocAndBuffer(t *testing.T) {
	var s Segments
	s.Emit(SegCode, []byte{1, 2, 3})
	if s.Loc(SegCode) != 3 {
		t.Fatalf("got loc %d, want 3", s.Loc(SegCode))
	}
	if len(s.Bytes(SegCode)) != 3 {
		t.Fatalf("got %d bytes, want 3", len(s.Bytes(SegCode)))
	}
	if s.Loc(SegData) != 0 {
		t.Fatal("emitting to SegCode should not touch SegData's counter")
	}
}

func TestSegmentsResetPassKeepsBytesClearsLoc(t *testing.T) {
	var s Segments
	s.Emit(SegCode, []byte{1, 2, 3})
	s.ResetPass()
	if s.Loc(SegCode) != 0 {
		t.Fatalf("got loc %d, want 0 after ResetPass", s.Loc(SegCode))
	}
	if len(s.Bytes(SegCode)) != 3 {
		t.Fatal("ResetPass should not discard already-emitted bytes")
	}
}

func TestReportSevereMarksLineSevere(t *testing.T) {
	c := newTestContext(t, "end\n")
	if c.LineSevere() {
		t.Fatal("a fresh context should not start line-severe")
	}
	pos := srcstack.Position{File: "t.s", Line: 1}
	c.Report(pos, SevSevere, "X", "boom")
	if !c.LineSevere() {
		t.Fatal("a Severe diagnostic should mark the current line severe")
	}
	c.ResetLine()
	if c.LineSevere() {
		t.Fatal("ResetLine should clear the severity latch")
	}
}

func TestErrorCountCountsErrorAndWorse(t *testing.T) {
	c := newTestContext(t, "end\n")
	pos := srcstack.Position{File: "t.s", Line: 1}
	c.Report(pos, SevWarning, "W", "just a warning")
	c.Report(pos, SevError, "E", "an error")
	c.Report(pos, SevSevere, "S", "a severe error")
	if got := c.ErrorCount(); got != 2 {
		t.Fatalf("got %d, want 2 (error + severe, not the warning)", got)
	}
}

func TestStartPassResetsLocAndKeepsSymbols(t *testing.T) {
	c := newTestContext(t, "end\n")
	c.Segs.Emit(SegCode, []byte{1, 2})
	if _, err := c.Symbols.Define(c.Symbols.Global, "X", 1, 5, false); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := c.StartPass(1); err != nil {
		t.Fatalf("StartPass: %v", err)
	}
	if c.Segs.Loc(SegCode) != 0 {
		t.Fatalf("got loc %d, want 0 after StartPass", c.Segs.Loc(SegCode))
	}
	if _, ok := c.Symbols.Global.Lookup("X"); !ok {
		t.Fatal("StartPass must not clear the symbol table")
	}
}
