/*
 * PRC68K - End-to-end three-pass assembler tests.
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

package assembler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/symtab"
)

func writeSource(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "t.s")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestMoveqAndBranchThroughRunner(t *testing.T) {
	src := `start: move.l #5,d0
	bra   start
	end
`
	path := writeSource(t, src)
	r, err := New(path, asmctx.DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := r.Ctx.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, want 0; diagnostics: %v", n, r.Ctx.Diagnostics)
	}
	got := r.Ctx.Segs.Bytes(asmctx.SegCode)
	want := []byte{0x70, 0x05, 0x60, 0xFC}
	if len(got) != len(want) {
		t.Fatalf("got %d bytes (% X), want %d (% X)", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d: got %02X want %02X (full got % X)", i, got[i], want[i], got)
		}
	}
}

func TestEquAndForwardReference(t *testing.T) {
	src := `FIVE equ 5
start: move.l #FIVE,d0
	bra forward
	nop
forward: rts
	end
`
	path := writeSource(t, src)
	r, err := New(path, asmctx.DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := r.Ctx.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, diagnostics: %v", n, r.Ctx.Diagnostics)
	}
	sym, ok := r.Ctx.Symbols.Global.Lookup("FORWARD")
	_ = ok
	sym, ok = r.Ctx.Symbols.Global.Lookup("forward")
	if !ok {
		t.Fatalf("forward label not defined")
	}
	if sym.Kind != symtab.KindCodeLabel {
		t.Fatalf("forward kind = %v, want code label", sym.Kind)
	}
}

func TestStructMemberOffsets(t *testing.T) {
	src := `
struct point
x: ds.w 1
y: ds.w 1
endstruct
	end
`
	path := writeSource(t, src)
	r, err := New(path, asmctx.DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := r.Ctx.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, diagnostics: %v", n, r.Ctx.Diagnostics)
	}
	sym, ok := r.Ctx.Symbols.Global.Lookup("point")
	if !ok {
		t.Fatalf("point type not defined")
	}
	td := r.Ctx.Symbols.Type(sym.TypeIdx)
	if td == nil || td.Size != 4 {
		t.Fatalf("point size = %+v, want 4", td)
	}
	y, ok := r.Ctx.Symbols.Member(sym.TypeIdx, "y")
	if !ok || y.Offset != 2 {
		t.Fatalf("y offset = %+v, want 2", y)
	}
}

func TestEnumAutoIncrement(t *testing.T) {
	src := `
enum colors
red:
green:
blue:
endenum
	end
`
	path := writeSource(t, src)
	r, err := New(path, asmctx.DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := r.Ctx.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, diagnostics: %v", n, r.Ctx.Diagnostics)
	}
	blue, ok := r.Ctx.Symbols.Global.Lookup("blue")
	if !ok || blue.Value != 2 {
		t.Fatalf("blue = %+v, want value 2", blue)
	}
}

func TestPhaseErrorDetected(t *testing.T) {
	// Exercises symtab's phase-error path directly: Define is called with a
	// mismatched value on a pass >= 2 for an already-fixed symbol.
	tbl := symtab.NewTable()
	tbl.ResetTempLabels(2)
	if _, err := tbl.Define(tbl.Global, "x", symtab.KindEqu, 1, false); err != nil {
		t.Fatalf("first define: %v", err)
	}
	if _, err := tbl.Define(tbl.Global, "x", symtab.KindEqu, 2, false); err == nil {
		t.Fatalf("expected phase error, got nil")
	}
}
