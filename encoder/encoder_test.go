/*
 * PRC68K - Encoder tests covering instruction and directive dispatch.
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

package encoder

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/srcstack"
)

func newTestContext(t *testing.T) *asmctx.Context {
	t.Helper()
	c, err := asmctx.New("-", asmctx.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("asmctx.New: %v", err)
	}
	return c
}

func printBytes(b []byte) string {
	var buf bytes.Buffer
	for _, by := range b {
		fmt.Fprintf(&buf, "%02X ", by)
	}
	return buf.String()
}

func runToFinalPass(t *testing.T, c *asmctx.Context, mnemonic, size, operands string) []byte {
	t.Helper()
	pos := srcstack.Position{File: "t.s", Line: 1}
	c.Pass = 0
	if err := Encode(c, mnemonic, size, operands, pos); err != nil {
		t.Fatalf("pass0 Encode(%s): %v", mnemonic, err)
	}
	c.Segs.ResetPass()
	c.Pass = 1
	if err := Encode(c, mnemonic, size, operands, pos); err != nil {
		t.Fatalf("pass1 Encode(%s): %v", mnemonic, err)
	}
	c.Segs.ResetPass()
	c.Pass = 2
	before := len(c.Segs.Bytes(c.Segment))
	if err := Encode(c, mnemonic, size, operands, pos); err != nil {
		t.Fatalf("pass2 Encode(%s): %v", mnemonic, err)
	}
	return c.Segs.Bytes(c.Segment)[before:]
}

// TestMoveqDowngrade is spec §8 scenario 1: MOVE.L #5,D0 -> 70 05.
func TestMoveqDowngrade(t *testing.T) {
	c := newTestContext(t)
	got := runToFinalPass(t, c, "MOVE", "L", "#5,D0")
	want := []byte{0x70, 0x05}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

// TestAddqDowngrade is spec §8 scenario 3: ADDI.L #3,D4 -> 56 84.
func TestAddqDowngrade(t *testing.T) {
	c := newTestContext(t)
	got := runToFinalPass(t, c, "ADDI", "L", "#3,D4")
	want := []byte{0x56, 0x84}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}

// TestShortBranch exercises the branch-length Guard for a displacement
// that comfortably fits in a byte.
func TestShortBranch(t *testing.T) {
	c := newTestContext(t)
	pos := srcstack.Position{File: "t.s", Line: 5}

	c.Pass = 0
	c.Segs.SetLoc(c.Segment, 0)
	if err := Encode(c, "BRA", "", "100", pos); err != nil {
		t.Fatalf("pass0: %v", err)
	}

	c.Pass = 1
	c.Segs.SetLoc(c.Segment, 0)
	if err := Encode(c, "BRA", "", "100", pos); err != nil {
		t.Fatalf("pass1: %v", err)
	}

	c.Pass = 2
	c.Segs.SetLoc(c.Segment, 0)
	before := len(c.Segs.Bytes(c.Segment))
	if err := Encode(c, "BRA", "", "100", pos); err != nil {
		t.Fatalf("pass2: %v", err)
	}
	got := c.Segs.Bytes(c.Segment)[before:]
	// disp = 100 - (0+2) = 98 = 0x62, short branch.
	want := []byte{0x60, 0x62}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %s, want %s", printBytes(got), printBytes(want))
	}
}

// TestLongBranch exercises a displacement too large for the short form.
func TestLongBranch(t *testing.T) {
	c := newTestContext(t)
	pos := srcstack.Position{File: "t.s", Line: 5}

	for pass := 0; pass <= 2; pass++ {
		c.Pass = pass
		c.Segs.SetLoc(c.Segment, 0)
		if pass < 2 {
			if err := Encode(c, "BRA", "", "1000", pos); err != nil {
				t.Fatalf("pass%d: %v", pass, err)
			}
		}
	}
	c.Pass = 2
	c.Segs.SetLoc(c.Segment, 0)
	before := len(c.Segs.Bytes(c.Segment))
	if err := Encode(c, "BRA", "", "1000", pos); err != nil {
		t.Fatalf("pass2: %v", err)
	}
	got := c.Segs.Bytes(c.Segment)[before:]
	// disp = 1000 - (0+2) = 998 = 0x03E6
	want := []byte{0x60, 0x00, 0x03, 0xE6}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %s, want %s", printBytes(got), printBytes(want))
	}
}

func TestNop(t *testing.T) {
	c := newTestContext(t)
	got := runToFinalPass(t, c, "NOP", "", "")
	want := []byte{0x4E, 0x71}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % X, want % X", got, want)
	}
}
