/*
 * PRC68K - Lexer tests.
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

package lexer

import "testing"

func TestBlankAndComment(t *testing.T) {
	for _, s := range []string{"", "   ", "* a full-line comment", "   ; also a comment"} {
		if !Split(s).Blank {
			t.Errorf("Split(%q).Blank = false, want true", s)
		}
	}
}

func TestLabelMnemonicOperands(t *testing.T) {
	l := Split("start: move.l #5,d0 ; load five")
	if l.Label != "start" || l.Mnemonic != "MOVE" || l.SizeSuffix != "L" || l.Operands != "#5,d0" {
		t.Fatalf("got %+v", l)
	}
}

func TestNoLabel(t *testing.T) {
	l := Split("        bra.s  loop")
	if l.Label != "" || l.Mnemonic != "BRA" || l.SizeSuffix != "S" || l.Operands != "loop" {
		t.Fatalf("got %+v", l)
	}
}

func TestLabelOnlyLine(t *testing.T) {
	l := Split("loop:")
	if l.Label != "loop" || l.Mnemonic != "" || l.Blank {
		t.Fatalf("got %+v", l)
	}
}

func TestUnindentedDirectiveIsNotALabel(t *testing.T) {
	l := Split("struct point")
	if l.Label != "" || l.Mnemonic != "STRUCT" || l.Operands != "point" {
		t.Fatalf("got %+v", l)
	}
}

func TestTempLabel(t *testing.T) {
	l := Split("1:    bra 1")
	if l.Label != "1" || !l.TempLabel {
		t.Fatalf("got %+v", l)
	}
}

func TestQuoteProtectsSemicolon(t *testing.T) {
	l := Split("dc.b ';',0")
	if l.Operands != "';',0" {
		t.Fatalf("got operands %q", l.Operands)
	}
}

func TestSizeSuffixSplit(t *testing.T) {
	m, s := splitSize("DC.B")
	if m != "DC" || s != "B" {
		t.Fatalf("got %q %q", m, s)
	}
	m, s = splitSize("NOP")
	if m != "NOP" || s != "" {
		t.Fatalf("got %q %q", m, s)
	}
}
