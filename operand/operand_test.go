/*
 * PRC68K - Operand parser tests.
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

package operand

import (
	"testing"

	"github.com/rcornwell/prc68k/symtab"
)

type stubResolver struct {
	names map[string]symtab.Value
}

func (s *stubResolver) Eval(expr string) (symtab.Value, error) {
	if v, ok := s.names[expr]; ok {
		return v, nil
	}
	// Treat anything else as a bare decimal literal for test purposes.
	n := int32(0)
	neg := false
	i := 0
	if len(expr) > 0 && expr[0] == '-' {
		neg = true
		i = 1
	}
	for ; i < len(expr); i++ {
		if expr[i] < '0' || expr[i] > '9' {
			return symtab.Undef, nil
		}
		n = n*10 + int32(expr[i]-'0')
	}
	if neg {
		n = -n
	}
	return symtab.Const(n), nil
}

func TestRegisterModes(t *testing.T) {
	r := &stubResolver{names: map[string]symtab.Value{}}
	cases := map[string]struct {
		mode Mode
		reg  int
	}{
		"D0":    {ModeDn, 0},
		"d7":    {ModeDn, 7},
		"A3":    {ModeAn, 3},
		"(A0)":  {ModeAnInd, 0},
		"(A2)+": {ModeAnPostInc, 2},
		"-(A5)": {ModeAnPreDec, 5},
		"SR":    {ModeSR, -1},
		"ccr":   {ModeCCR, -1},
		"USP":   {ModeUSP, -1},
	}
	for expr, want := range cases {
		op, err := Parse(r, expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		if op.Mode != want.mode {
			t.Errorf("Parse(%q).Mode = %v, want %v", expr, op.Mode, want.mode)
		}
		if want.reg >= 0 && op.Reg != want.reg {
			t.Errorf("Parse(%q).Reg = %d, want %d", expr, op.Reg, want.reg)
		}
	}
}

func TestImmediate(t *testing.T) {
	r := &stubResolver{}
	op, err := Parse(r, "#5")
	if err != nil {
		t.Fatalf("Parse(#5): %v", err)
	}
	if op.Mode != ModeImmediate || op.Value.Num != 5 {
		t.Errorf("got %+v, want immediate 5", op)
	}
}

func TestImmediateRejectsNonConstant(t *testing.T) {
	r := &stubResolver{names: map[string]symtab.Value{
		"label": {Num: 100, Kind: symtab.KindCodeLabel},
	}}
	if _, err := Parse(r, "#label"); err == nil {
		t.Fatal("expected IMMEDIATE_NOT_A_CONSTANT, got nil")
	}
}

func TestAbsoluteWidthForcing(t *testing.T) {
	r := &stubResolver{}
	op, err := Parse(r, "1000.W")
	if err != nil {
		t.Fatalf("Parse(1000.W): %v", err)
	}
	if op.Mode != ModeAbsW || !op.Forced {
		t.Errorf("got %+v, want forced ModeAbsW", op)
	}

	op, err = Parse(r, "70000.L")
	if err != nil {
		t.Fatalf("Parse(70000.L): %v", err)
	}
	if op.Mode != ModeAbsL || !op.Forced {
		t.Errorf("got %+v, want forced ModeAbsL", op)
	}

	op, err = Parse(r, "1000")
	if err != nil {
		t.Fatalf("Parse(1000): %v", err)
	}
	if op.Mode != ModeAbsW || op.Forced {
		t.Errorf("got %+v, want unforced ModeAbsW (width Guard-decided)", op)
	}
}

func TestDisplacementModes(t *testing.T) {
	r := &stubResolver{}
	op, err := Parse(r, "4(A0)")
	if err != nil {
		t.Fatalf("Parse(4(A0)): %v", err)
	}
	if op.Mode != ModeAnDisp || op.Reg != 0 || op.Value.Num != 4 {
		t.Errorf("got %+v, want d(An)=4,A0", op)
	}

	op, err = Parse(r, "8(A1,D2.W)")
	if err != nil {
		t.Fatalf("Parse(8(A1,D2.W)): %v", err)
	}
	if op.Mode != ModeAnIndex || op.Reg != 1 || op.IndexLong {
		t.Errorf("got %+v, want d(An,Xn.W)", op)
	}

	r = &stubResolver{names: map[string]symtab.Value{
		"here": {Num: 4, Kind: symtab.KindCodeLabel},
	}}
	op, err = Parse(r, "here(PC)")
	if err != nil {
		t.Fatalf("Parse(here(PC)): %v", err)
	}
	if op.Mode != ModePCDisp {
		t.Errorf("got %+v, want ModePCDisp", op)
	}
}

func TestDataDispRequiresA5(t *testing.T) {
	r := &stubResolver{names: map[string]symtab.Value{
		"dlabel": {Num: 10, Kind: symtab.KindDataLabel},
	}}
	if _, err := Parse(r, "dlabel(A0)"); err == nil {
		t.Fatal("expected data-category displacement to require A5")
	}
	if _, err := Parse(r, "dlabel(A5)"); err != nil {
		t.Fatalf("dlabel(A5) should be legal: %v", err)
	}
}

func TestStackDispRequiresA6(t *testing.T) {
	r := &stubResolver{names: map[string]symtab.Value{
		"slabel": {Num: 10, Kind: symtab.KindParam},
	}}
	if _, err := Parse(r, "slabel(A0)"); err == nil {
		t.Fatal("expected stack-category displacement to require A6")
	}
	if _, err := Parse(r, "slabel(A6)"); err != nil {
		t.Fatalf("slabel(A6) should be legal: %v", err)
	}
}

func TestPCDispRequiresCodeCategory(t *testing.T) {
	r := &stubResolver{names: map[string]symtab.Value{
		"dlabel": {Num: 10, Kind: symtab.KindDataLabel},
		"clabel": {Num: 10, Kind: symtab.KindCodeLabel},
	}}
	if _, err := Parse(r, "dlabel(PC)"); err == nil {
		t.Fatal("expected d(PC) with data-category displacement to be rejected")
	}
	if _, err := Parse(r, "clabel(PC)"); err != nil {
		t.Fatalf("clabel(PC) should be legal: %v", err)
	}
}
