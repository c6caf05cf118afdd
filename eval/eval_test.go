/*
 * PRC68K - Expression evaluator tests.
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

package eval

import (
	"fmt"
	"testing"

	"github.com/rcornwell/prc68k/symtab"
)

// stubResolver is a minimal Resolver for exercising the parser without
// pulling in the full symbol table.
type stubResolver struct {
	names  map[string]symtab.Value
	temps  map[int]symtab.Value
	sizes  map[string]int32
	fields map[string]symtab.Value // "base.member" keyed
}

func newStub() *stubResolver {
	return &stubResolver{
		names:  map[string]symtab.Value{},
		temps:  map[int]symtab.Value{},
		sizes:  map[string]int32{},
		fields: map[string]symtab.Value{},
	}
}

func (s *stubResolver) Reference(name string) symtab.Value {
	if v, ok := s.names[name]; ok {
		return v
	}
	return symtab.Undef
}

func (s *stubResolver) Member(base symtab.Value, member string) (symtab.Value, error) {
	key := fmt.Sprintf("%d.%s", base.Num, member)
	if v, ok := s.fields[key]; ok {
		return v, nil
	}
	return symtab.Undef, fmt.Errorf("no such member %q", member)
}

func (s *stubResolver) TempLabel(digit int, forward bool) (symtab.Value, error) {
	if v, ok := s.temps[digit]; ok {
		return v, nil
	}
	return symtab.Undef, fmt.Errorf("unresolved temp label .%d", digit)
}

func (s *stubResolver) SizeOf(name string) (int32, error) {
	if v, ok := s.sizes[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown type %q", name)
}

func evalNum(t *testing.T, r Resolver, expr string) int32 {
	t.Helper()
	v, err := Eval(r, expr)
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", expr, err)
	}
	return v.Num
}

func TestLiterals(t *testing.T) {
	r := newStub()
	cases := map[string]int32{
		"10":      10,
		"$10":     16,
		"0x10":    16,
		"%1010":   10,
		"010":     8,
		"'A'":     0x41,
		"'AB'":    0x4142,
		"'ABCD'":  0x41424344,
		"-5":      -5,
		"~0":      -1,
		"(1+2)*3": 9,
	}
	for expr, want := range cases {
		if got := evalNum(t, r, expr); got != want {
			t.Errorf("Eval(%q) = %d, want %d", expr, got, want)
		}
	}
}

func TestPrecedence(t *testing.T) {
	r := newStub()
	cases := map[string]int32{
		"2+3*4":   14,
		"(2+3)*4": 20,
		"1<<2+1":  5, // shift binds tighter than additive per spec tier order: (1<<2)+1
		"8>>1":    4,
		"7//2":    1,
		"1|2&3":   3,
		"10-3-2":  5,
		"2==2":    1,
		"2<3":     1,
		"3<2":     0,
	}
	for expr, want := range cases {
		if got := evalNum(t, r, expr); got != want {
			t.Errorf("Eval(%q) = %d, want %d", expr, got, want)
		}
	}
}

func TestDivByZero(t *testing.T) {
	r := newStub()
	if _, err := Eval(r, "5/0"); err == nil {
		t.Fatal("expected DIV_BY_ZERO error, got nil")
	}
}

func TestUndefinedPropagates(t *testing.T) {
	r := newStub()
	v, err := Eval(r, "unknownSym+1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Undefined() {
		t.Fatalf("expected undefined result, got %+v", v)
	}
}

func TestCategoryCombineSameNonConstant(t *testing.T) {
	r := newStub()
	r.names["here"] = symtab.Value{Num: 100, Kind: symtab.KindCodeLabel}
	r.names["there"] = symtab.Value{Num: 40, Kind: symtab.KindCodeLabel}
	v, err := Eval(r, "here-there")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Num != 60 || v.Category() != symtab.CatConstant {
		t.Fatalf("got %+v, want constant 60 (code-code difference is a constant)", v)
	}
}

func TestCategoryMismatchIsError(t *testing.T) {
	r := newStub()
	r.names["codeSym"] = symtab.Value{Num: 10, Kind: symtab.KindCodeLabel}
	r.names["dataSym"] = symtab.Value{Num: 20, Kind: symtab.KindDataLabel}
	if _, err := Eval(r, "codeSym+dataSym"); err == nil {
		t.Fatal("expected INV_VALUE_CATEGORY error, got nil")
	}
}

func TestSizeof(t *testing.T) {
	r := newStub()
	r.sizes["Point"] = 8
	if got := evalNum(t, r, "sizeof(Point)"); got != 8 {
		t.Errorf("sizeof(Point) = %d, want 8", got)
	}
}

func TestQualifiedMember(t *testing.T) {
	r := newStub()
	r.names["p"] = symtab.Value{Num: 1, Kind: symtab.KindDataLabel}
	r.fields["1.x"] = symtab.Value{Num: 4, Kind: symtab.KindEqu}
	if got := evalNum(t, r, "p.x"); got != 4 {
		t.Errorf("p.x = %d, want 4", got)
	}
}

func TestTempLabel(t *testing.T) {
	r := newStub()
	r.temps[1] = symtab.Value{Num: 0x1000, Kind: symtab.KindCodeLabel}
	if got := evalNum(t, r, ".1f"); got != 0x1000 {
		t.Errorf(".1f = %#x, want 0x1000", got)
	}
	if got := evalNum(t, r, ".1b"); got != 0x1000 {
		t.Errorf(".1b = %#x, want 0x1000", got)
	}
}
