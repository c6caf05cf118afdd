/*
 * PRC68K - Scoped symbol table with bucket-hashed name lookup.
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

package symtab

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// numBuckets is fixed at table-creation time; a scope this size comfortably
// holds a procedure's locals or the whole program's globals without
// measurable bucket collision cost.
const numBuckets = 251

// Scope is one hash-bucketed name space: the process-wide global map, or
// the parameter/local/label map attached to an open procedure. Each bucket
// keeps its members sorted by name so lookup can binary-search and bail out
// early, per spec §4.8.
type Scope struct {
	buckets [numBuckets][]*Symbol
}

// NewScope allocates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

func bucketOf(name string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return int(h % numBuckets)
}

func compareSymbolName(sym *Symbol, name string) int {
	return strings.Compare(sym.Name, name)
}

// Lookup finds a symbol by exact name within this scope only (no chaining
// to a parent scope).
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	b := s.buckets[bucketOf(name)]
	i, found := slices.BinarySearchFunc(b, name, compareSymbolName)
	if !found {
		return nil, false
	}
	return b[i], true
}

// insert adds a brand-new symbol, keeping the bucket sorted by name. Callers
// must already know the name is absent from this scope.
func (s *Scope) insert(sym *Symbol) {
	idx := bucketOf(sym.Name)
	i, _ := slices.BinarySearchFunc(s.buckets[idx], sym.Name, compareSymbolName)
	s.buckets[idx] = slices.Insert(s.buckets[idx], i, sym)
}

// Names returns every symbol in the scope, in bucket order and sorted by
// name within each bucket; used only for debug dumps.
func (s *Scope) Names() []*Symbol {
	var out []*Symbol
	for _, b := range s.buckets {
		out = append(out, b...)
	}
	return out
}

// Table is the whole-program symbol table: the global scope, the type
// descriptor arena (interned by index rather than by raw pointer, per the
// "cyclic references" design note), and the temporary-label counters.
type Table struct {
	Global *Scope
	Types  []*TypeDesc

	Pass int

	tempCounter [9]int
	tempPass    int
}

// NewTable creates an empty symbol table, pass 0.
func NewTable() *Table {
	return &Table{Global: NewScope(), tempPass: -1}
}

// LookupChain looks a name up first in proc (if non-nil), then in Global.
func (t *Table) LookupChain(proc *Scope, name string) (*Symbol, bool) {
	if proc != nil {
		if sym, ok := proc.Lookup(name); ok {
			return sym, true
		}
	}
	return t.Global.Lookup(name)
}

// Reference resolves a name for use in an expression. An unknown name is
// legal during pass 0 (it becomes an implicit forward declaration); later
// passes find the symbol the earlier pass already created.
func (t *Table) Reference(proc *Scope, name string) *Symbol {
	if sym, ok := t.LookupChain(proc, name); ok {
		return sym
	}
	sym := newSymbol(name, KindUndefined, t.Pass)
	t.Global.insert(sym)
	return sym
}

// Define applies the insertion policy of spec §4.8 to `scope`: first
// definition wins cleanly, an implicit forward declaration is filled in,
// redefineable (SET) symbols always take the new value, and anything else
// must match kind and (from pass 2 on) value.
func (t *Table) Define(scope *Scope, name string, kind Kind, value int32, redefineable bool) (*Symbol, error) {
	existing, ok := scope.Lookup(name)
	if !ok {
		sym := newSymbol(name, kind, t.Pass)
		sym.Value = value
		sym.Redefineable = redefineable
		scope.insert(sym)
		return sym, nil
	}

	if existing.Kind == KindUndefined {
		existing.Kind = kind
		existing.Value = value
		existing.Redefineable = redefineable
		existing.DefPass = t.Pass
		return existing, nil
	}

	if existing.Kind != kind {
		return existing, fmt.Errorf("%w: %s", ErrKindDifferent, name)
	}

	if existing.Redefineable || redefineable {
		existing.Value = value
		existing.DefPass = t.Pass
		return existing, nil
	}

	if t.Pass >= 2 && existing.Value != value {
		return existing, fmt.Errorf("%w: %s (was %d, now %d)", ErrPhaseError, name, existing.Value, value)
	}

	existing.Value = value
	existing.DefPass = t.Pass
	return existing, nil
}

// ResetTempLabels zeroes the per-digit temporary-label counters at the start
// of a pass; they are otherwise shared across the whole program, not scoped
// per procedure.
func (t *Table) ResetTempLabels(pass int) {
	t.Pass = pass
	t.tempPass = pass
	for i := range t.tempCounter {
		t.tempCounter[i] = 0
	}
}

func tempLabelName(digit, occurrence int) string {
	return fmt.Sprintf(":temp:%d:%08x", digit, occurrence)
}

// DefineTempLabel records a new occurrence of `.<digit>` at the given
// location value and returns the symbol created for it.
func (t *Table) DefineTempLabel(digit int, value int32) (*Symbol, error) {
	if digit < 1 || digit > 9 {
		return nil, fmt.Errorf("invalid temporary label .%d", digit)
	}
	t.tempCounter[digit-1]++
	name := tempLabelName(digit, t.tempCounter[digit-1])
	sym, err := t.Define(t.Global, name, KindCodeLabel, value, false)
	return sym, err
}

// LookupTempLabel resolves `.Nf` (forward, the next occurrence of .N after
// this point) or `.Nb` (backward, the most recent occurrence of .N).
func (t *Table) LookupTempLabel(digit int, forward bool) (*Symbol, error) {
	if digit < 1 || digit > 9 {
		return nil, fmt.Errorf("invalid temporary label .%d", digit)
	}
	occurrence := t.tempCounter[digit-1]
	if forward {
		occurrence++
	} else if occurrence == 0 {
		return nil, fmt.Errorf("no backward .%db label defined yet", digit)
	}
	name := tempLabelName(digit, occurrence)
	if sym, ok := t.Global.Lookup(name); ok {
		return sym, nil
	}
	return nil, fmt.Errorf("temporary label .%d%s not found", digit, map[bool]string{true: "f", false: "b"}[forward])
}

// --- Type arena -----------------------------------------------------------

// NewType interns a type descriptor and returns its stable arena index.
func (t *Table) NewType(td TypeDesc) int {
	t.Types = append(t.Types, &td)
	return len(t.Types) - 1
}

// Type fetches a type descriptor by arena index; -1 yields nil.
func (t *Table) Type(idx int) *TypeDesc {
	if idx < 0 || idx >= len(t.Types) {
		return nil
	}
	return t.Types[idx]
}

// InternPointer returns the arena index for "pointer to base", creating one
// if this exact derivation has not been requested before.
func (t *Table) InternPointer(base int) int {
	for i, td := range t.Types {
		if td.Kind == TypePointer && td.Base == base {
			return i
		}
	}
	return t.NewType(TypeDesc{Kind: TypePointer, Base: base, Size: 4})
}

// InternArray returns the arena index for "array of count base".
func (t *Table) InternArray(base int, count int32) int {
	for i, td := range t.Types {
		if td.Kind == TypeArray && td.Base == base && td.Count == count {
			return i
		}
	}
	elemSize := int32(0)
	if bt := t.Type(base); bt != nil {
		elemSize = bt.Size
	}
	return t.NewType(TypeDesc{Kind: TypeArray, Base: base, Count: count, Size: elemSize * count})
}

// Member looks a member (struct/union field, enum constant, procedure
// parameter/local) up in the type at `idx` by name.
func (t *Table) Member(idx int, name string) (Member, bool) {
	td := t.Type(idx)
	if td == nil {
		return Member{}, false
	}
	for _, m := range td.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
