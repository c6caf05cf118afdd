/*
 * PRC68K - Expression/operand resolver bound to one assembler context.
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
	"fmt"

	"github.com/rcornwell/prc68k/eval"
	"github.com/rcornwell/prc68k/symtab"
)

// Evaluator adapts a *Context to eval.Resolver (and, via Eval, to
// operand.Resolver too), so both packages share exactly one notion of what
// a bare name, a qualified member, a temp label, and sizeof() mean for the
// pass in progress.
type Evaluator struct {
	ctx *Context
}

// NewEvaluator builds the resolver for the context's current scope.
func NewEvaluator(ctx *Context) *Evaluator { return &Evaluator{ctx: ctx} }

// Eval parses and evaluates one operand/expression string.
func (e *Evaluator) Eval(expr string) (symtab.Value, error) {
	return eval.Eval(e, expr)
}

func symbolValue(sym *symtab.Symbol) symtab.Value {
	v := symtab.Value{Num: sym.Value, Kind: sym.Kind}
	switch sym.Kind {
	case symtab.KindType, symtab.KindProcEntry, symtab.KindProxyEntry:
		v.Type = sym
	default:
		if sym.TypeRef != nil {
			v.Type = sym.TypeRef
		}
	}
	return v
}

// Reference resolves a bare identifier against procedure scope (if any)
// then global scope, creating an implicit forward declaration when unseen
// (legal only because pass 0 is the only pass where that can still happen;
// later passes always find the symbol pass 0 created).
func (e *Evaluator) Reference(name string) symtab.Value {
	sym := e.ctx.Symbols.Reference(e.ctx.CurrentScope(), name)
	return symbolValue(sym)
}

// Member resolves base.member: for a value tagged with a Type (struct,
// union, enum, or procedure signature), look the member up in that type's
// arena entry; for a procedure-category value, look it up in the
// procedure's own parameter/local scope.
func (e *Evaluator) Member(base symtab.Value, member string) (symtab.Value, error) {
	if base.Kind == symtab.KindProcEntry || base.Kind == symtab.KindProxyEntry {
		sym, ok := e.ctx.Symbols.LookupChain(e.procScopeOf(base), member)
		if ok {
			return symbolValue(sym), nil
		}
		return symtab.Undef, fmt.Errorf("%w: %s", symtab.ErrNoSuchMember, member)
	}
	if base.Type == nil || base.Type.TypeIdx < 0 {
		return symtab.Undef, symtab.ErrNotAggregate
	}
	m, ok := e.ctx.Symbols.Member(base.Type.TypeIdx, member)
	if !ok {
		return symtab.Undef, fmt.Errorf("%w: %s", symtab.ErrNoSuchMember, member)
	}
	td := e.ctx.Symbols.Type(base.Type.TypeIdx)
	if td != nil && td.Kind == symtab.TypeEnum {
		return symtab.Const(m.Offset), nil
	}
	v := symtab.Value{Num: base.Num + m.Offset, Kind: base.Kind}
	return v, nil
}

// procScopeOf finds the currently-tracked scope for a procedure-category
// base value by name; the evaluator only ever sees the currently open
// procedure's own scope directly, so cross-procedure qualified references
// resolve through the global symbol's stored Proc info instead.
func (e *Evaluator) procScopeOf(base symtab.Value) *symtab.Scope {
	if base.Type != nil && base.Type.Proc != nil {
		return base.Type.Proc.Scope
	}
	return nil
}

// TempLabel resolves `.Nf`/`.Nb`.
func (e *Evaluator) TempLabel(digit int, forward bool) (symtab.Value, error) {
	sym, err := e.ctx.Symbols.LookupTempLabel(digit, forward)
	if err != nil {
		return symtab.Undef, err
	}
	return symbolValue(sym), nil
}

// SizeOf resolves sizeof(name): name may be a type name or a symbol whose
// declared type has a known size.
func (e *Evaluator) SizeOf(name string) (int32, error) {
	sym, ok := e.ctx.Symbols.LookupChain(e.ctx.CurrentScope(), name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", symtab.ErrUndefined, name)
	}
	if sym.Kind == symtab.KindType {
		td := e.ctx.Symbols.Type(sym.TypeIdx)
		if td == nil {
			return 0, fmt.Errorf("sizeof: type %q has no arena entry", name)
		}
		return td.Size, nil
	}
	if sym.TypeRef != nil {
		td := e.ctx.Symbols.Type(sym.TypeRef.TypeIdx)
		if td != nil {
			return td.Size, nil
		}
	}
	return 4, nil // scalar labels default to a long word's worth when no more specific type is known.
}
