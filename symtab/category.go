/*
 * PRC68K - Symbol categories and kinds.
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

// Package symtab implements the hierarchical symbol table: global and
// per-procedure scopes, a type-descriptor arena, and the value-category
// rules that the evaluator and operand parser lean on to keep addressing
// modes honest.
package symtab

// Category is the coarse classification of a value's meaning. Addressing
// mode legality and cross-category arithmetic are both governed by it.
type Category int

const (
	CatNone Category = iota
	CatCode
	CatData
	CatStack
	CatResource
	CatConstant
	CatType
)

func (c Category) String() string {
	switch c {
	case CatNone:
		return "none"
	case CatCode:
		return "code"
	case CatData:
		return "data"
	case CatStack:
		return "stack"
	case CatResource:
		return "resource"
	case CatConstant:
		return "constant"
	case CatType:
		return "type"
	default:
		return "unknown"
	}
}

// Kind identifies exactly what a symbol is; every kind maps onto one of the
// seven categories above via Category().
type Kind int

const (
	KindUndefined Kind = iota
	KindCodeLabel
	KindProcEntry
	KindProxyEntry
	KindDataLabel
	KindParam
	KindLocal
	KindResourceLabel
	KindEqu
	KindSet
	KindEnumMember
	KindType
	KindRegister
	KindGuard
	KindInclude
)

// Category maps a symbol kind onto its governing category.
func (k Kind) Category() Category {
	switch k {
	case KindUndefined, KindGuard, KindInclude:
		return CatNone
	case KindCodeLabel, KindProcEntry, KindProxyEntry:
		return CatCode
	case KindDataLabel:
		return CatData
	case KindParam, KindLocal:
		return CatStack
	case KindResourceLabel:
		return CatResource
	case KindEqu, KindSet, KindEnumMember, KindRegister:
		return CatConstant
	case KindType:
		return CatType
	default:
		return CatNone
	}
}

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindCodeLabel:
		return "code label"
	case KindProcEntry:
		return "procedure"
	case KindProxyEntry:
		return "proxy"
	case KindDataLabel:
		return "data label"
	case KindParam:
		return "parameter"
	case KindLocal:
		return "local"
	case KindResourceLabel:
		return "resource label"
	case KindEqu:
		return "equ"
	case KindSet:
		return "set"
	case KindEnumMember:
		return "enum member"
	case KindType:
		return "type"
	case KindRegister:
		return "register"
	case KindGuard:
		return "guard"
	case KindInclude:
		return "include guard"
	default:
		return "unknown"
	}
}

// Value is the tagged result of evaluating an expression or resolving a
// symbol reference.
type Value struct {
	Num  int32   // 32-bit signed payload.
	Kind Kind    // Undefined, or the kind of the symbol/literal it came from.
	Type *Symbol // Optional reference to a Type-category symbol.
}

// Category is a convenience wrapper over Kind.Category for a Value.
func (v Value) Category() Category {
	return v.Kind.Category()
}

// Undefined reports whether the value is the distinguished "not yet known"
// value produced by forward references during pass 0.
func (v Value) Undefined() bool {
	return v.Kind == KindUndefined
}

// Const builds a plain constant value, the result of every literal and of
// any relational comparison.
func Const(n int32) Value {
	return Value{Num: n, Kind: KindEqu}
}

// Undef is the single shared "not yet known" value.
var Undef = Value{Kind: KindUndefined}
