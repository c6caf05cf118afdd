/*
 * PRC68K - Operator-precedence expression evaluator.
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

// Package eval implements the expression evaluator of spec §4.7: a single
// entry point that parses an operand string and returns a symtab.Value
// tagged with a semantic category that propagates through arithmetic the
// way §3 and §4.7 describe. Symbol resolution (bare names, qualified
// member access, temporary labels, sizeof) is delegated to a Resolver so
// this package has no dependency on the symbol table's scoping rules.
package eval

import (
	"fmt"
	"strings"

	"github.com/rcornwell/prc68k/symtab"
)

// Resolver is the seam between the evaluator and whatever owns the symbol
// table, current procedure scope, and temporary-label counters for the
// pass in progress.
type Resolver interface {
	// Reference resolves a bare identifier. An unknown name must return an
	// Undefined-kind value in pass 0 and is otherwise the assembler's
	// concern, not the evaluator's.
	Reference(name string) symtab.Value
	// Member resolves base.member against base's type (struct/union field,
	// enum constant, or procedure parameter/local).
	Member(base symtab.Value, member string) (symtab.Value, error)
	// TempLabel resolves a `.Nf`/`.Nb` reference.
	TempLabel(digit int, forward bool) (symtab.Value, error)
	// SizeOf resolves the `sizeof(name)` builtin.
	SizeOf(name string) (int32, error)
}

// precedence levels, ascending per spec §4.7 (1 = loosest-binding).
const (
	precRelational = 1
	precBitwise    = 2
	precAdditive   = 3
	precMultiplic  = 4
	precShift      = 5
)

func precedenceOf(op string) int {
	switch op {
	case "==", "<", "<=", ">", ">=":
		return precRelational
	case "|", "&", "^":
		return precBitwise
	case "+", "-":
		return precAdditive
	case "*", "/", "//":
		return precMultiplic
	case "<<", ">>":
		return precShift
	}
	return -1
}

type parser struct {
	lex      *lexer
	tok      token
	resolver Resolver
	depth    int
}

// maxDepth bounds operand/operator nesting (spec §4.7: "at least 7 deep");
// we allow headroom beyond the minimum and report overflow as a severe
// parse error rather than recursing without bound.
const maxDepth = 64

// Eval parses `expr` and returns its value, or an error. Errors are plain
// Go errors; the caller (operand/directive layer) is responsible for
// mapping them onto the severity taxonomy of spec §7.
func Eval(r Resolver, expr string) (symtab.Value, error) {
	p := &parser{lex: newLexer(expr), resolver: r}
	if err := p.advance(); err != nil {
		return symtab.Undef, err
	}
	v, err := p.parseExpr(0)
	if err != nil {
		return symtab.Undef, err
	}
	if p.tok.kind != tokEOF {
		return symtab.Undef, fmt.Errorf("unexpected trailing input near %q", p.tok.text)
	}
	return v, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) parseExpr(minPrec int) (symtab.Value, error) {
	p.depth++
	if p.depth > maxDepth {
		return symtab.Undef, fmt.Errorf("expression nesting overflow")
	}
	defer func() { p.depth-- }()

	left, err := p.parseUnary()
	if err != nil {
		return symtab.Undef, err
	}
	for p.tok.kind == tokOp {
		op := p.tok.text
		prec := precedenceOf(op)
		if prec < 0 || prec < minPrec {
			break
		}
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return symtab.Undef, err
		}
		left, err = combine(op, left, right)
		if err != nil {
			return symtab.Undef, err
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (symtab.Value, error) {
	switch {
	case p.tok.kind == tokOp && p.tok.text == "-":
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		v, err := p.parseUnary()
		if err != nil {
			return symtab.Undef, err
		}
		if v.Undefined() {
			return symtab.Undef, nil
		}
		v.Num = -v.Num
		return v, nil
	case p.tok.kind == tokOp && p.tok.text == "~":
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		v, err := p.parseUnary()
		if err != nil {
			return symtab.Undef, err
		}
		if v.Undefined() {
			return symtab.Undef, nil
		}
		v.Num = ^v.Num
		return v, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (symtab.Value, error) {
	switch p.tok.kind {
	case tokNumber:
		n := p.tok.num
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		return symtab.Const(n), nil

	case tokTempLabel:
		digit, fwd := p.tok.digit, p.tok.fwd
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		return p.resolver.TempLabel(digit, fwd)

	case tokLParen:
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		v, err := p.parseExpr(0)
		if err != nil {
			return symtab.Undef, err
		}
		if p.tok.kind != tokRParen {
			return symtab.Undef, fmt.Errorf("unmatched parenthesis")
		}
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		return v, nil

	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return symtab.Undef, err
		}
		if strings.EqualFold(name, "sizeof") && p.tok.kind == tokLParen {
			return p.parseSizeof()
		}
		return p.resolveQualified(name)

	default:
		return symtab.Undef, fmt.Errorf("unexpected token in expression")
	}
}

func (p *parser) parseSizeof() (symtab.Value, error) {
	if err := p.advance(); err != nil { // consume '('
		return symtab.Undef, err
	}
	if p.tok.kind != tokIdent {
		return symtab.Undef, fmt.Errorf("sizeof() requires a type or symbol name")
	}
	name := p.tok.text
	if err := p.advance(); err != nil {
		return symtab.Undef, err
	}
	if p.tok.kind != tokRParen {
		return symtab.Undef, fmt.Errorf("unmatched parenthesis in sizeof()")
	}
	if err := p.advance(); err != nil {
		return symtab.Undef, err
	}
	sz, err := p.resolver.SizeOf(name)
	if err != nil {
		return symtab.Undef, err
	}
	return symtab.Const(sz), nil
}

// resolveQualified resolves "name[.member]*" chains: the first segment is a
// bare reference, each following segment is a Member lookup against the
// running value.
func (p *parser) resolveQualified(dotted string) (symtab.Value, error) {
	parts := strings.Split(dotted, ".")
	v := p.resolver.Reference(parts[0])
	for _, m := range parts[1:] {
		if v.Undefined() {
			return symtab.Undef, nil
		}
		var err error
		v, err = p.resolver.Member(v, m)
		if err != nil {
			return symtab.Undef, err
		}
	}
	return v, nil
}

// combine applies one binary operator to two values, propagating category
// per spec §4.7.
func combine(op string, l, r symtab.Value) (symtab.Value, error) {
	if l.Undefined() || r.Undefined() {
		return symtab.Undef, nil
	}

	switch op {
	case "==", "<", "<=", ">", ">=":
		return symtab.Const(boolToInt(compare(op, l.Num, r.Num))), nil

	case "<<", ">>", "/", "//":
		if r.Category() != symtab.CatConstant {
			return symtab.Undef, fmt.Errorf("INV_VALUE_CATEGORY: right operand of %q must be a constant", op)
		}
		if (op == "/" || op == "//") && r.Num == 0 {
			return symtab.Undef, fmt.Errorf("DIV_BY_ZERO")
		}
		var n int32
		switch op {
		case "<<":
			n = l.Num << uint32(r.Num)
		case ">>":
			n = l.Num >> uint32(r.Num)
		case "/":
			n = l.Num / r.Num
		case "//":
			n = l.Num % r.Num
		}
		return withCategory(n, l.Category()), nil

	default: // |, &, ^, +, -, *
		var n int32
		switch op {
		case "|":
			n = l.Num | r.Num
		case "&":
			n = l.Num & r.Num
		case "^":
			n = l.Num ^ r.Num
		case "+":
			n = l.Num + r.Num
		case "-":
			n = l.Num - r.Num
		case "*":
			n = l.Num * r.Num
		}
		return combineCategories(n, l.Category(), r.Category())
	}
}

func combineCategories(n int32, lc, rc symtab.Category) (symtab.Value, error) {
	switch {
	case lc == symtab.CatConstant && rc == symtab.CatConstant:
		return symtab.Const(n), nil
	case lc == symtab.CatConstant:
		return withCategory(n, rc), nil
	case rc == symtab.CatConstant:
		return withCategory(n, lc), nil
	case lc == rc:
		return symtab.Const(n), nil
	default:
		return symtab.Undef, fmt.Errorf("INV_VALUE_CATEGORY: cannot combine %s and %s", lc, rc)
	}
}

func withCategory(n int32, c symtab.Category) symtab.Value {
	switch c {
	case symtab.CatCode:
		return symtab.Value{Num: n, Kind: symtab.KindCodeLabel}
	case symtab.CatData:
		return symtab.Value{Num: n, Kind: symtab.KindDataLabel}
	case symtab.CatStack:
		return symtab.Value{Num: n, Kind: symtab.KindParam}
	case symtab.CatResource:
		return symtab.Value{Num: n, Kind: symtab.KindResourceLabel}
	default:
		return symtab.Const(n)
	}
}

func compare(op string, a, b int32) bool {
	switch op {
	case "==":
		return a == b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	case ">=":
		return a >= b
	}
	return false
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
