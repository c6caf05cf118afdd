/*
 * PRC68K - EQU/SET/GLOBAL/LOCAL/EXTERN/REG/TYPEDEF directives.
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
	"fmt"
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/encoder"
	"github.com/rcornwell/prc68k/srcstack"
	"github.com/rcornwell/prc68k/symtab"
)

func init() {
	encoder.RegisterDirective("EQU", dirEqu)
	encoder.RegisterDirective("SET", dirSet)
	encoder.RegisterDirective("GLOBAL", dirGlobal)
	encoder.RegisterDirective("LOCAL", dirLocal)
	encoder.RegisterDirective("EXTERN", dirExtern)
	encoder.RegisterDirective("REG", dirReg)
	encoder.RegisterDirective("TYPEDEF", dirTypedef)
}

func dirEqu(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if label == "" {
		return fmt.Errorf("EQU requires a label")
	}
	v, err := asmctx.NewEvaluator(c).Eval(operands)
	if err != nil {
		return err
	}
	_, err = c.Symbols.Define(c.Symbols.Global, label, symtab.KindEqu, v.Num, false)
	return err
}

func dirSet(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if label == "" {
		return fmt.Errorf("SET requires a label")
	}
	v, err := asmctx.NewEvaluator(c).Eval(operands)
	if err != nil {
		return err
	}
	_, err = c.Symbols.Define(c.Symbols.Global, label, symtab.KindSet, v.Num, true)
	return err
}

// dirGlobal, dirLocal, and dirExtern carry no linker in this single-file
// assembler; they just make sure every named symbol exists so later
// references don't read as a fresh implicit forward declaration.
func dirGlobal(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	forEachName(operands, func(name string) { c.Symbols.Reference(nil, name) })
	return nil
}

func dirLocal(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	forEachName(operands, func(name string) { c.Symbols.Reference(c.CurrentScope(), name) })
	return nil
}

func dirExtern(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	forEachName(operands, func(name string) { c.Symbols.Reference(nil, name) })
	return nil
}

// dirReg defines a register-alias constant: "REG EQU D0"-style, except the
// right-hand side is a register name rather than an expression.
func dirReg(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if label == "" {
		return fmt.Errorf("REG requires a label")
	}
	n, ok := regNumber(strings.TrimSpace(operands))
	if !ok {
		return fmt.Errorf("REG: %q is not a register name", operands)
	}
	_, err := c.Symbols.Define(c.Symbols.Global, label, symtab.KindRegister, n, false)
	return err
}

func regNumber(s string) (int32, bool) {
	s = strings.ToUpper(s)
	if len(s) != 2 || (s[0] != 'D' && s[0] != 'A') || s[1] < '0' || s[1] > '7' {
		return 0, false
	}
	n := int32(s[1] - '0')
	if s[0] == 'A' {
		n += 8
	}
	return n, true
}

// dirTypedef defines an alias for an already-known type name: "newname
// TYPEDEF oldname", with the new name in the label column (spec §6.2).
func dirTypedef(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if label == "" {
		return fmt.Errorf("TYPEDEF requires a label")
	}
	base := strings.TrimSpace(operands)
	baseSym, ok := c.Symbols.Global.Lookup(base)
	if !ok || baseSym.Kind != symtab.KindType {
		return fmt.Errorf("TYPEDEF: %q is not a known type", base)
	}
	idx := c.Symbols.NewType(symtab.TypeDesc{
		DisplayName: label,
		Kind:        symtab.TypeAlias,
		Size:        c.Symbols.Type(baseSym.TypeIdx).Size,
		Base:        baseSym.TypeIdx,
	})
	sym, err := c.Symbols.Define(c.Symbols.Global, label, symtab.KindType, 0, false)
	if err != nil {
		return err
	}
	sym.TypeIdx = idx
	return nil
}

func forEachName(operands string, f func(name string)) {
	for _, part := range strings.Split(operands, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			f(part)
		}
	}
}
