/*
 * PRC68K - Conditional assembly: IF/IFDEF/IFNDEF/ELSE/ENDIF.
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
)

func init() {
	encoder.RegisterDirective("IF", dirIf(condExpr))
	encoder.RegisterDirective("IFDEF", dirIf(condDef(true)))
	encoder.RegisterDirective("IFNDEF", dirIf(condDef(false)))
	encoder.RegisterDirective("ELSE", dirElse)
	encoder.RegisterDirective("ENDIF", dirEndif)
}

func condExpr(c *asmctx.Context, operands string) (bool, error) {
	v, err := asmctx.NewEvaluator(c).Eval(operands)
	if err != nil {
		return false, err
	}
	return v.Num != 0, nil
}

func condDef(wantDefined bool) func(*asmctx.Context, string) (bool, error) {
	return func(c *asmctx.Context, operands string) (bool, error) {
		name := strings.TrimSpace(operands)
		_, ok := c.Symbols.Global.Lookup(name)
		if c.Proc != nil {
			if _, pok := c.Proc.Lookup(name); pok {
				ok = true
			}
		}
		return ok == wantDefined, nil
	}
}

// dirIf always evaluates its own condition (even inside an already-false
// outer frame, so the nesting depth stays correct), but a newly pushed
// frame's Taken only matters while every enclosing frame is also Taken;
// Context.Assembling() checks the whole stack, so a frame nested inside a
// skipped one is harmless to compute regardless of its own truth value.
func dirIf(eval func(*asmctx.Context, string) (bool, error)) encoder.DirectiveFunc {
	return func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
		if len(c.CondStack) >= asmctx.MaxCondDepth {
			return fmt.Errorf("conditional nesting exceeds %d levels", asmctx.MaxCondDepth)
		}
		taken, err := eval(c, operands)
		if err != nil {
			taken = false
		}
		c.CondStack = append(c.CondStack, asmctx.CondFrame{Taken: taken})
		return nil
	}
}

func dirElse(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if len(c.CondStack) == 0 {
		return fmt.Errorf("ELSE without IF")
	}
	top := &c.CondStack[len(c.CondStack)-1]
	if top.SeenElse {
		return fmt.Errorf("duplicate ELSE")
	}
	top.SeenElse = true
	top.Taken = !top.Taken
	return nil
}

func dirEndif(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if len(c.CondStack) == 0 {
		return fmt.Errorf("ENDIF without IF")
	}
	c.CondStack = c.CondStack[:len(c.CondStack)-1]
	return nil
}
