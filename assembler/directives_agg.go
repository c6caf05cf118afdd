/*
 * PRC68K - STRUCT/UNION/ENUM aggregate-definition directives.
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
	encoder.RegisterDirective("STRUCT", dirOpenAgg(asmctx.AggStruct))
	encoder.RegisterDirective("ENDSTRUCT", dirCloseAgg(asmctx.AggStruct))
	encoder.RegisterDirective("UNION", dirOpenAgg(asmctx.AggUnion))
	encoder.RegisterDirective("ENDUNION", dirCloseAgg(asmctx.AggUnion))
	encoder.RegisterDirective("ENUM", dirOpenAgg(asmctx.AggEnum))
	encoder.RegisterDirective("ENDENUM", dirCloseAgg(asmctx.AggEnum))
}

func topAggOf(c *asmctx.Context) *asmctx.AggBuilder {
	if len(c.Aggs) == 0 {
		return nil
	}
	return c.Aggs[len(c.Aggs)-1]
}

func dirOpenAgg(kind asmctx.AggKind) encoder.DirectiveFunc {
	return func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
		name := strings.TrimSpace(operands)
		if name == "" {
			return fmt.Errorf("%s requires a name", aggKindName(kind))
		}
		c.Aggs = append(c.Aggs, &asmctx.AggBuilder{Kind: kind, Name: name})
		return nil
	}
}

func dirCloseAgg(kind asmctx.AggKind) encoder.DirectiveFunc {
	return func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
		agg := topAggOf(c)
		if agg == nil || agg.Kind != kind {
			return fmt.Errorf("%s without matching open", aggKindName(kind))
		}
		c.Aggs = c.Aggs[:len(c.Aggs)-1]
		return closeAgg(c, agg)
	}
}

func closeAgg(c *asmctx.Context, agg *asmctx.AggBuilder) error {
	td := symtab.TypeDesc{DisplayName: agg.Name}
	switch agg.Kind {
	case asmctx.AggStruct:
		td.Kind = symtab.TypeStruct
		td.Size = agg.Offset
	case asmctx.AggUnion:
		td.Kind = symtab.TypeUnion
		td.Size = agg.MaxSize
	case asmctx.AggEnum:
		td.Kind = symtab.TypeEnum
		td.Size = 4
	}
	for _, m := range agg.Members {
		td.Members = append(td.Members, symtab.Member{Name: m.Name, Offset: m.Offset, Type: m.TypeIdx})
	}
	idx := c.Symbols.NewType(td)
	sym, err := c.Symbols.Define(c.Symbols.Global, agg.Name, symtab.KindType, 0, false)
	if err != nil {
		return err
	}
	sym.TypeIdx = idx

	if agg.Kind == asmctx.AggEnum {
		for _, m := range agg.Members {
			if _, err := c.Symbols.Define(c.Symbols.Global, m.Name, symtab.KindEnumMember, m.Offset, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// recordAggMember appends a struct/union field declared via a DS line
// inside an open aggregate, tracking the next byte offset per spec §4.8's
// struct/union layout rule: struct fields lay out sequentially, union
// fields all start at offset 0 and the aggregate's size is its widest
// member.
func recordAggMember(agg *asmctx.AggBuilder, name string, size int32) {
	var offset int32
	switch agg.Kind {
	case asmctx.AggUnion:
		offset = 0
		if size > agg.MaxSize {
			agg.MaxSize = size
		}
	default:
		offset = agg.Offset
		agg.Offset += size
	}
	if name != "" {
		agg.Members = append(agg.Members, asmctx.AggMember{Name: name, Offset: offset, TypeIdx: -1})
	}
}

func (r *Runner) defineEnumMember(agg *asmctx.AggBuilder, name string, pos srcstack.Position) {
	agg.Members = append(agg.Members, asmctx.AggMember{Name: name, Offset: agg.Offset, TypeIdx: -1})
	agg.Offset++
}

func aggKindName(k asmctx.AggKind) string {
	switch k {
	case asmctx.AggStruct:
		return "STRUCT/ENDSTRUCT"
	case asmctx.AggUnion:
		return "UNION/ENDUNION"
	default:
		return "ENUM/ENDENUM"
	}
}
