/*
 * PRC68K - Data/location directives: DC, DS, DCB, ORG, ALIGN, segments.
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
	"strconv"
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/encoder"
	"github.com/rcornwell/prc68k/srcstack"
	"github.com/rcornwell/prc68k/symtab"
)

func init() {
	encoder.RegisterDirective("DC", dirDC)
	encoder.RegisterDirective("DS", dirDS)
	encoder.RegisterDirective("DCB", dirDCB)
	encoder.RegisterDirective("ORG", dirOrg)
	encoder.RegisterDirective("ALIGN", dirAlign)
	encoder.RegisterDirective("CODE", segmentSwitcher(asmctx.SegCode))
	encoder.RegisterDirective("DATA", segmentSwitcher(asmctx.SegData))
	encoder.RegisterDirective("RES", dirRes)
	encoder.RegisterDirective("APPL", dirAppl)
	encoder.RegisterDirective("INCBIN", dirIncbin)
}

func sizeBytes(sz encoder.Size) int32 {
	switch sz {
	case encoder.SizeByte:
		return 1
	case encoder.SizeLong:
		return 4
	default:
		return 2
	}
}

// dirDC lays down one or more initialized values: numeric expressions sized
// by sizeSuffix (default word), or single-quoted strings emitted one byte
// per character regardless of size (spec §6.2).
func dirDC(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	sz, ok := encoder.ParseSize(sizeSuffix)
	if !ok {
		return fmt.Errorf("DC: invalid size suffix %q", sizeSuffix)
	}
	if sz == encoder.SizeNone {
		sz = encoder.SizeWord
	}
	ev := asmctx.NewEvaluator(c)
	for _, item := range splitTopLevel(operands, ',') {
		item = strings.TrimSpace(item)
		if strings.HasPrefix(item, "'") && strings.HasSuffix(item, "'") && len(item) >= 2 {
			emitBytes(c, []byte(item[1:len(item)-1]))
			continue
		}
		v, err := ev.Eval(item)
		if err != nil {
			return err
		}
		emitSized(c, sz, v.Num)
	}
	return nil
}

// dirDS reserves storage, zero-filled on the final pass: outside an open
// STRUCT/UNION/ENUM it advances the current segment; inside one, per spec
// §6.2's aggregate-definition directives, it instead records a member.
func dirDS(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	sz, ok := encoder.ParseSize(sizeSuffix)
	if !ok {
		return fmt.Errorf("DS: invalid size suffix %q", sizeSuffix)
	}
	if sz == encoder.SizeNone {
		sz = encoder.SizeWord
	}
	count, err := evalCount(c, operands)
	if err != nil {
		return err
	}
	n := sizeBytes(sz) * count

	if agg := topAggOf(c); agg != nil {
		recordAggMember(agg, label, n)
		return nil
	}

	if c.Proc != nil {
		return declareLocal(c, label, n)
	}

	if label != "" {
		if err := defineAt(c, label, segmentKind(c.Segment), int32(c.Segs.Loc(c.Segment))); err != nil {
			return err
		}
	}
	if c.FinalPass() {
		c.Segs.Emit(c.Segment, make([]byte, n))
	} else {
		c.Segs.Advance(c.Segment, uint32(n))
	}
	return nil
}

// dirDCB fills count units of sizeSuffix size with one repeated value:
// "DCB.W count,value".
func dirDCB(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	sz, ok := encoder.ParseSize(sizeSuffix)
	if !ok {
		return fmt.Errorf("DCB: invalid size suffix %q", sizeSuffix)
	}
	if sz == encoder.SizeNone {
		sz = encoder.SizeWord
	}
	parts := splitTopLevel(operands, ',')
	if len(parts) != 2 {
		return fmt.Errorf("DCB requires count,value")
	}
	ev := asmctx.NewEvaluator(c)
	cv, err := ev.Eval(strings.TrimSpace(parts[0]))
	if err != nil {
		return err
	}
	vv, err := ev.Eval(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}
	for i := int32(0); i < cv.Num; i++ {
		emitSized(c, sz, vv.Num)
	}
	return nil
}

func dirOrg(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	v, err := asmctx.NewEvaluator(c).Eval(operands)
	if err != nil {
		return err
	}
	c.Segs.SetLoc(c.Segment, uint32(v.Num))
	return nil
}

func dirAlign(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	v, err := asmctx.NewEvaluator(c).Eval(operands)
	if err != nil {
		return err
	}
	n := uint32(v.Num)
	if n <= 1 {
		return nil
	}
	loc := c.Segs.Loc(c.Segment)
	pad := (n - loc%n) % n
	if pad == 0 {
		return nil
	}
	if c.FinalPass() {
		c.Segs.Emit(c.Segment, make([]byte, pad))
	} else {
		c.Segs.Advance(c.Segment, pad)
	}
	return nil
}

func segmentSwitcher(seg asmctx.Segment) encoder.DirectiveFunc {
	return func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
		c.Segment = seg
		return nil
	}
}

// dirRes opens a named resource entry: "RES 'type',id[,'name']" selects the
// resource segment and marks a new resource boundary at the current
// location, for the prcfile builder to slice out once assembly finishes.
func dirRes(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	c.Segment = asmctx.SegRes
	parts := splitTopLevel(operands, ',')
	if len(parts) < 2 {
		return fmt.Errorf("RES requires 'type',id")
	}
	typ := strings.Trim(strings.TrimSpace(parts[0]), "'")
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 0, 32)
	if err != nil {
		return fmt.Errorf("RES: invalid id: %w", err)
	}
	var name string
	if len(parts) > 2 {
		name = strings.Trim(strings.TrimSpace(parts[2]), "'")
	}
	c.ResType, c.ResID = typ, int32(id)
	if c.FinalPass() {
		c.MarkResource(typ, int32(id), name)
	}
	return nil
}

// dirAppl records the application's creator id and, optionally, the
// database type override (spec §6.1's -t flag default is "appl").
func dirAppl(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	parts := splitTopLevel(operands, ',')
	if len(parts) == 0 {
		return fmt.Errorf("APPL requires a creator id")
	}
	c.Creator = strings.Trim(strings.TrimSpace(parts[0]), "'")
	if len(parts) > 1 {
		c.Opts.DBType = strings.Trim(strings.TrimSpace(parts[1]), "'")
	}
	c.SawAPPL = true
	return nil
}

// dirIncbin embeds a raw file's bytes verbatim at the current location.
func dirIncbin(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	path := strings.Trim(strings.TrimSpace(operands), "'\"")
	data, err := c.ReadIncludedFile(path)
	if err != nil {
		return err
	}
	if c.FinalPass() {
		c.Segs.Emit(c.Segment, data)
	} else {
		c.Segs.Advance(c.Segment, uint32(len(data)))
	}
	return nil
}

func emitSized(c *asmctx.Context, sz encoder.Size, n int32) {
	var b []byte
	switch sz {
	case encoder.SizeByte:
		b = []byte{byte(n)}
	case encoder.SizeLong:
		b = []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	default:
		b = []byte{byte(n >> 8), byte(n)}
	}
	emitBytes(c, b)
}

func emitBytes(c *asmctx.Context, b []byte) {
	if c.FinalPass() {
		c.Segs.Emit(c.Segment, b)
	} else {
		c.Segs.Advance(c.Segment, uint32(len(b)))
	}
}

func evalCount(c *asmctx.Context, operands string) (int32, error) {
	v, err := asmctx.NewEvaluator(c).Eval(strings.TrimSpace(operands))
	if err != nil {
		return 0, err
	}
	return v.Num, nil
}

func defineAt(c *asmctx.Context, name string, kind symtab.Kind, value int32) error {
	scope := c.Symbols.Global
	if c.Proc != nil {
		scope = c.Proc
	}
	_, err := c.Symbols.Define(scope, name, kind, value, false)
	return err
}

func segmentKind(seg asmctx.Segment) symtab.Kind {
	switch seg {
	case asmctx.SegData:
		return symtab.KindDataLabel
	case asmctx.SegRes:
		return symtab.KindResourceLabel
	default:
		return symtab.KindCodeLabel
	}
}

// splitTopLevel splits on sep outside of '...' string literals and
// parentheses, mirroring encoder.splitOperands but generalized to N items.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depth++
			}
		case ')':
			if !inQuote {
				depth--
			}
		default:
			if s[i] == sep && !inQuote && depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
