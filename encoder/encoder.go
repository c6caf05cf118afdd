/*
 * PRC68K - Instruction table and flavor dispatch.
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

// Package encoder implements the flavor-matching instruction encoder of
// spec §4.5/§4.6: given a mnemonic, an optional size suffix, and up to two
// raw operand strings, it parses operands lazily, matches them against an
// ordered list of flavors, and emits (or, in passes 0/1, merely sizes) the
// resulting bytes.
package encoder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/guard"
	"github.com/rcornwell/prc68k/operand"
	"github.com/rcornwell/prc68k/srcstack"
)

// Size is the instruction's selected operation width.
type Size int

const (
	SizeNone Size = iota
	SizeByte
	SizeWord
	SizeLong
)

// modeSet is a bitmask over operand.Mode values, used to express a
// flavor's allowed source/destination addressing modes compactly.
type modeSet uint32

func modeBit(m operand.Mode) modeSet { return 1 << uint(m) }

var allData = modeBit(operand.ModeDn) | modeBit(operand.ModeAn) | modeBit(operand.ModeAnInd) |
	modeBit(operand.ModeAnPostInc) | modeBit(operand.ModeAnPreDec) | modeBit(operand.ModeAnDisp) |
	modeBit(operand.ModeAnIndex) | modeBit(operand.ModeAbsW) | modeBit(operand.ModeAbsL) |
	modeBit(operand.ModePCDisp) | modeBit(operand.ModePCIndex) | modeBit(operand.ModeImmediate)

var allAlterable = allData &^ modeBit(operand.ModeImmediate) &^ modeBit(operand.ModePCDisp) &^ modeBit(operand.ModePCIndex)

var dataAlterable = allAlterable &^ modeBit(operand.ModeAn)

// Builder produces the encoded bytes for one matched flavor. full is true on
// the final pass; builders return the complete bytes on every pass, and
// Encode only advances the location counter by their length before then.
type Builder func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error)

// Flavor is one legal (mnemonic, mode-pair, size) encoding.
type Flavor struct {
	SrcModes modeSet
	DstModes modeSet
	Sizes    map[Size]bool
	Build    Builder
	ByteMask uint16
	WordMask uint16
	LongMask uint16
	HasSrc   bool
	HasDst   bool
}

// Entry is one instruction table row.
type Entry struct {
	Mnemonic  string
	Flavors   []Flavor
	ParseFlag bool // true: operands are parsed and flavors matched; false: Directive handles raw text.
	Directive DirectiveFunc
}

// DirectiveFunc is the signature non-instruction table entries dispatch to;
// defined here (rather than in package assembler) so the single sorted
// table can hold both instructions and directives under one lookup.
// sizeSuffix carries any ".B"/".W"/".L" the line assembler split off (DC,
// DS, and MOVEM all care).
type DirectiveFunc func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error

var table []Entry
var byName map[string]*Entry

func register(e Entry) { table = append(table, e) }

// RegisterDirective adds a non-instruction entry (EQU, DC, IF, PROC, ...) to
// the same sorted mnemonic table instructions live in, per spec §4.5's
// single alphabetically sorted table. Callers (package assembler) must
// register all directives during init(), before the first Lookup.
func RegisterDirective(mnemonic string, fn DirectiveFunc) {
	register(Entry{Mnemonic: strings.ToUpper(mnemonic), Directive: fn})
}

// Lookup finds a table entry by mnemonic, case-insensitive.
func Lookup(mnemonic string) (*Entry, bool) {
	if byName == nil {
		buildIndex()
	}
	e, ok := byName[strings.ToUpper(mnemonic)]
	return e, ok
}

func buildIndex() {
	sort.Slice(table, func(i, j int) bool { return table[i].Mnemonic < table[j].Mnemonic })
	byName = make(map[string]*Entry, len(table))
	for i := range table {
		byName[table[i].Mnemonic] = &table[i]
	}
}

// ParseSize maps a mnemonic's trailing ".B"/".W"/".L"/".S" suffix (already
// split off by the caller) onto a Size; "" defaults to SizeNone, letting
// the flavor's own default apply.
func ParseSize(suffix string) (Size, bool) {
	switch strings.ToUpper(suffix) {
	case "":
		return SizeNone, true
	case "B":
		return SizeByte, true
	case "W", "S":
		return SizeWord, true
	case "L":
		return SizeLong, true
	}
	return SizeNone, false
}

// Errors named after spec §4.5/§4.6 diagnostic tags.
var (
	ErrInvAddrMode             = fmt.Errorf("INV_ADDR_MODE")
	ErrInv8BitData             = fmt.Errorf("INV_8_BIT_DATA")
	ErrInv16BitData            = fmt.Errorf("INV_16_BIT_DATA")
	ErrInv32BitData            = fmt.Errorf("INV_32_BIT_DATA")
	ErrUnsuccessfulShortBranch = fmt.Errorf("UNSUCCESSFULL_SHORT_BRANCH")
)

// Encode dispatches mnemonic against the instruction table: it parses
// operands lazily (source first, then destination) against each flavor in
// order until one matches every constraint, then calls its Builder. The
// key, position, and sub-id feed any Guard decision the builder needs to
// make; each kind of guarded choice (branch length, MOVEQ downgrade,
// absolute width, ...) has its own guard.Sub* sub-id.
func Encode(c *asmctx.Context, mnemonic, sizeSuffix, operandText string, pos srcstack.Position) error {
	entry, ok := Lookup(mnemonic)
	if !ok {
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	if !entry.ParseFlag {
		label := "" // label handling is the line assembler's job; not reached here
		return entry.Directive(c, label, sizeSuffix, operandText, pos)
	}

	size, ok := ParseSize(sizeSuffix)
	if !ok {
		return fmt.Errorf("invalid size suffix %q", sizeSuffix)
	}

	srcText, dstText := splitOperands(operandText)

	res := asmctx.NewEvaluator(c)
	var srcOp, dstOp operand.Operand
	var srcParsed, dstParsed bool

	for i := range entry.Flavors {
		f := &entry.Flavors[i]
		if f.HasSrc && !srcParsed {
			op, err := operand.Parse(res, srcText)
			if err != nil {
				return err
			}
			if op, err = resolveAbsWidth(c, op, pos, guard.SubAbsWidthSrc); err != nil {
				return err
			}
			srcOp, srcParsed = op, true
		}
		if f.HasDst && !dstParsed {
			op, err := operand.Parse(res, dstText)
			if err != nil {
				return err
			}
			if op, err = resolveAbsWidth(c, op, pos, guard.SubAbsWidthDst); err != nil {
				return err
			}
			dstOp, dstParsed = op, true
		}

		if f.HasSrc && f.SrcModes&modeBit(srcOp.Mode) == 0 {
			continue
		}
		if f.HasDst && f.DstModes&modeBit(dstOp.Mode) == 0 {
			continue
		}
		effSize := size
		if effSize == SizeNone {
			effSize = defaultSize(f)
		}
		if !f.Sizes[effSize] {
			continue
		}

		bytes, err := f.Build(c, f, effSize, srcOp, dstOp, pos, c.FinalPass())
		if err != nil {
			return err
		}
		if c.FinalPass() {
			c.Segs.Emit(c.Segment, bytes)
		} else {
			c.Segs.Advance(c.Segment, uint32(len(bytes)))
		}
		return nil
	}
	return fmt.Errorf("%w: %s for %s", ErrInvAddrMode, operandText, mnemonic)
}

// resolveAbsWidth implements the absolute-address width decision of spec
// §4.4: an operand with no forcing ".W"/".L" suffix is short when its value
// fits a signed 16-bit range, long otherwise; the choice is Guarded so pass
// 2 repeats pass 1's choice even if the value's fit has since changed
// (raising GUARD_ERROR on mismatch, via guard.Store.Decide).
func resolveAbsWidth(c *asmctx.Context, op operand.Operand, pos srcstack.Position, subID int) (operand.Operand, error) {
	if op.Mode != operand.ModeAbsW || op.Forced {
		return op, nil
	}
	fitsShort := !op.Value.Undefined() && op.Value.Num >= -32768 && op.Value.Num <= 32767
	key := guardKey(pos, subID)
	wantShort, err := c.Guards.Decide(key, c.FinalPass(), boolToInt(fitsShort))
	if err != nil {
		return op, err
	}
	if wantShort == 0 {
		op.Mode = operand.ModeAbsL
	}
	return op, nil
}

func defaultSize(f *Flavor) Size {
	if f.Sizes[SizeWord] {
		return SizeWord
	}
	for _, s := range []Size{SizeByte, SizeLong} {
		if f.Sizes[s] {
			return s
		}
	}
	return SizeWord
}

func splitOperands(text string) (src, dst string) {
	depth := 0
	for i, r := range text {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+1:])
			}
		}
	}
	return strings.TrimSpace(text), ""
}

// guardKey builds the Guard key for a decision at pos; subID is one of the
// guard.Sub* constants naming which decision on the line it is.
func guardKey(pos srcstack.Position, subID int) guard.Key {
	return guard.Key{File: pos.File, Line: pos.Line, ExpandLine: pos.ExpandLine, SubID: subID}
}
