/*
 * PRC68K - Branch instructions: short/long encoding selection.
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

package encoder

import (
	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/guard"
	"github.com/rcornwell/prc68k/operand"
	"github.com/rcornwell/prc68k/srcstack"
)

// condCodes maps every Bcc mnemonic (less BRA/BSR, registered separately
// below) to its 4-bit condition field.
var condCodes = map[string]uint16{
	"BHI": 0x2, "BLS": 0x3, "BCC": 0x4, "BHS": 0x4, "BCS": 0x5, "BLO": 0x5,
	"BNE": 0x6, "BEQ": 0x7, "BVC": 0x8, "BVS": 0x9, "BPL": 0xA, "BMI": 0xB,
	"BGE": 0xC, "BLT": 0xD, "BGT": 0xE, "BLE": 0xF,
}

func init() {
	register(branchEntry("BRA", 0x0))
	register(branchEntry("BSR", 0x1))
	for mnem, cc := range condCodes {
		register(branchEntry(mnem, cc))
	}
}

func branchEntry(mnemonic string, cond uint16) Entry {
	return Entry{
		Mnemonic:  mnemonic,
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeAbsW) | modeBit(operand.ModePCDisp) | modeBit(operand.ModeAbsL),
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasSrc:   true,
			Build:    buildBranch(cond),
		}},
	}
}

// buildBranch implements the branch-length selection of spec §4.6: short
// when the displacement from the end of the opcode word to the target
// fits -128..127 and is non-zero, and `.L` was not forced; otherwise a
// 4-byte long branch. The choice is Guarded so pass 2 matches pass 1; a
// short branch that no longer fits raises UNSUCCESSFULL_SHORT_BRANCH.
func buildBranch(cond uint16) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		instrStart := c.Segs.Loc(c.Segment)
		endOfOpcode := instrStart + 2

		var disp int32
		if !src.Value.Undefined() {
			disp = src.Value.Num - int32(endOfOpcode)
		}

		forcedLong := size == SizeLong
		fitsShort := !forcedLong && disp != 0 && disp >= -128 && disp <= 127

		key := guardKey(pos, guard.SubBranchLength)
		wantShort, err := c.Guards.Decide(key, c.FinalPass(), boolToInt(fitsShort))
		if err != nil {
			return nil, err
		}

		if wantShort != 0 {
			if !fitsShort {
				return nil, ErrUnsuccessfulShortBranch
			}
			op := 0x6000 | cond<<8 | uint16(uint8(disp))
			return be16(op), nil
		}

		op := 0x6000 | cond<<8 // 0x00 displacement byte signals a word-length extension
		out := be16(op)
		longDisp := src.Value.Num - int32(endOfOpcode)
		out = append(out, be16(uint16(int16(longDisp)))...)
		return out, nil
	}
}
