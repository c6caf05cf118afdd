/*
 * PRC68K - ADDI/SUBI with ADDQ/SUBQ downgrade, and ADDQ/SUBQ directly.
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

func init() {
	register(Entry{
		Mnemonic:  "ADDI",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeImmediate),
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasSrc:   true, HasDst: true,
			ByteMask: 0x0600, WordMask: 0x0600, LongMask: 0x0600,
			Build: buildAddSubImmediate(true),
		}},
	})
	register(Entry{
		Mnemonic:  "SUBI",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeImmediate),
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasSrc:   true, HasDst: true,
			ByteMask: 0x0400, WordMask: 0x0400, LongMask: 0x0400,
			Build: buildAddSubImmediate(false),
		}},
	})
	register(Entry{
		Mnemonic:  "ADDQ",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeImmediate),
			DstModes: allAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasSrc:   true, HasDst: true,
			Build: buildQuickMath(0x5000),
		}},
	})
	register(Entry{
		Mnemonic:  "SUBQ",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeImmediate),
			DstModes: allAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasSrc:   true, HasDst: true,
			Build: buildQuickMath(0x5100),
		}},
	})
}

// buildAddSubImmediate implements the ADDI/SUBI builder and the
// ADDI/SUBI-to-ADDQ/SUBQ downgrade of spec §4.6: a defined immediate of
// 1..8 re-encodes as the quick form, Guard-protected per line.
func buildAddSubImmediate(isAdd bool) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		key := guardKey(pos, guard.SubQuickMath)
		eligible := !src.Value.Undefined() && src.Value.Num >= 1 && src.Value.Num <= 8

		useQuick, err := c.Guards.Decide(key, c.FinalPass(), boolToInt(eligible))
		if err != nil {
			return nil, err
		}
		if useQuick != 0 {
			skeleton := uint16(0x5000)
			if !isAdd {
				skeleton = 0x5100
			}
			return buildQuickMathBytes(skeleton, size, src.Value.Num, dst)
		}

		dstEA, err := encodeEA(dst, size)
		if err != nil {
			return nil, err
		}
		op := f.skeletonMask(size) | sizeBits(size)<<6 | dstEA.Mode<<3 | dstEA.Reg
		out := be16(op)
		out = append(out, immExt(src.Value.Num, size)...)
		out = append(out, dstEA.Ext...)
		return out, nil
	}
}

func (f *Flavor) skeletonMask(size Size) uint16 { return skeletonFor(f, size) }

func buildQuickMath(skeleton uint16) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		return buildQuickMathBytes(skeleton, size, src.Value.Num, dst)
	}
}

func buildQuickMathBytes(skeleton uint16, size Size, data int32, dst operand.Operand) ([]byte, error) {
	if data < 1 || data > 8 {
		return nil, ErrInv8BitData
	}
	field := uint16(data % 8) // 8 encodes as 0
	dstEA, err := encodeEA(dst, size)
	if err != nil {
		return nil, err
	}
	op := skeleton | field<<9 | sizeBits(size)<<6 | dstEA.Mode<<3 | dstEA.Reg
	out := be16(op)
	out = append(out, dstEA.Ext...)
	return out, nil
}
