/*
 * PRC68K - No-operand and single-operand instructions, LEA/JSR/JMP.
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
	"github.com/rcornwell/prc68k/operand"
	"github.com/rcornwell/prc68k/srcstack"
)

func fixedWord(op uint16) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		return be16(op), nil
	}
}

func init() {
	noOperand := func(mnemonic string, op uint16) {
		register(Entry{
			Mnemonic:  mnemonic,
			ParseFlag: true,
			Flavors: []Flavor{{
				Sizes: map[Size]bool{SizeNone: true, SizeWord: true},
				Build: fixedWord(op),
			}},
		})
	}
	noOperand("NOP", 0x4E71)
	noOperand("RTS", 0x4E75)
	noOperand("RTE", 0x4E73)
	noOperand("TRAPV", 0x4E76)
	noOperand("RESET", 0x4E70)
	noOperand("ILLEGAL", 0x4AFC)

	controlAlterable := allAlterable &^ modeBit(operand.ModeDn)

	register(Entry{
		Mnemonic:  "LEA",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: controlAlterable | modeBit(operand.ModePCDisp) | modeBit(operand.ModePCIndex),
			DstModes: modeBit(operand.ModeAn),
			Sizes:    map[Size]bool{SizeLong: true},
			HasSrc:   true, HasDst: true,
			Build: buildLEA,
		}},
	})

	register(Entry{
		Mnemonic:  "JSR",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: controlAlterable | modeBit(operand.ModePCDisp) | modeBit(operand.ModePCIndex),
			Sizes:    map[Size]bool{SizeNone: true, SizeWord: true},
			HasSrc:   true,
			Build:    buildJumpFamily(0x4E80),
		}},
	})
	register(Entry{
		Mnemonic:  "JMP",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: controlAlterable | modeBit(operand.ModePCDisp) | modeBit(operand.ModePCIndex),
			Sizes:    map[Size]bool{SizeNone: true, SizeWord: true},
			HasSrc:   true,
			Build:    buildJumpFamily(0x4EC0),
		}},
	})

	register(Entry{
		Mnemonic:  "CLR",
		ParseFlag: true,
		Flavors: []Flavor{{
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasDst:   true,
			Build:    buildSingleOperand(0x4200),
		}},
	})
	register(Entry{
		Mnemonic:  "TST",
		ParseFlag: true,
		Flavors: []Flavor{{
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasDst:   true,
			Build:    buildSingleOperand(0x4A00),
		}},
	})
	register(Entry{
		Mnemonic:  "NOT",
		ParseFlag: true,
		Flavors: []Flavor{{
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasDst:   true,
			Build:    buildSingleOperand(0x4600),
		}},
	})
	register(Entry{
		Mnemonic:  "NEG",
		ParseFlag: true,
		Flavors: []Flavor{{
			DstModes: dataAlterable,
			Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
			HasDst:   true,
			Build:    buildSingleOperand(0x4400),
		}},
	})

	register(Entry{
		Mnemonic:  "LINK",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeAn),
			DstModes: modeBit(operand.ModeImmediate),
			Sizes:    map[Size]bool{SizeNone: true, SizeWord: true},
			HasSrc:   true, HasDst: true,
			Build: buildLink,
		}},
	})
	register(Entry{
		Mnemonic:  "UNLK",
		ParseFlag: true,
		Flavors: []Flavor{{
			SrcModes: modeBit(operand.ModeAn),
			Sizes:    map[Size]bool{SizeNone: true},
			HasSrc:   true,
			Build:    buildUnlk,
		}},
	})
}

func buildLEA(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
	srcEA, err := encodeEA(src, size)
	if err != nil {
		return nil, err
	}
	op := uint16(0x41C0) | uint16(dst.Reg)<<9 | srcEA.Mode<<3 | srcEA.Reg
	out := be16(op)
	out = append(out, srcEA.Ext...)
	return out, nil
}

func buildJumpFamily(skeleton uint16) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		ea, err := encodeEA(src, size)
		if err != nil {
			return nil, err
		}
		op := skeleton | ea.Mode<<3 | ea.Reg
		out := be16(op)
		out = append(out, ea.Ext...)
		return out, nil
	}
}

func buildSingleOperand(skeleton uint16) Builder {
	return func(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
		ea, err := encodeEA(dst, size)
		if err != nil {
			return nil, err
		}
		op := skeleton | sizeBits(size)<<6 | ea.Mode<<3 | ea.Reg
		out := be16(op)
		out = append(out, ea.Ext...)
		return out, nil
	}
}

func buildLink(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
	op := uint16(0x4E50) | uint16(src.Reg)
	out := be16(op)
	out = append(out, be16(uint16(int16(dst.Value.Num)))...)
	return out, nil
}

func buildUnlk(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
	op := uint16(0x4E58) | uint16(src.Reg)
	return be16(op), nil
}
