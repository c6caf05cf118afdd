/*
 * PRC68K - Effective-address field and extension-word encoding.
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
	"fmt"

	"github.com/rcornwell/prc68k/operand"
	"github.com/rcornwell/prc68k/symtab"
)

// eaFields is the 6-bit (mode,reg) pair plus any extension words a given
// operand contributes to an instruction, independent of which operand
// position (source or destination) it occupies.
type eaFields struct {
	Mode uint16
	Reg  uint16
	Ext  []byte
}

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func be32(v uint32) []byte { return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)} }

func checkRange(v int32, lo, hi int64, errTag error) error {
	if int64(v) < lo || int64(v) > hi {
		return fmt.Errorf("%w: value %d out of range [%d,%d]", errTag, v, lo, hi)
	}
	return nil
}

// encodeEA computes the mode/reg field and extension words for one operand.
// It takes no source/destination flag: effective-address encoding is
// positionally identical for source and destination operands on the 68000.
func encodeEA(op operand.Operand, size Size) (eaFields, error) {
	switch op.Mode {
	case operand.ModeDn:
		return eaFields{Mode: 0, Reg: uint16(op.Reg)}, nil
	case operand.ModeAn:
		return eaFields{Mode: 1, Reg: uint16(op.Reg)}, nil
	case operand.ModeAnInd:
		return eaFields{Mode: 2, Reg: uint16(op.Reg)}, nil
	case operand.ModeAnPostInc:
		return eaFields{Mode: 3, Reg: uint16(op.Reg)}, nil
	case operand.ModeAnPreDec:
		return eaFields{Mode: 4, Reg: uint16(op.Reg)}, nil
	case operand.ModeAnDisp:
		if err := checkRange(op.Value.Num, -32768, 32767, ErrInv16BitData); err != nil {
			return eaFields{}, err
		}
		return eaFields{Mode: 5, Reg: uint16(op.Reg), Ext: be16(uint16(int16(op.Value.Num)))}, nil
	case operand.ModeAnIndex:
		return eaFields{Mode: 6, Reg: uint16(op.Reg), Ext: indexExt(op)}, nil
	case operand.ModeAbsW:
		if op.Value.Category() == symtab.CatCode {
			return eaFields{}, operand.ErrCodeAddressNotPC
		}
		if err := checkRange(op.Value.Num, -32768, 32767, ErrInv16BitData); err != nil {
			return eaFields{}, err
		}
		return eaFields{Mode: 7, Reg: 0, Ext: be16(uint16(int16(op.Value.Num)))}, nil
	case operand.ModeAbsL:
		if op.Value.Category() == symtab.CatCode {
			return eaFields{}, operand.ErrCodeAddressNotPC
		}
		return eaFields{Mode: 7, Reg: 1, Ext: be32(uint32(op.Value.Num))}, nil
	case operand.ModePCDisp:
		if err := checkRange(op.Value.Num, -32768, 32767, ErrInv16BitData); err != nil {
			return eaFields{}, err
		}
		return eaFields{Mode: 7, Reg: 2, Ext: be16(uint16(int16(op.Value.Num)))}, nil
	case operand.ModePCIndex:
		return eaFields{Mode: 7, Reg: 3, Ext: indexExt(op)}, nil
	case operand.ModeImmediate:
		return eaFields{Mode: 7, Reg: 4, Ext: immExt(op.Value.Num, size)}, nil
	default:
		return eaFields{}, fmt.Errorf("%w: unsupported addressing mode", ErrInvAddrMode)
	}
}

func indexExt(op operand.Operand) []byte {
	var b byte
	if op.IndexAddr {
		b |= 0x80
	}
	if op.IndexLong {
		b |= 0x08
	}
	b |= byte(op.Reg) << 4
	disp := int8(op.Value.Num)
	return []byte{b, byte(disp)}
}

func immExt(v int32, size Size) []byte {
	switch size {
	case SizeByte:
		return be16(uint16(uint8(v))) // byte immediates still occupy a full extension word
	case SizeLong:
		return be32(uint32(v))
	default:
		return be16(uint16(v))
	}
}

// skeletonFor picks the flavor's mask for the selected size.
func skeletonFor(f *Flavor, size Size) uint16 {
	switch size {
	case SizeByte:
		return f.ByteMask
	case SizeLong:
		return f.LongMask
	default:
		return f.WordMask
	}
}

// sizeBits is the standard 2-bit size encoding used by many 68000
// instruction families (00=byte, 01=word, 10=long).
func sizeBits(size Size) uint16 {
	switch size {
	case SizeByte:
		return 0
	case SizeLong:
		return 2
	default:
		return 1
	}
}
