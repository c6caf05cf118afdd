/*
 * PRC68K - MOVE family: MOVE, MOVEA, MOVEQ downgrade.
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
		Mnemonic:  "MOVE",
		ParseFlag: true,
		Flavors: []Flavor{
			{
				SrcModes: allData,
				DstModes: dataAlterable,
				Sizes:    map[Size]bool{SizeByte: true, SizeWord: true, SizeLong: true},
				HasSrc:   true,
				HasDst:   true,
				Build:    buildMove,
			},
		},
	})
	register(Entry{
		Mnemonic:  "MOVEA",
		ParseFlag: true,
		Flavors: []Flavor{
			{
				SrcModes: allData,
				DstModes: modeBit(operand.ModeAn),
				Sizes:    map[Size]bool{SizeWord: true, SizeLong: true},
				HasSrc:   true,
				HasDst:   true,
				Build:    buildMoveaLike,
			},
		},
	})
}

// moveSkeleton builds MOVE's mask from its size field, which is encoded
// differently (bits 13-12) from most other instructions: 01=byte, 11=word,
// 10=long.
func moveSkeleton(size Size) uint16 {
	base := uint16(0x0000)
	switch size {
	case SizeByte:
		base |= 1 << 12
	case SizeWord:
		base |= 3 << 12
	case SizeLong:
		base |= 2 << 12
	}
	return base
}

// buildMove implements MOVE and the MOVE-to-MOVEQ downgrade of spec §4.6:
// an immediate source in -128..127 moving into a long-size Dn destination
// re-encodes as MOVEQ, a decision persisted via Guard(SubMoveqUse).
func buildMove(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
	key := guardKey(pos, guard.SubMoveqUse)
	eligible := src.Mode == operand.ModeImmediate && dst.Mode == operand.ModeDn && size == SizeLong &&
		!src.Value.Undefined() && src.Value.Num >= -128 && src.Value.Num <= 127

	useMoveq, err := c.Guards.Decide(key, c.FinalPass(), boolToInt(eligible))
	if err != nil {
		return nil, err
	}
	if useMoveq != 0 {
		op := uint16(0x7000) | uint16(dst.Reg)<<9 | uint16(uint8(src.Value.Num))
		return be16(op), nil
	}

	srcEA, err := encodeEA(src, size)
	if err != nil {
		return nil, err
	}
	dstEA, err := encodeEA(dst, size)
	if err != nil {
		return nil, err
	}
	// MOVE's destination EA field order is reg:mode (reversed from every
	// other two-operand instruction), positioned in bits 11-6.
	op := moveSkeleton(size) | dstEA.Reg<<9 | dstEA.Mode<<6 | srcEA.Mode<<3 | srcEA.Reg
	out := be16(op)
	out = append(out, srcEA.Ext...)
	out = append(out, dstEA.Ext...)
	return out, nil
}

func buildMoveaLike(c *asmctx.Context, f *Flavor, size Size, src, dst operand.Operand, pos srcstack.Position, full bool) ([]byte, error) {
	srcEA, err := encodeEA(src, size)
	if err != nil {
		return nil, err
	}
	op := moveSkeleton(size) | uint16(dst.Reg)<<9 | 1<<6 | srcEA.Mode<<3 | srcEA.Reg
	out := be16(op)
	out = append(out, srcEA.Ext...)
	return out, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
