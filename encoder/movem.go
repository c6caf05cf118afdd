/*
 * PRC68K - MOVEM: register-list transfer with ambiguous operand order.
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
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/guard"
	"github.com/rcornwell/prc68k/operand"
	"github.com/rcornwell/prc68k/srcstack"
)

// registerList parses "D0-D3/D7/A0-A2" style MOVEM lists into a 16-bit
// register mask (bit 0 = D0 .. bit 15 = A7).
func registerList(s string) (uint16, bool) {
	var mask uint16
	for _, group := range strings.Split(s, "/") {
		group = strings.TrimSpace(group)
		if group == "" {
			return 0, false
		}
		if dash := strings.Index(group, "-"); dash >= 0 {
			lo, ok1 := regIndex(group[:dash])
			hi, ok2 := regIndex(group[dash+1:])
			if !ok1 || !ok2 || hi < lo {
				return 0, false
			}
			for i := lo; i <= hi; i++ {
				mask |= 1 << uint(i)
			}
			continue
		}
		idx, ok := regIndex(group)
		if !ok {
			return 0, false
		}
		mask |= 1 << uint(idx)
	}
	return mask, true
}

func regIndex(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return 0, false
	}
	if s[1] < '0' || s[1] > '7' {
		return 0, false
	}
	n := int(s[1] - '0')
	switch s[0] {
	case 'D':
		return n, true
	case 'A':
		return n + 8, true
	}
	return 0, false
}

// reverseMask mirrors a 16-bit register mask bit-for-bit; predecrement
// mode stores the list back-to-front relative to every other mode.
func reverseMask(m uint16) uint16 {
	var out uint16
	for i := 0; i < 16; i++ {
		if m&(1<<uint(i)) != 0 {
			out |= 1 << uint(15-i)
		}
	}
	return out
}

// ParseMovemOperands resolves the MOVEM <list>,<ea> / MOVEM <ea>,<list>
// ambiguity of spec §4.6: it first assumes list-then-ea, and on failure
// tries ea-then-list; the order that parsed is Guarded so pass 2 repeats
// the same attempt order without needing to re-derive it.
func ParseMovemOperands(c *asmctx.Context, res operand.Resolver, a, b string, pos srcstack.Position, regsToMemory bool) (mask uint16, ea operand.Operand, err error) {
	key := guardKey(pos, guard.SubMovemOrder)

	tryListFirst := func() (uint16, operand.Operand, error) {
		m, ok := registerList(a)
		if !ok {
			return 0, operand.Operand{}, ErrInvAddrMode
		}
		e, err := operand.Parse(res, b)
		return m, e, err
	}
	tryEAFirst := func() (uint16, operand.Operand, error) {
		e, err := operand.Parse(res, a)
		if err != nil {
			return 0, operand.Operand{}, err
		}
		m, ok := registerList(b)
		if !ok {
			return 0, operand.Operand{}, ErrInvAddrMode
		}
		return m, e, nil
	}

	listFirstWorks := int64(0)
	m, e, perr := tryListFirst()
	if perr == nil {
		listFirstWorks = 1
	}

	order, gerr := c.Guards.Decide(key, c.FinalPass(), listFirstWorks)
	if gerr != nil {
		return 0, operand.Operand{}, gerr
	}
	if order != 0 {
		if perr != nil {
			return 0, operand.Operand{}, perr
		}
		return m, e, nil
	}
	return tryEAFirst()
}

func init() {
	register(Entry{
		Mnemonic:  "MOVEM",
		ParseFlag: true,
		Flavors: []Flavor{{
			Sizes:  map[Size]bool{SizeWord: true, SizeLong: true},
			HasSrc: false, HasDst: false,
			Build: nil, // MOVEM has bespoke operand handling; see buildMovem below.
		}},
	})
	// Replace the generic flavor-dispatch entry point for MOVEM with one
	// whose Directive does the list/ea disambiguation directly, since its
	// operand order cannot be decided by the lazy src-then-dst protocol the
	// rest of the table uses.
	table[len(table)-1].ParseFlag = false
	table[len(table)-1].Directive = movemDirective
}

func movemDirective(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	a, b := splitOperands(operands)
	res := asmctx.NewEvaluator(c)

	// Heuristic consistent with spec: a register-list syntax (contains '/'
	// or '-' or is a bare Dn/An) on the left means registers-to-memory.
	regsToMemory := looksLikeRegList(a)

	size := SizeWord
	if sz, ok := ParseSize(sizeSuffix); ok && sz == SizeLong {
		size = SizeLong
	}

	var mask uint16
	var ea operand.Operand
	var err error
	if regsToMemory {
		mask, ea, err = ParseMovemOperands(c, res, a, b, pos, true)
	} else {
		mask, ea, err = ParseMovemOperands(c, res, b, a, pos, false)
	}
	if err != nil {
		return err
	}

	eaMask := mask
	if ea.Mode == operand.ModeAnPreDec {
		eaMask = reverseMask(mask)
	}

	eaf, err := encodeEA(ea, size)
	if err != nil {
		return err
	}
	op := uint16(0x4880) | sizeBits(size)<<6 | eaf.Mode<<3 | eaf.Reg
	if !regsToMemory {
		op |= 1 << 10
	}
	bytes := be16(op)
	bytes = append(bytes, be16(eaMask)...)
	bytes = append(bytes, eaf.Ext...)

	if c.FinalPass() {
		c.Segs.Emit(c.Segment, bytes)
	} else {
		c.Segs.Advance(c.Segment, uint32(len(bytes)))
	}
	return nil
}

func looksLikeRegList(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "/-") {
		return true
	}
	if len(s) == 2 {
		u := strings.ToUpper(s)
		if (u[0] == 'D' || u[0] == 'A') && u[1] >= '0' && u[1] <= '7' {
			return true
		}
	}
	return false
}
