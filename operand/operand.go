/*
 * PRC68K - Addressing-mode operand parser.
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

// Package operand recognizes 68000 addressing-mode syntax (spec §4.4) and
// returns a mode/register/data/index descriptor that the encoder's flavor
// dispatch matches against each instruction's allowed-mode masks.
package operand

import (
	"fmt"
	"strings"

	"github.com/rcornwell/prc68k/symtab"
)

// Mode is one 68000 effective-addressing mode, collapsed to the set the
// encoder needs to distinguish (register-direct modes keep their own tag
// rather than being folded into "register indirect with mode field 0/1",
// matching how flavor mode-masks are expressed in spec §4.4/§4.5).
type Mode int

const (
	ModeNone      Mode = iota
	ModeDn             // Dn
	ModeAn             // An
	ModeAnInd          // (An)
	ModeAnPostInc      // (An)+
	ModeAnPreDec       // -(An)
	ModeAnDisp         // d(An)
	ModeAnIndex        // d(An,Xn.size)
	ModeAbsW           // (xxx).W
	ModeAbsL           // (xxx).L
	ModePCDisp         // d(PC)
	ModePCIndex        // d(PC,Xn.size)
	ModeImmediate      // #imm
	ModeSR
	ModeCCR
	ModeUSP
	ModeSFC
	ModeDFC
	ModeVBR
)

// Resolver is the subset of eval.Resolver the operand parser needs to
// evaluate displacement/immediate sub-expressions.
type Resolver interface {
	Eval(expr string) (symtab.Value, error)
}

// Operand is the parsed descriptor the encoder's flavor matcher consumes.
type Operand struct {
	Mode      Mode
	Reg       int // 0-7 for Dn/An/index register; -1 if not applicable
	Value     symtab.Value
	IndexLong bool // true when the index register suffix is .L, false for .W
	IndexAddr bool // true when the index register is An rather than Dn
	// Forced is true when a ".W"/".L" suffix fixed an absolute operand's
	// width (Mode is then ModeAbsW/ModeAbsL as written); an unforced
	// absolute operand comes back as ModeAbsW with the width decision left
	// open for the caller to Guard.
	Forced bool
}

// Errors named after the diagnostic tags of spec §4.4 / §7.
var (
	ErrCodeAddressNotPC     = fmt.Errorf("CODE_ADDRESS_NOT_PC")
	ErrImmediateNotConst    = fmt.Errorf("IMMEDIATE_NOT_A_CONSTANT")
	ErrDataDispNeedsA5      = fmt.Errorf("data-category displacement must use A5")
	ErrStackDispNeedsA6     = fmt.Errorf("stack-category displacement must use A6")
	ErrPCDispNeedsCode      = fmt.Errorf("d(PC) must carry a code-category displacement")
	ErrInvalidAddressSyntax = fmt.Errorf("invalid addressing mode syntax")
)

// Parse recognizes one operand from `text` (already trimmed of surrounding
// whitespace), evaluating any sub-expression through r.
func Parse(r Resolver, text string) (Operand, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return Operand{}, ErrInvalidAddressSyntax
	}

	switch strings.ToUpper(t) {
	case "SR":
		return Operand{Mode: ModeSR, Reg: -1}, nil
	case "CCR":
		return Operand{Mode: ModeCCR, Reg: -1}, nil
	case "USP":
		return Operand{Mode: ModeUSP, Reg: -1}, nil
	case "SFC":
		return Operand{Mode: ModeSFC, Reg: -1}, nil
	case "DFC":
		return Operand{Mode: ModeDFC, Reg: -1}, nil
	case "VBR":
		return Operand{Mode: ModeVBR, Reg: -1}, nil
	}

	if reg, ok := dataRegister(t); ok {
		return Operand{Mode: ModeDn, Reg: reg}, nil
	}
	if reg, ok := addrRegister(t); ok {
		return Operand{Mode: ModeAn, Reg: reg}, nil
	}

	if strings.HasPrefix(t, "#") {
		v, err := r.Eval(t[1:])
		if err != nil {
			return Operand{}, err
		}
		if v.Category() != symtab.CatConstant && !v.Undefined() {
			return Operand{}, fmt.Errorf("%w: %q", ErrImmediateNotConst, text)
		}
		return Operand{Mode: ModeImmediate, Reg: -1, Value: v}, nil
	}

	if strings.HasPrefix(t, "-(") && strings.HasSuffix(t, ")") {
		inner := t[2 : len(t)-1]
		reg, ok := addrRegister(inner)
		if !ok {
			return Operand{}, fmt.Errorf("%w: %q", ErrInvalidAddressSyntax, text)
		}
		return Operand{Mode: ModeAnPreDec, Reg: reg}, nil
	}

	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")+") {
		inner := t[1 : len(t)-2]
		reg, ok := addrRegister(inner)
		if !ok {
			return Operand{}, fmt.Errorf("%w: %q", ErrInvalidAddressSyntax, text)
		}
		return Operand{Mode: ModeAnPostInc, Reg: reg}, nil
	}

	if strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")") {
		if reg, ok := addrRegister(t[1 : len(t)-1]); ok {
			return Operand{Mode: ModeAnInd, Reg: reg}, nil
		}
	}

	// Every remaining shape ends with either a forced ".W"/".L" absolute
	// width suffix (always trailing the whole operand, since an index
	// register's own size suffix is always followed by ')') or nothing.
	base := t
	forcedMode := Mode(0)
	forced := false
	if rest, mode, ok := splitForcedWidth(base); ok {
		base, forcedMode, forced = rest, mode, true
	}

	switch {
	case strings.HasPrefix(base, "(") && strings.HasSuffix(base, ")"):
		// "(xxx)" absolute, or "(An,Xn.size)"/"(PC,Xn.size)" with no leading
		// displacement (an implicit zero displacement).
		return parseBaseIndex(r, "", base[1:len(base)-1], forcedMode, forced, text)

	case strings.LastIndex(base, "(") > 0 && strings.HasSuffix(base, ")"):
		idx := strings.LastIndex(base, "(")
		disp := base[:idx]
		return parseBaseIndex(r, disp, base[idx+1:len(base)-1], forcedMode, forced, text)

	default:
		// Bare absolute expression, no parentheses at all.
		v, err := r.Eval(base)
		if err != nil {
			return Operand{}, err
		}
		if forced {
			return Operand{Mode: forcedMode, Value: v, Reg: -1, Forced: true}, nil
		}
		return Operand{Mode: ModeAbsW, Value: v, Reg: -1}, nil // width Guard-decided by caller
	}
}

func dataRegister(t string) (int, bool) {
	return regLetter(t, 'D')
}

func addrRegister(t string) (int, bool) {
	return regLetter(t, 'A')
}

func regLetter(t string, letter byte) (int, bool) {
	if len(t) != 2 {
		return 0, false
	}
	u := strings.ToUpper(t)
	if u[0] != letter {
		return 0, false
	}
	if u[1] < '0' || u[1] > '7' {
		return 0, false
	}
	return int(u[1] - '0'), true
}

// parseBaseIndex handles every "[disp](An|PC[,Xn.size])" shape, plus the
// bare "(xxx)" absolute-in-parens case (disp == "", no comma in paren).
// When paren contains neither "An" nor "PC" as its base, it is instead a
// parenthesized absolute expression.
func parseBaseIndex(r Resolver, disp, paren string, forcedMode Mode, forced bool, original string) (Operand, error) {
	base := paren
	var idxReg int
	var idxLong, idxAddr bool
	hasIndex := false
	if comma := strings.Index(paren, ","); comma >= 0 {
		base = paren[:comma]
		idxSpec := strings.TrimSpace(paren[comma+1:])
		reg, long, isAddr, ok := parseIndexSpec(idxSpec)
		if !ok {
			return Operand{}, fmt.Errorf("%w: bad index register in %q", ErrInvalidAddressSyntax, original)
		}
		idxReg, idxLong, idxAddr, hasIndex = reg, long, isAddr, true
	}
	baseUpper := strings.ToUpper(strings.TrimSpace(base))

	reg, isAn := addrRegister(baseUpper)
	isPC := baseUpper == "PC"
	if !isAn && !isPC {
		// Not base-register syntax at all: this is a parenthesized absolute
		// expression, e.g. "(LABEL+4)" or "(LABEL).W" with disp == "".
		if disp != "" || hasIndex {
			return Operand{}, fmt.Errorf("%w: %q", ErrInvalidAddressSyntax, original)
		}
		v, err := r.Eval(paren)
		if err != nil {
			return Operand{}, err
		}
		if forced {
			return Operand{Mode: forcedMode, Value: v, Reg: -1, Forced: true}, nil
		}
		return Operand{Mode: ModeAbsW, Value: v, Reg: -1}, nil
	}

	var v symtab.Value
	if disp != "" {
		var err error
		v, err = r.Eval(disp)
		if err != nil {
			return Operand{}, err
		}
	} else {
		v = symtab.Const(0)
	}

	if isPC {
		if !v.Undefined() && v.Category() != symtab.CatCode {
			return Operand{}, ErrPCDispNeedsCode
		}
		if hasIndex {
			return Operand{Mode: ModePCIndex, Reg: idxReg, Value: v, IndexLong: idxLong, IndexAddr: idxAddr}, nil
		}
		return Operand{Mode: ModePCDisp, Reg: -1, Value: v}, nil
	}

	if !v.Undefined() {
		switch v.Category() {
		case symtab.CatData:
			if reg != 5 {
				return Operand{}, ErrDataDispNeedsA5
			}
		case symtab.CatStack:
			if reg != 6 {
				return Operand{}, ErrStackDispNeedsA6
			}
		}
	}
	if hasIndex {
		return Operand{Mode: ModeAnIndex, Reg: reg, Value: v, IndexLong: idxLong, IndexAddr: idxAddr}, nil
	}
	return Operand{Mode: ModeAnDisp, Reg: reg, Value: v}, nil
}

func parseIndexSpec(spec string) (reg int, long bool, isAddr bool, ok bool) {
	parts := strings.SplitN(spec, ".", 2)
	regReg := strings.TrimSpace(parts[0])
	r, isData := dataRegister(regReg)
	if !isData {
		r, isAddr = addrRegister(regReg)
		if !isAddr {
			return 0, false, false, false
		}
	}
	ok = true
	long = true // default per spec is .L unless .W given
	if len(parts) == 2 {
		switch strings.ToUpper(strings.TrimSpace(parts[1])) {
		case "W":
			long = false
		case "L":
			long = true
		default:
			return 0, false, false, false
		}
	}
	return r, long, isAddr, true
}

// splitForcedWidth strips a trailing ".W"/".L" from an operand that is not
// a register, immediate, (An), (An)+ or -(An) form, whether or not it
// contains parentheses (e.g. "LABEL.W" or "(LABEL).W").
func splitForcedWidth(s string) (string, Mode, bool) {
	if len(s) >= 2 && s[len(s)-2] == '.' {
		switch s[len(s)-1] {
		case 'W', 'w':
			return s[:len(s)-2], ModeAbsW, true
		case 'L', 'l':
			return s[:len(s)-2], ModeAbsL, true
		}
	}
	return s, 0, false
}

// MustInt is a small helper for tests and builders that already know a
// value is defined and numeric.
func MustInt(v symtab.Value) int32 {
	return v.Num
}
