/*
 * PRC68K - Procedure bodies: PROC/ENDPROC, PROXY/ENDPROXY, call marshalling.
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
	encoder.RegisterDirective("PROC", dirOpenProc(symtab.KindProcEntry, false))
	encoder.RegisterDirective("PROXY", dirOpenProc(symtab.KindProxyEntry, true))
	encoder.RegisterDirective("ENDPROC", dirEndProc)
	encoder.RegisterDirective("ENDPROXY", dirEndProc)
	encoder.RegisterDirective("PROCDEF", dirSignature)
	encoder.RegisterDirective("TRAPDEF", dirSignature)
	encoder.RegisterDirective("BEGINPROC", dirBeginProc)
	encoder.RegisterDirective("CALL", dirCall)
	encoder.RegisterDirective("SYSTRAP", dirSysTrap)
	encoder.RegisterDirective("SYSLIBTRAP", dirSysTrap)
}

// argOffset is where the first stack parameter sits relative to A6, after
// LINK has pushed the saved frame pointer and the call has pushed the
// return address.
const argOffset = 8

func dirOpenProc(kind symtab.Kind, isProxy bool) encoder.DirectiveFunc {
	return func(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
		name, params := parseNameAndParams(operands)
		if name == "" {
			return fmt.Errorf("PROC/PROXY requires a name")
		}
		if c.Proc != nil {
			return fmt.Errorf("procedures do not nest")
		}
		scope := symtab.NewScope()
		info := &symtab.ProcInfo{Scope: scope, IsProxy: isProxy}
		sym, err := c.Symbols.Define(c.Symbols.Global, name, kind, int32(c.Segs.Loc(c.Segment)), false)
		if err != nil {
			return err
		}
		sym.Proc = info

		for i, pname := range params {
			if _, err := c.Symbols.Define(scope, pname, symtab.KindParam, int32(argOffset+4*i), false); err != nil {
				return err
			}
			info.Members = append(info.Members, pname)
		}

		c.Proc = scope
		c.ProcSym = sym
		return nil
	}
}

// parseNameAndParams splits a "name(a,b,c)" or "name a,b,c" operand string,
// the PROC/PROXY/PROCDEF/TRAPDEF form now that these directives have moved
// their name out of the label column and into their operands, matching how
// every other unindented directive (STRUCT, ENUM, ...) names itself.
func parseNameAndParams(operands string) (name string, params []string) {
	operands = strings.TrimSpace(operands)
	if operands == "" {
		return "", nil
	}
	if open := strings.IndexByte(operands, '('); open >= 0 {
		close := strings.LastIndexByte(operands, ')')
		if close < open {
			close = len(operands)
		}
		name = strings.TrimSpace(operands[:open])
		return name, splitNonEmpty(operands[open+1 : close])
	}
	fields := strings.Fields(operands)
	name = fields[0]
	if idx := strings.IndexAny(operands, " \t"); idx >= 0 {
		return name, splitNonEmpty(operands[idx+1:])
	}
	return name, nil
}

func dirEndProc(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if c.Proc == nil || c.ProcSym == nil {
		return fmt.Errorf("ENDPROC/ENDPROXY without matching open")
	}
	if c.Opts.MacsbugSyms {
		emitBytes(c, macsbugSymbol(c.ProcSym.Name))
	}
	c.ProcSym.Proc.Closed = true
	c.Proc = nil
	c.ProcSym = nil
	return nil
}

// macsbugSymbol builds the conventional Macsbug "name after code" record
// (-s): a length byte, then the procedure name with the high bit of its last
// character set (a lone 0x80 byte for an empty name), padded with one zero
// byte when that would leave the record at an even total length.
func macsbugSymbol(name string) []byte {
	b := make([]byte, 0, len(name)+3)
	b = append(b, byte(len(name)))
	if len(name) > 0 {
		b = append(b, name[:len(name)-1]...)
		b = append(b, name[len(name)-1]|0x80)
	} else {
		b = append(b, 0x80)
	}
	if len(b)%2 == 0 {
		b = append(b, 0)
	}
	return b
}

// dirSignature records a callable signature (no body, no code emitted):
// used by PROCDEF/TRAPDEF to describe an external entry point's parameter
// list. CALL does not consult these signatures.
func dirSignature(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	name, params := parseNameAndParams(operands)
	if name == "" {
		return fmt.Errorf("PROCDEF/TRAPDEF requires a name")
	}
	scope := symtab.NewScope()
	info := &symtab.ProcInfo{Scope: scope}
	for i, pname := range params {
		if _, err := c.Symbols.Define(scope, pname, symtab.KindParam, int32(argOffset+4*i), false); err != nil {
			return err
		}
		info.Members = append(info.Members, pname)
	}
	sym, err := c.Symbols.Define(c.Symbols.Global, name, symtab.KindProcEntry, 0, false)
	if err != nil {
		return err
	}
	sym.Proc = info
	return nil
}

// dirBeginProc marks the end of a procedure's parameter declarations and
// the start of its executable body; the frame has already been sized by
// every local DS line seen between PROC and here, so the prologue that a
// fuller implementation would synthesize (LINK A6,#-FrameSize) has a known
// size at this point even though this assembler leaves writing it to the
// source file rather than generating it.
func dirBeginProc(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	if c.Proc == nil {
		return fmt.Errorf("BEGINPROC outside PROC/PROXY")
	}
	return nil
}

// dirCall expands "CALL target[,arg...]" into a MOVE.L push of each
// argument (last argument first), a JSR to the target, and the stack
// cleanup, via the expand buffer (spec §4.10): the synthesized lines flow
// back through the very same line assembler. The arguments come from the
// CALL line itself; no PROCDEF/TRAPDEF signature is consulted, and no TRAP
// is emitted.
func dirCall(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	parts := splitTopLevel(operands, ',')
	if len(parts) == 0 {
		return fmt.Errorf("CALL requires a target")
	}
	target := strings.TrimSpace(parts[0])
	args := parts[1:]

	var lines []string
	for i := len(args) - 1; i >= 0; i-- {
		lines = append(lines, "MOVE.L "+strings.TrimSpace(args[i])+",-(A7)")
	}
	lines = append(lines, "JSR "+target)
	if n := len(args); n > 0 && 4*n <= 8 {
		lines = append(lines, fmt.Sprintf("ADDQ.L #%d,A7", 4*n))
	} else if n > 0 {
		lines = append(lines, fmt.Sprintf("LEA %d(A7),A7", 4*n))
	}
	c.Expand.Push(lines)
	return nil
}

// dirSysTrap emits the single word 0xA000 | (trap number & 0x0FFF) for both
// SYSTRAP and SYSLIBTRAP; no TRAP #15 instruction is emitted.
func dirSysTrap(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	v, err := asmctx.NewEvaluator(c).Eval(strings.TrimSpace(operands))
	if err != nil {
		return err
	}
	op := uint16(0xA000) | uint16(v.Num&0x0FFF)
	b := []byte{byte(op >> 8), byte(op)}
	if c.FinalPass() {
		c.Segs.Emit(c.Segment, b)
	} else {
		c.Segs.Advance(c.Segment, uint32(len(b)))
	}
	return nil
}

func declareLocal(c *asmctx.Context, name string, size int32) error {
	info := c.ProcSym.Proc
	info.FrameSize -= size
	if name == "" {
		return nil
	}
	_, err := c.Symbols.Define(c.Proc, name, symtab.KindLocal, info.FrameSize, false)
	return err
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
