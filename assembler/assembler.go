/*
 * PRC68K - Three-pass controller and per-line dispatch.
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

// Package assembler drives the three passes of spec §4.1 over a root
// source file: pass 0 discovers symbols with provisional sizing, pass 1
// finalizes every Guarded encoding choice, and pass 2 emits bytes and
// listing text. It ties together srcstack/expand (line source), lexer
// (line splitting), symtab (names), guard (pass-stable decisions), and
// encoder (instruction/directive dispatch).
package assembler

import (
	"fmt"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/encoder"
	"github.com/rcornwell/prc68k/lexer"
	"github.com/rcornwell/prc68k/listing"
	"github.com/rcornwell/prc68k/srcstack"
	"github.com/rcornwell/prc68k/symtab"
)

// Runner owns one assembly run's Context and drives it through all three
// passes.
type Runner struct {
	Ctx     *asmctx.Context
	Listing *listing.File // populated during pass 2 when Ctx.Opts.Listing is set
}

// New creates a Runner ready to assemble rootPath.
func New(rootPath string, opts asmctx.Options) (*Runner, error) {
	ctx, err := asmctx.New(rootPath, opts, nil)
	if err != nil {
		return nil, err
	}
	return &Runner{Ctx: ctx}, nil
}

// Run executes pass 0, pass 1, and pass 2 in order. It returns an error
// only when a pass cannot start (the root file cannot be reopened);
// diagnostics reported on the Context do not stop later passes.
func (r *Runner) Run() error {
	if r.Ctx.Opts.Listing {
		r.Listing = &listing.File{Continue: r.Ctx.Opts.ExpandDC}
	}
	for pass := 0; pass <= 2; pass++ {
		if err := r.Ctx.StartPass(pass); err != nil {
			return fmt.Errorf("pass %d: %w", pass, err)
		}
		if err := r.runPass(); err != nil {
			return fmt.Errorf("pass %d: %w", pass, err)
		}
	}
	return nil
}

// runPass drains the expand buffer and the source stack, one logical line
// at a time, until both are empty or an END directive is reached.
func (r *Runner) runPass() error {
	for {
		raw, pos, ok := r.nextLine()
		if !ok {
			return nil
		}
		r.Ctx.ResetLine()
		if done := r.assembleLine(raw, pos); done {
			return nil
		}
	}
}

func (r *Runner) nextLine() (string, srcstack.Position, bool) {
	if !r.Ctx.Expand.Empty() {
		line, n, ok := r.Ctx.Expand.Next()
		if ok {
			pos := srcstack.Position{
				File:       r.Ctx.Src.CurrentFile(),
				Line:       r.Ctx.Src.CurrentLine(),
				ExpandLine: n,
			}
			return line, pos, true
		}
	}
	return r.Ctx.Src.Next()
}

// assembleLine splits and dispatches one line, reporting diagnostics on the
// Context rather than returning an error: a bad line must not stop the
// pass, since later lines still need their symbols discovered or bytes
// emitted.
func (r *Runner) assembleLine(raw string, pos srcstack.Position) (done bool) {
	line := lexer.Split(raw)
	if line.Blank {
		return false
	}
	resolveAmbiguous(&line)

	startSeg := r.Ctx.Segment
	startAddr := r.Ctx.Segs.Loc(startSeg)
	startLen := len(r.Ctx.Segs.Bytes(startSeg))
	if r.Listing != nil && r.Ctx.Pass == 2 {
		defer r.recordListing(line, raw, pos, startSeg, startAddr, startLen)
	}

	if !r.Ctx.Assembling() && !isConditionalMnemonic(line.Mnemonic) {
		return false
	}

	if top := r.topAgg(); top != nil && top.Kind == asmctx.AggEnum && line.Mnemonic == "" && line.Label != "" {
		r.defineEnumMember(top, line.Label, pos)
		return false
	}

	entry, ok := encoder.Lookup(line.Mnemonic)
	if !ok {
		if line.Mnemonic == "" && line.Label != "" {
			r.defineLocationLabel(line.Label, pos)
			return false
		}
		r.Ctx.Report(pos, asmctx.SevError, "UNDEFINED_OPCODE", "undefined mnemonic %q", line.Mnemonic)
		return false
	}

	if line.Label != "" && !labelHandledByDirective[line.Mnemonic] && r.topAgg() == nil {
		r.defineLocationLabel(line.Label, pos)
	}

	var err error
	if entry.ParseFlag {
		err = encoder.Encode(r.Ctx, line.Mnemonic, line.SizeSuffix, line.Operands, pos)
	} else {
		err = entry.Directive(r.Ctx, line.Label, line.SizeSuffix, line.Operands, pos)
	}
	if err == ErrEndOfSource {
		return true
	}
	if err != nil {
		r.Ctx.Report(pos, asmctx.SevError, "ENCODE_ERROR", "%s: %v", line.Mnemonic, err)
	}
	return false
}

// recordListing appends one listing.Entry for the line just processed: the
// bytes it added to its starting segment, or a "=value"/"=typename"
// annotation for EQU/SET/TYPEDEF lines, which add no bytes (spec §6.5).
func (r *Runner) recordListing(line lexer.Line, raw string, pos srcstack.Position, seg asmctx.Segment, startAddr uint32, startLen int) {
	buf := r.Ctx.Segs.Bytes(seg)
	emitted := buf[startLen:]
	e := listing.Entry{Addr: startAddr, Bytes: append([]byte(nil), emitted...), LineNo: pos.Line, Text: raw}

	switch line.Mnemonic {
	case "EQU", "SET":
		if sym, ok := r.Ctx.Symbols.Global.Lookup(line.Label); ok {
			e.Annotation = fmt.Sprintf("=%08X", uint32(sym.Value))
		}
	case "TYPEDEF":
		if sym, ok := r.Ctx.Symbols.Global.Lookup(line.Label); ok {
			if td := r.Ctx.Symbols.Type(sym.TypeIdx); td != nil {
				e.Annotation = "=" + td.DisplayName
			}
		}
	}
	r.Listing.Add(e)
}

// resolveAmbiguous settles a lexer.Line that couldn't tell, from shape
// alone, whether its leading word was a directive name ("struct point") or
// a label in front of one ("FIVE equ 5"). The default parse wins unless its
// mnemonic isn't in the table and the alternate's is: "FIVE" is not a known
// mnemonic, so "FIVE equ 5" resolves to label FIVE, mnemonic EQU.
func resolveAmbiguous(line *lexer.Line) {
	if !line.Ambiguous {
		return
	}
	if _, ok := encoder.Lookup(line.Mnemonic); ok {
		return
	}
	if _, ok := encoder.Lookup(line.AltMnemonic); ok {
		line.Label = line.AltLabel
		line.Mnemonic = line.AltMnemonic
		line.SizeSuffix = line.AltSizeSuffix
		line.Operands = line.AltOperands
	}
}

// defineLocationLabel gives a bare label (no mnemonic, or one whose
// directive wants ordinary location semantics) the kind matching the
// current segment, at the current segment's location counter.
func (r *Runner) defineLocationLabel(name string, pos srcstack.Position) {
	kind := symtab.KindCodeLabel
	switch r.Ctx.Segment {
	case asmctx.SegData:
		kind = symtab.KindDataLabel
	case asmctx.SegRes:
		kind = symtab.KindResourceLabel
	}
	scope := r.labelScope()
	loc := int32(r.Ctx.Segs.Loc(r.Ctx.Segment))
	if _, err := r.Ctx.Symbols.Define(scope, name, kind, loc, false); err != nil {
		r.Ctx.Report(pos, asmctx.SevError, "PHASE_ERROR", "%s: %v", name, err)
	}
}

func (r *Runner) labelScope() *symtab.Scope {
	if r.Ctx.Proc != nil {
		return r.Ctx.Proc
	}
	return r.Ctx.Symbols.Global
}

func (r *Runner) topAgg() *asmctx.AggBuilder {
	if len(r.Ctx.Aggs) == 0 {
		return nil
	}
	return r.Ctx.Aggs[len(r.Ctx.Aggs)-1]
}

func isConditionalMnemonic(m string) bool {
	switch m {
	case "IF", "IFDEF", "IFNDEF", "ELSE", "ENDIF":
		return true
	}
	return false
}
