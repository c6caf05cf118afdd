/*
 * PRC68K - Verbose (-d) context dump.
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

package listing

import (
	"github.com/davecgh/go-spew/spew"

	"github.com/rcornwell/prc68k/asmctx"
)

var dumpConfig = &spew.ConfigState{Indent: "  ", DisableMethods: true}

// contextSnapshot is the subset of a Context worth dumping for -d verbose
// logging: the global mutable state spec §9 describes, not the line
// source's open file handles.
type contextSnapshot struct {
	Pass    int
	Segment asmctx.Segment
	CodeLoc uint32
	DataLoc uint32
	ResLoc  uint32
	Globals []*symtabSymbolView
}

type symtabSymbolView struct {
	Name  string
	Kind  string
	Value int32
}

// DumpContext renders the assembler context's symbol table and segment
// counters as a structured dump, for -d verbose logging.
func DumpContext(c *asmctx.Context) string {
	snap := contextSnapshot{
		Pass:    c.Pass,
		Segment: c.Segment,
		CodeLoc: c.Segs.Loc(asmctx.SegCode),
		DataLoc: c.Segs.Loc(asmctx.SegData),
		ResLoc:  c.Segs.Loc(asmctx.SegRes),
	}
	for _, sym := range c.Symbols.Global.Names() {
		snap.Globals = append(snap.Globals, &symtabSymbolView{
			Name:  sym.Name,
			Kind:  sym.Kind.String(),
			Value: sym.Value,
		})
	}
	return dumpConfig.Sdump(snap)
}
