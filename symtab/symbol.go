/*
 * PRC68K - Symbol record.
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

package symtab

// MaxNameLen is the number of significant characters in a symbol name;
// longer names are accepted but only this many characters distinguish them.
const MaxNameLen = 52

// ProcInfo is attached to a procedure/proxy-entry symbol while its body is
// open and kept afterwards for qualified `proc.param` lookups and frame
// layout. Parameters and locals are recorded in declaration order.
type ProcInfo struct {
	Scope     *Scope   // Parameter/local/label names visible inside the body.
	Members   []string // Declaration order, for ordered traversal.
	FrameSize int32    // Most negative local offset so far (<=0).
	IsProxy   bool     // True for PROXY (return address stashed in a param slot).
	Closed    bool     // True once ENDPROC/ENDPROXY has run.
}

// Symbol is a single named entity: a label, a typedef, an enum member, a
// struct/union/procedure member, a register alias, or a guard record.
type Symbol struct {
	Name         string
	Kind         Kind
	Value        int32
	TypeRef      *Symbol // For Value.Type when this symbol's value carries a type.
	Redefineable bool    // True when created by SET.
	DefPass      int     // Pass number of the most recent (re)definition.

	TypeIdx int // Index into Table.Types when Kind == KindType, else -1.
	Proc    *ProcInfo

	// Member bookkeeping for struct/union/enum: Offset is the byte offset
	// (struct/union) or the auto-incrementing value (enum); Owner names the
	// aggregate type symbol this member belongs to.
	Offset int32
	Owner  string
}

func newSymbol(name string, kind Kind, pass int) *Symbol {
	return &Symbol{Name: name, Kind: kind, TypeIdx: -1, DefPass: pass}
}
