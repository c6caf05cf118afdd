/*
 * PRC68K - Expand buffer for synthesized source lines.
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

// Package expand implements the expand buffer of spec §4.10: a LIFO of
// per-directive line groups (CALL's argument pushes, call and stack cleanup)
// that the line source drains in preference to the file stack. CALL is the
// only directive that pushes groups; BEGINPROC and ENDPROC push none, so a
// procedure's LINK/UNLK prologue and epilogue come from the source file. Expanded lines are opaque to the outer lexer: they flow back
// through the very same assembler loop.
package expand

// Group is one directive's worth of synthesized lines, injected as a unit
// and consumed front-to-back before the group beneath it is touched.
type Group struct {
	lines []string
	pos   int
}

// Buffer is the LIFO of pending groups.
type Buffer struct {
	stack []*Group
}

// New creates an empty expand buffer.
func New() *Buffer {
	return &Buffer{}
}

// Push injects a new group of synthesized lines, to be drained before
// anything pushed earlier.
func (b *Buffer) Push(lines []string) {
	if len(lines) == 0 {
		return
	}
	b.stack = append(b.stack, &Group{lines: lines})
}

// Empty reports whether there are no pending synthesized lines.
func (b *Buffer) Empty() bool {
	for len(b.stack) > 0 && b.stack[len(b.stack)-1].pos >= len(b.stack[len(b.stack)-1].lines) {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return len(b.stack) == 0
}

// Next returns the next synthesized line and its 1-based index within its
// group (the "expand-line index" held alongside the stable file line
// number in a Position). ok is false if the buffer is empty.
func (b *Buffer) Next() (line string, expandLine int, ok bool) {
	if b.Empty() {
		return "", 0, false
	}
	top := b.stack[len(b.stack)-1]
	top.pos++
	return top.lines[top.pos-1], top.pos, true
}

// Reset discards all pending lines; called at the start of each pass.
func (b *Buffer) Reset() {
	b.stack = nil
}
