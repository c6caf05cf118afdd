/*
 * PRC68K - Conditional-assembly and aggregate-definition nesting state.
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

package asmctx

// CondFrame is one level of IF/IFDEF/IFNDEF nesting (spec §4.11).
type CondFrame struct {
	Taken    bool // this branch's condition held
	SeenElse bool
	Active   bool // not set by any directive; Assembling checks Taken on every frame instead
}

// MaxCondDepth is the nesting limit spec §4.11 names.
const MaxCondDepth = 32

// Assembling reports whether the current line should be assembled: every
// open conditional frame's branch must be the one taken.
func (c *Context) Assembling() bool {
	for _, f := range c.CondStack {
		if !f.Taken {
			return false
		}
	}
	return true
}

// AggKind distinguishes the three nestable aggregate-definition directives.
type AggKind int

const (
	AggStruct AggKind = iota
	AggUnion
	AggEnum
)

// AggBuilder accumulates members while a STRUCT/UNION/ENUM/ENDxxx body is
// open; Offset is the next byte offset (struct) or the next auto-increment
// value (enum); for a union every member shares Offset 0 and MaxSize tracks
// the largest member size seen so far instead.
type AggBuilder struct {
	Kind    AggKind
	Name    string
	Offset  int32
	MaxSize int32
	Members []AggMember
}

// AggMember is one field recorded by a STRUCT/UNION/ENUM body before the
// aggregate is closed and interned into the type arena.
type AggMember struct {
	Name    string
	Offset  int32
	TypeIdx int
}
