/*
 * PRC68K - Expand buffer tests.
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

package expand

import "testing"

func TestEmptyBufferHasNoNext(t *testing.T) {
	b := New()
	if !b.Empty() {
		t.Fatal("new buffer should be empty")
	}
	if _, _, ok := b.Next(); ok {
		t.Fatal("Next on empty buffer should report ok=false")
	}
}

func TestPushDrainsFrontToBack(t *testing.T) {
	b := New()
	b.Push([]string{"move.l d0,d1", "rts"})

	line, n, ok := b.Next()
	if !ok || line != "move.l d0,d1" || n != 1 {
		t.Fatalf("got (%q, %d, %v), want (move.l d0,d1, 1, true)", line, n, ok)
	}
	line, n, ok = b.Next()
	if !ok || line != "rts" || n != 2 {
		t.Fatalf("got (%q, %d, %v), want (rts, 2, true)", line, n, ok)
	}
	if !b.Empty() {
		t.Fatal("buffer should be empty after draining its only group")
	}
}

func TestPushIsLIFOAcrossGroups(t *testing.T) {
	b := New()
	b.Push([]string{"outer1", "outer2"})
	b.Push([]string{"inner1"})

	line, _, _ := b.Next()
	if line != "inner1" {
		t.Fatalf("got %q, want inner1 to drain before the outer group", line)
	}
	if b.Empty() {
		t.Fatal("outer group should still be pending")
	}
	line, _, _ = b.Next()
	if line != "outer1" {
		t.Fatalf("got %q, want outer1 once inner group is exhausted", line)
	}
}

func TestPushEmptyLinesIsNoop(t *testing.T) {
	b := New()
	b.Push(nil)
	if !b.Empty() {
		t.Fatal("pushing no lines should not create a pending group")
	}
}

func TestResetDiscardsPendingLines(t *testing.T) {
	b := New()
	b.Push([]string{"a", "b"})
	b.Reset()
	if !b.Empty() {
		t.Fatal("Reset should discard all pending groups")
	}
}
