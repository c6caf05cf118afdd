/*
 * PRC68K - Listing renderer tests.
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
	"strings"
	"testing"
)

func TestRenderOrdinaryLine(t *testing.T) {
	f := &File{}
	f.Add(Entry{Addr: 0x1000, Bytes: []byte{0x70, 0x05}, LineNo: 1, Text: "start: move.l #5,d0"})
	got := f.Render()
	if !strings.Contains(got, "00001000") || !strings.Contains(got, "7005") || !strings.Contains(got, "move.l #5,d0") {
		t.Fatalf("got %q", got)
	}
}

func TestRenderEquAnnotation(t *testing.T) {
	f := &File{}
	f.Add(Entry{Addr: 0, LineNo: 2, Text: "FIVE equ 5", Annotation: "=00000005"})
	got := f.Render()
	if !strings.Contains(got, "=00000005") {
		t.Fatalf("got %q, want =00000005 annotation", got)
	}
}

func TestRenderElidesOverflowWithoutContinue(t *testing.T) {
	f := &File{Continue: false}
	bytes := make([]byte, 20) // 40 hex chars, over the 31-char column
	f.Add(Entry{Addr: 0, Bytes: bytes, LineNo: 3, Text: "dc.b 0,0,...,0"})
	got := f.Render()
	if !strings.Contains(got, "...") {
		t.Fatalf("got %q, want an elided object-code column", got)
	}
	if strings.Count(got, "\n") != 1 {
		t.Fatalf("got %d lines, want exactly 1 without -c", strings.Count(got, "\n"))
	}
}

func TestRenderContinuesOverflowWithContinue(t *testing.T) {
	f := &File{Continue: true}
	bytes := make([]byte, 20)
	f.Add(Entry{Addr: 0, Bytes: bytes, LineNo: 3, Text: "dc.b 0,0,...,0"})
	got := f.Render()
	if strings.Count(got, "\n") < 2 {
		t.Fatalf("got %d lines, want a continuation line under -c:\n%s", strings.Count(got, "\n"), got)
	}
}
