/*
 * PRC68K - Hex formatting helper tests.
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

package hex

import (
	"strings"
	"testing"
)

func TestFormatAddrPadsToEightDigits(t *testing.T) {
	var b strings.Builder
	FormatAddr(&b, 0x1A2)
	if got := b.String(); got != "000001A2" {
		t.Fatalf("got %q, want 000001A2", got)
	}
}

func TestFormatBytesWithAndWithoutSpaces(t *testing.T) {
	var b strings.Builder
	FormatBytes(&b, true, []byte{0x70, 0x05})
	if got := b.String(); got != "70 05 " {
		t.Fatalf("got %q, want \"70 05 \"", got)
	}

	b.Reset()
	FormatBytes(&b, false, []byte{0x70, 0x05})
	if got := b.String(); got != "7005" {
		t.Fatalf("got %q, want 7005", got)
	}
}

func TestFormatWords(t *testing.T) {
	var b strings.Builder
	FormatWords(&b, []uint16{0x1234, 0xABCD})
	if got := b.String(); got != "1234 ABCD " {
		t.Fatalf("got %q, want \"1234 ABCD \"", got)
	}
}

func TestByte(t *testing.T) {
	if got := Byte(0x0F); got != "0F" {
		t.Fatalf("got %q, want 0F", got)
	}
}
