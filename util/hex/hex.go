/*
 * PRC68K - Big-endian hex formatting helpers for the listing file.
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

import "strings"

var hexMap = "0123456789ABCDEF"

// FormatAddr writes a 32-bit location counter as 8 upper-case hex digits,
// the listing line's leading address column (spec §6.5).
func FormatAddr(str *strings.Builder, addr uint32) {
	for shift := 28; shift >= 0; shift -= 4 {
		str.WriteByte(hexMap[(addr>>shift)&0xf])
	}
}

// FormatBytes writes each byte as two hex digits, space-separated when
// space is true; used for the listing's object-code column.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for _, by := range data {
		str.WriteByte(hexMap[(by>>4)&0xf])
		str.WriteByte(hexMap[by&0xf])
		if space {
			str.WriteByte(' ')
		}
	}
}

// FormatWords writes each big-endian 16-bit word as four hex digits
// followed by a space.
func FormatWords(str *strings.Builder, words []uint16) {
	for _, w := range words {
		for shift := 12; shift >= 0; shift -= 4 {
			str.WriteByte(hexMap[(w>>shift)&0xf])
		}
		str.WriteByte(' ')
	}
}

// Byte renders a single byte as two hex digits.
func Byte(b byte) string {
	return string([]byte{hexMap[(b>>4)&0xf], hexMap[b&0xf]})
}
