/*
 * PRC68K - Compressed data-resource RLE codec.
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

// Package rle implements the byte-oriented run-length scheme PalmOS
// applications expect their compressed "data" #0 resource to use (spec
// §6.4). Compress and Decompress are exact inverses of each other; nothing
// else in this package touches the sub-block/relocation-table framing that
// package prcfile wraps around the compressed stream.
package rle

import "fmt"

const (
	tagZeroRunBase = 0x40 // 0x40..0x7F: 1-64 zero bytes
	tagFFRunBase   = 0x10 // 0x10..0x1F: 1-16 0xFF bytes
	tagSameRunBase = 0x20 // 0x20..0x3F: 2-33 of one literal byte
	tagLiteralBase = 0x80 // 0x80..0xFF: 1-128 literal bytes
	maxZeroRun     = 64
	maxFFRun       = 16
	maxSameRun     = 33
	maxLiteral     = 128
	minSameRun     = 2
)

// Compress encodes b per spec §6.4's opcode table, preferring (in order) a
// zero run, an 0xFF run, a same-byte run of at least two, and finally the
// shortest literal block of non-repeating bytes.
func Compress(b []byte) []byte {
	var out []byte
	i := 0
	for i < len(b) {
		if n := runLength(b, i, 0x00); n > 0 {
			n = min(n, maxZeroRun)
			out = append(out, byte(tagZeroRunBase+n-1))
			i += n
			continue
		}
		if n := runLength(b, i, 0xFF); n > 0 {
			n = min(n, maxFFRun)
			out = append(out, byte(tagFFRunBase+n-1))
			i += n
			continue
		}
		if n := runLength(b, i, b[i]); n >= minSameRun {
			n = min(n, maxSameRun)
			out = append(out, byte(tagSameRunBase+n-minSameRun), b[i])
			i += n
			continue
		}
		n := literalRun(b, i)
		out = append(out, byte(tagLiteralBase+n-1))
		out = append(out, b[i:i+n]...)
		i += n
	}
	return out
}

// runLength counts how many consecutive bytes starting at i equal want.
func runLength(b []byte, i int, want byte) int {
	n := 0
	for i+n < len(b) && b[i+n] == want {
		n++
	}
	return n
}

// literalRun finds how many non-repeating bytes starting at i belong in a
// literal block: as many as possible up to maxLiteral, stopping as soon as
// the next position would itself start one of the three run forms.
func literalRun(b []byte, i int) int {
	n := 0
	for i+n < len(b) && n < maxLiteral {
		if b[i+n] == 0x00 || b[i+n] == 0xFF || runLength(b, i+n, b[i+n]) >= minSameRun {
			break
		}
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// Decompress is the exact inverse of Compress.
func Decompress(b []byte) ([]byte, error) {
	var out []byte
	i := 0
	for i < len(b) {
		tag := b[i]
		i++
		switch {
		case tag >= tagLiteralBase:
			n := int(tag-tagLiteralBase) + 1
			if i+n > len(b) {
				return nil, fmt.Errorf("rle: literal block of %d bytes truncated", n)
			}
			out = append(out, b[i:i+n]...)
			i += n
		case tag >= tagZeroRunBase:
			n := int(tag-tagZeroRunBase) + 1
			out = append(out, make([]byte, n)...)
		case tag >= tagSameRunBase:
			n := int(tag-tagSameRunBase) + minSameRun
			if i >= len(b) {
				return nil, fmt.Errorf("rle: same-byte run missing its value byte")
			}
			v := b[i]
			i++
			for k := 0; k < n; k++ {
				out = append(out, v)
			}
		case tag >= tagFFRunBase:
			n := int(tag-tagFFRunBase) + 1
			for k := 0; k < n; k++ {
				out = append(out, 0xFF)
			}
		default:
			return nil, fmt.Errorf("rle: invalid opcode tag 0x%02X", tag)
		}
	}
	return out, nil
}
