/*
 * PRC68K - WBMP transcoder tests.
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

package wbmp

import (
	"encoding/binary"
	"testing"
)

// build24 assembles a minimal bottom-up, uncompressed 24-bit BMP of the
// given pixels (row-major, top row first in the argument, as a human would
// write it; BMP's own bottom-up storage is handled here).
func build24(t *testing.T, width, height int, px [][3]byte) []byte {
	t.Helper()
	rowBytes := ((width*3 + 3) / 4) * 4
	pixelOffset := fileHeaderSize + 40
	data := make([]byte, pixelOffset+rowBytes*height)

	data[0], data[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(data[2:6], uint32(len(data)))
	binary.LittleEndian.PutUint32(data[10:14], uint32(pixelOffset))
	binary.LittleEndian.PutUint32(data[14:18], 40)
	binary.LittleEndian.PutUint32(data[18:22], uint32(width))
	binary.LittleEndian.PutUint32(data[22:26], uint32(height))
	binary.LittleEndian.PutUint16(data[26:28], 1)
	binary.LittleEndian.PutUint16(data[28:30], 24)

	for row := 0; row < height; row++ {
		srcRow := height - 1 - row // bottom-up storage
		for col := 0; col < width; col++ {
			c := px[row*width+col]
			o := pixelOffset + srcRow*rowBytes + col*3
			data[o], data[o+1], data[o+2] = c[2], c[1], c[0] // BGR
		}
	}
	return data
}

func TestDecodeChecksInkBits(t *testing.T) {
	black := [3]byte{0, 0, 0}
	white := [3]byte{255, 255, 255}
	data := build24(t, 2, 1, [][3]byte{black, white})

	bmp, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bmp.Width != 2 || bmp.Height != 1 {
		t.Fatalf("dims = %dx%d, want 2x1", bmp.Width, bmp.Height)
	}
	if bmp.RowBytes != 2 {
		t.Fatalf("RowBytes = %d, want 2 (16-bit aligned)", bmp.RowBytes)
	}
	want := byte(0x80) // black pixel (col 0) set, white pixel (col 1) clear
	if bmp.Bits[0] != want {
		t.Fatalf("row byte = %#02x, want %#02x", bmp.Bits[0], want)
	}
}

func TestDecodeRejectsNonBMP(t *testing.T) {
	if _, err := Decode([]byte("not a bmp")); err == nil {
		t.Fatalf("expected error for non-BMP input")
	}
}

func TestDecodeRowPadding(t *testing.T) {
	px := make([][3]byte, 17)
	data := build24(t, 17, 1, px)
	bmp, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if bmp.RowBytes != 4 {
		t.Fatalf("RowBytes = %d, want 4 for 17 columns", bmp.RowBytes)
	}
}
