/*
 * PRC68K - Windows BMP to Palm 1-bpp bitmap transcoder.
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

// Package wbmp decodes an uncompressed Windows BMP file and re-encodes its
// pixels as a classic PalmOS 1-bit-per-pixel bitmap: each row packed MSB
// first and padded to a 16-bit boundary, one bit set meaning "ink" (a dark
// pixel), matching the WBMP resources the RES/APPL source consumes (spec
// §6.3). No third-party BMP decoder appears anywhere in the retrieved
// pack, so the file header and DIB header are parsed by hand here.
package wbmp

import (
	"encoding/binary"
	"fmt"
)

const (
	fileHeaderSize = 14
	biRGB          = 0
	inkThreshold   = 128 // average channel value below which a pixel counts as "ink"
)

// Bitmap is a decoded monochrome image ready for PRC resource packing.
type Bitmap struct {
	Width    int
	Height   int
	RowBytes int    // bytes per row, rounded up to a 16-bit boundary
	Bits     []byte // Height*RowBytes bytes, top row first
}

// Decode parses a BI_RGB (uncompressed) 1/4/8/24-bit Windows BMP and
// converts it to a 1-bpp Palm bitmap.
func Decode(data []byte) (*Bitmap, error) {
	if len(data) < fileHeaderSize+4 || data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("wbmp: not a BMP file")
	}
	pixelOffset := binary.LittleEndian.Uint32(data[10:14])

	dibSize := binary.LittleEndian.Uint32(data[14:18])
	if dibSize < 40 {
		return nil, fmt.Errorf("wbmp: unsupported DIB header size %d", dibSize)
	}
	hdr := data[14:]
	width := int(int32(binary.LittleEndian.Uint32(hdr[4:8])))
	height := int(int32(binary.LittleEndian.Uint32(hdr[8:12])))
	bitCount := binary.LittleEndian.Uint16(hdr[14:16])
	compression := binary.LittleEndian.Uint32(hdr[16:20])
	if compression != biRGB {
		return nil, fmt.Errorf("wbmp: compressed BMP (method %d) not supported", compression)
	}

	topDown := height < 0
	if topDown {
		height = -height
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("wbmp: invalid dimensions %dx%d", width, height)
	}

	var palette [][3]byte
	if bitCount <= 8 {
		paletteOff := fileHeaderSize + int(dibSize)
		n := 1 << bitCount
		if int(pixelOffset) < paletteOff+n*4 {
			n = (int(pixelOffset) - paletteOff) / 4
		}
		palette = make([][3]byte, n)
		for i := 0; i < n; i++ {
			o := paletteOff + i*4
			if o+3 >= len(data) {
				break
			}
			// Palette entries are BGRX; channel order is swapped on read.
			palette[i] = [3]byte{data[o+2], data[o+1], data[o]}
		}
	}

	srcRowBytes := ((width*int(bitCount) + 31) / 32) * 4
	dstRowBytes := ((width + 15) / 16) * 2
	out := &Bitmap{Width: width, Height: height, RowBytes: dstRowBytes, Bits: make([]byte, dstRowBytes*height)}

	for row := 0; row < height; row++ {
		srcRow := row
		if !topDown {
			srcRow = height - 1 - row
		}
		srcStart := int(pixelOffset) + srcRow*srcRowBytes
		if srcStart+srcRowBytes > len(data) {
			return nil, fmt.Errorf("wbmp: pixel data truncated at row %d", row)
		}
		rowData := data[srcStart : srcStart+srcRowBytes]
		dstStart := row * dstRowBytes
		for col := 0; col < width; col++ {
			r, g, b, err := samplePixel(rowData, palette, bitCount, col)
			if err != nil {
				return nil, err
			}
			if isInk(r, g, b) {
				out.Bits[dstStart+col/8] |= 0x80 >> uint(col%8)
			}
		}
	}
	return out, nil
}

func samplePixel(row []byte, palette [][3]byte, bitCount uint16, col int) (r, g, b byte, err error) {
	switch bitCount {
	case 24:
		o := col * 3
		if o+2 >= len(row) {
			return 0, 0, 0, fmt.Errorf("wbmp: pixel %d out of range for 24-bit row", col)
		}
		return row[o+2], row[o+1], row[o], nil
	case 8:
		if col >= len(row) || int(row[col]) >= len(palette) {
			return 0, 0, 0, fmt.Errorf("wbmp: palette index out of range at pixel %d", col)
		}
		c := palette[row[col]]
		return c[0], c[1], c[2], nil
	case 4:
		idx := row[col/2]
		if col%2 == 0 {
			idx >>= 4
		} else {
			idx &= 0x0F
		}
		if int(idx) >= len(palette) {
			return 0, 0, 0, fmt.Errorf("wbmp: palette index out of range at pixel %d", col)
		}
		c := palette[idx]
		return c[0], c[1], c[2], nil
	case 1:
		bit := (row[col/8] >> uint(7-col%8)) & 1
		if int(bit) >= len(palette) {
			return 0, 0, 0, fmt.Errorf("wbmp: palette index out of range at pixel %d", col)
		}
		c := palette[bit]
		return c[0], c[1], c[2], nil
	default:
		return 0, 0, 0, fmt.Errorf("wbmp: unsupported bit depth %d", bitCount)
	}
}

func isInk(r, g, b byte) bool {
	avg := (int(r) + int(g) + int(b)) / 3
	return avg < inkThreshold
}
