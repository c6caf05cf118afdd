/*
 * PRC68K - WBMP directive: Windows BMP to Palm bitmap resource.
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

package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/encoder"
	"github.com/rcornwell/prc68k/srcstack"
	"github.com/rcornwell/prc68k/wbmp"
)

func init() {
	encoder.RegisterDirective("WBMP", dirWbmp)
}

// bitmapHeaderSize is the size of the classic (version 0) PalmOS BitmapType
// header that precedes the packed bits in a tAIB/Tbmp resource.
const bitmapHeaderSize = 16

// dirWbmp reads a Windows BMP file and emits it as a classic PalmOS 1-bpp
// bitmap resource: "WBMP 'type',id,'path.bmp'[,'name']" (spec §6.3's
// icon/generic bitmap transcoding). The file is decoded on every pass, not
// just the final one, so its size is known identically in passes 0 and 1,
// the same way INCBIN reads its file on every pass.
func dirWbmp(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	parts := splitTopLevel(operands, ',')
	if len(parts) < 3 {
		return fmt.Errorf("WBMP requires 'type',id,'path'")
	}
	typ := strings.Trim(strings.TrimSpace(parts[0]), "'")
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 0, 32)
	if err != nil {
		return fmt.Errorf("WBMP: invalid id: %w", err)
	}
	path := strings.Trim(strings.TrimSpace(parts[2]), "'\"")
	var name string
	if len(parts) > 3 {
		name = strings.Trim(strings.TrimSpace(parts[3]), "'")
	}

	raw, err := c.ReadIncludedFile(path)
	if err != nil {
		return err
	}
	bmp, err := wbmp.Decode(raw)
	if err != nil {
		return fmt.Errorf("WBMP %s: %w", path, err)
	}
	data := bitmapResourceBytes(bmp)

	c.Segment = asmctx.SegRes
	if c.FinalPass() {
		c.MarkResource(typ, int32(id), name)
		c.Segs.Emit(asmctx.SegRes, data)
	} else {
		c.Segs.Advance(asmctx.SegRes, uint32(len(data)))
	}
	return nil
}

// bitmapResourceBytes lays out a version-0 PalmOS BitmapType header
// (width, height, rowBytes, flags, 1-bit pixelSize, version 0, no next
// bitmap, no transparency, uncompressed) followed by the packed bits.
func bitmapResourceBytes(b *wbmp.Bitmap) []byte {
	out := make([]byte, 0, bitmapHeaderSize+len(b.Bits))
	out = appendU16Bitmap(out, uint16(b.Width))
	out = appendU16Bitmap(out, uint16(b.Height))
	out = appendU16Bitmap(out, uint16(b.RowBytes))
	out = appendU16Bitmap(out, 0) // flags: not compressed, not an offset bitmap
	out = append(out, 1)          // pixelSize: 1 bit per pixel
	out = append(out, 0)          // version 0
	out = appendU16Bitmap(out, 0) // nextDepthOffset
	out = appendU16Bitmap(out, 0) // transparentIndex (unused at 1 bpp)
	out = append(out, 0xFF)       // compressionType: none
	out = append(out, 0)          // reserved
	out = append(out, b.Bits...)
	return out
}

func appendU16Bitmap(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}
