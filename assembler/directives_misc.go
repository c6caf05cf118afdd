/*
 * PRC68K - END, LIST, ERROR, INCLUDE directives.
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
	"strings"

	"github.com/rcornwell/prc68k/asmctx"
	"github.com/rcornwell/prc68k/encoder"
	"github.com/rcornwell/prc68k/srcstack"
)

func init() {
	encoder.RegisterDirective("END", dirEnd)
	encoder.RegisterDirective("LIST", dirList)
	encoder.RegisterDirective("ERROR", dirError)
	encoder.RegisterDirective("INCLUDE", dirInclude)
}

// ErrEndOfSource is returned by dirEnd so the assembler loop can stop this
// pass early without treating the rest of the file as an error.
var ErrEndOfSource = fmt.Errorf("END")

func dirEnd(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	return ErrEndOfSource
}

func dirList(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	switch strings.ToUpper(strings.TrimSpace(operands)) {
	case "ON", "+":
		c.Opts.Listing = true
	case "OFF", "-":
		c.Opts.Listing = false
	}
	return nil
}

func dirError(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	c.Report(pos, asmctx.SevError, "USER_ERROR", "%s", strings.Trim(strings.TrimSpace(operands), "'\""))
	return nil
}

func dirInclude(c *asmctx.Context, label, sizeSuffix, operands string, pos srcstack.Position) error {
	path := strings.Trim(strings.TrimSpace(operands), "'\"")
	return c.Src.Include(path)
}
