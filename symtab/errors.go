/*
 * PRC68K - Symbol table error values.
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

package symtab

import "errors"

// Sentinel errors named after the severity taxonomy's diagnostic tags
// (spec §7, §8) so callers can test with errors.Is.
var (
	ErrKindDifferent = errors.New("KIND_DIFFERENT: symbol redefined with a different kind")
	ErrPhaseError    = errors.New("PHASE_ERROR: symbol value changed between passes")
	ErrUndefined     = errors.New("symbol is undefined")
	ErrNoSuchMember  = errors.New("no such member")
	ErrNotAggregate  = errors.New("symbol is not a struct, union, enum, or procedure")
)
