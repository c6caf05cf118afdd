/*
 * PRC68K - Expression tokenizer.
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

package eval

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokTempLabel // .Nf / .Nb
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind  tokenKind
	text  string
	num   int32
	digit int  // temp label digit
	fwd   bool // temp label direction
}

type lexer struct {
	src []rune
	pos int
}

func newLexer(s string) *lexer {
	return &lexer{src: []rune(s)}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$' || r == '?' || r == '@'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t') {
		l.pos++
	}
}

// next returns the next token, or a severe-error-worthy error on malformed
// literals (unterminated char constants, bad digits for the stated radix).
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokEOF}, nil
	}
	r := l.src[l.pos]

	switch {
	case r == '(':
		l.pos++
		return token{kind: tokLParen}, nil
	case r == ')':
		l.pos++
		return token{kind: tokRParen}, nil
	case r == ',':
		l.pos++
		return token{kind: tokComma}, nil
	case r == '\'':
		return l.lexChar()
	case r == '$' && isHexDigit(l.peekAt(1)):
		return l.lexHex()
	case r == '%' && (l.peekAt(1) == '0' || l.peekAt(1) == '1'):
		return l.lexBinary()
	case r >= '0' && r <= '9':
		return l.lexNumber()
	case r == '.' && l.peekAt(1) >= '1' && l.peekAt(1) <= '9' &&
		(l.peekAt(2) == 'f' || l.peekAt(2) == 'F' || l.peekAt(2) == 'b' || l.peekAt(2) == 'B') &&
		!isIdentPart(l.peekAt(3)):
		digit := int(l.peekAt(1) - '0')
		fwd := l.peekAt(2) == 'f' || l.peekAt(2) == 'F'
		l.pos += 3
		return token{kind: tokTempLabel, digit: digit, fwd: fwd}, nil
	case isIdentStart(r) || r == '.':
		return l.lexIdent()
	default:
		return l.lexOp()
	}
}

func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	text = strings.TrimSuffix(text, ".")
	return token{kind: tokIdent, text: text}, nil
}

func (l *lexer) lexHex() (token, error) {
	l.pos++ // consume '$'
	start := l.pos
	for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return token{}, fmt.Errorf("malformed hex constant")
	}
	v, err := parseRadix(string(l.src[start:l.pos]), 16)
	return token{kind: tokNumber, num: v}, err
}

func (l *lexer) lexBinary() (token, error) {
	l.pos++ // consume '%'
	start := l.pos
	for l.pos < len(l.src) && (l.src[l.pos] == '0' || l.src[l.pos] == '1') {
		l.pos++
	}
	if l.pos == start {
		return token{}, fmt.Errorf("malformed binary constant")
	}
	v, err := parseRadix(string(l.src[start:l.pos]), 2)
	return token{kind: tokNumber, num: v}, err
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.src[l.pos] == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.pos += 2
		s := l.pos
		for l.pos < len(l.src) && isHexDigit(l.src[l.pos]) {
			l.pos++
		}
		v, err := parseRadix(string(l.src[s:l.pos]), 16)
		return token{kind: tokNumber, num: v}, err
	}
	for l.pos < len(l.src) && l.src[l.pos] >= '0' && l.src[l.pos] <= '9' {
		l.pos++
	}
	text := string(l.src[start:l.pos])
	radix := 10
	if len(text) > 1 && text[0] == '0' {
		radix = 8
	}
	v, err := parseRadix(text, radix)
	return token{kind: tokNumber, num: v}, err
}

func (l *lexer) lexChar() (token, error) {
	l.pos++ // opening quote
	var bytes []byte
	for l.pos < len(l.src) && l.src[l.pos] != '\'' {
		bytes = append(bytes, byte(l.src[l.pos]))
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, fmt.Errorf("unterminated character constant")
	}
	l.pos++ // closing quote
	if len(bytes) == 0 || len(bytes) > 4 {
		return token{}, fmt.Errorf("character constant must be 1-4 bytes")
	}
	var v int32
	for _, b := range bytes {
		v = (v << 8) | int32(b)
	}
	return token{kind: tokNumber, num: v}, nil
}

var twoCharOps = []string{"==", "<=", "=<", ">=", "=>", "<<", ">>", "//"}

func (l *lexer) lexOp() (token, error) {
	if l.pos+1 < len(l.src) {
		two := string(l.src[l.pos : l.pos+2])
		for _, op := range twoCharOps {
			if two == op {
				l.pos += 2
				return token{kind: tokOp, text: normalizeOp(op)}, nil
			}
		}
	}
	r := l.src[l.pos]
	switch r {
	case '+', '-', '~', '|', '&', '^', '*', '/', '<', '>', '=':
		l.pos++
		return token{kind: tokOp, text: string(r)}, nil
	default:
		return token{}, fmt.Errorf("invalid operator character %q", r)
	}
}

func normalizeOp(op string) string {
	switch op {
	case "=<":
		return "<="
	case "=>":
		return ">="
	default:
		return op
	}
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func parseRadix(s string, radix int32) (int32, error) {
	var v int32
	for _, r := range s {
		var d int32
		switch {
		case r >= '0' && r <= '9':
			d = int32(r - '0')
		case r >= 'a' && r <= 'f':
			d = int32(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int32(r-'A') + 10
		default:
			return 0, fmt.Errorf("invalid digit %q", r)
		}
		if d >= radix {
			return 0, fmt.Errorf("digit %q invalid for radix %d", r, radix)
		}
		v = v*radix + d
	}
	return v, nil
}
