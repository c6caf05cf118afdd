/*
 * PRC68K - Source line splitting: label, mnemonic, size suffix, operands.
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

// Package lexer splits one already-macro-expanded source line into its
// label/mnemonic/size-suffix/operand/comment fields, per spec §4.3. It does
// not evaluate anything; it only recognizes shape.
package lexer

import "unicode"

// Line is one split source line. When Ambiguous is set, the default
// Label/Mnemonic/SizeSuffix/Operands fields hold the "leading word is the
// mnemonic" reading (the common case: STRUCT/PROC/ordinary opcodes written
// unindented), and AltLabel/AltMnemonic/AltSizeSuffix/AltOperands hold the
// "leading word is a label" reading (the "NAME EQU value" / "NAME SET
// value" idiom written without a colon). Split cannot tell these apart on
// its own — whichever of Mnemonic or AltMnemonic is a known table entry
// wins; that lookup belongs to whoever holds the instruction/directive
// table, not here.
type Line struct {
	Label      string
	TempLabel  bool
	Mnemonic   string
	SizeSuffix string
	Operands   string
	Comment    string
	Blank      bool

	Ambiguous     bool
	AltLabel      string
	AltMnemonic   string
	AltSizeSuffix string
	AltOperands   string
}

// Split parses one logical source line. Leading whitespace is skipped; a
// comment starts at a '*' that is the line's first non-blank character or
// at any unquoted ';'.
func Split(raw string) Line {
	line := stripComment(raw)
	var out Line
	if len(line) < len(raw) {
		out.Comment = skipSpace(raw[len(line):])
	}
	if isBlank(line) {
		out.Blank = true
		return out
	}

	firstTok, rest := splitTokenRaw(line)
	col1 := !unicode.IsSpace(rune(line[0]))

	switch {
	case hasColon(firstTok):
		// Unambiguous: an explicit colon always marks a label.
		out.Label = trimColon(firstTok)
		out.TempLabel = isTempLabel(out.Label)
		return finishMnemonic(out, rest)

	case !col1:
		// Unambiguous: indentation always means "no label here".
		return finishMnemonic(out, line)

	case isTempLabel(firstTok) && rest == "":
		// Unambiguous: a bare digit run alone on its line is a temp-label
		// definition, never a directive name.
		out.Label = firstTok
		out.TempLabel = true
		return out
	}

	// Column 1, no colon: could be "MNEMONIC [operands]" (a single opcode
	// like NOP/RTS/ENDSTRUCT, or an unindented directive) or "LABEL
	// MNEMONIC operands" (the colon-less EQU/SET idiom). Default to the
	// mnemonic reading; resolveAmbiguous in package assembler falls back
	// to the label reading only when the default's leading word isn't a
	// known mnemonic.
	out.Ambiguous = true
	def := finishMnemonic(Line{}, line)
	out.Mnemonic, out.SizeSuffix, out.Operands = def.Mnemonic, def.SizeSuffix, def.Operands

	alt := finishMnemonic(Line{}, rest)
	out.AltLabel = firstTok
	out.AltMnemonic, out.AltSizeSuffix, out.AltOperands = alt.Mnemonic, alt.SizeSuffix, alt.Operands
	return out
}

func finishMnemonic(out Line, line string) Line {
	line = skipSpace(line)
	if line == "" {
		out.Blank = out.Label == "" && !out.Ambiguous
		return out
	}
	var mnemToken string
	mnemToken, line = splitToken(line)
	out.Mnemonic, out.SizeSuffix = splitSize(mnemToken)
	ops := skipSpace(line)
	for len(ops) > 0 && unicode.IsSpace(rune(ops[len(ops)-1])) {
		ops = ops[:len(ops)-1]
	}
	out.Operands = ops
	return out
}

// stripComment removes a trailing ';' comment or a whole-line '*' comment,
// respecting single-quoted character/string literals so a ';' inside one is
// not mistaken for a comment marker.
func stripComment(line string) string {
	trimmed := skipSpace(line)
	if len(trimmed) > 0 && trimmed[0] == '*' {
		return ""
	}
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

func isBlank(line string) bool {
	return skipSpace(line) == ""
}

func skipSpace(str string) string {
	for i := range str {
		if !unicode.IsSpace(rune(str[i])) {
			return str[i:]
		}
	}
	return ""
}

// splitToken takes the next run of non-space characters and returns it
// along with whatever follows. A trailing ':' on a label is stripped.
func splitToken(str string) (string, string) {
	str = skipSpace(str)
	for i, r := range str {
		if unicode.IsSpace(r) {
			return trimColon(str[:i]), str[i:]
		}
	}
	return trimColon(str), ""
}

// splitTokenRaw is splitToken without stripping a trailing colon, so the
// caller can tell a label token from a mnemonic token.
func splitTokenRaw(str string) (string, string) {
	str = skipSpace(str)
	for i, r := range str {
		if unicode.IsSpace(r) {
			return str[:i], str[i:]
		}
	}
	return str, ""
}

func hasColon(tok string) bool {
	return len(tok) > 0 && tok[len(tok)-1] == ':'
}

func trimColon(tok string) string {
	if len(tok) > 0 && tok[len(tok)-1] == ':' {
		return tok[:len(tok)-1]
	}
	return tok
}

// splitSize separates a mnemonic from a trailing ".B"/".W"/".L"/".S" size
// suffix; the suffix text is returned without its leading dot, upper-cased.
func splitSize(tok string) (mnemonic, suffix string) {
	for i := len(tok) - 1; i >= 0; i-- {
		if tok[i] == '.' {
			return upper(tok[:i]), upper(tok[i+1:])
		}
	}
	return upper(tok), ""
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// isTempLabel reports whether label is a bare decimal digit string; Split
// sets Line.TempLabel for such labels.
func isTempLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
