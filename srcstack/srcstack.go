/*
 * PRC68K - Nested include-file source stack.
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

// Package srcstack implements the source position and include-file stack
// of spec §3 (Source Position) and §4.2 (Line Source): pushing and popping
// nested INCLUDE frames, tracking line numbers, and reading one logical
// line at a time from whichever frame is on top.
package srcstack

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Position names where a line came from: a file path and line number, plus
// whether it is a real file line or a synthesized expand-buffer line (in
// which case the file line number is held stable by the caller and an
// expand-line index distinguishes lines within the expansion).
type Position struct {
	File       string
	Line       int
	ExpandLine int // 0 when reading straight from the file.
}

func (p Position) String() string {
	if p.ExpandLine != 0 {
		return fmt.Sprintf("%s:%d(+%d)", p.File, p.Line, p.ExpandLine)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

type frame struct {
	path   string
	line   int
	reader *bufio.Scanner
	closer io.Closer
}

// Stack is a LIFO of open source files. The bottom-most frame is the root
// source file named on the command line; INCLUDE pushes a new frame on
// top, and reaching EOF pops the current frame.
type Stack struct {
	frames []*frame
	// included tracks, for the current pass, which paths have been opened so
	// far (an entry stays after its file is popped); re-including one of them within the same pass
	// is a directive-level error (the `:include:<path>` guard of spec §4.2).
	included map[string]bool
	open     func(path string) (io.ReadCloser, error)
}

// New creates a stack whose root frame reads from rootPath, opened via the
// given `open` function (overridable in tests; defaults to os.Open through
// NewFromPath).
func New(rootPath string, open func(string) (io.ReadCloser, error)) (*Stack, error) {
	s := &Stack{included: make(map[string]bool), open: open}
	if err := s.push(rootPath); err != nil {
		return nil, err
	}
	return s, nil
}

// NewFromPath opens the root file from disk.
func NewFromPath(rootPath string) (*Stack, error) {
	return New(rootPath, func(p string) (io.ReadCloser, error) { return os.Open(p) })
}

func (s *Stack) push(path string) error {
	if s.included[path] {
		return fmt.Errorf("file %q already included in this pass", path)
	}
	rc, err := s.open(path)
	if err != nil {
		return fmt.Errorf("cannot open %q: %w", path, err)
	}
	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.frames = append(s.frames, &frame{path: path, reader: sc, closer: rc})
	s.included[path] = true
	return nil
}

// Include pushes a new frame for an INCLUDE directive.
func (s *Stack) Include(path string) error {
	if len(s.frames) >= 32 {
		return fmt.Errorf("include nesting too deep")
	}
	return s.push(path)
}

// ResetForPass reopens the root file and clears the re-inclusion guard; it
// must be called once at the start of every pass (§4.1 step 1). The opener
// is remembered from New; the root path is passed in again.
func (s *Stack) ResetForPass(rootPath string) error {
	for _, f := range s.frames {
		if f.closer != nil {
			_ = f.closer.Close()
		}
	}
	s.frames = nil
	s.included = make(map[string]bool)
	return s.push(rootPath)
}

// Empty reports whether every frame has been popped (end of input).
func (s *Stack) Empty() bool {
	return len(s.frames) == 0
}

// Next returns the next physical line from the top frame, popping frames
// that have reached EOF. ok is false once the whole stack is exhausted.
func (s *Stack) Next() (line string, pos Position, ok bool) {
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		if top.reader.Scan() {
			top.line++
			return top.reader.Text(), Position{File: top.path, Line: top.line}, true
		}
		if err := top.reader.Err(); err != nil {
			// Treat a read error the same as EOF; the line assembler will
			// already have seen File I/O errors surfaced elsewhere.
			_ = err
		}
		if top.closer != nil {
			_ = top.closer.Close()
		}
		s.frames = s.frames[:len(s.frames)-1]
	}
	return "", Position{}, false
}

// CurrentFile returns the path of the top-of-stack frame, or "" if empty.
func (s *Stack) CurrentFile() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1].path
}

// CurrentLine returns the line number last read from the top frame.
func (s *Stack) CurrentLine() int {
	if len(s.frames) == 0 {
		return 0
	}
	return s.frames[len(s.frames)-1].line
}

// Depth reports how many frames are currently open (1 = just the root file).
func (s *Stack) Depth() int {
	return len(s.frames)
}
