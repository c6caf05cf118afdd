/*
 * PRC68K - Guard store: persisted per-line pass decisions.
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

// Package guard implements the guard store of spec §4.9: a decision recorded
// in passes 0 and 1 (branch length, absolute-mode width, MOVEQ/MOVE choice,
// MOVEM operand order...; pass 1's value is the one kept) and checked again
// in pass 2, where any mismatch is a
// fatal PHASE_ERROR-class condition. Keys are source positions plus a
// small sub-id distinguishing multiple guarded decisions on one line.
package guard

import "fmt"

// Key identifies one guarded decision: a source position (file, line,
// expand-line index) plus a sub-id for lines that guard more than one
// choice (e.g. source- and destination-mode width on the same MOVE).
type Key struct {
	File       string
	Line       int
	ExpandLine int
	SubID      int
}

func (k Key) string() string {
	return fmt.Sprintf("%s:%d:%d:%d", k.File, k.Line, k.ExpandLine, k.SubID)
}

// Sub-ids for the well-known guarded decisions named in spec §4.6.
const (
	SubBranchLength = 1
	SubMoveqUse     = 2
	SubQuickMath    = 3
	SubMovemOrder   = 4
	SubAbsWidthSrc  = 5
	SubAbsWidthDst  = 6
)

// ErrMismatch is returned by Check when pass 2's value disagrees with the
// value pass 1 recorded; this is the GUARD_ERROR / PHASE_ERROR condition.
type ErrMismatch struct {
	Key      Key
	Recorded int64
	Got      int64
}

func (e *ErrMismatch) Error() string {
	return fmt.Sprintf("GUARD_ERROR: %s recorded %d, now %d", e.Key.string(), e.Recorded, e.Got)
}

// ErrNotRecorded is returned by Check when pass 2 consults a guard that
// pass 1 never set.
type ErrNotRecorded struct{ Key Key }

func (e *ErrNotRecorded) Error() string {
	return fmt.Sprintf("INTERNAL_ERROR_GUARD_NOT_DEF: %s", e.Key.string())
}

// Store is the full set of guarded decisions for one assembly run. Entries
// persist across passes; every pass before the last writes, only the last
// pass verifies.
type Store struct {
	values map[string]int64
}

// New creates an empty guard store.
func New() *Store {
	return &Store{values: make(map[string]int64)}
}

// Set records a decision made during pass 1 (or any pass before the last).
func (s *Store) Set(key Key, value int64) {
	s.values[key.string()] = value
}

// Check is called during the final pass: it verifies that `value` matches
// what an earlier pass recorded for `key`, returning an error if not (or if
// nothing was ever recorded).
func (s *Store) Check(key Key, value int64) error {
	recorded, ok := s.values[key.string()]
	if !ok {
		return &ErrNotRecorded{Key: key}
	}
	if recorded != value {
		return &ErrMismatch{Key: key, Recorded: recorded, Got: value}
	}
	return nil
}

// Decide is the common pattern used by every guarded choice: on the
// recording pass it stores `value` and returns it unchanged; on the
// verifying pass it checks `value` against what was recorded and returns
// `value` along with any mismatch or missing-record error.
func (s *Store) Decide(key Key, finalPass bool, value int64) (int64, error) {
	if !finalPass {
		s.Set(key, value)
		return value, nil
	}
	if err := s.Check(key, value); err != nil {
		return value, err
	}
	return value, nil
}

// Reset clears every recorded decision; used between independent assembly
// runs (never between passes of the same run).
func (s *Store) Reset() {
	s.values = make(map[string]int64)
}
