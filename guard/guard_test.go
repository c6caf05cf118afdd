/*
 * PRC68K - Guard store tests.
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

package guard

import "testing"

func TestDecideRecordsOnNonFinalPass(t *testing.T) {
	s := New()
	key := Key{File: "a.s", Line: 10, SubID: SubBranchLength}

	got, err := s.Decide(key, false, 2)
	if err != nil || got != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", got, err)
	}
}

func TestDecideVerifiesOnFinalPass(t *testing.T) {
	s := New()
	key := Key{File: "a.s", Line: 10, SubID: SubBranchLength}
	s.Set(key, 2)

	got, err := s.Decide(key, true, 2)
	if err != nil || got != 2 {
		t.Fatalf("got (%d, %v), want (2, nil)", got, err)
	}
}

func TestDecideReportsMismatch(t *testing.T) {
	s := New()
	key := Key{File: "a.s", Line: 10, SubID: SubBranchLength}
	s.Set(key, 2) // pass 1 chose a short branch

	_, err := s.Decide(key, true, 4) // pass 2 now needs a long one
	var mismatch *ErrMismatch
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	if !asErrMismatch(err, &mismatch) {
		t.Fatalf("got %T, want *ErrMismatch", err)
	}
	if mismatch.Recorded != 2 || mismatch.Got != 4 {
		t.Fatalf("got recorded=%d got=%d, want 2/4", mismatch.Recorded, mismatch.Got)
	}
}

func TestCheckUnrecordedKeyFails(t *testing.T) {
	s := New()
	key := Key{File: "a.s", Line: 5, SubID: SubMoveqUse}
	if err := s.Check(key, 1); err == nil {
		t.Fatal("expected an ErrNotRecorded error")
	}
}

func TestResetClearsRecordedDecisions(t *testing.T) {
	s := New()
	key := Key{File: "a.s", Line: 1, SubID: SubQuickMath}
	s.Set(key, 1)
	s.Reset()
	if err := s.Check(key, 1); err == nil {
		t.Fatal("Reset should have discarded the recorded decision")
	}
}

func asErrMismatch(err error, out **ErrMismatch) bool {
	m, ok := err.(*ErrMismatch)
	if ok {
		*out = m
	}
	return ok
}
