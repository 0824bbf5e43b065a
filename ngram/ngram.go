/*
Copyright 2026 The ctdb Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ngram generates fixed-width byte windows ("n-grams") over a
// string, along with the counting helpers used to plan full-text
// searches. The window is byte-oriented, not unicode-aware: a multi-byte
// character can straddle two windows. See ctdb/fulltext, which consumes
// this package to build its inverted index.
package ngram

import (
	"fmt"
	"iter"
	"math"
)

// GenerateCount returns how many n-grams of width n a string of the
// given length produces: max(0, length-n+1).
func GenerateCount(length, n int) int {
	if n <= 0 {
		panic("ngram: n must be >= 1")
	}
	if length < n {
		return 0
	}
	return length - n + 1
}

// SearchCount returns the minimum number of non-overlapping n-grams of
// width n needed to cover a query of the given length: 0 if the query is
// shorter than n, else ceil(length / n). It is used for planning a
// reduced probe set and is not required on the hot path; ctdb/fulltext
// does not currently use it (see DESIGN.md).
func SearchCount(length, n int) int {
	if n <= 0 {
		panic("ngram: n must be >= 1")
	}
	if length < n {
		return 0
	}
	return (length + n - 1) / n
}

// View is a lazy, restartable sequence of (n-gram, position) pairs over
// a byte string. It is cheap to copy and can be iterated any number of
// times.
type View struct {
	s string
	n int
}

// Of returns the view of s using window width n. It panics if n is not
// positive, or if s is long enough that a position would not fit in a
// uint32 — the contract spec.md places on backing strings.
func Of(s string, n int) View {
	if n <= 0 {
		panic("ngram: n must be >= 1")
	}
	if len(s) > math.MaxUint32 {
		panic(fmt.Sprintf("ngram: input of %d bytes exceeds the 32-bit position contract", len(s)))
	}
	return View{s: s, n: n}
}

// Len reports how many n-grams this view produces; it is
// GenerateCount(len(s), n).
func (v View) Len() int {
	return GenerateCount(len(v.s), v.n)
}

// All yields every (n-gram, position) pair in increasing position order.
// The n-gram strings are sub-slices of the backing string, sharing its
// storage.
func (v View) All() iter.Seq2[string, uint32] {
	return func(yield func(string, uint32) bool) {
		count := v.Len()
		for i := 0; i < count; i++ {
			if !yield(v.s[i:i+v.n], uint32(i)) {
				return
			}
		}
	}
}
