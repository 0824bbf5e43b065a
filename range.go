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

package ctdb

import "iter"

// Range is the result of a query: an ordered list of handles, cheap to
// iterate forwards or backwards. It is the Go analogue of spec.md's
// iterator-pair query results (SPEC_FULL.md §4.G).
type Range[R any] struct {
	handles []Handle[R]
}

// Len reports the number of handles in the range.
func (r Range[R]) Len() int {
	return len(r.handles)
}

// Handles returns the range's handles in their stored order.
func (r Range[R]) Handles() []Handle[R] {
	return r.handles
}

// Ascending yields every record in the range in its stored (ascending)
// order.
func (r Range[R]) Ascending() iter.Seq[*R] {
	return func(yield func(*R) bool) {
		for _, h := range r.handles {
			if !yield(h.Get()) {
				return
			}
		}
	}
}

// Descending yields every record in the range in reverse order.
func (r Range[R]) Descending() iter.Seq[*R] {
	return func(yield func(*R) bool) {
		for i := len(r.handles) - 1; i >= 0; i-- {
			if !yield(r.handles[i].Get()) {
				return
			}
		}
	}
}

// All is an alias for Ascending, matching spec.md's free-function All
// returning "the range in ascending order" by default.
func (r Range[R]) All() iter.Seq[*R] {
	return r.Ascending()
}
