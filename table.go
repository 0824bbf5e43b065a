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

import (
	"github.com/hanickadot/ctdb/fulltext"
	"github.com/hanickadot/ctdb/internal/arena"
)

// Table is a multi-index, in-memory collection of records of type R. It
// owns record storage (an internal arena.Arena[R]) and a dynamic list of
// secondary Index[R] values built over that storage. There is no
// internal locking: concurrent access from multiple goroutines requires
// external synchronization, the same non-goal spec.md's Concurrency
// Model section states explicitly (SPEC_FULL.md §5).
type Table[R any] struct {
	arena   *arena.Arena[R]
	indices []Index[R]
}

// New builds an empty Table with the given indices. Emplace inserts into
// them in the order given; when one rejects a record, the earlier ones are
// rolled back in reverse order.
func New[R any](indices ...Index[R]) *Table[R] {
	return &Table[R]{arena: arena.New[R](), indices: indices}
}

// Emplace inserts record into t. It reports false, leaving t unchanged,
// if record collides with a uniqueness constraint any index enforces:
// the record is added to the underlying arena only provisionally, and is
// removed again (along with any index it was already added to) if a
// later index rejects it.
func (t *Table[R]) Emplace(record R) (Handle[R], bool) {
	slot, gen := t.arena.Insert(record)
	h := Handle[R]{arena: t.arena, slot: slot, gen: gen}

	for i, ix := range t.indices {
		if ix.Insert(h) {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			t.indices[j].Remove(h)
		}
		t.arena.Remove(slot, gen)
		return Handle[R]{}, false
	}
	return h, true
}

// Erase removes the record h refers to from every index and from t's
// storage. It reports whether h was valid and so erased.
func (t *Table[R]) Erase(h Handle[R]) bool {
	if !h.IsValid() {
		return false
	}
	for _, ix := range t.indices {
		ix.Remove(h)
	}
	return t.arena.Remove(h.slot, h.gen)
}

// Size reports the number of records currently in t.
func (t *Table[R]) Size() int {
	return t.arena.Len()
}

// All returns every record in t, in the arena's storage order (the order
// records were inserted, modulo slot reuse). Use ctdb.All[Q] to iterate
// by a particular index's order instead.
func (t *Table[R]) All() Range[R] {
	var handles []Handle[R]
	t.arena.Ascend(func(slot, gen uint32) bool {
		handles = append(handles, Handle[R]{arena: t.arena, slot: slot, gen: gen})
		return true
	})
	return Range[R]{handles: handles}
}

// fullTextCapable is implemented by fullTextIndex[R]; Table.FullText
// uses it to recover the concrete *fulltext.Index without widening
// Index[R] itself with a method every other index kind would have to
// stub out.
type fullTextCapable[R any] interface {
	fullText() *fulltext.Index[Handle[R]]
}

func (ix *fullTextIndex[R]) fullText() *fulltext.Index[Handle[R]] { return ix.ix }

// FullText returns the underlying full-text index attached to t, if any,
// for callers that need its NGrams/Postings introspection rather than
// the Equal[Query] search path.
func (t *Table[R]) FullText() (*fulltext.Index[Handle[R]], bool) {
	for _, ix := range t.indices {
		if fc, ok := ix.(fullTextCapable[R]); ok {
			return fc.fullText(), true
		}
	}
	return nil, false
}
