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
	"reflect"

	"github.com/hanickadot/ctdb/fulltext"
	"github.com/hanickadot/ctdb/storage"
)

// Index is one secondary index attached to a Table[R]. A Table holds a
// dynamic list of Index[R] values rather than a compile-time tuple: Go
// methods cannot carry additional type parameters of their own, so the
// query-time dispatch that spec.md's C++ original resolves during
// template instantiation happens here at runtime, by matching a query
// value's type against ViewType via reflect (see the free functions
// All, Equal and Size below, and SPEC_FULL.md §1).
type Index[R any] interface {
	// Insert adds h to the index. It reports false, leaving the index
	// unchanged, if h's view collides with a uniqueness constraint the
	// index enforces.
	Insert(Handle[R]) bool
	// Remove deletes h from the index. It reports whether h was present.
	Remove(Handle[R]) bool
	// Len reports the number of entries currently indexed: one per
	// handle for the sorted and hashed kinds, one per posting for a
	// full-text index.
	Len() int
	// ViewType reports the static type this index is queried by: the
	// type free functions compare a query value's type against.
	ViewType() reflect.Type
	// Ascend calls yield for every handle in the index's natural
	// ascending order, stopping early if yield returns false.
	Ascend(yield func(Handle[R]) bool)
	// Descend calls yield for every handle in descending order.
	Descend(yield func(Handle[R]) bool)
	// Equal returns every handle whose view compares or hashes equal to
	// q, and whether q's dynamic type matched this index's ViewType at
	// all (a false ok means the query was aimed at the wrong index, not
	// that the value was merely absent).
	Equal(q any) (handles []Handle[R], ok bool)
}

type sortedIndex[R any, V any] struct {
	s *storage.Sorted[Handle[R], V]
}

// NewSorted builds a non-unique sorted Index: several records may share
// an equal view, ordered after that by insertion-independent tiebreak.
// extract projects a record to the value it is indexed by; less totally
// orders that value.
func NewSorted[R any, V any](extract func(*R) V, less func(a, b V) bool) Index[R] {
	view := func(h Handle[R]) V { return extract(h.Get()) }
	return &sortedIndex[R, V]{s: storage.NewSorted(view, less, Handle[R].tiebreak)}
}

func (ix *sortedIndex[R, V]) Insert(h Handle[R]) bool { return ix.s.Insert(h) }
func (ix *sortedIndex[R, V]) Remove(h Handle[R]) bool { return ix.s.Remove(h) }
func (ix *sortedIndex[R, V]) Len() int                { return ix.s.Len() }
func (ix *sortedIndex[R, V]) ViewType() reflect.Type  { return reflect.TypeFor[V]() }

func (ix *sortedIndex[R, V]) Ascend(yield func(Handle[R]) bool)  { ix.s.Ascend(yield) }
func (ix *sortedIndex[R, V]) Descend(yield func(Handle[R]) bool) { ix.s.Descend(yield) }

func (ix *sortedIndex[R, V]) Equal(q any) ([]Handle[R], bool) {
	v, ok := q.(V)
	if !ok {
		return nil, false
	}
	return ix.s.Equal(v), true
}

type uniqueSortedIndex[R any, V any] struct {
	u *storage.UniqueSorted[Handle[R], V]
}

// NewUniqueSorted builds a unique sorted Index: it rejects a second
// record whose view compares equal to one already present.
func NewUniqueSorted[R any, V any](extract func(*R) V, less func(a, b V) bool) Index[R] {
	view := func(h Handle[R]) V { return extract(h.Get()) }
	return &uniqueSortedIndex[R, V]{u: storage.NewUniqueSorted(view, less)}
}

func (ix *uniqueSortedIndex[R, V]) Insert(h Handle[R]) bool { return ix.u.Insert(h) }
func (ix *uniqueSortedIndex[R, V]) Remove(h Handle[R]) bool { return ix.u.Remove(h) }
func (ix *uniqueSortedIndex[R, V]) Len() int                { return ix.u.Len() }
func (ix *uniqueSortedIndex[R, V]) ViewType() reflect.Type  { return reflect.TypeFor[V]() }

func (ix *uniqueSortedIndex[R, V]) Ascend(yield func(Handle[R]) bool)  { ix.u.Ascend(yield) }
func (ix *uniqueSortedIndex[R, V]) Descend(yield func(Handle[R]) bool) { ix.u.Descend(yield) }

func (ix *uniqueSortedIndex[R, V]) Equal(q any) ([]Handle[R], bool) {
	v, ok := q.(V)
	if !ok {
		return nil, false
	}
	return ix.u.Equal(v), true
}

type uniqueHashedIndex[R any, V any] struct {
	u *storage.UniqueHashed[Handle[R], V]
}

// NewUniqueHashed builds a unique hashed Index with an explicit equality
// and hash function, for view types that are not `comparable` or need
// custom semantics.
func NewUniqueHashed[R any, V any](extract func(*R) V, eq func(a, b V) bool, hash func(V) uint64) Index[R] {
	view := func(h Handle[R]) V { return extract(h.Get()) }
	return &uniqueHashedIndex[R, V]{u: storage.NewUniqueHashed(view, eq, hash)}
}

// NewUniqueHashedDefault builds a unique hashed Index for a comparable
// view type, using `==` for equality and storage.DefaultHash (or V's own
// Hash method, if it implements storage.Hasher) for hashing.
func NewUniqueHashedDefault[R any, V comparable](extract func(*R) V) Index[R] {
	view := func(h Handle[R]) V { return extract(h.Get()) }
	return &uniqueHashedIndex[R, V]{u: storage.NewUniqueHashedDefault(view)}
}

func (ix *uniqueHashedIndex[R, V]) Insert(h Handle[R]) bool { return ix.u.Insert(h) }
func (ix *uniqueHashedIndex[R, V]) Remove(h Handle[R]) bool { return ix.u.Remove(h) }
func (ix *uniqueHashedIndex[R, V]) Len() int                { return ix.u.Len() }
func (ix *uniqueHashedIndex[R, V]) ViewType() reflect.Type  { return reflect.TypeFor[V]() }

func (ix *uniqueHashedIndex[R, V]) Ascend(yield func(Handle[R]) bool) { ix.u.Ascend(yield) }

// Descend on a hashed index is Ascend: it visits the same handles in
// unspecified map-iteration order, since a hashed index has no notion of
// descending. Range.Descending does not call it; it reverses the handles
// that All collected through Ascend (SPEC_FULL.md §11).
func (ix *uniqueHashedIndex[R, V]) Descend(yield func(Handle[R]) bool) { ix.u.Ascend(yield) }

func (ix *uniqueHashedIndex[R, V]) Equal(q any) ([]Handle[R], bool) {
	v, ok := q.(V)
	if !ok {
		return nil, false
	}
	return ix.u.Equal(v), true
}

// fullTextQuery is the query type used to search a full-text index:
// free functions dispatch to it by matching this type against
// fullTextIndex's ViewType, the same mechanism every other index kind
// uses, so fulltext.Index needs no special case in All/Equal/Size.
type fullTextQuery string

type fullTextIndex[R any] struct {
	ix      *fulltext.Index[Handle[R]]
	extract func(*R) string
}

// NewFullText builds a full-text Index: every record's extract(record)
// text is decomposed into n-grams of width n and indexed for substring
// search. Query it with ctdb.Equal[ctdb.Query](table, ctdb.Query("...")).
func NewFullText[R any](n int, extract func(*R) string) Index[R] {
	id := func(h Handle[R]) uint64 { return h.tiebreak() }
	return &fullTextIndex[R]{ix: fulltext.New[Handle[R]](n, id), extract: extract}
}

func (ix *fullTextIndex[R]) Insert(h Handle[R]) bool {
	ix.ix.Emplace(ix.extract(h.Get()), h)
	return true
}

func (ix *fullTextIndex[R]) Remove(h Handle[R]) bool {
	ix.ix.Remove(ix.extract(h.Get()), h)
	return true
}

// Len reports the number of postings, not of records: each record
// contributes one posting per n-gram of its text.
func (ix *fullTextIndex[R]) Len() int               { return ix.ix.Postings() }
func (ix *fullTextIndex[R]) ViewType() reflect.Type { return reflect.TypeFor[fullTextQuery]() }

// Ascend and Descend are not meaningful over a full-text index (it has
// no total order over records): both are no-ops, matching spec.md's
// treatment of the full-text component as search-only.
func (ix *fullTextIndex[R]) Ascend(yield func(Handle[R]) bool)  {}
func (ix *fullTextIndex[R]) Descend(yield func(Handle[R]) bool) {}

func (ix *fullTextIndex[R]) Equal(q any) ([]Handle[R], bool) {
	query, ok := q.(fullTextQuery)
	if !ok {
		return nil, false
	}
	posts := ix.ix.FindAll(string(query))
	seen := make(map[uint64]bool, len(posts))
	out := make([]Handle[R], 0, len(posts))
	for _, p := range posts {
		key := p.Handle.tiebreak()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p.Handle)
	}
	return out, true
}

// Query wraps a substring to search a full-text index for: pass it to
// Equal, e.g. ctdb.Equal[ctdb.Query](t, ctdb.Query("char")).
type Query = fullTextQuery

// find locates the first index in t whose ViewType matches Q, if any.
func find[Q any, R any](t *Table[R]) (Index[R], bool) {
	want := reflect.TypeFor[Q]()
	for _, ix := range t.indices {
		if ix.ViewType() == want {
			return ix, true
		}
	}
	return nil, false
}

// All returns every record in t in the natural ascending order of the
// first index whose view type is Q, and whether such an index exists.
func All[Q any, R any](t *Table[R]) (Range[R], bool) {
	ix, ok := find[Q](t)
	if !ok {
		return Range[R]{}, false
	}
	var handles []Handle[R]
	ix.Ascend(func(h Handle[R]) bool { handles = append(handles, h); return true })
	return Range[R]{handles: handles}, true
}

// Equal returns every record whose Q-typed view compares or hashes
// equal to q, found via the index whose ViewType is Q. The second
// return reports whether t has such an index at all, independent of
// whether any record matched. For a full-text index the matches are the
// records whose text contains q, each listed once.
func Equal[Q any, R any](t *Table[R], q Q) (Range[R], bool) {
	ix, ok := find[Q](t)
	if !ok {
		return Range[R]{}, false
	}
	handles, _ := ix.Equal(q)
	return Range[R]{handles: handles}, true
}

// Size reports the Len of the index whose ViewType is Q (its record
// count for a sorted or hashed index, its posting count for a full-text
// index), and whether t has such an index.
func Size[Q any, R any](t *Table[R]) (int, bool) {
	ix, ok := find[Q](t)
	if !ok {
		return 0, false
	}
	return ix.Len(), true
}
