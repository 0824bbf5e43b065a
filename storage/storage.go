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

// Package storage provides the storage traits spec.md's table builds
// indices out of: ordered containers (non-unique and unique) backed by
// github.com/google/btree, and a hashed unique container backed by a
// bucketed map. Each container is generic over a handle type H (the
// thing actually stored) and a view type V (what the handle is ordered
// or hashed by); callers supply the projection from H to V along with
// whatever comparison the storage discipline needs, mirroring spec.md
// §4.B's "the view provides the operations a storage kind demands".
package storage

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/btree"
)

// Hasher lets a view type supply its own 64-bit hash, the Go analogue
// of spec.md §6's "optional associated hash type". When a view does not
// implement Hasher, NewUniqueHashedDefault falls back to hashing a
// textual encoding of the value.
type Hasher interface {
	Hash() uint64
}

// DefaultHash is the fallback 64-bit hash used when a view type does
// not implement Hasher. It is deterministic and suitable for any
// comparable value, at the cost of a string allocation per call.
func DefaultHash(v any) uint64 {
	if h, ok := v.(Hasher); ok {
		return h.Hash()
	}
	return xxhash.Sum64String(fmt.Sprintf("%#v", v))
}

const btreeDegree = 32

// entry is what both sorted containers actually store: a handle plus
// its view and a tiebreak, so that Equal(v V) can probe the tree with a
// synthetic boundary entry instead of needing a transparent comparator
// (google/btree's BTreeG has none).
type entry[H any, V any] struct {
	view     V
	tiebreak uint64
	handle   H
}

// Sorted is a non-unique sorted index: it admits several handles with
// an equal view, ordered after that by tiebreak (spec.md §4.B's
// non-unique comparator: (view, addr) < (view, addr)).
type Sorted[H any, V any] struct {
	tree *btree.BTreeG[entry[H, V]]
	view func(H) V
	id   func(H) uint64
	less func(a, b V) bool
}

// NewSorted builds a non-unique sorted index. view projects a handle to
// its indexed value; less totally orders V; id supplies the tiebreak
// (ctdb uses the handle's arena slot).
func NewSorted[H any, V any](view func(H) V, less func(a, b V) bool, id func(H) uint64) *Sorted[H, V] {
	s := &Sorted[H, V]{view: view, id: id, less: less}
	s.tree = btree.NewG(btreeDegree, s.entryLess)
	return s
}

func (s *Sorted[H, V]) entryLess(a, b entry[H, V]) bool {
	if s.less(a.view, b.view) {
		return true
	}
	if s.less(b.view, a.view) {
		return false
	}
	return a.tiebreak < b.tiebreak
}

// Insert adds h, keyed by view(h). It always succeeds; a non-unique
// index never rejects an insert.
func (s *Sorted[H, V]) Insert(h H) bool {
	s.tree.ReplaceOrInsert(entry[H, V]{view: s.view(h), tiebreak: s.id(h), handle: h})
	return true
}

// Remove deletes h. It reports whether h was present.
func (s *Sorted[H, V]) Remove(h H) bool {
	_, ok := s.tree.Delete(entry[H, V]{view: s.view(h), tiebreak: s.id(h), handle: h})
	return ok
}

// Len reports the number of stored handles.
func (s *Sorted[H, V]) Len() int {
	return s.tree.Len()
}

// Ascend calls yield for every handle in ascending (view, tiebreak)
// order, stopping early if yield returns false.
func (s *Sorted[H, V]) Ascend(yield func(H) bool) {
	s.tree.Ascend(func(e entry[H, V]) bool {
		return yield(e.handle)
	})
}

// Descend calls yield for every handle in descending order.
func (s *Sorted[H, V]) Descend(yield func(H) bool) {
	s.tree.Descend(func(e entry[H, V]) bool {
		return yield(e.handle)
	})
}

// Equal returns every handle whose view compares equal to v, in
// ascending tiebreak order.
func (s *Sorted[H, V]) Equal(v V) []H {
	lo := entry[H, V]{view: v, tiebreak: 0}
	var out []H
	s.tree.AscendGreaterOrEqual(lo, func(e entry[H, V]) bool {
		if s.less(v, e.view) {
			return false
		}
		out = append(out, e.handle)
		return true
	})
	return out
}

// UniqueSorted is a unique sorted index: ordered by view alone, it
// rejects a second handle with an equal view (spec.md §4.B's
// unique_comparator).
type UniqueSorted[H any, V any] struct {
	tree *btree.BTreeG[entry[H, V]]
	view func(H) V
	less func(a, b V) bool
}

// NewUniqueSorted builds a unique sorted index.
func NewUniqueSorted[H any, V any](view func(H) V, less func(a, b V) bool) *UniqueSorted[H, V] {
	u := &UniqueSorted[H, V]{view: view, less: less}
	u.tree = btree.NewG(btreeDegree, u.entryLess)
	return u
}

func (u *UniqueSorted[H, V]) entryLess(a, b entry[H, V]) bool {
	return u.less(a.view, b.view)
}

// Insert adds h, keyed by view(h). It reports false, leaving the index
// unchanged, if a handle with an equal view is already present.
func (u *UniqueSorted[H, V]) Insert(h H) bool {
	e := entry[H, V]{view: u.view(h), handle: h}
	if u.tree.Has(e) {
		return false
	}
	u.tree.ReplaceOrInsert(e)
	return true
}

// Remove deletes the entry whose view compares equal to view(h) and
// reports whether one was present. The stored handle is not compared
// with h.
func (u *UniqueSorted[H, V]) Remove(h H) bool {
	_, ok := u.tree.Delete(entry[H, V]{view: u.view(h)})
	return ok
}

// Len reports the number of stored handles.
func (u *UniqueSorted[H, V]) Len() int {
	return u.tree.Len()
}

// Ascend calls yield for every handle in ascending view order.
func (u *UniqueSorted[H, V]) Ascend(yield func(H) bool) {
	u.tree.Ascend(func(e entry[H, V]) bool {
		return yield(e.handle)
	})
}

// Descend calls yield for every handle in descending view order.
func (u *UniqueSorted[H, V]) Descend(yield func(H) bool) {
	u.tree.Descend(func(e entry[H, V]) bool {
		return yield(e.handle)
	})
}

// Equal returns the handle whose view compares equal to v, if any.
func (u *UniqueSorted[H, V]) Equal(v V) []H {
	e, ok := u.tree.Get(entry[H, V]{view: v})
	if !ok {
		return nil
	}
	return []H{e.handle}
}

// hashEntry is what UniqueHashed stores per bucket.
type hashEntry[H any, V any] struct {
	view   V
	handle H
}

// UniqueHashed is a unique hashed index: a bucketed map keyed by
// hash(view), with equality resolving collisions within a bucket
// (spec.md §4.B's unique_equality_hash / unique_equality pair).
type UniqueHashed[H any, V any] struct {
	buckets map[uint64][]hashEntry[H, V]
	view    func(H) V
	eq      func(a, b V) bool
	hash    func(V) uint64
	count   int
}

// NewUniqueHashed builds a unique hashed index with an explicit
// equality and hash function, for view types that are not `comparable`
// or that need custom semantics.
func NewUniqueHashed[H any, V any](view func(H) V, eq func(a, b V) bool, hash func(V) uint64) *UniqueHashed[H, V] {
	return &UniqueHashed[H, V]{
		buckets: make(map[uint64][]hashEntry[H, V]),
		view:    view,
		eq:      eq,
		hash:    hash,
	}
}

// NewUniqueHashedDefault builds a unique hashed index for a comparable
// view type, using `==` for equality and DefaultHash (or V's own Hash
// method, if it implements Hasher) for hashing.
func NewUniqueHashedDefault[H any, V comparable](view func(H) V) *UniqueHashed[H, V] {
	return NewUniqueHashed(view,
		func(a, b V) bool { return a == b },
		func(v V) uint64 { return DefaultHash(v) },
	)
}

// Insert adds h, keyed by view(h). It reports false, leaving the index
// unchanged, if a handle with an equal view is already present.
func (u *UniqueHashed[H, V]) Insert(h H) bool {
	v := u.view(h)
	key := u.hash(v)
	for _, e := range u.buckets[key] {
		if u.eq(e.view, v) {
			return false
		}
	}
	u.buckets[key] = append(u.buckets[key], hashEntry[H, V]{view: v, handle: h})
	u.count++
	return true
}

// Remove deletes the entry whose view equals view(h) and reports whether
// one was present. The stored handle is not compared with h.
func (u *UniqueHashed[H, V]) Remove(h H) bool {
	v := u.view(h)
	key := u.hash(v)
	bucket := u.buckets[key]
	for i, e := range bucket {
		if u.eq(e.view, v) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(u.buckets, key)
			} else {
				u.buckets[key] = bucket
			}
			u.count--
			return true
		}
	}
	return false
}

// Len reports the number of stored handles.
func (u *UniqueHashed[H, V]) Len() int {
	return u.count
}

// Ascend calls yield for every handle. Order is Go's map iteration
// order: deterministic within a single range, but unspecified across
// runs and not meaningfully "ascending" by any view ordering.
func (u *UniqueHashed[H, V]) Ascend(yield func(H) bool) {
	for _, bucket := range u.buckets {
		for _, e := range bucket {
			if !yield(e.handle) {
				return
			}
		}
	}
}

// Equal returns the handle whose view compares equal to v, if any.
func (u *UniqueHashed[H, V]) Equal(v V) []H {
	key := u.hash(v)
	for _, e := range u.buckets[key] {
		if u.eq(e.view, v) {
			return []H{e.handle}
		}
	}
	return nil
}

