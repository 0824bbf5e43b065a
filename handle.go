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
	"fmt"

	"github.com/hanickadot/ctdb/internal/arena"
)

// Handle is an address-stable reference to a record stored in a Table.
// It stays valid across insertions and erasures of other records (the
// arena never moves a live record), and becomes invalid only when the
// record it names is erased or its Table is discarded. Using a stale
// handle is a contract violation and panics, the Go analogue of
// dereferencing a freed C++ iterator.
//
// The zero Handle[R] is never valid; it exists only as a sentinel, for
// example as the zero value spec.md §3 requires a failed lookup to be
// able to return alongside a false ok.
type Handle[R any] struct {
	arena *arena.Arena[R]
	slot  uint32
	gen   uint32
}

// IsValid reports whether h currently names a live record. A
// zero-valued Handle is always invalid.
func (h Handle[R]) IsValid() bool {
	return h.arena != nil && h.arena.Alive(h.slot, h.gen)
}

// Get returns a pointer to the referenced record. It panics if h is
// stale or zero-valued.
func (h Handle[R]) Get() *R {
	if h.arena == nil {
		panic("ctdb: Get called on a zero-valued Handle")
	}
	v, ok := h.arena.Get(h.slot, h.gen)
	if !ok {
		panic(fmt.Sprintf("ctdb: Get called on a stale Handle (slot %d, generation %d)", h.slot, h.gen))
	}
	return v
}

// tiebreak returns a value that is unique among currently-live handles
// of a given Table and stable for the handle's lifetime: indices use it
// to order or bucket handles that compare equal by their indexed view,
// the same role spec.md's Design Notes assign to a record's address.
func (h Handle[R]) tiebreak() uint64 {
	return uint64(h.slot)<<32 | uint64(h.gen)
}
