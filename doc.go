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

// Package ctdb implements a multi-index, in-memory collection: a Table
// of records, each record reachable through zero or more secondary
// indices (sorted, unique sorted, unique hashed, or full-text) declared
// at construction time.
//
// A Table owns its records and hands out Handle values in exchange for
// them; a Handle stays valid, and its Get() pointer stable, for as long
// as the record it names remains in the table. Records are located
// either directly (Table.All) or through an index, via the free
// functions All, Equal and Size, each parameterised by the query type
// the target index is built over:
//
//	t := ctdb.New(ctdb.NewUniqueSorted(func(r *Person) string { return r.Name }, less))
//	h, ok := t.Emplace(Person{Name: "hana"})
//	found, _ := ctdb.Equal[string](t, "hana")
//
// See the storage package for the index storage kinds, and fulltext for
// the inverted n-gram index NewFullText builds on.
package ctdb
