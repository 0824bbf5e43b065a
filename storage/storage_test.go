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

package storage

import "testing"

type person struct {
	name string
	age  int
}

func TestSortedAllowsDuplicatesOrderedByTiebreak(t *testing.T) {
	id := 0
	next := func(person) uint64 { id++; return uint64(id) }
	s := NewSorted(
		func(p person) int { return p.age },
		func(a, b int) bool { return a < b },
		next,
	)

	s.Insert(person{"alice", 30})
	s.Insert(person{"bob", 30})
	s.Insert(person{"carol", 20})

	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}

	var names []string
	s.Ascend(func(p person) bool { names = append(names, p.name); return true })
	want := []string{"carol", "alice", "bob"}
	for i, w := range want {
		if names[i] != w {
			t.Errorf("Ascend[%d] = %q, want %q", i, names[i], w)
		}
	}

	eq := s.Equal(30)
	if len(eq) != 2 {
		t.Fatalf("Equal(30) = %d handles, want 2", len(eq))
	}
}

func TestSortedDescend(t *testing.T) {
	id := 0
	next := func(person) uint64 { id++; return uint64(id) }
	s := NewSorted(
		func(p person) int { return p.age },
		func(a, b int) bool { return a < b },
		next,
	)
	s.Insert(person{"z", 3})
	s.Insert(person{"d", 1})
	s.Insert(person{"a", 2})

	var ages []int
	s.Descend(func(p person) bool { ages = append(ages, p.age); return true })
	want := []int{3, 2, 1}
	for i, w := range want {
		if ages[i] != w {
			t.Errorf("Descend[%d] = %d, want %d", i, ages[i], w)
		}
	}
}

func TestSortedRemove(t *testing.T) {
	ids := map[string]uint64{}
	next := func(p person) uint64 {
		if _, ok := ids[p.name]; !ok {
			ids[p.name] = uint64(len(ids) + 1)
		}
		return ids[p.name]
	}
	s := NewSorted(
		func(p person) int { return p.age },
		func(a, b int) bool { return a < b },
		next,
	)
	p := person{"alice", 30}
	s.Insert(p)
	if !s.Remove(p) {
		t.Fatalf("Remove = false, want true")
	}
	if s.Len() != 0 {
		t.Fatalf("Len() after remove = %d, want 0", s.Len())
	}
	if s.Remove(p) {
		t.Fatalf("double Remove = true, want false")
	}
}

func TestUniqueSortedRejectsDuplicateView(t *testing.T) {
	u := NewUniqueSorted(
		func(p person) string { return p.name },
		func(a, b string) bool { return a < b },
	)

	if !u.Insert(person{"hello", 1}) {
		t.Fatalf("first Insert(hello) = false, want true")
	}
	if !u.Insert(person{"there", 2}) {
		t.Fatalf("Insert(there) = false, want true")
	}
	if u.Insert(person{"hello", 99}) {
		t.Fatalf("second Insert(hello) = true, want false (duplicate view)")
	}
	if u.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", u.Len())
	}

	eq := u.Equal("hello")
	if len(eq) != 1 || eq[0].age != 1 {
		t.Fatalf("Equal(hello) = %+v, want [{hello 1}]", eq)
	}
	if eq := u.Equal("nope"); eq != nil {
		t.Fatalf("Equal(nope) = %+v, want nil", eq)
	}
}

func TestUniqueSortedAscendDescend(t *testing.T) {
	u := NewUniqueSorted(
		func(p person) string { return p.name },
		func(a, b string) bool { return a < b },
	)
	for _, n := range []string{"z", "d", "a", "b", "k", "c"} {
		u.Insert(person{name: n})
	}

	var asc []string
	u.Ascend(func(p person) bool { asc = append(asc, p.name); return true })
	want := []string{"a", "b", "c", "d", "k", "z"}
	for i, w := range want {
		if asc[i] != w {
			t.Errorf("Ascend[%d] = %q, want %q", i, asc[i], w)
		}
	}

	var desc []string
	u.Descend(func(p person) bool { desc = append(desc, p.name); return true })
	for i := range want {
		if desc[i] != want[len(want)-1-i] {
			t.Errorf("Descend[%d] = %q, want %q", i, desc[i], want[len(want)-1-i])
		}
	}
}

func TestUniqueHashedDefault(t *testing.T) {
	u := NewUniqueHashedDefault(func(p person) string { return p.name })

	if !u.Insert(person{"hello", 1}) {
		t.Fatalf("Insert(hello) = false, want true")
	}
	if !u.Insert(person{"there", 2}) {
		t.Fatalf("Insert(there) = false, want true")
	}
	if u.Insert(person{"hello", 99}) {
		t.Fatalf("duplicate Insert(hello) = true, want false")
	}
	if u.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", u.Len())
	}

	eq := u.Equal("there")
	if len(eq) != 1 || eq[0].age != 2 {
		t.Fatalf("Equal(there) = %+v, want [{there 2}]", eq)
	}

	if !u.Remove(person{"hello", 1}) {
		t.Fatalf("Remove(hello) = false, want true")
	}
	if u.Len() != 1 {
		t.Fatalf("Len() after remove = %d, want 1", u.Len())
	}
	if u.Remove(person{"hello", 1}) {
		t.Fatalf("double Remove(hello) = true, want false")
	}
}

func TestUniqueHashedAscendVisitsAll(t *testing.T) {
	u := NewUniqueHashedDefault(func(p person) string { return p.name })
	names := map[string]bool{"a": true, "b": true, "c": true}
	for n := range names {
		u.Insert(person{name: n})
	}

	seen := map[string]bool{}
	u.Ascend(func(p person) bool { seen[p.name] = true; return true })
	if len(seen) != len(names) {
		t.Fatalf("Ascend visited %d, want %d", len(seen), len(names))
	}
}
