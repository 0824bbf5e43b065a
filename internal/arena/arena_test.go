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

package arena

import "testing"

func TestInsertGetRemove(t *testing.T) {
	a := New[string]()

	s1, g1 := a.Insert("hello")
	s2, g2 := a.Insert("there")

	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}

	v1, ok := a.Get(s1, g1)
	if !ok || *v1 != "hello" {
		t.Fatalf("Get(s1) = %v, %v, want hello, true", v1, ok)
	}

	v2, ok := a.Get(s2, g2)
	if !ok || *v2 != "there" {
		t.Fatalf("Get(s2) = %v, %v, want there, true", v2, ok)
	}

	if !a.Remove(s1, g1) {
		t.Fatalf("Remove(s1) = false, want true")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() after remove = %d, want 1", a.Len())
	}
	if _, ok := a.Get(s1, g1); ok {
		t.Fatalf("Get(s1) after remove = true, want false")
	}
	if a.Remove(s1, g1) {
		t.Fatalf("double Remove(s1) = true, want false")
	}
}

func TestRecycledSlotGenerationMismatch(t *testing.T) {
	a := New[int]()

	s, g := a.Insert(1)
	a.Remove(s, g)

	s2, g2 := a.Insert(2)
	if s2 != s {
		t.Fatalf("expected slot reuse, got new slot %d vs %d", s2, s)
	}
	if g2 == g {
		t.Fatalf("expected generation to change on reuse, got same gen %d", g)
	}

	if _, ok := a.Get(s, g); ok {
		t.Fatalf("Get with stale generation succeeded")
	}
	v, ok := a.Get(s2, g2)
	if !ok || *v != 2 {
		t.Fatalf("Get(s2, g2) = %v, %v, want 2, true", v, ok)
	}
}

func TestAddressStableAcrossGrowth(t *testing.T) {
	a := New[int]()
	s, g := a.Insert(42)
	p1, _ := a.Get(s, g)

	for i := 0; i < 1000; i++ {
		a.Insert(i)
	}

	p2, ok := a.Get(s, g)
	if !ok {
		t.Fatalf("Get(s, g) failed after growth")
	}
	if p1 != p2 {
		t.Fatalf("pointer changed across growth: %p != %p", p1, p2)
	}
	if *p2 != 42 {
		t.Fatalf("value corrupted across growth: %d", *p2)
	}
}

func TestAscendOrderAndEarlyStop(t *testing.T) {
	a := New[int]()
	var slots []uint32
	for i := 0; i < 5; i++ {
		s, _ := a.Insert(i)
		slots = append(slots, s)
	}

	var seen []uint32
	a.Ascend(func(slotIdx, gen uint32) bool {
		seen = append(seen, slotIdx)
		return true
	})
	if len(seen) != len(slots) {
		t.Fatalf("Ascend visited %d slots, want %d", len(seen), len(slots))
	}
	for i := range slots {
		if seen[i] != slots[i] {
			t.Fatalf("Ascend order[%d] = %d, want %d", i, seen[i], slots[i])
		}
	}

	count := 0
	a.Ascend(func(slotIdx, gen uint32) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("Ascend early stop: visited %d, want 2", count)
	}
}
