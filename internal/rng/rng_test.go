// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rng

import (
	"testing"
	"time"
)

// TestSource_Deterministic verifies that equal seeds produce equal streams.
func TestSource_Deterministic(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d: %d != %d", i, x, y)
		}
	}

	x, y := New(42), New(43)
	same := true
	for i := 0; i < 10; i++ {
		if x.Uint64() != y.Uint64() {
			same = false
		}
	}
	if same {
		t.Error("different seeds should produce different streams")
	}
}

// TestSource_IntRange verifies inclusive bounds.
func TestSource_IntRange(t *testing.T) {
	s := New(1)
	seenMin, seenMax := false, false
	for i := 0; i < 1000; i++ {
		v := s.IntRange(3, 5)
		if v < 3 || v > 5 {
			t.Fatalf("IntRange(3,5) = %d", v)
		}
		seenMin = seenMin || v == 3
		seenMax = seenMax || v == 5
	}
	if !seenMin || !seenMax {
		t.Error("expected both bounds to be drawn")
	}
	if v := s.IntRange(7, 7); v != 7 {
		t.Errorf("IntRange(7,7) = %d, want 7", v)
	}
}

// TestSource_Chance verifies the degenerate probabilities.
func TestSource_Chance(t *testing.T) {
	s := New(9)
	for i := 0; i < 100; i++ {
		if s.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !s.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

// TestSource_Between verifies the window is respected and clamps when empty.
func TestSource_Between(t *testing.T) {
	s := New(5)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	for i := 0; i < 100; i++ {
		v := s.Between(start, end)
		if v.Before(start) || v.After(end) {
			t.Fatalf("Between = %v outside window", v)
		}
	}
	if v := s.Between(end, start); !v.Equal(end) {
		t.Errorf("inverted window = %v, want %v", v, end)
	}
}

// TestSample verifies distinctness and graceful truncation.
func TestSample(t *testing.T) {
	s := New(3)
	items := []string{"a", "b", "c"}

	got := Sample(s, items, 5)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	seen := map[string]bool{}
	for _, v := range got {
		if seen[v] {
			t.Errorf("duplicate %q in sample", v)
		}
		seen[v] = true
	}
	if Sample(s, items, 0) != nil {
		t.Error("expected nil for n=0")
	}
	if items[0] != "a" || items[1] != "b" || items[2] != "c" {
		t.Error("Sample modified its input")
	}
}

// TestWeighted verifies zero weights are never selected.
func TestWeighted(t *testing.T) {
	s := New(11)
	for i := 0; i < 500; i++ {
		if idx := s.Weighted([]float64{0, 0.7, 0, 0.3}); idx != 1 && idx != 3 {
			t.Fatalf("Weighted picked index %d", idx)
		}
	}
}

// TestSource_Read verifies the reader fills the whole buffer reproducibly.
func TestSource_Read(t *testing.T) {
	a, b := make([]byte, 13), make([]byte, 13)
	n, err := New(77).Read(a)
	if err != nil || n != 13 {
		t.Fatalf("Read = %d, %v", n, err)
	}
	New(77).Read(b)
	if string(a) != string(b) {
		t.Error("Read is not reproducible for the same seed")
	}
}
