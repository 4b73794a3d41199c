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

// Package rng provides the single injectable random source threaded through
// every generator component, so that a fixed seed reproduces a whole dataset.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is a seeded pseudo-random generator. It is not safe for concurrent
// use; generation is single-threaded.
type Source struct {
	seed uint64
	r    *rand.Rand
}

// New creates a source seeded with seed.
func New(seed uint64) *Source {
	return &Source{
		seed: seed,
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Intn returns a uniform int in [0, n). It returns 0 when n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// IntRange returns a uniform int in [min, max] inclusive. Swapped bounds are
// tolerated.
func (s *Source) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.r.IntN(max-min+1)
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.r.Float64() < p
}

// Uint64 returns a uniform 64-bit value.
func (s *Source) Uint64() uint64 {
	return s.r.Uint64()
}

// Between returns a uniform time in [start, end]. It returns start when the
// window is empty or inverted.
func (s *Source) Between(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(s.r.Int64N(int64(span) + 1)))
}

// Read fills p with random bytes. It always returns len(p), nil so the
// source can feed uuid.NewRandomFromReader.
func (s *Source) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := s.r.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// Pick returns a uniformly chosen element of items. It panics on an empty
// slice, which is always a programming error in the template tables.
func Pick[T any](s *Source, items []T) T {
	if len(items) == 0 {
		panic("rng: Pick from empty slice")
	}
	return items[s.Intn(len(items))]
}

// Sample returns up to n distinct elements of items in random order. The
// input slice is not modified.
func Sample[T any](s *Source, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}
	idx := s.r.Perm(len(items))
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = items[idx[i]]
	}
	return out
}

// Shuffle permutes items in place.
func Shuffle[T any](s *Source, items []T) {
	s.r.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// Weighted picks an index with probability proportional to weights.
// Non-positive weights are never chosen; it returns 0 when all weights are
// non-positive.
func (s *Source) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	x := s.r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if x < w {
			return i
		}
		x -= w
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return 0
}
