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

// Package dedup remembers which generation runs were already handed to
// downstream consumers, using Redis SETNX keys with a TTL. Seeds reproduce
// run IDs, so re-running a seed would otherwise enqueue the same emails
// twice.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a published run ID is remembered.
	DefaultTTL = 24 * time.Hour

	// DefaultKeyPrefix namespaces dedup keys in Redis.
	DefaultKeyPrefix = "corpus:published:"
)

// Filter tracks which run IDs have already been processed.
type Filter struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFilter creates a dedup filter backed by Redis. An empty prefix uses
// DefaultKeyPrefix.
func NewFilter(rdb *redis.Client, prefix string) *Filter {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Filter{
		rdb:    rdb,
		prefix: prefix,
		ttl:    DefaultTTL,
	}
}

// WithTTL returns a copy of the filter remembering IDs for ttl.
func (f *Filter) WithTTL(ttl time.Duration) *Filter {
	c := *f
	c.ttl = ttl
	return &c
}

// IsNew returns true if the ID has NOT been seen before.
// If true, the ID is marked as seen atomically (SETNX).
func (f *Filter) IsNew(ctx context.Context, id string) (bool, error) {
	set, err := f.rdb.SetNX(ctx, f.key(id), 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}

// Forget clears an ID so it is treated as new again.
func (f *Filter) Forget(ctx context.Context, id string) error {
	if err := f.rdb.Del(ctx, f.key(id)).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}

func (f *Filter) key(id string) string {
	return f.prefix + id
}
