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

package relationship

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bcem/corpusgen/internal/models"
)

const (
	// DefaultKeyPrefix namespaces relationship keys in Redis.
	DefaultKeyPrefix = "corpus:relationship:"

	// DefaultTTL is how long a persisted storyline survives. Zero means no expiry.
	DefaultTTL = 30 * 24 * time.Hour
)

// RedisStore persists registry snapshots so persona continuity can span
// processes. Writes use SETNX: the first storyline recorded for a pair wins.
// The store is only touched before and after generation, never during it.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a store backed by rdb. An empty prefix selects
// DefaultKeyPrefix.
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		ttl:    DefaultTTL,
	}
}

func (s *RedisStore) key(pair string) string {
	return s.prefix + pair
}

func (s *RedisStore) pair(key string) string {
	return strings.TrimPrefix(key, s.prefix)
}

// Save writes every record of the snapshot that is not already stored. It
// returns how many records were newly written.
func (s *RedisStore) Save(ctx context.Context, records map[string]models.Relationship) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	pipe := s.rdb.Pipeline()
	cmds := make([]*redis.BoolCmd, 0, len(records))
	for pair, rel := range records {
		data, err := json.Marshal(rel)
		if err != nil {
			return 0, fmt.Errorf("marshal relationship %s: %w", pair, err)
		}
		cmds = append(cmds, pipe.SetNX(ctx, s.key(pair), data, s.ttl))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("relationship SETNX pipeline: %w", err)
	}

	written := 0
	for _, c := range cmds {
		if c.Val() {
			written++
		}
	}

	slog.Info("relationships persisted",
		"records", len(records),
		"written", written,
	)
	return written, nil
}

// Load reads every stored record.
func (s *RedisStore) Load(ctx context.Context) (map[string]models.Relationship, error) {
	out := make(map[string]models.Relationship)

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.rdb.Get(ctx, key).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis GET %s: %w", key, err)
		}

		var rel models.Relationship
		if err := json.Unmarshal(data, &rel); err != nil {
			slog.Warn("skipping malformed relationship record", "key", key, "error", err)
			continue
		}
		out[s.pair(key)] = rel
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis SCAN %s*: %w", s.prefix, err)
	}

	return out, nil
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}
