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

package dedup

import (
	"testing"
	"time"
)

func TestNewFilter_Defaults(t *testing.T) {
	f := NewFilter(nil, "")
	if f.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q, want %q", f.prefix, DefaultKeyPrefix)
	}
	if f.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", f.ttl, DefaultTTL)
	}
	if got := f.key("run-1"); got != "corpus:published:run-1" {
		t.Errorf("key = %q", got)
	}
}

func TestFilter_WithTTL(t *testing.T) {
	f := NewFilter(nil, "custom:")
	g := f.WithTTL(time.Minute)
	if g.ttl != time.Minute || f.ttl != DefaultTTL {
		t.Errorf("ttl = %v / %v, want copy with 1m and original unchanged", g.ttl, f.ttl)
	}
	if g.key("x") != "custom:x" {
		t.Errorf("key = %q, want custom:x", g.key("x"))
	}
}
