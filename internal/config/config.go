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

// Package config loads generator configuration from config.yaml and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bcem/corpusgen/internal/dataset"
	"github.com/bcem/corpusgen/internal/dedup"
	"github.com/bcem/corpusgen/internal/queue"
	"github.com/bcem/corpusgen/internal/relationship"
)

// Config holds all configuration for the generator.
type Config struct {
	// Output
	OutputDir  string
	Pretty     bool
	WriteRaw   bool
	EmitSchema bool

	// Generation
	Seed               uint64
	Reference          time.Time
	ChanceOfCC         float64
	MaxCCRecipients    int
	TypoChance         float64
	ShareRelationships bool
	Personal           dataset.PersonalOptions

	// Postgres sink, disabled when empty
	PostgresURL string

	// Redis, disabled when empty
	RedisURL           string
	EmailsQueue        string
	RelationshipPrefix string
	PublishedPrefix    string
	PublishTTL         time.Duration
}

// rawConfig mirrors the YAML structure for unmarshalling. Pointers tell an
// absent key apart from an explicit zero.
type rawConfig struct {
	Output struct {
		Dir    string `yaml:"dir"`
		Pretty *bool  `yaml:"pretty"`
		Raw    *bool  `yaml:"raw"`
		Schema *bool  `yaml:"schema"`
	} `yaml:"output"`
	Generation struct {
		Seed               *uint64  `yaml:"seed"`
		Reference          string   `yaml:"reference_time"`
		ChanceOfCC         *float64 `yaml:"chance_of_cc"`
		MaxCCRecipients    *int     `yaml:"max_cc_recipients"`
		TypoChance         *float64 `yaml:"typo_chance"`
		ShareRelationships *bool    `yaml:"share_relationships"`
	} `yaml:"generation"`
	Personal struct {
		Enabled        *bool    `yaml:"enabled"`
		Frequency      *float64 `yaml:"frequency"`
		MinThreads     *int     `yaml:"min_threads"`
		MaxThreads     *int     `yaml:"max_threads"`
		Categories     []string `yaml:"categories"`
		AccidentalRate *float64 `yaml:"accidental_rate"`
	} `yaml:"personal"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		URL    string `yaml:"url"`
		Queues struct {
			Emails string `yaml:"emails"`
		} `yaml:"queues"`
		KeyPrefixes struct {
			Relationships string `yaml:"relationships"`
			Published     string `yaml:"published"`
		} `yaml:"key_prefixes"`
		PublishTTL string `yaml:"publish_ttl"`
	} `yaml:"redis"`
}

// Load reads configuration from CONFIG_PATH (default config.yaml) with env
// var expansion. A missing file yields the defaults plus environment
// overrides.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "config.yaml")

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	defaults := dataset.DefaultOptions()
	cfg := &Config{
		OutputDir:  firstNonEmpty(raw.Output.Dir, envOrDefault("OUTPUT_DIR", "data")),
		Pretty:     boolOr(raw.Output.Pretty, true),
		WriteRaw:   boolOr(raw.Output.Raw, false),
		EmitSchema: boolOr(raw.Output.Schema, false),

		Seed:               envOrDefaultUint64("SEED", 1),
		ChanceOfCC:         floatOr(raw.Generation.ChanceOfCC, defaults.ChanceOfCC),
		MaxCCRecipients:    intOr(raw.Generation.MaxCCRecipients, defaults.MaxCCRecipients),
		TypoChance:         floatOr(raw.Generation.TypoChance, defaults.TypoChance),
		ShareRelationships: boolOr(raw.Generation.ShareRelationships, false),
		Personal:           defaults.Personal,

		PostgresURL:        firstNonEmpty(raw.Postgres.URL, envOrDefault("DATABASE_URL", "")),
		RedisURL:           firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "")),
		EmailsQueue:        firstNonEmpty(raw.Redis.Queues.Emails, envOrDefault("EMAILS_QUEUE", queue.DefaultQueue)),
		RelationshipPrefix: firstNonEmpty(raw.Redis.KeyPrefixes.Relationships, relationship.DefaultKeyPrefix),
		PublishedPrefix:    firstNonEmpty(raw.Redis.KeyPrefixes.Published, dedup.DefaultKeyPrefix),
	}
	if raw.Generation.Seed != nil {
		cfg.Seed = *raw.Generation.Seed
	}

	ref := firstNonEmpty(raw.Generation.Reference, envOrDefault("REFERENCE_TIME", ""))
	if ref != "" {
		t, err := time.Parse(time.RFC3339, ref)
		if err != nil {
			return nil, fmt.Errorf("parse reference_time %q: %w", ref, err)
		}
		cfg.Reference = t.UTC()
	}

	ttl := firstNonEmpty(raw.Redis.PublishTTL, envOrDefault("PUBLISH_TTL", ""))
	cfg.PublishTTL = dedup.DefaultTTL
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("parse publish_ttl %q: %w", ttl, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("publish_ttl %q must be positive", ttl)
		}
		cfg.PublishTTL = d
	}

	p := &cfg.Personal
	p.Enabled = boolOr(raw.Personal.Enabled, p.Enabled)
	p.Frequency = floatOr(raw.Personal.Frequency, p.Frequency)
	p.MinThreads = intOr(raw.Personal.MinThreads, p.MinThreads)
	p.MaxThreads = intOr(raw.Personal.MaxThreads, p.MaxThreads)
	p.AccidentalRate = floatOr(raw.Personal.AccidentalRate, p.AccidentalRate)
	if len(raw.Personal.Categories) > 0 {
		p.Categories = raw.Personal.Categories
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("personal config: %w", err)
	}
	return cfg, nil
}

// Options returns the generation options the config describes.
func (c *Config) Options() dataset.Options {
	opts := dataset.DefaultOptions()
	opts.Seed = c.Seed
	opts.Reference = c.Reference
	opts.ChanceOfCC = c.ChanceOfCC
	opts.MaxCCRecipients = c.MaxCCRecipients
	opts.TypoChance = c.TypoChance
	opts.Personal = c.Personal
	return opts
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultUint64(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
