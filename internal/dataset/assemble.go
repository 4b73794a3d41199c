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

package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/bcem/corpusgen/internal/business"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/personal"
	"github.com/bcem/corpusgen/internal/rng"
)

// PersonalOptions controls how much personal mail is mixed into a dataset.
type PersonalOptions struct {
	Enabled    bool     `yaml:"enabled"`
	Frequency  float64  `yaml:"frequency"`
	MinThreads int      `yaml:"min_threads"`
	MaxThreads int      `yaml:"max_threads"`
	Categories []string `yaml:"categories"`
	// AccidentalRate is the per-reply injection chance inside business
	// threads. Zero means Frequency/4.
	AccidentalRate  float64      `yaml:"accidental_rate"`
	EmailsPerThread models.Range `yaml:"emails_per_thread"`
}

// DefaultPersonalOptions returns enabled personal mail at a 20% thread ratio.
func DefaultPersonalOptions() PersonalOptions {
	return PersonalOptions{
		Enabled:         true,
		Frequency:       0.2,
		MinThreads:      1,
		MaxThreads:      10,
		Categories:      append([]string(nil), models.PersonalCategories...),
		EmailsPerThread: models.Range{Min: 1, Max: 3},
	}
}

// Validate checks the options when personal mail is enabled.
func (o PersonalOptions) Validate() error {
	if !o.Enabled {
		return nil
	}
	switch {
	case o.Frequency < 0 || o.Frequency > 1:
		return fmt.Errorf("%w: personal frequency %v outside [0,1]", ErrInvalidOptions, o.Frequency)
	case o.MinThreads < 0 || o.MaxThreads < o.MinThreads:
		return fmt.Errorf("%w: personal threads {min:%d max:%d}", ErrInvalidOptions, o.MinThreads, o.MaxThreads)
	case o.AccidentalRate < 0 || o.AccidentalRate > 1:
		return fmt.Errorf("%w: accidental rate %v outside [0,1]", ErrInvalidOptions, o.AccidentalRate)
	case o.EmailsPerThread != (models.Range{}) && (!o.EmailsPerThread.Valid() || o.EmailsPerThread.Max < 1):
		return fmt.Errorf("%w: personal emails per thread {min:%d max:%d}", ErrInvalidOptions, o.EmailsPerThread.Min, o.EmailsPerThread.Max)
	}
	for _, c := range o.Categories {
		if _, ok := personal.Templates[c]; !ok {
			return fmt.Errorf("%w: unknown personal category %q", ErrInvalidOptions, c)
		}
	}
	return nil
}

func (o PersonalOptions) categories() []string {
	if len(o.Categories) == 0 {
		return models.PersonalCategories
	}
	return o.Categories
}

func (o PersonalOptions) accidentalRate() float64 {
	if !o.Enabled {
		return 0
	}
	if o.AccidentalRate > 0 {
		return o.AccidentalRate
	}
	return o.Frequency / 4
}

// PersonalThreadCount returns clamp(min, max, round(businessThreads*frequency)).
func PersonalThreadCount(businessThreads int, o PersonalOptions) int {
	n := int(math.Round(float64(businessThreads) * o.Frequency))
	return max(o.MinThreads, min(o.MaxThreads, n))
}

// Assembler mixes dedicated personal threads into a business result.
type Assembler struct {
	rnd      *rng.Source
	personal *personal.Synthesizer
}

// NewAssembler creates an assembler drawing personal threads from ps.
func NewAssembler(rnd *rng.Source, ps *personal.Synthesizer) *Assembler {
	return &Assembler{rnd: rnd, personal: ps}
}

// Assemble builds the raw dataset and its stats. With personal mail
// disabled the business result is returned unchanged. Personal threads and
// emails use the thread_personal_N and email_personal_N namespaces.
func (a *Assembler) Assemble(c *models.Company, biz business.Result, opts PersonalOptions, span models.TimeSpan) (*models.Dataset, models.Stats, error) {
	ds := &models.Dataset{
		Raw: models.Raw{
			Company: *c,
			Emails:  append([]models.Email{}, biz.Emails...),
			Threads: append([]models.Thread{}, biz.Threads...),
		},
	}
	skipped := biz.Skipped

	if !opts.Enabled {
		return ds, ComputeStats(ds, skipped), nil
	}

	count := PersonalThreadCount(len(biz.Threads), opts)
	categories := opts.categories()
	emailSeq := 0
	newEmailID := func() string {
		emailSeq++
		return fmt.Sprintf("email_personal_%d", emailSeq)
	}

	threadSeq := 0
	for i := 0; i < count; i++ {
		// Round-robin spreads threads evenly across categories.
		category := categories[i%len(categories)]

		pair := a.pickPair(c, category, categories)
		if pair == nil {
			skipped++
			slog.Warn("skipping personal thread",
				"category", category,
				"reason", "no pair free to carry the category",
			)
			continue
		}

		threadSeq++
		thread, emails, err := a.personal.GenerateThread(category, pair[0], pair[1], c, personal.ThreadOptions{
			ThreadID:   fmt.Sprintf("thread_personal_%d", threadSeq),
			NewEmailID: newEmailID,
			Start:      a.rnd.Between(span.Start, span.End),
			End:        span.End,
			EmailCount: opts.EmailsPerThread,
			Company:    c.Name,
		})
		if err != nil {
			return nil, models.Stats{}, fmt.Errorf("generating personal thread: %w", err)
		}
		ds.Raw.Threads = append(ds.Raw.Threads, thread)
		ds.Raw.Emails = append(ds.Raw.Emails, emails...)
	}

	return ds, ComputeStats(ds, skipped), nil
}

// pairAttempts bounds the random search for a pair before falling back to
// a scan of every pair.
const pairAttempts = 8

// pickPair returns a pair that can carry a thread of category: one with no
// relationship yet, or one whose relationship already has that category.
// Failing that it settles for a pair whose memoized category is still in
// allowed, so the thread keeps the pair's category. It returns nil when the
// company has no usable pair.
func (a *Assembler) pickPair(c *models.Company, category string, allowed []string) []*models.Person {
	if len(c.Persons) < 2 {
		return nil
	}
	people := make([]*models.Person, len(c.Persons))
	for i := range c.Persons {
		people[i] = &c.Persons[i]
	}
	reg := a.personal.Registry()

	var fallback []*models.Person
	suitable := func(x, y *models.Person) bool {
		rel, ok := reg.Get(x, y)
		if !ok || rel.Category == category {
			return true
		}
		if fallback == nil && slices.Contains(allowed, rel.Category) {
			fallback = []*models.Person{x, y}
		}
		return false
	}

	for i := 0; i < pairAttempts; i++ {
		pair := rng.Sample(a.rnd, people, 2)
		if suitable(pair[0], pair[1]) {
			return pair
		}
	}
	for i := range people {
		for j := i + 1; j < len(people); j++ {
			if suitable(people[i], people[j]) {
				return []*models.Person{people[i], people[j]}
			}
		}
	}
	return fallback
}

// ComputeStats aggregates counts over an assembled dataset.
func ComputeStats(ds *models.Dataset, skipped int) models.Stats {
	st := models.Stats{
		TotalEmails:  len(ds.Raw.Emails),
		TotalThreads: len(ds.Raw.Threads),
		SkippedSteps: skipped,
	}

	personalThreads := map[string]bool{}
	for _, e := range ds.Raw.Emails {
		if !e.IsPersonal() {
			st.BusinessEmails++
			continue
		}
		st.PersonalEmails++
		if st.ByCategory == nil {
			st.ByCategory = map[string]int{}
		}
		st.ByCategory[e.Metadata.Category]++
		if e.Metadata.AccidentallySent {
			st.AccidentalEmails++
		} else {
			personalThreads[e.ThreadID] = true
		}
	}
	st.PersonalThreads = len(personalThreads)
	st.BusinessThreads = st.TotalThreads - st.PersonalThreads

	if st.TotalEmails > 0 {
		pct := float64(st.PersonalEmails) / float64(st.TotalEmails) * 100
		st.PersonalPercentage = math.Round(pct*100) / 100
	}
	return st
}
