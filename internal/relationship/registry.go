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

// Package relationship memoizes the personal storyline between two people.
// The first personal exchange between a pair fixes its category, intensity
// and narrative slot values; every later email between the same pair reuses
// them, whichever direction it is sent in.
package relationship

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/bcem/corpusgen/internal/company"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/rng"
)

// maxColleagueCandidates bounds how many other employees are drawn as
// narrative colleagues.
const maxColleagueCandidates = 3

// ContextKeys lists every slot a relationship context carries. Personal
// templates may reference any of them regardless of the pair's category.
var ContextKeys = []string{
	"colleague",
	"other_colleague",
	"external_company",
	"amount",
	"household_member",
	"household_role",
	"meeting_place",
	"hotel",
	"excuse",
	"position",
	"recruiter",
	"interview_day",
	"salary",
	"issue",
	"lender",
	"debt_type",
	"due_date",
}

var (
	householdRoles = []string{"wife", "husband", "partner", "roommate", "mother-in-law"}
	meetingPlaces  = []string{"the usual bar", "that café by the station", "the parking garage", "the rooftop terrace", "the bookstore on Main"}
	hotels         = []string{"the Marriott downtown", "the Ritz", "the Hilton by the airport", "the little inn on Elm Street"}
	excuses        = []string{"a late client dinner", "the quarterly offsite", "a dentist appointment", "a call with the Singapore office", "the gym"}
	positions      = []string{"Senior Product Manager", "Head of Growth", "Staff Engineer", "VP of Sales", "Design Director", "Finance Manager"}
	weekdays       = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	issues         = []string{"credit for the Q3 launch", "the missing expense report", "who broke the build", "the parking spot", "the shared budget line", "the promotion decision"}
	lenders        = []string{"First Capital Loans", "QuickCash Advance", "my brother-in-law", "the credit union", "a payday lender"}
	debtTypes      = []string{"credit card", "mortgage", "car loan", "medical bill", "student loan"}
	dueDates       = []string{"Friday", "the 15th", "end of the month", "next Tuesday", "tomorrow"}
	extCompanies   = []string{"Globex", "Hooli", "Umbrella Corp", "Stark Industries", "Wayne Enterprises", "Soylent", "Acme Corp", "Vandelay Industries"}
)

// PairKey returns the direction-independent key for two people. People are
// keyed by email address, which carries the company domain, so a record
// shared across runs never attaches to another company's roster.
func PairKey(a, b *models.Person) string {
	x, y := personKey(a), personKey(b)
	if y < x {
		x, y = y, x
	}
	return x + "|" + y
}

func personKey(p *models.Person) string {
	if p.Email != "" {
		return strings.ToLower(p.Email)
	}
	return p.ID
}

// Registry memoizes relationships for the lifetime of one generation run, or
// longer when deliberately shared across runs.
type Registry struct {
	rnd     *rng.Source
	anchor  time.Time
	records map[string]*models.Relationship
}

// NewRegistry creates an empty registry. StartedAt values are drawn from the
// year before anchor.
func NewRegistry(rnd *rng.Source, anchor time.Time) *Registry {
	return &Registry{
		rnd:     rnd,
		anchor:  anchor,
		records: make(map[string]*models.Relationship),
	}
}

// GetOrCreate returns the relationship for the unordered pair (a, b),
// creating it on first use. Callers must not mutate the returned record.
func (r *Registry) GetOrCreate(a, b *models.Person, c *models.Company) *models.Relationship {
	return r.GetOrCreateIn(a, b, c, nil)
}

// GetOrCreateIn is GetOrCreate with a new pair's category drawn from
// categories rather than from every personal category. An existing record
// is returned unchanged whatever its category.
func (r *Registry) GetOrCreateIn(a, b *models.Person, c *models.Company, categories []string) *models.Relationship {
	key := PairKey(a, b)
	if rel, ok := r.records[key]; ok {
		return rel
	}
	if len(categories) == 0 {
		categories = models.PersonalCategories
	}

	rel := &models.Relationship{
		Category:  rng.Pick(r.rnd, categories),
		Intensity: r.rnd.IntRange(1, 10),
		StartedAt: r.rnd.Between(r.anchor.AddDate(-1, 0, 0), r.anchor),
		Context:   r.buildContext(a, b, c),
	}
	r.records[key] = rel

	slog.Debug("relationship created",
		"pair", key,
		"category", rel.Category,
		"intensity", rel.Intensity,
	)
	return rel
}

// Bind points the registry at a new random source. A registry shared across
// runs is rebound to each run's source so that a run only depends on the
// records already present, not on draws made by earlier runs.
func (r *Registry) Bind(rnd *rng.Source) {
	r.rnd = rnd
}

// Get returns the relationship for a pair without creating one.
func (r *Registry) Get(a, b *models.Person) (*models.Relationship, bool) {
	rel, ok := r.records[PairKey(a, b)]
	return rel, ok
}

// Len returns the number of memoized pairs.
func (r *Registry) Len() int {
	return len(r.records)
}

// Reset forgets every relationship.
func (r *Registry) Reset() {
	r.records = make(map[string]*models.Relationship)
}

// Snapshot returns a copy of every record keyed by PairKey.
func (r *Registry) Snapshot() map[string]models.Relationship {
	out := make(map[string]models.Relationship, len(r.records))
	for k, v := range r.records {
		out[k] = clone(v)
	}
	return out
}

// Restore loads records, keeping any pair already present.
func (r *Registry) Restore(records map[string]models.Relationship) int {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	added := 0
	for _, k := range keys {
		if _, ok := r.records[k]; ok {
			continue
		}
		v := records[k]
		rel := clone(&v)
		r.records[k] = &rel
		added++
	}
	return added
}

func clone(rel *models.Relationship) models.Relationship {
	out := *rel
	out.Context = make(map[string]string, len(rel.Context))
	for k, v := range rel.Context {
		out.Context[k] = v
	}
	return out
}

func (r *Registry) buildContext(a, b *models.Person, c *models.Company) map[string]string {
	var others []*models.Person
	for i := range c.Persons {
		p := &c.Persons[i]
		if p.ID != a.ID && p.ID != b.ID {
			others = append(others, p)
		}
	}
	candidates := rng.Sample(r.rnd, others, maxColleagueCandidates)

	ctx := map[string]string{
		"colleague":        r.colleagueName(candidates, 0),
		"other_colleague":  r.colleagueName(candidates, 1),
		"external_company": rng.Pick(r.rnd, extCompanies),
		"amount":           formatDollars(r.rnd.IntRange(5, 480) * 100),
		"household_member": rng.Pick(r.rnd, company.FirstNames),
		"household_role":   rng.Pick(r.rnd, householdRoles),
		"meeting_place":    rng.Pick(r.rnd, meetingPlaces),
		"hotel":            rng.Pick(r.rnd, hotels),
		"excuse":           rng.Pick(r.rnd, excuses),
		"position":         rng.Pick(r.rnd, positions),
		"recruiter":        r.fakeName(),
		"interview_day":    rng.Pick(r.rnd, weekdays),
		"salary":           fmt.Sprintf("$%dk", r.rnd.IntRange(9, 28)*10),
		"issue":            rng.Pick(r.rnd, issues),
		"lender":           rng.Pick(r.rnd, lenders),
		"debt_type":        rng.Pick(r.rnd, debtTypes),
		"due_date":         rng.Pick(r.rnd, dueDates),
	}
	return ctx
}

// colleagueName returns the i-th candidate's name, or a fictitious name when
// the company has too few other employees.
func (r *Registry) colleagueName(candidates []*models.Person, i int) string {
	if i < len(candidates) {
		return candidates[i].Name
	}
	return r.fakeName()
}

func (r *Registry) fakeName() string {
	return rng.Pick(r.rnd, company.FirstNames) + " " + rng.Pick(r.rnd, company.LastNames)
}

// formatDollars renders whole dollars with thousands separators.
func formatDollars(n int) string {
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return "$" + string(out)
}
