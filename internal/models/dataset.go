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

package models

import "time"

// Personal-email categories.
const (
	CategoryAffair    = "affair"
	CategoryJobSearch = "jobsearch"
	CategoryDispute   = "dispute"
	CategoryFinancial = "financial"
)

// PersonalCategories lists every personal category in a stable order.
var PersonalCategories = []string{
	CategoryAffair,
	CategoryJobSearch,
	CategoryDispute,
	CategoryFinancial,
}

// Scenario is a named miscommunication archetype. It is immutable
// configuration input to a generation run.
type Scenario struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Description     string   `json:"description" yaml:"description"`
	ComplexityLevel int      `json:"complexity_level" yaml:"complexity_level"`
	KeyIssues       []string `json:"key_issues" yaml:"key_issues"`
	TimeSpan        string   `json:"time_span" yaml:"time_span"`
}

// Relationship is the memoized personal context shared by every personal
// email exchanged between one pair of people.
type Relationship struct {
	Category  string            `json:"category"`
	Intensity int               `json:"intensity"`
	StartedAt time.Time         `json:"started_at"`
	Context   map[string]string `json:"context"`
}

// Stats aggregates counts over an assembled dataset.
type Stats struct {
	TotalEmails        int            `json:"total_emails"`
	TotalThreads       int            `json:"total_threads"`
	BusinessEmails     int            `json:"business_emails"`
	BusinessThreads    int            `json:"business_threads"`
	PersonalEmails     int            `json:"personal_emails"`
	PersonalThreads    int            `json:"personal_threads"`
	AccidentalEmails   int            `json:"accidental_emails"`
	PersonalPercentage float64        `json:"personal_percentage"`
	ByCategory         map[string]int `json:"by_category,omitempty"`
	SkippedSteps       int            `json:"skipped_steps"`
}

// ElementCount records how often one miscommunication element was embedded.
type ElementCount struct {
	Element string `json:"element"`
	Count   int    `json:"count"`
}

// MiscommunicationAnalysis is the ground truth used to grade recommendations.
type MiscommunicationAnalysis struct {
	ScenarioComplexity  int            `json:"scenario_complexity"`
	KeyIssues           []string       `json:"key_issues"`
	AffectedDepartments []string       `json:"affected_departments"`
	EmbeddedElements    []ElementCount `json:"embedded_elements"`
}

// Analysis is the ground-truth companion of a dataset. It is never handed
// to the scorer.
type Analysis struct {
	RunID                    string                   `json:"run_id"`
	Seed                     uint64                   `json:"seed"`
	Scenario                 Scenario                 `json:"scenario"`
	Stats                    Stats                    `json:"stats"`
	MiscommunicationAnalysis MiscommunicationAnalysis `json:"miscommunication_analysis"`
}

// Raw is the sub-object consumed by the scoring and chat layer.
type Raw struct {
	Company Company  `json:"company"`
	Emails  []Email  `json:"emails"`
	Threads []Thread `json:"threads"`
}

// Dataset is the aggregate root of one generation run, in its persisted shape.
type Dataset struct {
	Raw      Raw       `json:"raw"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// ThreadEmails returns the emails of a thread in the thread's email_ids order.
func (d *Dataset) ThreadEmails(threadID string) []*Email {
	byID := make(map[string]*Email, len(d.Raw.Emails))
	for i := range d.Raw.Emails {
		byID[d.Raw.Emails[i].ID] = &d.Raw.Emails[i]
	}
	for _, t := range d.Raw.Threads {
		if t.ID != threadID {
			continue
		}
		out := make([]*Email, 0, len(t.EmailIDs))
		for _, id := range t.EmailIDs {
			if e, ok := byID[id]; ok {
				out = append(out, e)
			}
		}
		return out
	}
	return nil
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Valid reports whether the range is non-empty and non-negative.
func (r Range) Valid() bool {
	return r.Min >= 0 && r.Max >= r.Min
}

// TimeSpan is a half-open generation window.
type TimeSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
