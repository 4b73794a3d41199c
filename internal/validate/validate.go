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

// Package validate checks the structural invariants of a generated dataset.
package validate

import (
	"errors"
	"fmt"

	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/template"
)

// Check returns every invariant violation in ds. An empty result means the
// dataset is referentially and temporally consistent.
func Check(ds *models.Dataset) []error {
	if ds == nil {
		return []error{fmt.Errorf("dataset is nil")}
	}
	var errs []error
	errs = append(errs, checkCompany(&ds.Raw.Company)...)
	errs = append(errs, checkEmails(ds)...)
	errs = append(errs, checkThreads(ds)...)
	return errs
}

// Err joins the violations of Check into one error, or returns nil.
func Err(ds *models.Dataset) error {
	return errors.Join(Check(ds)...)
}

func checkCompany(c *models.Company) []error {
	var errs []error

	depts := map[string]bool{}
	for i, d := range c.Departments {
		if d.ID == "" {
			errs = append(errs, fmt.Errorf("departments[%d].id is required", i))
			continue
		}
		if depts[d.ID] {
			errs = append(errs, fmt.Errorf("departments[%d].id duplicates %q", i, d.ID))
		}
		depts[d.ID] = true
	}
	for i, d := range c.Departments {
		if d.ParentDepartment != nil && !depts[*d.ParentDepartment] {
			errs = append(errs, fmt.Errorf("departments[%d].parent_department %q does not resolve", i, *d.ParentDepartment))
		}
	}

	people := map[string]bool{}
	for i, p := range c.Persons {
		if people[p.ID] {
			errs = append(errs, fmt.Errorf("persons[%d].id duplicates %q", i, p.ID))
		}
		people[p.ID] = true
		if !depts[p.DepartmentID] {
			errs = append(errs, fmt.Errorf("person %s department_id %q does not resolve", p.ID, p.DepartmentID))
		}
	}
	for _, p := range c.Persons {
		if p.BossID == nil {
			continue
		}
		if !people[*p.BossID] {
			errs = append(errs, fmt.Errorf("person %s boss_id %q does not resolve", p.ID, *p.BossID))
			continue
		}
		if inCycle(c, p.ID) {
			errs = append(errs, fmt.Errorf("person %s is part of a boss cycle", p.ID))
		}
	}
	return errs
}

func inCycle(c *models.Company, id string) bool {
	seen := map[string]bool{}
	for p := c.Person(id); p != nil && p.BossID != nil; p = c.Person(*p.BossID) {
		if *p.BossID == id {
			return true
		}
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
	}
	return false
}

func checkEmails(ds *models.Dataset) []error {
	var errs []error
	c := &ds.Raw.Company

	threads := map[string]bool{}
	for _, t := range ds.Raw.Threads {
		threads[t.ID] = true
	}

	ids := map[string]bool{}
	pairCategory := map[string]string{}
	for i, e := range ds.Raw.Emails {
		if ids[e.ID] {
			errs = append(errs, fmt.Errorf("emails[%d].id duplicates %q", i, e.ID))
		}
		ids[e.ID] = true

		if threads[e.ID] {
			errs = append(errs, fmt.Errorf("email id %q collides with a thread id", e.ID))
		}
		if !threads[e.ThreadID] {
			errs = append(errs, fmt.Errorf("email %s thread_id %q does not resolve", e.ID, e.ThreadID))
		}
		if len(e.To) == 0 {
			errs = append(errs, fmt.Errorf("email %s has no recipients", e.ID))
		}
		for _, id := range e.Actors() {
			if c.Person(id) == nil {
				errs = append(errs, fmt.Errorf("email %s references unknown person %q", e.ID, id))
			}
		}
		if p := template.FindPlaceholders(e.Subject); len(p) > 0 {
			errs = append(errs, fmt.Errorf("email %s subject has unresolved placeholders %v", e.ID, p))
		}
		if p := template.FindPlaceholders(e.Body); len(p) > 0 {
			errs = append(errs, fmt.Errorf("email %s body has unresolved placeholders %v", e.ID, p))
		}

		// Every personal email between one pair follows the same storyline.
		if e.Metadata.Personal && len(e.To) > 0 {
			pair := e.From + "|" + e.To[0]
			if e.To[0] < e.From {
				pair = e.To[0] + "|" + e.From
			}
			if cat, ok := pairCategory[pair]; !ok {
				pairCategory[pair] = e.Metadata.Category
			} else if cat != e.Metadata.Category {
				errs = append(errs, fmt.Errorf("email %s category %q differs from %q used earlier for pair %s", e.ID, e.Metadata.Category, cat, pair))
			}
		}
	}
	return errs
}

func checkThreads(ds *models.Dataset) []error {
	var errs []error

	byThread := map[string][]string{}
	for _, e := range ds.Raw.Emails {
		byThread[e.ThreadID] = append(byThread[e.ThreadID], e.ID)
	}

	seen := map[string]bool{}
	for i, t := range ds.Raw.Threads {
		if seen[t.ID] {
			errs = append(errs, fmt.Errorf("threads[%d].id duplicates %q", i, t.ID))
		}
		seen[t.ID] = true

		if !sameSet(t.EmailIDs, byThread[t.ID]) {
			errs = append(errs, fmt.Errorf("thread %s email_ids do not match the emails carrying its id", t.ID))
		}

		emails := ds.ThreadEmails(t.ID)
		if len(emails) == 0 {
			errs = append(errs, fmt.Errorf("thread %s has no emails", t.ID))
			continue
		}

		position := map[string]int{}
		for j, e := range emails {
			position[e.ID] = j
			if j > 0 && e.Timestamp.Before(emails[j-1].Timestamp) {
				errs = append(errs, fmt.Errorf("thread %s: email %s is earlier than %s", t.ID, e.ID, emails[j-1].ID))
			}
			if e.ReplyTo != nil {
				if k, ok := position[*e.ReplyTo]; !ok || k >= j {
					errs = append(errs, fmt.Errorf("thread %s: email %s reply_to %q is not an earlier email of the thread", t.ID, e.ID, *e.ReplyTo))
				}
			}
			for _, a := range e.Actors() {
				if !t.HasParticipant(a) {
					errs = append(errs, fmt.Errorf("thread %s: participant %s of email %s is missing", t.ID, a, e.ID))
				}
			}
		}

		if !t.StartTime.Equal(emails[0].Timestamp) {
			errs = append(errs, fmt.Errorf("thread %s start_time %v != first email %v", t.ID, t.StartTime, emails[0].Timestamp))
		}
		if last := emails[len(emails)-1]; !t.EndTime.Equal(last.Timestamp) {
			errs = append(errs, fmt.Errorf("thread %s end_time %v != last email %v", t.ID, t.EndTime, last.Timestamp))
		}
	}
	return errs
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := map[string]int{}
	for _, s := range a {
		counts[s]++
	}
	for _, s := range b {
		counts[s]--
		if counts[s] < 0 {
			return false
		}
	}
	return true
}
