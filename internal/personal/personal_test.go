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

package personal

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bcem/corpusgen/internal/enhance"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/template"
)

var start = time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)

func testCompany() *models.Company {
	return &models.Company{
		Name:   "Initech",
		Domain: "initech.com",
		Persons: []models.Person{
			{ID: "emp_1", Name: "Ada Lovelace", Email: "ada@initech.com", Role: "Director", Department: "Engineering"},
			{ID: "emp_2", Name: "Grace Hopper", Email: "grace@initech.com", Role: "Engineer", Department: "Engineering"},
			{ID: "emp_3", Name: "Alan Turing", Email: "alan@initech.com", Role: "Analyst", Department: "Finance"},
			{ID: "emp_4", Name: "Barbara Liskov", Email: "barbara@initech.com", Role: "Designer", Department: "Design"},
		},
	}
}

func newSynth(seed uint64) *Synthesizer {
	r := rng.New(seed)
	return NewSynthesizer(r, enhance.New(r, enhance.DefaultProbabilities()), relationship.NewRegistry(r, start))
}

func idSeq(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// TestTemplates_Resolvable verifies every template renders with the keys a
// relationship context provides.
func TestTemplates_Resolvable(t *testing.T) {
	vars := template.Vars{"sender": "A", "recipient": "B"}
	for _, k := range relationship.ContextKeys {
		vars[k] = "x"
	}
	for _, cat := range models.PersonalCategories {
		set, ok := Templates[cat]
		if !ok {
			t.Fatalf("no templates for %s", cat)
		}
		for _, o := range set.Openers {
			if _, err := template.Render(o.Subject, vars); err != nil {
				t.Errorf("%s subject: %v", cat, err)
			}
			if _, err := template.Render(o.Body, vars); err != nil {
				t.Errorf("%s body: %v", cat, err)
			}
		}
		for _, r := range set.Replies {
			if _, err := template.Render(r, vars); err != nil {
				t.Errorf("%s reply: %v", cat, err)
			}
		}
	}
}

// TestGenerateEmail_Metadata verifies identity and metadata for every category.
func TestGenerateEmail_Metadata(t *testing.T) {
	c := testCompany()
	s := newSynth(1)
	a, b := &c.Persons[0], &c.Persons[1]
	rel := s.Registry().GetOrCreate(a, b, c)

	for _, cat := range models.PersonalCategories {
		for i := 0; i < 20; i++ {
			e, err := s.GenerateEmail(cat, a, b, rel, EmailOptions{ID: "e", ThreadID: "t", Timestamp: start})
			if err != nil {
				t.Fatalf("%s: %v", cat, err)
			}
			if e.From != a.ID || len(e.To) != 1 || e.To[0] != b.ID {
				t.Errorf("%s: from/to = %s/%v", cat, e.From, e.To)
			}
			m := e.Metadata
			if !m.Personal || !m.Sensitive || m.Category != cat || m.Intensity != rel.Intensity {
				t.Errorf("%s: metadata = %+v", cat, m)
			}
			if m.AccidentallySent {
				t.Errorf("%s: unexpected accidentally_sent", cat)
			}
			if template.HasPlaceholder(e.Body) || template.HasPlaceholder(e.Subject) {
				t.Errorf("%s: placeholder leaked: %q / %q", cat, e.Subject, e.Body)
			}
			if e.CC == nil || e.Attachments == nil {
				t.Errorf("%s: cc/attachments must be empty arrays, not nil", cat)
			}
		}
	}

	if _, err := s.GenerateEmail("gossip", a, b, rel, EmailOptions{}); err == nil {
		t.Error("expected error for unknown category")
	}
}

// TestGenerateEmail_UsesRelationship verifies narrative slots come from the
// pair's relationship.
func TestGenerateEmail_UsesRelationship(t *testing.T) {
	c := testCompany()
	s := newSynth(2)
	a, b := &c.Persons[0], &c.Persons[1]
	rel := &models.Relationship{
		Category:  models.CategoryJobSearch,
		Intensity: 4,
		Context:   map[string]string{},
	}
	for _, k := range relationship.ContextKeys {
		rel.Context[k] = "SLOT_" + k
	}

	for i := 0; i < 10; i++ {
		e, err := s.GenerateEmail(models.CategoryJobSearch, a, b, rel, EmailOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(e.Body, "SLOT_") {
			t.Errorf("body has no relationship slot: %q", e.Body)
		}
	}
}

// TestGenerateThread verifies alternation, reply chain and timing.
func TestGenerateThread(t *testing.T) {
	c := testCompany()
	s := newSynth(3)
	a, b := &c.Persons[0], &c.Persons[2]

	for i := 0; i < 30; i++ {
		th, emails, err := s.GenerateThread(models.CategoryAffair, a, b, c, ThreadOptions{
			ThreadID:   fmt.Sprintf("thread_personal_%d", i),
			NewEmailID: idSeq(fmt.Sprintf("email_personal_%d_", i)),
			Start:      start,
			End:        start.Add(24 * time.Hour),
		})
		if err != nil {
			t.Fatalf("GenerateThread: %v", err)
		}

		if n := len(emails); n < 1 || n > 3 {
			t.Fatalf("thread has %d emails, want 1-3", n)
		}
		if len(th.EmailIDs) != len(emails) {
			t.Fatalf("email_ids = %d, emails = %d", len(th.EmailIDs), len(emails))
		}
		for j, e := range emails {
			wantFrom := a.ID
			if j%2 == 1 {
				wantFrom = b.ID
			}
			if e.From != wantFrom {
				t.Errorf("email %d from %s, want %s", j, e.From, wantFrom)
			}
			if e.ThreadID != th.ID || th.EmailIDs[j] != e.ID {
				t.Errorf("email %d thread bookkeeping mismatch", j)
			}
			if j > 0 {
				if e.ReplyTo == nil || *e.ReplyTo != emails[j-1].ID {
					t.Errorf("email %d reply_to = %v, want %s", j, e.ReplyTo, emails[j-1].ID)
				}
				if e.Timestamp.Before(emails[j-1].Timestamp) {
					t.Errorf("email %d timestamp goes backwards", j)
				}
				if !strings.HasPrefix(e.Subject, "Re: ") {
					t.Errorf("reply subject = %q", e.Subject)
				}
			} else if e.ReplyTo != nil {
				t.Error("first email must not have reply_to")
			}
			if e.Timestamp.After(start.Add(24 * time.Hour)) {
				t.Errorf("email %d after window end", j)
			}
		}
		if !th.StartTime.Equal(emails[0].Timestamp) || !th.EndTime.Equal(emails[len(emails)-1].Timestamp) {
			t.Error("thread start/end do not match email timestamps")
		}
		if utf8.RuneCountInString(th.Subject) > MaxSubjectLength {
			t.Errorf("thread subject too long: %q", th.Subject)
		}
		if !th.HasParticipant(a.ID) || !th.HasParticipant(b.ID) {
			t.Errorf("participants = %v", th.Participants)
		}
	}

	if s.Registry().Len() != 1 {
		t.Errorf("registry has %d pairs, want 1", s.Registry().Len())
	}
}

// TestGenerateThread_MemoizedCategory verifies a pair keeps the category
// its relationship was created with.
func TestGenerateThread_MemoizedCategory(t *testing.T) {
	c := testCompany()
	s := newSynth(8)
	a, b := &c.Persons[1], &c.Persons[3]

	rel := s.Registry().GetOrCreateIn(a, b, c, []string{models.CategoryAffair})
	_, emails, err := s.GenerateThread(models.CategoryDispute, b, a, c, ThreadOptions{
		ThreadID:   "thread_personal_1",
		NewEmailID: idSeq("email_personal_"),
		Start:      start,
	})
	if err != nil {
		t.Fatalf("GenerateThread: %v", err)
	}
	for _, e := range emails {
		if e.Metadata.Category != rel.Category {
			t.Errorf("email %s category = %q, want memoized %q", e.ID, e.Metadata.Category, rel.Category)
		}
	}

	fresh, _, err := s.GenerateThread(models.CategoryJobSearch, &c.Persons[0], &c.Persons[2], c, ThreadOptions{
		ThreadID:   "thread_personal_2",
		NewEmailID: idSeq("email_personal_x"),
		Start:      start,
	})
	if err != nil {
		t.Fatalf("GenerateThread: %v", err)
	}
	if got, _ := s.Registry().Get(&c.Persons[0], &c.Persons[2]); got == nil || got.Category != models.CategoryJobSearch {
		t.Errorf("new pair relationship = %+v, want %s (thread %s)", got, models.CategoryJobSearch, fresh.ID)
	}
}

// TestGenerateThread_ReplySubject verifies replies decorate the opener's
// plain subject rather than its already decorated form.
func TestGenerateThread_ReplySubject(t *testing.T) {
	c := testCompany()
	r := rng.New(12)
	probs := enhance.DefaultProbabilities()
	probs.SubjectEmoji = 1
	s := NewSynthesizer(r, enhance.New(r, probs), relationship.NewRegistry(r, start))

	for i := 0; i < 10; i++ {
		_, emails, err := s.GenerateThread(models.CategoryAffair, &c.Persons[0], &c.Persons[1], c, ThreadOptions{
			ThreadID:   fmt.Sprintf("thread_personal_%d", i),
			NewEmailID: idSeq(fmt.Sprintf("email_personal_%d_", i)),
			Start:      start,
			EmailCount: models.Range{Min: 3, Max: 3},
		})
		if err != nil {
			t.Fatalf("GenerateThread: %v", err)
		}
		want := len(strings.Fields(emails[0].Subject))
		for _, e := range emails[1:] {
			if got := len(strings.Fields(strings.TrimPrefix(e.Subject, "Re: "))); got != want {
				t.Errorf("reply subject %q stacks decorations on opener %q", e.Subject, emails[0].Subject)
			}
		}
	}
}

// TestGenerateThread_SamePerson verifies a degenerate pair is rejected.
func TestGenerateThread_SamePerson(t *testing.T) {
	c := testCompany()
	s := newSynth(4)
	_, _, err := s.GenerateThread(models.CategoryDispute, &c.Persons[0], &c.Persons[0], c, ThreadOptions{NewEmailID: idSeq("e")})
	if err == nil {
		t.Error("expected error for identical sender and recipient")
	}
}

// TestEmotion verifies category-specific emotion mixes.
func TestEmotion(t *testing.T) {
	s := newSynth(5)
	for i := 0; i < 200; i++ {
		e := s.Emotion(models.CategoryDispute)
		if e != enhance.EmotionAnger && e != enhance.EmotionAnxiety {
			t.Fatalf("dispute emotion = %q", e)
		}
		e = s.Emotion(models.CategoryAffair)
		if e != enhance.EmotionSecrecy && e != enhance.EmotionExcitement {
			t.Fatalf("affair emotion = %q", e)
		}
	}
	if s.Emotion("unknown") != enhance.EmotionNone {
		t.Error("unknown category should have no emotion")
	}
}

// TestFormality verifies the category to formality mapping.
func TestFormality(t *testing.T) {
	tests := map[string]string{
		models.CategoryAffair:    enhance.FormalityIntimate,
		models.CategoryDispute:   enhance.FormalityTense,
		models.CategoryJobSearch: enhance.FormalityCasual,
		models.CategoryFinancial: enhance.FormalityCasual,
	}
	for cat, want := range tests {
		if got := Formality(cat); got != want {
			t.Errorf("Formality(%s) = %q, want %q", cat, got, want)
		}
	}
}

// TestSubjectFrom verifies first-line extraction and truncation.
func TestSubjectFrom(t *testing.T) {
	if got := SubjectFrom("Hello\nworld"); got != "Hello" {
		t.Errorf("SubjectFrom = %q", got)
	}
	long := strings.Repeat("é", 80)
	if got := SubjectFrom(long); utf8.RuneCountInString(got) != MaxSubjectLength {
		t.Errorf("truncated to %d runes", utf8.RuneCountInString(got))
	}
}
