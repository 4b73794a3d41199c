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

// Package personal synthesizes sensitive personal emails between employees:
// affairs, job searches, disputes and financial distress. Every email between
// the same pair draws its narrative details from the pair's memoized
// relationship, so storylines stay consistent across a corpus.
package personal

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bcem/corpusgen/internal/enhance"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/template"
)

const (
	// MaxSubjectLength bounds thread subjects derived from the first email.
	MaxSubjectLength = 50

	// SignatureProbability is the chance a personal email is signed.
	SignatureProbability = 0.3

	minReplyGap = 20 * time.Minute
	maxReplyGap = 36 * time.Hour
)

// EmailOptions places one personal email in a thread.
type EmailOptions struct {
	ID         string
	ThreadID   string
	Timestamp  time.Time
	ReplyTo    *string
	Reply      bool   // render a reply body and "Re:" subject
	Subject    string // subject being replied to; ignored for openers
	QuotedText string
	Accidental bool // sent into a business thread by mistake
	Company    string
}

// ThreadOptions controls GenerateThread.
type ThreadOptions struct {
	ThreadID   string
	NewEmailID func() string
	Start      time.Time
	End        time.Time // timestamps are clamped to End when set
	EmailCount models.Range
	Company    string
}

// Synthesizer produces personal emails and threads.
type Synthesizer struct {
	rnd      *rng.Source
	enhancer *enhance.Enhancer
	registry *relationship.Registry
}

// NewSynthesizer wires a personal synthesizer to its collaborators.
func NewSynthesizer(rnd *rng.Source, enhancer *enhance.Enhancer, registry *relationship.Registry) *Synthesizer {
	return &Synthesizer{
		rnd:      rnd,
		enhancer: enhancer,
		registry: registry,
	}
}

// Registry returns the relationship registry the synthesizer draws from.
func (s *Synthesizer) Registry() *relationship.Registry {
	return s.registry
}

// Formality returns the formality personal mail of a category is written in.
func Formality(category string) string {
	if f, ok := formalities[category]; ok {
		return f
	}
	return enhance.FormalityCasual
}

// Emotion draws an emotion for a category from its weighted mix.
func (s *Synthesizer) Emotion(category string) string {
	mix, ok := emotions[category]
	if !ok {
		return enhance.EmotionNone
	}
	weights := make([]float64, len(mix))
	for i, m := range mix {
		weights[i] = m.weight
	}
	return mix[s.rnd.Weighted(weights)].emotion
}

// GenerateEmail produces one personal email from sender to recipient using
// the pair's relationship context.
func (s *Synthesizer) GenerateEmail(category string, sender, recipient *models.Person, rel *models.Relationship, opts EmailOptions) (models.Email, error) {
	email, _, err := s.generateEmail(category, sender, recipient, rel, opts)
	return email, err
}

// generateEmail also returns the subject before enhancement so replies can
// be built from the undecorated opener.
func (s *Synthesizer) generateEmail(category string, sender, recipient *models.Person, rel *models.Relationship, opts EmailOptions) (models.Email, string, error) {
	set, ok := Templates[category]
	if !ok {
		return models.Email{}, "", fmt.Errorf("unknown personal category %q", category)
	}

	vars := make(template.Vars, len(rel.Context)+2)
	for k, v := range rel.Context {
		vars[k] = v
	}
	vars["sender"] = sender.FirstName()
	vars["recipient"] = recipient.FirstName()

	var rawSubject, rawBody string
	if opts.Reply {
		rawSubject = opts.Subject
		rawBody = s.enhancer.Personalize(rng.Pick(s.rnd, set.Replies), vars)
	} else {
		tpl := rng.Pick(s.rnd, set.Openers)
		rawSubject = s.enhancer.Personalize(tpl.Subject, vars)
		rawBody = s.enhancer.Personalize(tpl.Body, vars)
	}

	signature := enhance.SignatureNone
	if s.rnd.Chance(SignatureProbability) {
		signature = enhance.SignatureMinimal
	}

	body := s.enhancer.EnhanceBody(rawBody, enhance.BodyOptions{
		Type:          enhance.TypePersonal,
		Formality:     Formality(category),
		Emotion:       s.Emotion(category),
		RecipientName: recipient.FirstName(),
		Sender: enhance.Sender{
			Name:       sender.Name,
			Title:      sender.Role,
			Department: sender.Department,
			Company:    opts.Company,
			Email:      sender.Email,
			Phone:      sender.Phone,
		},
		Signature:  signature,
		QuotedText: opts.QuotedText,
	})
	subject := s.enhancer.EnhanceSubject(rawSubject, enhance.SubjectOptions{
		Type:     enhance.TypePersonal,
		Category: category,
		Reply:    opts.Reply,
	})

	email := models.Email{
		ID:          opts.ID,
		ThreadID:    opts.ThreadID,
		From:        sender.ID,
		To:          []string{recipient.ID},
		CC:          []string{},
		ReplyTo:     opts.ReplyTo,
		Timestamp:   opts.Timestamp,
		Subject:     subject,
		Body:        body,
		Attachments: []models.Attachment{},
		Metadata: models.Metadata{
			Personal:         true,
			Category:         category,
			Intensity:        rel.Intensity,
			Sensitive:        true,
			AccidentallySent: opts.Accidental,
		},
	}
	return email, rawSubject, nil
}

// GenerateThread produces a personal-only back-and-forth between a and b.
// category applies when the pair has no relationship yet; otherwise the
// pair's memoized category is used.
func (s *Synthesizer) GenerateThread(category string, a, b *models.Person, c *models.Company, opts ThreadOptions) (models.Thread, []models.Email, error) {
	if a.ID == b.ID {
		return models.Thread{}, nil, fmt.Errorf("personal thread needs two distinct people, got %s twice", a.ID)
	}
	count := opts.EmailCount
	if count.Max <= 0 {
		count = models.Range{Min: 1, Max: 3}
	}

	rel := s.registry.GetOrCreateIn(a, b, c, []string{category})
	category = rel.Category
	n := s.rnd.IntRange(max(count.Min, 1), count.Max)

	thread := models.Thread{
		ID:           opts.ThreadID,
		Participants: []string{a.ID, b.ID},
	}

	var (
		emails        []models.Email
		openerSubject string
	)
	ts := opts.Start
	sender, recipient := a, b
	for i := 0; i < n; i++ {
		if i > 0 {
			gap := minReplyGap + time.Duration(s.rnd.Float64()*float64(maxReplyGap-minReplyGap))
			ts = ts.Add(gap)
			if !opts.End.IsZero() && ts.After(opts.End) {
				ts = later(opts.End, emails[i-1].Timestamp)
			}
		}

		eo := EmailOptions{
			ID:        opts.NewEmailID(),
			ThreadID:  opts.ThreadID,
			Timestamp: ts,
			Company:   opts.Company,
		}
		if i > 0 {
			prev := emails[i-1]
			replyTo := prev.ID
			eo.ReplyTo = &replyTo
			eo.Reply = true
			eo.Subject = openerSubject
		}

		email, rawSubject, err := s.generateEmail(category, sender, recipient, rel, eo)
		if err != nil {
			return models.Thread{}, nil, err
		}
		if i == 0 {
			openerSubject = rawSubject
		}
		emails = append(emails, email)
		thread.EmailIDs = append(thread.EmailIDs, email.ID)
		sender, recipient = recipient, sender
	}

	thread.Subject = SubjectFrom(emails[0].Subject)
	thread.StartTime = emails[0].Timestamp
	thread.EndTime = emails[len(emails)-1].Timestamp
	return thread, emails, nil
}

// SubjectFrom derives a thread subject from the first line of text,
// truncated to MaxSubjectLength runes.
func SubjectFrom(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	if utf8.RuneCountInString(line) <= MaxSubjectLength {
		return line
	}
	runes := []rune(line)
	return string(runes[:MaxSubjectLength])
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
