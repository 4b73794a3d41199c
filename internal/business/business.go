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

// Package business synthesizes threads of business email that embed a
// scenario's miscommunication patterns.
package business

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bcem/corpusgen/internal/enhance"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/personal"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/scenario"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid business thread options")

const (
	DefaultChanceOfCC      = 0.3
	DefaultMaxCCRecipients = 2
	DefaultTypoChance      = 0.15

	// QuoteProbability is the chance a reply quotes the previous message.
	QuoteProbability = 0.25

	// durationFactor is the share of the remaining window a thread spans.
	durationFactor = 0.8

	maxRecipients = 2
)

// Options controls Generate.
type Options struct {
	ThreadCount     int
	EmailsPerThread models.Range
	TimeSpan        models.TimeSpan
	ChanceOfCC      float64
	MaxCCRecipients int
	TypoChance      float64

	// AccidentalRate is the per-reply chance that a personal email is sent
	// into the thread by mistake. Zero disables injection.
	AccidentalRate float64
	// Categories restricts accidental personal emails. Empty allows all.
	Categories []string
}

// DefaultOptions returns options with the CC and typo defaults filled in.
func DefaultOptions() Options {
	return Options{
		ChanceOfCC:      DefaultChanceOfCC,
		MaxCCRecipients: DefaultMaxCCRecipients,
		TypoChance:      DefaultTypoChance,
	}
}

// Validate checks the options before any generation happens.
func (o Options) Validate() error {
	switch {
	case o.ThreadCount < 0:
		return fmt.Errorf("%w: thread count %d is negative", ErrInvalidOptions, o.ThreadCount)
	case !o.EmailsPerThread.Valid() || o.EmailsPerThread.Max < 1:
		return fmt.Errorf("%w: emails per thread %d-%d", ErrInvalidOptions, o.EmailsPerThread.Min, o.EmailsPerThread.Max)
	case o.TimeSpan.End.Before(o.TimeSpan.Start):
		return fmt.Errorf("%w: time span ends before it starts", ErrInvalidOptions)
	case o.ChanceOfCC < 0 || o.ChanceOfCC > 1:
		return fmt.Errorf("%w: chance of CC %v outside [0,1]", ErrInvalidOptions, o.ChanceOfCC)
	case o.MaxCCRecipients < 0:
		return fmt.Errorf("%w: max CC recipients %d is negative", ErrInvalidOptions, o.MaxCCRecipients)
	case o.AccidentalRate < 0 || o.AccidentalRate > 1:
		return fmt.Errorf("%w: accidental rate %v outside [0,1]", ErrInvalidOptions, o.AccidentalRate)
	}
	return nil
}

// Result is the output of one Generate call.
type Result struct {
	Emails  []models.Email
	Threads []models.Thread
	// Accidental counts personal emails injected into business threads.
	Accidental int
	// Skipped counts threads or injections dropped for lack of people.
	Skipped int
}

// Synthesizer generates business threads.
type Synthesizer struct {
	rnd      *rng.Source
	enhancer *enhance.Enhancer
	personal *personal.Synthesizer
}

// NewSynthesizer creates a business synthesizer. ps may be nil, in
// which case accidental injection is disabled.
func NewSynthesizer(rnd *rng.Source, enhancer *enhance.Enhancer, ps *personal.Synthesizer) *Synthesizer {
	return &Synthesizer{
		rnd:      rnd,
		enhancer: enhancer,
		personal: ps,
	}
}

// Generate produces opts.ThreadCount threads for the scenario. Thread IDs
// are thread_1..thread_N and email IDs email_1..email_M in send order.
func (s *Synthesizer) Generate(sc models.Scenario, c *models.Company, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	g := &generation{
		Synthesizer: s,
		scenario:    sc,
		company:     c,
		opts:        opts,
		vocab:       scenario.VocabularyFor(sc.ID),
	}
	for i := 0; i < opts.ThreadCount; i++ {
		g.thread(fmt.Sprintf("thread_%d", i+1))
	}

	slog.Debug("business threads generated",
		"scenario", sc.ID,
		"threads", len(g.result.Threads),
		"emails", len(g.result.Emails),
		"accidental", g.result.Accidental,
		"skipped", g.result.Skipped,
	)
	return g.result, nil
}

// generation holds the state of one Generate call.
type generation struct {
	*Synthesizer
	scenario models.Scenario
	company  *models.Company
	opts     Options
	vocab    scenario.Vocabulary
	emailSeq int
	result   Result
}

func (g *generation) nextEmailID() string {
	g.emailSeq++
	return fmt.Sprintf("email_%d", g.emailSeq)
}

func (g *generation) thread(id string) {
	participants := g.participants()
	if len(participants) < 2 {
		g.result.Skipped++
		slog.Warn("skipping business thread",
			"thread", id,
			"reason", "fewer than two participants available",
		)
		return
	}

	span := g.opts.TimeSpan
	start := g.rnd.Between(span.Start, span.End)
	duration := time.Duration(durationFactor * float64(span.End.Sub(start)))
	if duration < 0 {
		duration = 0
	}

	buzzword := rng.Pick(g.rnd, g.vocab.Buzzwords)
	subject := rng.Pick(g.rnd, g.vocab.SubjectPrefixes) + buzzword

	n := g.rnd.IntRange(max(g.opts.EmailsPerThread.Min, 1), g.opts.EmailsPerThread.Max)
	step := duration / time.Duration(n+1)

	thread := models.Thread{
		ID:      id,
		Subject: subject,
	}
	for _, p := range participants {
		thread.AddParticipant(p.ID)
	}

	var emails []models.Email
	ts := start
	for e := 0; e < n; e++ {
		if e > 0 {
			ts = ts.Add(time.Duration(g.rnd.Float64() * float64(step)))
		}

		var prev *models.Email
		if e > 0 {
			prev = &emails[e-1]
		}

		email, ok := g.accidental(&thread, participants, prev, ts)
		if !ok {
			email = g.email(&thread, participants, e, prev, ts, buzzword)
		}
		emails = append(emails, email)
		thread.EmailIDs = append(thread.EmailIDs, email.ID)
		for _, a := range email.Actors() {
			thread.AddParticipant(a)
		}
	}

	thread.StartTime = emails[0].Timestamp
	thread.EndTime = emails[len(emails)-1].Timestamp
	g.result.Threads = append(g.result.Threads, thread)
	g.result.Emails = append(g.result.Emails, emails...)
}

// participants draws one person per department slot of the scenario's mix,
// de-duplicated, topping up from the whole company when fewer than two
// remain.
func (g *generation) participants() []*models.Person {
	var out []*models.Person
	seen := map[string]bool{}

	for _, name := range scenario.ParticipantDepartments(g.scenario) {
		dept := g.company.DepartmentByName(name)
		if dept == nil {
			continue
		}
		var candidates []*models.Person
		for _, p := range g.company.Members(dept.ID) {
			if !seen[p.ID] {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		p := rng.Pick(g.rnd, candidates)
		seen[p.ID] = true
		out = append(out, p)
	}

	if len(out) >= 2 {
		return out
	}
	var rest []*models.Person
	for i := range g.company.Persons {
		if p := &g.company.Persons[i]; !seen[p.ID] {
			rest = append(rest, p)
		}
	}
	return append(out, rng.Sample(g.rnd, rest, 2-len(out))...)
}

// addressees picks recipients and CC recipients for a message from sender.
func (g *generation) addressees(sender *models.Person, participants []*models.Person) (to, cc []string) {
	var others []*models.Person
	for _, p := range participants {
		if p.ID != sender.ID {
			others = append(others, p)
		}
	}
	rng.Shuffle(g.rnd, others)

	k := min(maxRecipients, len(others))
	to = make([]string, 0, k)
	for _, p := range others[:k] {
		to = append(to, p.ID)
	}

	cc = []string{}
	rest := others[k:]
	if len(rest) > 0 && g.opts.MaxCCRecipients > 0 && g.rnd.Chance(g.opts.ChanceOfCC) {
		for _, p := range rest[:g.rnd.IntRange(1, min(g.opts.MaxCCRecipients, len(rest)))] {
			cc = append(cc, p.ID)
		}
	}
	return to, cc
}

func (g *generation) email(thread *models.Thread, participants []*models.Person, e int, prev *models.Email, ts time.Time, topic string) models.Email {
	sender := participants[0]
	if e > 0 {
		sender = rng.Pick(g.rnd, participants)
	}
	to, cc := g.addressees(sender, participants)

	keyPoints := rng.Sample(g.rnd, g.vocab.KeyPoints, g.rnd.IntRange(2, 3))
	vars := map[string]string{
		"topic":             topic,
		"deadline":          rng.Pick(g.rnd, deadlines),
		"team":              g.company.Person(to[0]).Department,
		"point":             keyPoints[0],
		"other_point":       keyPoints[len(keyPoints)-1],
		"sender_department": sender.Department,
	}

	var (
		raw      string
		elements []string
		followUp bool
	)
	if e == 0 {
		raw = rng.Pick(g.rnd, g.vocab.InitialEmails)
		followUp = true
	} else {
		archetype := rng.Pick(g.rnd, Archetypes)
		raw = rng.Pick(g.rnd, replyTemplates[archetype])
		elements = rng.Sample(g.rnd, g.vocab.MiscommunicationElements, g.rnd.IntRange(1, 2))
		followUp = followUps[archetype]
	}

	sentiment := rng.Pick(g.rnd, models.Sentiments)
	urgent := sentiment == models.SentimentUrgent

	recipientName := ""
	if len(to) == 1 {
		recipientName = g.company.Person(to[0]).FirstName()
	}

	quoted := ""
	if prev != nil && !prev.IsPersonal() && g.rnd.Chance(QuoteProbability) {
		quoted = prev.Body
	}

	body := g.enhancer.EnhanceBody(g.enhancer.Personalize(raw, vars), enhance.BodyOptions{
		Type:          enhance.TypeBusiness,
		Formality:     g.formality(sender, e),
		RecipientName: recipientName,
		Sender:        senderIdentity(sender, g.company),
		Signature:     g.signature(sender, e),
		QuotedText:    quoted,
		Urgent:        urgent,
		TypoChance:    g.opts.TypoChance,
	})
	subject := g.enhancer.EnhanceSubject(thread.Subject, enhance.SubjectOptions{
		Type:   enhance.TypeBusiness,
		Urgent: urgent,
		Reply:  e > 0,
	})

	var replyTo *string
	if prev != nil {
		id := prev.ID
		replyTo = &id
	}

	return models.Email{
		ID:          g.nextEmailID(),
		ThreadID:    thread.ID,
		From:        sender.ID,
		To:          to,
		CC:          cc,
		ReplyTo:     replyTo,
		Timestamp:   ts,
		Subject:     subject,
		Body:        body,
		Attachments: []models.Attachment{},
		Metadata: models.Metadata{
			Sentiment:                sentiment,
			KeyPoints:                keyPoints,
			MiscommunicationElements: elements,
			FollowUpExpected:         &followUp,
			Importance:               g.rnd.IntRange(1, 5),
		},
	}
}

// accidental decides whether the slot after prev is taken by a personal
// email sent into the thread by mistake. Sender and recipient are always
// thread participants.
func (g *generation) accidental(thread *models.Thread, participants []*models.Person, prev *models.Email, ts time.Time) (models.Email, bool) {
	if prev == nil || g.personal == nil || g.opts.AccidentalRate <= 0 {
		return models.Email{}, false
	}
	if !g.rnd.Chance(g.opts.AccidentalRate) {
		return models.Email{}, false
	}

	sender := rng.Pick(g.rnd, participants)
	var others []*models.Person
	for _, p := range participants {
		if p.ID != sender.ID {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		g.result.Skipped++
		return models.Email{}, false
	}
	recipient := rng.Pick(g.rnd, others)

	// A pair carried over from a shared registry may hold a category this
	// run excludes; the slot then stays a business email.
	rel := g.personal.Registry().GetOrCreateIn(sender, recipient, g.company, g.opts.Categories)
	if !allowed(g.opts.Categories, rel.Category) {
		return models.Email{}, false
	}

	replyTo := prev.ID
	email, err := g.personal.GenerateEmail(rel.Category, sender, recipient, rel, personal.EmailOptions{
		ID:         g.nextEmailID(),
		ThreadID:   thread.ID,
		Timestamp:  ts,
		ReplyTo:    &replyTo,
		Accidental: true,
		Company:    g.company.Name,
	})
	if err != nil {
		g.result.Skipped++
		slog.Warn("skipping accidental personal email", "thread", thread.ID, "error", err)
		return models.Email{}, false
	}
	g.result.Accidental++
	return email, true
}

// formality is formal for the opening email and casual for replies, except
// that people at the top of the hierarchy or with a formal style stay formal.
func (g *generation) formality(sender *models.Person, e int) string {
	if e == 0 || g.company.Level(sender.ID) == 0 || sender.CommunicationStyle == models.StyleFormal {
		return enhance.FormalityFormal
	}
	return enhance.FormalityCasual
}

func (g *generation) signature(sender *models.Person, e int) string {
	if e == 0 || sender.CommunicationStyle == models.StyleFormal {
		return enhance.SignatureFormal
	}
	return rng.Pick(g.rnd, []string{enhance.SignatureCasual, enhance.SignatureMinimal, enhance.SignatureNone})
}

func senderIdentity(p *models.Person, c *models.Company) enhance.Sender {
	return enhance.Sender{
		Name:       p.Name,
		Title:      p.Role,
		Department: p.Department,
		Company:    c.Name,
		Email:      p.Email,
		Phone:      p.Phone,
	}
}

func allowed(categories []string, category string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}
