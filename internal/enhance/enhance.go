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

// Package enhance dresses raw email text with greetings, closings,
// signatures, emotional framing, typos and subject decoration. Every random
// choice is drawn from the injected source, and every probability lives in
// Probabilities so tests can pin them to 0 or 1.
package enhance

import (
	"fmt"
	"strings"

	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/template"
)

// Message kinds.
const (
	TypeBusiness = "business"
	TypePersonal = "personal"
)

// Formality levels.
const (
	FormalityFormal   = "formal"
	FormalityCasual   = "casual"
	FormalityIntimate = "intimate"
	FormalityTense    = "tense"
)

// Emotions. EmotionNone disables emotional framing.
const (
	EmotionNone       = ""
	EmotionAnxiety    = "anxiety"
	EmotionExcitement = "excitement"
	EmotionAnger      = "anger"
	EmotionSecrecy    = "secrecy"
)

// Signature types. SignatureNone omits the signature block.
const (
	SignatureNone    = ""
	SignatureFormal  = "formal"
	SignatureCasual  = "casual"
	SignatureMinimal = "minimal"
)

// Probabilities holds every Bernoulli constant used by the enhancer.
type Probabilities struct {
	InformalStarter   float64 // business + casual only
	EmotionalGreeting float64 // personal: replace greeting instead of splicing
	BusinessPhrase    float64
	SecondTypo        float64 // given typos apply, chance of a second one
	SubjectTag        float64 // business subject tags
	SubjectEmoji      float64 // personal subject emoji
}

// DefaultProbabilities returns the production constants.
func DefaultProbabilities() Probabilities {
	return Probabilities{
		InformalStarter:   0.4,
		EmotionalGreeting: 0.3,
		BusinessPhrase:    0.5,
		SecondTypo:        0.5,
		SubjectTag:        0.3,
		SubjectEmoji:      0.4,
	}
}

// Sender holds the identity fields used to build a signature.
type Sender struct {
	Name       string
	Title      string
	Department string
	Company    string
	Email      string
	Phone      string
}

func (s Sender) vars() template.Vars {
	return template.Vars{
		"name":       s.Name,
		"title":      s.Title,
		"department": s.Department,
		"company":    s.Company,
		"email":      s.Email,
		"phone":      s.Phone,
	}
}

// BodyOptions controls EnhanceBody.
type BodyOptions struct {
	Type          string
	Formality     string
	Emotion       string
	RecipientName string // first name used in the greeting
	Sender        Sender
	Signature     string // signature type, or SignatureNone
	QuotedText    string // original text to quote below the reply
	Urgent        bool
	TypoChance    float64 // probability that 1-2 typos are applied
}

// SubjectOptions controls EnhanceSubject.
type SubjectOptions struct {
	Type     string
	Category string // personal category for emoji decoration
	Urgent   bool
	Reply    bool
	Forward  bool
}

// Enhancer applies persona-dependent decoration to raw text.
type Enhancer struct {
	rnd   *rng.Source
	probs Probabilities
}

// New creates an enhancer drawing from rnd.
func New(rnd *rng.Source, probs Probabilities) *Enhancer {
	return &Enhancer{rnd: rnd, probs: probs}
}

// Probabilities returns the constants the enhancer was built with.
func (e *Enhancer) Probabilities() Probabilities {
	return e.probs
}

// Personalize substitutes vars into text. A missing key panics.
func (e *Enhancer) Personalize(text string, vars template.Vars) string {
	return template.MustRender(text, vars)
}

// EnhanceBody wraps raw body text into a complete message.
func (e *Enhancer) EnhanceBody(raw string, opts BodyOptions) string {
	formality := opts.Formality
	if _, ok := Greetings[formality]; !ok {
		formality = FormalityCasual
	}

	recipient := opts.RecipientName
	if recipient == "" {
		recipient = "all"
	}

	greeting := template.MustRender(rng.Pick(e.rnd, Greetings[formality]), template.Vars{"firstName": recipient})
	body := strings.TrimSpace(raw)

	if opts.Type == TypeBusiness && formality == FormalityCasual && e.rnd.Chance(e.probs.InformalStarter) {
		body = rng.Pick(e.rnd, InformalStarters) + " " + body
	}

	if opts.Type == TypePersonal && opts.Emotion != EmotionNone {
		if phrases, ok := EmotionalIndicators[opts.Emotion]; ok {
			indicator := rng.Pick(e.rnd, phrases)
			if e.rnd.Chance(e.probs.EmotionalGreeting) {
				greeting = indicator
			} else {
				body = e.splice(body, indicator)
			}
		}
	}

	if opts.Type == TypeBusiness && e.rnd.Chance(e.probs.BusinessPhrase) {
		body = e.insertPhrase(body, rng.Pick(e.rnd, BusinessPhrases))
	}

	closing := rng.Pick(e.rnd, Closings[formality])

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(closing)

	if sigs, ok := Signatures[opts.Signature]; ok {
		b.WriteString("\n")
		b.WriteString(template.MustRender(rng.Pick(e.rnd, sigs), opts.Sender.vars()))
	} else if opts.Sender.Name != "" {
		first, _, _ := strings.Cut(opts.Sender.Name, " ")
		b.WriteString("\n")
		b.WriteString(first)
	}

	if opts.QuotedText != "" {
		b.WriteString("\n\n")
		b.WriteString(Quote(opts.QuotedText))
	}

	out := b.String()
	if opts.Urgent {
		out = rng.Pick(e.rnd, UrgencyMarkers) + out
	}

	if e.rnd.Chance(opts.TypoChance) {
		out = e.applyTypo(out)
		if e.rnd.Chance(e.probs.SecondTypo) {
			out = e.applyTypo(out)
		}
	}

	if template.HasPlaceholder(out) {
		panic(fmt.Sprintf("enhance: unresolved placeholder %v in body", template.FindPlaceholders(out)))
	}
	return out
}

// EnhanceSubject decorates a raw subject line.
func (e *Enhancer) EnhanceSubject(raw string, opts SubjectOptions) string {
	subject := strings.TrimSpace(raw)
	if opts.Reply {
		subject = strings.TrimPrefix(subject, "Re: ")
	}

	switch opts.Type {
	case TypeBusiness:
		if e.rnd.Chance(e.probs.SubjectTag) {
			subject = rng.Pick(e.rnd, SubjectTags) + " " + subject
		}
	case TypePersonal:
		if emoji, ok := CategoryEmoji[opts.Category]; ok && e.rnd.Chance(e.probs.SubjectEmoji) {
			subject = subject + " " + rng.Pick(e.rnd, emoji)
		}
	}

	if opts.Urgent && !strings.HasPrefix(subject, "URGENT") {
		subject = "URGENT: " + subject
	}

	switch {
	case opts.Forward:
		subject = "Fwd: " + subject
	case opts.Reply:
		subject = "Re: " + subject
	}

	if template.HasPlaceholder(subject) {
		panic(fmt.Sprintf("enhance: unresolved placeholder %v in subject", template.FindPlaceholders(subject)))
	}
	return subject
}

// Quote prefixes every line of text with "> ".
func Quote(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + l
		}
	}
	return strings.Join(lines, "\n")
}

// splice inserts phrase after a randomly chosen sentence of body.
func (e *Enhancer) splice(body, phrase string) string {
	sentences := splitSentences(body)
	if len(sentences) == 0 {
		return phrase
	}
	i := e.rnd.Intn(len(sentences))
	out := make([]string, 0, len(sentences)+1)
	out = append(out, sentences[:i+1]...)
	out = append(out, phrase)
	out = append(out, sentences[i+1:]...)
	return strings.Join(out, " ")
}

// insertPhrase puts phrase at the start, middle or end of body.
func (e *Enhancer) insertPhrase(body, phrase string) string {
	switch e.rnd.Intn(3) {
	case 0:
		return phrase + " " + body
	case 1:
		sentences := splitSentences(body)
		if len(sentences) < 2 {
			return body + " " + phrase
		}
		mid := len(sentences) / 2
		out := make([]string, 0, len(sentences)+1)
		out = append(out, sentences[:mid]...)
		out = append(out, phrase)
		out = append(out, sentences[mid:]...)
		return strings.Join(out, " ")
	default:
		return body + " " + phrase
	}
}

// applyTypo applies one applicable substitution, replacing its first occurrence.
func (e *Enhancer) applyTypo(text string) string {
	var candidates []Typo
	for _, t := range Typos {
		if strings.Contains(text, t.From) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return text
	}
	t := rng.Pick(e.rnd, candidates)
	return strings.Replace(text, t.From, t.To, 1)
}

// splitSentences splits on ". ", "! " and "? " keeping the punctuation.
// Paragraph breaks are kept inside the sentence they follow.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' {
			out = append(out, text[start:i+1])
			start = i + 2
			i++
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}
