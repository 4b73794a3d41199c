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

// Package models defines the data structures shared across the corpus generator.
package models

import "time"

// Business sentiment values.
const (
	SentimentPositive   = "positive"
	SentimentNeutral    = "neutral"
	SentimentNegative   = "negative"
	SentimentConfused   = "confused"
	SentimentFrustrated = "frustrated"
	SentimentUrgent     = "urgent"
)

// Sentiments lists every business sentiment value in a stable order.
var Sentiments = []string{
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentConfused,
	SentimentFrustrated,
	SentimentUrgent,
}

// Metadata carries the per-email annotations. Business emails populate the
// sentiment/key point fields; personal emails populate the personal fields.
type Metadata struct {
	Sentiment                string   `json:"sentiment,omitempty"`
	KeyPoints                []string `json:"key_points,omitempty"`
	MiscommunicationElements []string `json:"miscommunication_elements,omitempty"`
	FollowUpExpected         *bool    `json:"follow_up_expected,omitempty"`
	Importance               int      `json:"importance,omitempty"`

	Personal         bool   `json:"personal,omitempty"`
	Category         string `json:"category,omitempty"`
	Intensity        int    `json:"intensity,omitempty"`
	Sensitive        bool   `json:"sensitive,omitempty"`
	AccidentallySent bool   `json:"accidentally_sent,omitempty"`
}

// Attachment represents a file attached to an email. Generated emails never
// carry attachments, but the field is always serialised as an array.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// Email is one generated message. From, To and CC hold person IDs, never
// resolved names; the scoring layer resolves them against the company.
//
// This struct's JSON serialisation is consumed by the Python scoring layer
// via raw.emails[].
type Email struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"thread_id"`
	From        string       `json:"from"`
	To          []string     `json:"to"`
	CC          []string     `json:"cc"`
	ReplyTo     *string      `json:"reply_to" jsonschema:"nullable"`
	Timestamp   time.Time    `json:"timestamp"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments"`
	Metadata    Metadata     `json:"metadata"`
}

// IsPersonal reports whether the email was produced by the personal synthesizer.
func (e *Email) IsPersonal() bool {
	return e.Metadata.Personal
}

// Actors returns the sender followed by every To and CC recipient.
func (e *Email) Actors() []string {
	out := make([]string, 0, 1+len(e.To)+len(e.CC))
	out = append(out, e.From)
	out = append(out, e.To...)
	out = append(out, e.CC...)
	return out
}

// Thread groups emails sharing a topic and a participant set.
type Thread struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	Participants []string  `json:"participants"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	EmailIDs     []string  `json:"email_ids"`
}

// AddParticipant appends id to the participant list unless already present.
func (t *Thread) AddParticipant(id string) {
	for _, p := range t.Participants {
		if p == id {
			return
		}
	}
	t.Participants = append(t.Participants, id)
}

// HasParticipant reports whether id is in the participant list.
func (t *Thread) HasParticipant(id string) bool {
	for _, p := range t.Participants {
		if p == id {
			return true
		}
	}
	return false
}
