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

package enhance

import "github.com/bcem/corpusgen/internal/models"

// Greeting templates keyed by formality. Every template may reference
// {firstName} only.
var Greetings = map[string][]string{
	FormalityFormal: {
		"Dear {firstName},",
		"Hello {firstName},",
		"Good morning {firstName},",
		"Good afternoon {firstName},",
	},
	FormalityCasual: {
		"Hi {firstName},",
		"Hey {firstName},",
		"Hi {firstName}!",
		"{firstName},",
	},
	FormalityIntimate: {
		"Hey you,",
		"Hi {firstName} <3",
		"My dear {firstName},",
		"{firstName}...",
	},
	FormalityTense: {
		"{firstName},",
		"{firstName}.",
		"To {firstName}:",
	},
}

// Closings keyed by formality.
var Closings = map[string][]string{
	FormalityFormal: {
		"Best regards,",
		"Kind regards,",
		"Sincerely,",
		"Thank you,",
	},
	FormalityCasual: {
		"Thanks,",
		"Cheers,",
		"Best,",
		"Talk soon,",
	},
	FormalityIntimate: {
		"Thinking of you,",
		"Always,",
		"xx",
		"Yours,",
	},
	FormalityTense: {
		"Regards,",
		"I expect a response.",
		"Waiting to hear back.",
	},
}

// InformalStarters open casual business replies.
var InformalStarters = []string{
	"Quick one:",
	"Just circling back on this.",
	"Hope your week is going well!",
	"Sorry for the slow reply.",
	"Following up here.",
}

// EmotionalIndicators are phrases keyed by emotion.
var EmotionalIndicators = map[string][]string{
	EmotionAnxiety: {
		"I'm honestly really worried about this.",
		"I haven't been sleeping well since this started.",
		"I keep going over it in my head.",
	},
	EmotionExcitement: {
		"I can't stop smiling!",
		"I'm so excited I can barely focus today.",
		"This is the best news I've had in months!",
	},
	EmotionAnger: {
		"I am beyond frustrated right now.",
		"Frankly, this is unacceptable.",
		"I'm done being polite about this.",
	},
	EmotionSecrecy: {
		"Please delete this after you read it.",
		"Don't mention this to anyone at work.",
		"Let's keep this strictly between us.",
	},
}

// BusinessPhrases are generic filler spliced into business bodies.
var BusinessPhrases = []string{
	"Let's make sure we're aligned on this.",
	"I want to be mindful of everyone's bandwidth.",
	"Happy to take this offline if easier.",
	"Let's circle back once we have more data.",
	"This should move the needle for the quarter.",
	"Looping in the relevant stakeholders.",
	"Can we get a quick sync on the calendar?",
}

// Signature templates keyed by signature type. Keys available:
// {name} {title} {department} {company} {email} {phone}.
var Signatures = map[string][]string{
	SignatureFormal: {
		"{name}\n{title}, {department}\n{company}\n{email} | {phone}",
		"{name}\n{title}\n{company} | {department}\nPhone: {phone}",
	},
	SignatureCasual: {
		"{name}\n{title} @ {company}",
		"- {name} ({department})",
	},
	SignatureMinimal: {
		"{name}",
		"-{name}",
	},
}

// UrgencyMarkers open urgent bodies.
var UrgencyMarkers = []string{
	"URGENT: ",
	"[URGENT] ",
	"Time-sensitive: ",
}

// SubjectTags decorate business subjects.
var SubjectTags = []string{
	"[ACTION]",
	"[FYI]",
	"[REVIEW]",
	"[DECISION NEEDED]",
	"[INPUT REQUESTED]",
}

// CategoryEmoji decorates personal subjects, keyed by category.
var CategoryEmoji = map[string][]string{
	models.CategoryAffair:    {"❤️", "😘", "🤫"},
	models.CategoryJobSearch: {"🤞", "💼", "🚀"},
	models.CategoryDispute:   {"😤", "⚠️", "🙄"},
	models.CategoryFinancial: {"💸", "😬", "🙏"},
}

// Typo is a literal substitution applied to a finished body.
type Typo struct {
	From string
	To   string
}

// Typos are the misspellings and punctuation glitches typo injection uses.
var Typos = []Typo{
	{"the ", "teh "},
	{"receive", "recieve"},
	{"definitely", "definately"},
	{"separate", "seperate"},
	{"because", "becuase"},
	{"their ", "thier "},
	{"meeting", "meeitng"},
	{"just ", "jsut "},
	{". ", ".. "},
	{", ", " ,"},
	{"you ", "you  "},
}
