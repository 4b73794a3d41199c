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
	"github.com/bcem/corpusgen/internal/enhance"
	"github.com/bcem/corpusgen/internal/models"
)

// Template is one subject/body pair. Bodies may reference any relationship
// context key plus {sender} and {recipient} first names.
type Template struct {
	Subject string
	Body    string
}

// Set is the template stock for one category.
type Set struct {
	Openers []Template
	Replies []string
}

// Templates holds the fixed template sets per category.
var Templates = map[string]Set{
	models.CategoryAffair: {
		Openers: []Template{
			{"Tonight?", "I told {household_member} I have {excuse} tonight. Can you get away? Same place as last time, {meeting_place}. I think {colleague} noticed us leaving together on Friday so let's be careful."},
			{"Last weekend", "I can't stop thinking about last weekend at {hotel}. {household_member} asked where I was and I said {excuse}. I hate lying but I'd do it again."},
			{"We need to be careful", "{colleague} made a comment in the standup about us. I don't know how much they know. Maybe we skip {meeting_place} this week and meet at {hotel} instead?"},
			{"Thinking about you", "Sitting in this meeting pretending to listen. All I can think about is you. Can we meet at {meeting_place} after work? I'll tell my {household_role} it's {excuse}."},
		},
		Replies: []string{
			"Yes. I'll be there by 7. Delete this thread please.",
			"I can't tonight, {household_member} is getting suspicious. What about Thursday at {hotel}?",
			"Don't worry about {colleague}, I'll handle it. Same place.",
			"I miss you too. Be careful what you put in writing here.",
		},
	},
	models.CategoryJobSearch: {
		Openers: []Template{
			{"Interview at {external_company}", "I have the final round at {external_company} on {interview_day}. It's for a {position} role and they're talking {salary}. Can you cover for me if {colleague} asks where I am?"},
			{"Reference request", "{recipient}, would you be a reference for me? {recruiter} from {external_company} asked for someone who's worked with me directly. Please don't mention it to {colleague}."},
			{"Got an offer", "I got the offer from {external_company}! {position}, {salary} plus equity. I haven't told anyone here yet. Thinking of giving notice after the quarter closes."},
			{"Recruiter reached out", "A recruiter named {recruiter} reached out about a {position} opening at {external_company}. Pay is around {salary}. Are you looking too? We could go together."},
		},
		Replies: []string{
			"Of course, I'll say you're at a doctor's appointment on {interview_day}.",
			"Congrats!! Take it. This place isn't going to get better.",
			"Happy to be a reference. Send me the details and I'll keep it quiet.",
			"Honestly I've been talking to {external_company} too. Let's compare notes over lunch.",
		},
	},
	models.CategoryDispute: {
		Openers: []Template{
			{"About {issue}", "I need to address {issue}. You presented my work as yours in front of {colleague} and the whole team. This is not the first time."},
			{"This has to stop", "The way you spoke to me about {issue} yesterday was unprofessional. {other_colleague} was there and saw all of it. I'm considering going to HR."},
			{"Regarding yesterday", "I'm still waiting for an apology about {issue}. If this isn't resolved by {due_date} I'll escalate it."},
		},
		Replies: []string{
			"I think you're misremembering what happened with {issue}. Ask {colleague}.",
			"Fine. Let's meet with HR then. I have nothing to hide.",
			"I'm not going to argue over email. Come to my desk.",
			"You're overreacting. Everyone knows I did the bulk of the work.",
		},
	},
	models.CategoryFinancial: {
		Openers: []Template{
			{"Can I borrow some money?", "I hate asking but I'm short on the {debt_type} payment this month. I need {amount} by {due_date}. I'll pay you back as soon as the bonus comes through. Please don't tell {colleague}."},
			{"Bad news from the bank", "The bank called again about the {debt_type}. I owe {amount} and they want it by {due_date}. {household_member} doesn't know how bad it is. I might have to go to {lender}."},
			{"Quick question", "Do you know anything about {lender}? I need about {amount} fast for the {debt_type} and I don't want {household_member} to find out."},
		},
		Replies: []string{
			"I can lend you part of it. Don't go to {lender}, they'll bury you.",
			"I'm sorry, I'm stretched too right now. Have you talked to {household_member}?",
			"Let's talk at lunch. Don't put numbers in email.",
			"Okay, I'll transfer it tonight. Pay me back whenever you can.",
		},
	},
}

// formalities maps a category to the enhancer formality it is written in.
var formalities = map[string]string{
	models.CategoryAffair:    enhance.FormalityIntimate,
	models.CategoryJobSearch: enhance.FormalityCasual,
	models.CategoryDispute:   enhance.FormalityTense,
	models.CategoryFinancial: enhance.FormalityCasual,
}

// emotionWeight pairs an emotion with its selection weight.
type emotionWeight struct {
	emotion string
	weight  float64
}

// emotions maps a category to its weighted emotion mix.
var emotions = map[string][]emotionWeight{
	models.CategoryAffair:    {{enhance.EmotionSecrecy, 0.7}, {enhance.EmotionExcitement, 0.3}},
	models.CategoryJobSearch: {{enhance.EmotionExcitement, 0.5}, {enhance.EmotionAnxiety, 0.4}, {enhance.EmotionSecrecy, 0.1}},
	models.CategoryDispute:   {{enhance.EmotionAnger, 0.8}, {enhance.EmotionAnxiety, 0.2}},
	models.CategoryFinancial: {{enhance.EmotionAnxiety, 0.8}, {enhance.EmotionSecrecy, 0.2}},
}
