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

package business

// Reply archetypes. Every non-first business email is written as one of
// these, chosen uniformly.
const (
	ArchetypeClarification     = "clarification"
	ArchetypeQuestion          = "question"
	ArchetypeMisinterpretation = "misinterpretation"
	ArchetypeAgreement         = "agreement"
)

// Archetypes lists the reply archetypes in selection order.
var Archetypes = []string{
	ArchetypeClarification,
	ArchetypeQuestion,
	ArchetypeMisinterpretation,
	ArchetypeAgreement,
}

// ReplyKeys are the placeholders reply templates may use.
var ReplyKeys = []string{"topic", "deadline", "team", "point", "other_point", "sender_department"}

// replyTemplates holds the body stock per archetype.
var replyTemplates = map[string][]string{
	ArchetypeClarification: {
		"Just to clarify a few things from the last message:\n\n1. {point} sits with {team}, not with {sender_department}.\n2. The date we committed to is {deadline}, not earlier.\n3. {other_point} was explicitly parked until after that.\n\nHope that clears it up.",
		"I think there's some confusion here, so to set the record straight:\n\n1. Nobody signed off on {point} yet.\n2. {team} asked for {other_point} to be handled first.\n\nLet's not move ahead until we're aligned on {topic}.",
		"A couple of corrections on {topic}:\n\n1. {deadline} is the review date, not the launch date.\n2. {point} was never in scope for {sender_department}.\n3. {other_point} still needs an owner.",
	},
	ArchetypeQuestion: {
		"Before we go further I have a few questions:\n\n1. Who actually owns {point}?\n2. Is {deadline} still the target or did that move?\n3. Does {team} know about {other_point}?",
		"Sorry if I missed this somewhere, but:\n\n1. What does \"done\" look like for {point}?\n2. Are we waiting on {team} for {other_point}?\n\nI want to make sure {sender_department} isn't blocking anyone on {topic}.",
		"Quick questions on {topic}:\n\n1. Is {point} the priority or {other_point}?\n2. Who from {team} should we loop in?\n3. Can we realistically hit {deadline}?",
	},
	ArchetypeMisinterpretation: {
		"Great, so based on this I'm assuming {team} will handle {point} and we can push {other_point} until after {deadline}. I'll brief {sender_department} on that basis and we'll get started.",
		"Perfect. Since budget is already approved for {topic}, we'll go ahead with {point} this week. {team} mentioned they're fine with us taking {other_point} too, so no need for another sync.",
		"Understood. I take it this means {point} is locked and {deadline} is flexible. We'll plan around that and share the revised plan with {team} next week.",
	},
	ArchetypeAgreement: {
		"Sounds good. {team} will take {point} and we'll regroup before {deadline}. Thanks everyone.",
		"Agreed on all of the above. I'll update the tracker for {topic} and close this out.",
		"Works for me. {sender_department} is aligned on {point}; let's keep {other_point} on the agenda for next time.",
	},
}

// followUps reports whether an archetype leaves the thread expecting a reply.
var followUps = map[string]bool{
	ArchetypeClarification:     true,
	ArchetypeQuestion:          true,
	ArchetypeMisinterpretation: false,
	ArchetypeAgreement:         false,
}

var deadlines = []string{
	"end of next week",
	"Friday",
	"EOD Thursday",
	"the 15th",
	"end of the month",
	"the board meeting",
	"the next sprint review",
	"Q3 close",
}
