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

package scenario

// InitialEmailKeys are the placeholders initial-email templates may use.
var InitialEmailKeys = []string{"topic", "deadline", "team", "point", "sender_department"}

// Vocabulary is the word stock one scenario draws subjects, bodies and
// metadata from.
type Vocabulary struct {
	SubjectPrefixes          []string
	Buzzwords                []string
	KeyPoints                []string
	MiscommunicationElements []string
	// Departments is the participant mix for complexity 3 and below.
	Departments   []string
	InitialEmails []string
}

// DefaultVocabulary backs scenarios with no entry in Vocabularies.
var DefaultVocabulary = Vocabulary{
	SubjectPrefixes: []string{"Project ", "Update: ", "Team ", "Planning "},
	Buzzwords: []string{
		"Q3 Roadmap", "Alignment", "Next Steps", "Deliverables", "Timeline Review",
		"Kickoff", "Status Sync", "Priorities", "Action Items", "Handoff",
	},
	KeyPoints: []string{
		"timeline for deliverables",
		"ownership of next steps",
		"resource allocation",
		"status of dependencies",
		"decision on scope",
		"communication cadence",
	},
	MiscommunicationElements: []string{
		"unclear ownership",
		"assumed shared context",
		"ambiguous deadline",
		"missing stakeholder",
		"conflicting priorities",
	},
	Departments: []string{"Product", "Marketing", "Engineering"},
	InitialEmails: []string{
		"I wanted to kick off the conversation on {topic}. The {team} team should own the {point} piece, and we need a first pass by {deadline}. Let me know if anything is unclear.",
		"Following up on yesterday's meeting about {topic}. My understanding is that {point} is the top priority and we're aiming for {deadline}. Can everyone confirm?",
	},
}

// Vocabularies holds the bespoke vocabulary per scenario ID.
var Vocabularies = map[string]Vocabulary{
	"marketing_campaign_interpretation": {
		SubjectPrefixes: []string{"Campaign ", "Marketing ", "Launch "},
		Buzzwords:       []string{"Brief", "Messaging", "Audience Targeting", "Creative Review", "Channel Plan", "Q3 Push", "Landing Page"},
		KeyPoints: []string{
			"target audience definition",
			"campaign launch date",
			"key messaging pillars",
			"channel budget split",
			"success metrics",
			"creative approval process",
		},
		MiscommunicationElements: []string{
			"different understanding of target audience",
			"misaligned campaign objectives",
			"assumed launch date",
			"unclear creative approval owner",
		},
		Departments: []string{"Marketing", "Marketing", "Product"},
		InitialEmails: []string{
			"Attached is the brief for {topic}. We're targeting enterprise decision makers and the campaign goes live {deadline}. {team}, please align the product messaging with the {point} section.",
			"Quick heads up on {topic}: the focus is {point}. I've told the agency we'll have final copy by {deadline}, so {team} please send your input before then.",
		},
	},
	"product_requirements_misalignment": {
		SubjectPrefixes: []string{"Requirements: ", "Spec ", "Feature "},
		Buzzwords:       []string{"v2 Spec", "Acceptance Criteria", "Sprint Scope", "MVP Definition", "User Stories", "Backlog Grooming"},
		KeyPoints: []string{
			"latest requirements version",
			"acceptance criteria",
			"feature scope for the sprint",
			"API contract",
			"edge case handling",
			"release timeline",
		},
		MiscommunicationElements: []string{
			"working from outdated spec",
			"implicit scope change",
			"missing acceptance criteria",
			"assumed technical constraints",
		},
		Departments: []string{"Product", "Engineering", "Engineering"},
		InitialEmails: []string{
			"The updated requirements for {topic} are in the shared drive. The main change is around {point}. {team}, can you confirm the estimate still holds for {deadline}?",
			"Kicking off {topic}. Please build against the spec we reviewed last week; {point} is the must-have and everything else is stretch. Target is {deadline}.",
		},
	},
	"design_feedback_loop": {
		SubjectPrefixes: []string{"Design Review: ", "Mockups ", "Feedback "},
		Buzzwords:       []string{"Onboarding Flow", "Dashboard Redesign", "Style Guide", "Round 4", "Final Mocks", "Prototype"},
		KeyPoints: []string{
			"final approver for designs",
			"consolidated feedback",
			"brand guideline compliance",
			"usability test results",
			"handoff to engineering",
		},
		MiscommunicationElements: []string{
			"contradictory stakeholder feedback",
			"no clear decision owner",
			"feedback given on outdated version",
			"subjective preferences treated as requirements",
		},
		Departments: []string{"Design", "Design", "Product"},
		InitialEmails: []string{
			"Here is the latest round for {topic}. We incorporated all comments on {point}. {team}, please send consolidated feedback by {deadline} so we can lock it.",
			"Sharing the prototype for {topic}. I think we're close, but we still need a decision on {point}. Who on {team} has final say? We need it by {deadline}.",
		},
	},
	"sales_engineering_promise_gap": {
		SubjectPrefixes: []string{"Customer Request: ", "Deal ", "Commitment "},
		Buzzwords:       []string{"Enterprise Renewal", "Custom Integration", "SSO Support", "Q4 Pipeline", "Pilot Program", "Contract Terms"},
		KeyPoints: []string{
			"committed delivery date",
			"custom feature request",
			"technical feasibility review",
			"contract obligations",
			"customer escalation path",
		},
		MiscommunicationElements: []string{
			"promise made without engineering sign-off",
			"feature interpreted as available",
			"assumed delivery date",
			"unshared customer context",
		},
		InitialEmails: []string{
			"Great news, we closed {topic}! I told the customer {point} would be ready by {deadline}. {team}, can you confirm that's on the roadmap?",
			"The customer for {topic} is asking about {point}. I said yes since it sounded small. Looping in {team} to confirm we can hit {deadline}.",
		},
	},
	"cross_team_launch_coordination": {
		SubjectPrefixes: []string{"Launch Readiness: ", "Go-Live ", "Release "},
		Buzzwords:       []string{"Checklist", "War Room", "Dependencies", "Cutover Plan", "Launch Day", "Rollback Plan"},
		KeyPoints: []string{
			"launch readiness criteria",
			"owner for each workstream",
			"cross-team dependencies",
			"go/no-go decision",
			"support team enablement",
		},
		MiscommunicationElements: []string{
			"unclear workstream ownership",
			"different definitions of done",
			"status reported as green without evidence",
			"dependency not communicated",
		},
		InitialEmails: []string{
			"We're three weeks out from {topic}. Every team should confirm readiness on {point} by {deadline}. {team}, you're on point for coordinating the checklist.",
			"Setting up the launch tracker for {topic}. I'm assuming {team} owns {point} unless I hear otherwise before {deadline}.",
		},
	},
	"budget_approval_confusion": {
		SubjectPrefixes: []string{"Budget: ", "Approval ", "Spend "},
		Buzzwords:       []string{"Q3 Forecast", "Headcount Plan", "Vendor Contract", "Capex Request", "Reallocation", "Tooling Spend"},
		KeyPoints: []string{
			"approval status of the request",
			"spend already committed",
			"forecast versus actuals",
			"approval chain",
			"vendor payment terms",
		},
		MiscommunicationElements: []string{
			"verbal approval treated as final",
			"unclear approval chain",
			"budget assumed available",
			"finance not consulted",
		},
		InitialEmails: []string{
			"Confirming that {topic} is approved, so we're moving ahead with {point}. {team}, please process the PO before {deadline}.",
			"Can {team} confirm where {topic} stands? We need {point} signed off by {deadline} or the vendor releases our slot.",
		},
	},
	"reorg_responsibility_ambiguity": {
		SubjectPrefixes: []string{"Reorg: ", "Ownership ", "Transition "},
		Buzzwords:       []string{"New Structure", "RACI", "Team Charter", "Handover", "Reporting Lines", "Process Owners"},
		KeyPoints: []string{
			"new reporting lines",
			"process ownership after the reorg",
			"handover of in-flight projects",
			"decision rights",
			"team charters",
		},
		MiscommunicationElements: []string{
			"two teams assume the other owns the process",
			"outdated org chart referenced",
			"decision made by the wrong level",
			"handover never confirmed",
		},
		InitialEmails: []string{
			"With the new structure in place, {team} now owns {topic}. Please pick up {point} and have a plan by {deadline}.",
			"Post-reorg question on {topic}: who owns {point} now? I've been assuming it moved to {team}. We need clarity by {deadline}.",
		},
	},
	"strategic_pivot_messaging": {
		SubjectPrefixes: []string{"Strategy: ", "All Hands Follow-up ", "Pivot "},
		Buzzwords:       []string{"North Star", "FY Priorities", "Platform Shift", "Focus Areas", "OKR Reset", "Customer Segments"},
		KeyPoints: []string{
			"new company priorities",
			"projects to pause",
			"target customer segment",
			"revised OKRs",
			"external messaging",
		},
		MiscommunicationElements: []string{
			"strategy interpreted differently per department",
			"paused project still staffed",
			"leadership intent not cascaded",
			"conflicting priority rankings",
		},
		InitialEmails: []string{
			"Following the all hands on {topic}: effective immediately our focus is {point}. {team}, please share your revised plan by {deadline}.",
			"To clarify the leadership message on {topic}, {point} is now the priority. Everything else should be re-evaluated by {deadline}. {team}, please cascade this.",
		},
	},
	"merger_integration_breakdown": {
		SubjectPrefixes: []string{"Integration: ", "Merger ", "Day 100 "},
		Buzzwords:       []string{"Systems Consolidation", "Process Harmonization", "Combined Roadmap", "Tooling Migration", "Culture Sync", "Org Design"},
		KeyPoints: []string{
			"which process becomes the standard",
			"system migration timeline",
			"shared terminology",
			"duplicate role resolution",
			"integration governance",
		},
		MiscommunicationElements: []string{
			"same term means different things to each legacy org",
			"parallel processes kept running",
			"integration decision not communicated",
			"legacy reporting line assumed",
		},
		InitialEmails: []string{
			"As part of {topic}, we're standardizing on our process for {point}. {team}, please migrate your workflows by {deadline}.",
			"Integration update on {topic}: both legacy teams should converge on {point}. I'll assume {team} drives this unless flagged before {deadline}.",
		},
	},
	"company_wide_crisis_response": {
		SubjectPrefixes: []string{"INCIDENT: ", "Crisis Response ", "Outage "},
		Buzzwords:       []string{"Customer Communication", "Status Page", "Root Cause", "Recovery Plan", "Escalation", "Postmortem"},
		KeyPoints: []string{
			"incident commander",
			"customer-facing statement",
			"recovery timeline",
			"escalation path",
			"root cause analysis owner",
		},
		MiscommunicationElements: []string{
			"conflicting instructions from multiple leaders",
			"customer told different ETAs",
			"incident owner unclear",
			"information siloed in one team",
		},
		InitialEmails: []string{
			"We have a major incident affecting {topic}. {team} is leading on {point}. Next update by {deadline}. Do not communicate externally until then.",
			"Escalating {topic}. Customers are calling. I need {team} to own {point} right now and give me an ETA before {deadline}.",
		},
	},
}

// VocabularyFor returns the scenario's vocabulary, falling back to
// DefaultVocabulary field by field for anything it leaves empty.
func VocabularyFor(id string) Vocabulary {
	v, ok := Vocabularies[id]
	if !ok {
		return DefaultVocabulary
	}
	if len(v.SubjectPrefixes) == 0 {
		v.SubjectPrefixes = DefaultVocabulary.SubjectPrefixes
	}
	if len(v.Buzzwords) == 0 {
		v.Buzzwords = DefaultVocabulary.Buzzwords
	}
	if len(v.KeyPoints) == 0 {
		v.KeyPoints = DefaultVocabulary.KeyPoints
	}
	if len(v.MiscommunicationElements) == 0 {
		v.MiscommunicationElements = DefaultVocabulary.MiscommunicationElements
	}
	if len(v.Departments) == 0 {
		v.Departments = DefaultVocabulary.Departments
	}
	if len(v.InitialEmails) == 0 {
		v.InitialEmails = DefaultVocabulary.InitialEmails
	}
	return v
}
