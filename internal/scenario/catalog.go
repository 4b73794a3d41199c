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

// Package scenario holds the fixed catalog of miscommunication scenarios,
// the complexity-to-volume policy and the per-scenario vocabulary.
package scenario

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bcem/corpusgen/internal/models"
)

// Catalog is the ordered list of built-in scenarios, by increasing
// organisational scope.
var Catalog = []models.Scenario{
	{
		ID:              "marketing_campaign_interpretation",
		Name:            "Marketing Campaign Interpretation",
		Description:     "Marketing and Product read the same campaign brief differently and build toward different audiences.",
		ComplexityLevel: 1,
		KeyIssues:       []string{"different understanding of target audience", "unclear campaign objectives", "ambiguous launch date"},
		TimeSpan:        "2 weeks",
	},
	{
		ID:              "product_requirements_misalignment",
		Name:            "Product Requirements Misalignment",
		Description:     "Engineering implements a feature from an outdated spec while Product iterates on a newer version.",
		ComplexityLevel: 2,
		KeyIssues:       []string{"outdated requirements document", "scope creep", "missing acceptance criteria"},
		TimeSpan:        "3 weeks",
	},
	{
		ID:              "design_feedback_loop",
		Name:            "Design Feedback Loop",
		Description:     "Conflicting stakeholder feedback sends a design through endless revision cycles.",
		ComplexityLevel: 3,
		KeyIssues:       []string{"conflicting feedback", "no single decision maker", "revision fatigue"},
		TimeSpan:        "1 month",
	},
	{
		ID:              "sales_engineering_promise_gap",
		Name:            "Sales and Engineering Promise Gap",
		Description:     "Sales commits to customer features and dates that Engineering never agreed to.",
		ComplexityLevel: 4,
		KeyIssues:       []string{"unapproved customer commitments", "unrealistic delivery dates", "missing technical review"},
		TimeSpan:        "1 month",
	},
	{
		ID:              "cross_team_launch_coordination",
		Name:            "Cross-Team Launch Coordination",
		Description:     "Five teams prepare a launch with different assumptions about readiness criteria and ownership.",
		ComplexityLevel: 5,
		KeyIssues:       []string{"unclear ownership", "misaligned readiness criteria", "dependency blind spots", "status reporting gaps"},
		TimeSpan:        "6 weeks",
	},
	{
		ID:              "budget_approval_confusion",
		Name:            "Budget Approval Confusion",
		Description:     "Teams spend against budgets they believe are approved while Finance holds them pending review.",
		ComplexityLevel: 6,
		KeyIssues:       []string{"ambiguous approval status", "approval bottleneck", "conflicting spend forecasts"},
		TimeSpan:        "6 weeks",
	},
	{
		ID:              "reorg_responsibility_ambiguity",
		Name:            "Reorganization Responsibility Ambiguity",
		Description:     "After a reorg nobody is sure which team owns shared processes, so work stalls or is duplicated.",
		ComplexityLevel: 7,
		KeyIssues:       []string{"unclear reporting lines", "duplicated work", "orphaned processes", "decision paralysis"},
		TimeSpan:        "2 months",
	},
	{
		ID:              "strategic_pivot_messaging",
		Name:            "Strategic Pivot Messaging",
		Description:     "Leadership announces a pivot that each department translates into different priorities.",
		ComplexityLevel: 8,
		KeyIssues:       []string{"inconsistent interpretation of strategy", "priority conflicts", "top-down communication gaps"},
		TimeSpan:        "2 months",
	},
	{
		ID:              "merger_integration_breakdown",
		Name:            "Merger Integration Breakdown",
		Description:     "Two merged organisations keep parallel processes and vocabularies, causing repeated misunderstandings.",
		ComplexityLevel: 9,
		KeyIssues:       []string{"incompatible processes", "terminology mismatch", "resource contention", "cultural friction"},
		TimeSpan:        "3 months",
	},
	{
		ID:              "company_wide_crisis_response",
		Name:            "Company-Wide Crisis Response",
		Description:     "A production outage becomes a company-wide crisis as every department issues conflicting instructions.",
		ComplexityLevel: 10,
		KeyIssues:       []string{"conflicting instructions", "information silos", "escalation confusion", "customer messaging inconsistency"},
		TimeSpan:        "3 months",
	},
}

// Lookup returns the catalog scenario with the given ID.
func Lookup(id string) (models.Scenario, bool) {
	for _, s := range Catalog {
		if s.ID == id {
			return s, true
		}
	}
	return models.Scenario{}, false
}

// IDs returns the catalog scenario IDs in order.
func IDs() []string {
	out := make([]string, len(Catalog))
	for i, s := range Catalog {
		out[i] = s.ID
	}
	return out
}

// ParseTimeSpan parses "N day(s)|week(s)|month(s)" into a day count.
func ParseTimeSpan(span string) (int, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(span)))
	if len(fields) != 2 {
		return 0, fmt.Errorf("parse time span %q: want \"<n> <unit>\"", span)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("parse time span %q: invalid count", span)
	}
	switch strings.TrimSuffix(fields[1], "s") {
	case "day":
		return n, nil
	case "week":
		return n * 7, nil
	case "month":
		return n * 30, nil
	default:
		return 0, fmt.Errorf("parse time span %q: unknown unit %q", span, fields[1])
	}
}

// Window returns the generation window ending at end for the scenario's
// time span.
func Window(s models.Scenario, end time.Time) (models.TimeSpan, error) {
	days, err := ParseTimeSpan(s.TimeSpan)
	if err != nil {
		return models.TimeSpan{}, err
	}
	return models.TimeSpan{Start: end.AddDate(0, 0, -days), End: end}, nil
}
