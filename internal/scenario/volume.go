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

import (
	"fmt"

	"github.com/bcem/corpusgen/internal/models"
)

const (
	MinComplexity = 1
	MaxComplexity = 10
)

// Volume holds the generation parameters for one complexity level.
type Volume struct {
	ThreadCount            int
	EmailsPerThread        models.Range
	DepartmentCount        int
	EmployeesPerDepartment models.Range
	// TargetEmails is the nominal total email band for the level. The upper
	// band is open-ended; its Max is indicative only.
	TargetEmails models.Range
}

// ForComplexity returns the volume policy for a complexity level:
//
//	1-3:  threads 25+5L, 4-7 emails/thread  (150-200 emails)
//	4-6:  threads 40+5L, 5-9 emails/thread  (250-400 emails)
//	7-10: threads 50+10L, 7-15 emails/thread (500-1000+ emails)
//
// Departments are 3+min(L,6); staff per department is {3+L, 5+2L}.
func ForComplexity(level int) (Volume, error) {
	if level < MinComplexity || level > MaxComplexity {
		return Volume{}, fmt.Errorf("complexity level %d outside [%d,%d]", level, MinComplexity, MaxComplexity)
	}

	v := Volume{
		DepartmentCount:        3 + min(level, 6),
		EmployeesPerDepartment: models.Range{Min: 3 + level, Max: 5 + level*2},
	}

	switch {
	case level <= 3:
		v.ThreadCount = 25 + level*5
		v.EmailsPerThread = models.Range{Min: 4, Max: 7}
		v.TargetEmails = models.Range{Min: 150, Max: 200}
	case level <= 6:
		v.ThreadCount = 40 + level*5
		v.EmailsPerThread = models.Range{Min: 5, Max: 9}
		v.TargetEmails = models.Range{Min: 250, Max: 400}
	default:
		v.ThreadCount = 50 + level*10
		v.EmailsPerThread = models.Range{Min: 7, Max: 15}
		v.TargetEmails = models.Range{Min: 500, Max: 1000}
	}
	return v, nil
}

// Participant department mixes by complexity band.
var (
	midComplexityDepartments  = []string{"Marketing", "Product", "Engineering", "Design", "Sales"}
	highComplexityDepartments = []string{"Executive", "Marketing", "Product", "Engineering", "Sales", "Finance", "HR"}
)

// ParticipantDepartments returns the department names thread participants
// are drawn from, one participant per entry. Low-complexity scenarios use
// their vocabulary's skewed three-person mix.
func ParticipantDepartments(s models.Scenario) []string {
	switch {
	case s.ComplexityLevel <= 3:
		return VocabularyFor(s.ID).Departments
	case s.ComplexityLevel <= 6:
		return midComplexityDepartments
	default:
		return highComplexityDepartments
	}
}
