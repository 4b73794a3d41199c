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

package models

import "strings"

// Communication styles drive template selection downstream.
const (
	StyleFormal     = "formal"
	StyleCasual     = "casual"
	StyleDirect     = "direct"
	StyleVerbose    = "verbose"
	StyleTechnical  = "technical"
	StyleDiplomatic = "diplomatic"
)

// CommunicationStyles lists every style in a stable order.
var CommunicationStyles = []string{
	StyleFormal,
	StyleCasual,
	StyleDirect,
	StyleVerbose,
	StyleTechnical,
	StyleDiplomatic,
}

// Department is a node of the company's department tree.
type Department struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ParentDepartment *string `json:"parent_department" jsonschema:"nullable"`
}

// Person is a member of staff.
type Person struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	DepartmentID       string  `json:"department_id"`
	Department         string  `json:"department"` // department name, read by the scoring layer
	Role               string  `json:"role"`
	Title              string  `json:"title"` // same as Role; the scoring layer reads "title"
	BossID             *string `json:"boss_id" jsonschema:"nullable"`
	CommunicationStyle string  `json:"communication_style"`
	Phone              string  `json:"phone,omitempty"`
}

// FirstName returns the first whitespace-separated token of the person's name.
func (p *Person) FirstName() string {
	first, _, _ := strings.Cut(strings.TrimSpace(p.Name), " ")
	return first
}

// Company is the root aggregate owning departments and persons.
type Company struct {
	Name        string       `json:"name"`
	Domain      string       `json:"domain"`
	Departments []Department `json:"departments"`
	Persons     []Person     `json:"persons"`
}

// Person returns the person with the given ID, or nil.
func (c *Company) Person(id string) *Person {
	for i := range c.Persons {
		if c.Persons[i].ID == id {
			return &c.Persons[i]
		}
	}
	return nil
}

// Department returns the department with the given ID, or nil.
func (c *Company) Department(id string) *Department {
	for i := range c.Departments {
		if c.Departments[i].ID == id {
			return &c.Departments[i]
		}
	}
	return nil
}

// DepartmentByName returns the first department with the given name, or nil.
func (c *Company) DepartmentByName(name string) *Department {
	for i := range c.Departments {
		if c.Departments[i].Name == name {
			return &c.Departments[i]
		}
	}
	return nil
}

// Members returns the persons of a department in roster order.
func (c *Company) Members(deptID string) []*Person {
	var out []*Person
	for i := range c.Persons {
		if c.Persons[i].DepartmentID == deptID {
			out = append(out, &c.Persons[i])
		}
	}
	return out
}

// Level returns how many boss links separate the person from the top of the
// hierarchy. Unknown IDs and cycles stop the walk.
func (c *Company) Level(id string) int {
	level := 0
	seen := map[string]bool{}
	for p := c.Person(id); p != nil && p.BossID != nil && !seen[p.ID]; p = c.Person(*p.BossID) {
		seen[p.ID] = true
		level++
	}
	return level
}
