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

// Package company synthesizes a fictitious organisation: a department tree
// and a staffed roster with roles, boss links and communication styles.
package company

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/template"
)

// ErrInvalidOptions is returned for malformed synthesis options.
var ErrInvalidOptions = errors.New("invalid company options")

const (
	MinDepartments = 2
	MaxDepartments = 15

	// DefaultParentProbability is the chance a non-root department is
	// parented to the root.
	DefaultParentProbability = 0.5
)

// Options controls company synthesis. Name and Domain are generated when empty.
type Options struct {
	Name                   string
	Domain                 string
	DepartmentCount        int
	EmployeesPerDepartment models.Range
}

// Validate rejects malformed options before any generation happens.
func (o Options) Validate() error {
	if o.DepartmentCount < MinDepartments || o.DepartmentCount > MaxDepartments {
		return fmt.Errorf("%w: department count %d outside [%d,%d]", ErrInvalidOptions, o.DepartmentCount, MinDepartments, MaxDepartments)
	}
	if o.EmployeesPerDepartment.Min < 1 || o.EmployeesPerDepartment.Max < o.EmployeesPerDepartment.Min {
		return fmt.Errorf("%w: employees per department {min:%d max:%d}", ErrInvalidOptions, o.EmployeesPerDepartment.Min, o.EmployeesPerDepartment.Max)
	}
	// Name and domain end up in rendered signatures and addresses.
	if template.HasPlaceholder(o.Name) {
		return fmt.Errorf("%w: company name %q contains a placeholder", ErrInvalidOptions, o.Name)
	}
	if template.HasPlaceholder(o.Domain) {
		return fmt.Errorf("%w: company domain %q contains a placeholder", ErrInvalidOptions, o.Domain)
	}
	return nil
}

// Synthesizer builds companies from a random source.
type Synthesizer struct {
	rnd               *rng.Source
	ParentProbability float64
}

// NewSynthesizer creates a company synthesizer drawing from rnd.
func NewSynthesizer(rnd *rng.Source) *Synthesizer {
	return &Synthesizer{
		rnd:               rnd,
		ParentProbability: DefaultParentProbability,
	}
}

// Synthesize builds a company. The first department is the root; its first
// person is the root executive every parented department head reports to.
func (s *Synthesizer) Synthesize(opts Options) (*models.Company, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &models.Company{
		Name:   opts.Name,
		Domain: opts.Domain,
	}
	if c.Name == "" {
		c.Name = rng.Pick(s.rnd, companyPrefixes) + " " + rng.Pick(s.rnd, companySuffixes)
	}
	if c.Domain == "" {
		c.Domain = DomainFor(c.Name)
	}

	for i := 0; i < opts.DepartmentCount; i++ {
		d := models.Department{
			ID:   fmt.Sprintf("dept_%d", i+1),
			Name: departmentName(i),
		}
		if i > 0 && s.rnd.Chance(s.ParentProbability) {
			root := c.Departments[0].ID
			d.ParentDepartment = &root
		}
		c.Departments = append(c.Departments, d)
	}

	usedEmails := map[string]bool{}
	var rootExec *string
	for _, d := range c.Departments {
		count := s.rnd.IntRange(opts.EmployeesPerDepartment.Min, opts.EmployeesPerDepartment.Max)
		var headID string
		for j := 0; j < count; j++ {
			p := s.newPerson(len(c.Persons)+1, c, d, usedEmails)
			if j == 0 {
				p.Role = headRole(d.Name)
				if d.ParentDepartment != nil && rootExec != nil {
					boss := *rootExec
					p.BossID = &boss
				}
				headID = p.ID
				if rootExec == nil {
					id := p.ID
					rootExec = &id
				}
			} else {
				p.Role = rng.Pick(s.rnd, rolesFor(d.Name))
				boss := headID
				p.BossID = &boss
			}
			p.Title = p.Role
			c.Persons = append(c.Persons, p)
		}
	}

	slog.Debug("company synthesized",
		"company", c.Name,
		"departments", len(c.Departments),
		"persons", len(c.Persons),
	)

	return c, nil
}

func (s *Synthesizer) newPerson(n int, c *models.Company, d models.Department, used map[string]bool) models.Person {
	first := rng.Pick(s.rnd, FirstNames)
	last := rng.Pick(s.rnd, LastNames)

	local := strings.ToLower(first + "." + last)
	email := local + "@" + c.Domain
	for k := 2; used[email]; k++ {
		email = fmt.Sprintf("%s%d@%s", local, k, c.Domain)
	}
	used[email] = true

	return models.Person{
		ID:                 fmt.Sprintf("emp_%d", n),
		Name:               first + " " + last,
		Email:              email,
		DepartmentID:       d.ID,
		Department:         d.Name,
		CommunicationStyle: rng.Pick(s.rnd, models.CommunicationStyles),
		Phone:              fmt.Sprintf("+1-555-%03d-%04d", s.rnd.Intn(1000), s.rnd.Intn(10000)),
	}
}

// DomainFor derives an email domain from a company name.
func DomainFor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "example.com"
	}
	return b.String() + ".com"
}

func departmentName(i int) string {
	if i < len(DepartmentNames) {
		return DepartmentNames[i]
	}
	return fmt.Sprintf("Division %d", i+1)
}

func headRole(dept string) string {
	if r, ok := headRoles[dept]; ok {
		return r
	}
	return "Director"
}

func rolesFor(dept string) []string {
	if r, ok := memberRoles[dept]; ok {
		return r
	}
	return genericRoles
}
