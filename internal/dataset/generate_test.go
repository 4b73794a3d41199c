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

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/bcem/corpusgen/internal/company"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/scenario"
	"github.com/bcem/corpusgen/internal/template"
)

func lookup(t *testing.T, id string) models.Scenario {
	t.Helper()
	s, ok := scenario.Lookup(id)
	if !ok {
		t.Fatalf("scenario %s not found", id)
	}
	return s
}

func marshal(t *testing.T, ds *models.Dataset) []byte {
	t.Helper()
	b, err := json.Marshal(ds)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return b
}

// TestGenerate_Deterministic verifies a seed reproduces a dataset byte for
// byte and a different seed does not.
func TestGenerate_Deterministic(t *testing.T) {
	sc := lookup(t, "product_requirements_misalignment")
	opts := DefaultOptions()
	opts.Seed = 42

	first, err := Generate(sc, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(sc, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(marshal(t, first), marshal(t, second)) {
		t.Error("same seed produced different datasets")
	}

	opts.Seed = 43
	other, err := Generate(sc, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(marshal(t, first), marshal(t, other)) {
		t.Error("different seeds produced identical datasets")
	}
	if first.Analysis.RunID == other.Analysis.RunID {
		t.Error("different seeds produced the same run id")
	}
	if _, err := uuid.Parse(first.Analysis.RunID); err != nil {
		t.Errorf("run id %q is not a uuid: %v", first.Analysis.RunID, err)
	}
}

// TestGenerate_VolumePolicy checks every catalog scenario against its
// complexity band.
func TestGenerate_VolumePolicy(t *testing.T) {
	for i, sc := range scenario.Catalog {
		t.Run(sc.ID, func(t *testing.T) {
			vol, err := scenario.ForComplexity(sc.ComplexityLevel)
			if err != nil {
				t.Fatal(err)
			}
			opts := DefaultOptions()
			opts.Seed = uint64(100 + i)

			ds, err := Generate(sc, opts)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			c := ds.Raw.Company
			if len(c.Departments) != vol.DepartmentCount {
				t.Errorf("departments = %d, want %d", len(c.Departments), vol.DepartmentCount)
			}
			for _, d := range c.Departments {
				n := len(c.Members(d.ID))
				if n < vol.EmployeesPerDepartment.Min || n > vol.EmployeesPerDepartment.Max {
					t.Errorf("department %s has %d staff, want %d-%d", d.Name, n, vol.EmployeesPerDepartment.Min, vol.EmployeesPerDepartment.Max)
				}
			}

			st := ds.Analysis.Stats
			if st.BusinessThreads != vol.ThreadCount {
				t.Errorf("business threads = %d, want %d", st.BusinessThreads, vol.ThreadCount)
			}
			for _, th := range ds.Raw.Threads[:vol.ThreadCount] {
				n := len(th.EmailIDs)
				if n < vol.EmailsPerThread.Min || n > vol.EmailsPerThread.Max {
					t.Errorf("thread %s has %d emails, want %d-%d", th.ID, n, vol.EmailsPerThread.Min, vol.EmailsPerThread.Max)
				}
			}
			biz := st.TotalEmails - (st.PersonalEmails - st.AccidentalEmails)
			if biz < vol.ThreadCount*vol.EmailsPerThread.Min || biz > vol.ThreadCount*vol.EmailsPerThread.Max {
				t.Errorf("business-thread emails = %d outside the band", biz)
			}

			ma := ds.Analysis.MiscommunicationAnalysis
			if ma.ScenarioComplexity != sc.ComplexityLevel {
				t.Errorf("scenario_complexity = %d, want %d", ma.ScenarioComplexity, sc.ComplexityLevel)
			}
			if len(ma.AffectedDepartments) == 0 || len(ma.EmbeddedElements) == 0 {
				t.Error("analysis has no affected departments or embedded elements")
			}
		})
	}
}

// TestGenerate_Invariants checks references, ordering and placeholders on a
// mixed dataset.
func TestGenerate_Invariants(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 7
	opts.Personal.AccidentalRate = 0.2
	ds, err := Generate(lookup(t, "cross_team_launch_coordination"), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	c := &ds.Raw.Company
	threads := map[string]bool{}
	for _, th := range ds.Raw.Threads {
		threads[th.ID] = true
	}
	for _, e := range ds.Raw.Emails {
		for _, id := range e.Actors() {
			if c.Person(id) == nil {
				t.Errorf("email %s references unknown person %s", e.ID, id)
			}
		}
		if !threads[e.ThreadID] {
			t.Errorf("email %s references unknown thread %s", e.ID, e.ThreadID)
		}
		if template.HasPlaceholder(e.Body) || template.HasPlaceholder(e.Subject) {
			t.Errorf("email %s leaked %v", e.ID, template.FindPlaceholders(e.Body+e.Subject))
		}
	}
	for _, th := range ds.Raw.Threads {
		emails := ds.ThreadEmails(th.ID)
		if len(emails) != len(th.EmailIDs) {
			t.Fatalf("thread %s lists %d ids but resolves %d", th.ID, len(th.EmailIDs), len(emails))
		}
		for i := 1; i < len(emails); i++ {
			if emails[i].Timestamp.Before(emails[i-1].Timestamp) {
				t.Errorf("thread %s goes back in time at %d", th.ID, i)
			}
		}
		if !th.StartTime.Equal(emails[0].Timestamp) || !th.EndTime.Equal(emails[len(emails)-1].Timestamp) {
			t.Errorf("thread %s start/end mismatch", th.ID)
		}
	}
	if ds.Analysis.Stats.AccidentalEmails == 0 {
		t.Error("expected accidental emails at a 0.2 rate")
	}
}

// TestGenerate_Overrides verifies explicit company and thread options win
// over the volume policy.
func TestGenerate_Overrides(t *testing.T) {
	opts := DefaultOptions()
	opts.Company = company.Options{Name: "Initech", DepartmentCount: 4, EmployeesPerDepartment: models.Range{Min: 3, Max: 3}}
	opts.ThreadCount = 5
	opts.EmailsPerThread = models.Range{Min: 3, Max: 3}
	opts.Personal = PersonalOptions{Enabled: true, Frequency: 0.2, MinThreads: 1, MaxThreads: 2}

	ds, err := Generate(lookup(t, "marketing_campaign_interpretation"), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ds.Raw.Company.Name != "Initech" || len(ds.Raw.Company.Persons) != 12 {
		t.Errorf("company = %s with %d persons", ds.Raw.Company.Name, len(ds.Raw.Company.Persons))
	}
	if got := len(ds.Raw.Threads); got != 6 {
		t.Errorf("threads = %d, want 6", got)
	}
}

func TestGenerate_InvalidOptions(t *testing.T) {
	valid := lookup(t, "marketing_campaign_interpretation")
	tests := []struct {
		name   string
		sc     models.Scenario
		mutate func(*Options)
	}{
		{"complexity", models.Scenario{ID: "x", ComplexityLevel: 0, TimeSpan: "2 weeks"}, func(*Options) {}},
		{"time span", models.Scenario{ID: "x", ComplexityLevel: 2, TimeSpan: "a while"}, func(*Options) {}},
		{"negative threads", valid, func(o *Options) { o.ThreadCount = -1 }},
		{"department count", valid, func(o *Options) { o.Company.DepartmentCount = 1 }},
		{"placeholder in company name", valid, func(o *Options) {
			o.Company = company.Options{Name: "Acme {labs}", DepartmentCount: 4, EmployeesPerDepartment: models.Range{Min: 3, Max: 3}}
		}},
		{"placeholder in defaulted company", valid, func(o *Options) { o.Company.Name = "{brand} Corp" }},
		{"frequency", valid, func(o *Options) { o.Personal.Frequency = 2 }},
		{"category", valid, func(o *Options) { o.Personal.Categories = []string{"gossip"} }},
		{"personal range", valid, func(o *Options) { o.Personal.MinThreads, o.Personal.MaxThreads = 3, 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if _, err := Generate(tt.sc, opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Generate() error = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

// TestGenerate_SharedRegistry verifies a shared registry keeps personas
// across runs.
func TestGenerate_SharedRegistry(t *testing.T) {
	reg := relationship.NewRegistry(rng.New(0), DefaultReference)
	opts := DefaultOptions()
	opts.Registry = reg
	opts.Personal.MinThreads = 3

	if _, err := Generate(lookup(t, "marketing_campaign_interpretation"), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	after := reg.Len()
	if after == 0 {
		t.Fatal("shared registry is empty after a run")
	}
	snap := reg.Snapshot()

	if _, err := Generate(lookup(t, "marketing_campaign_interpretation"), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for k, rel := range snap {
		got, ok := reg.Snapshot()[k]
		if !ok || got.Context["colleague"] != rel.Context["colleague"] {
			t.Errorf("pair %s changed between runs", k)
		}
	}
}

// TestGenerate_PersonalCategoryMatchesRelationship verifies every personal
// email carries the category memoized for its pair.
func TestGenerate_PersonalCategoryMatchesRelationship(t *testing.T) {
	for _, sc := range scenario.Catalog {
		reg := relationship.NewRegistry(rng.New(0), DefaultReference)
		opts := DefaultOptions()
		opts.Seed = 5
		opts.Registry = reg
		opts.Personal.AccidentalRate = 0.2

		ds, err := Generate(sc, opts)
		if err != nil {
			t.Fatalf("%s: Generate: %v", sc.ID, err)
		}
		c := &ds.Raw.Company
		for _, e := range ds.Raw.Emails {
			if !e.IsPersonal() {
				continue
			}
			rel, ok := reg.Get(c.Person(e.From), c.Person(e.To[0]))
			if !ok {
				t.Errorf("%s: email %s has no relationship", sc.ID, e.ID)
				continue
			}
			if e.Metadata.Category != rel.Category {
				t.Errorf("%s: email %s category = %q, relationship = %q", sc.ID, e.ID, e.Metadata.Category, rel.Category)
			}
		}
	}
}

// TestGenerate_SharedRegistryAcrossCompanies verifies records carried over
// from another company's run never name people outside the current roster.
func TestGenerate_SharedRegistryAcrossCompanies(t *testing.T) {
	reg := relationship.NewRegistry(rng.New(0), DefaultReference)
	opts := DefaultOptions()
	opts.Registry = reg
	opts.Personal.AccidentalRate = 0.2

	opts.Company.Name = "Initech"
	if _, err := Generate(lookup(t, "marketing_campaign_interpretation"), opts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	opts.Company.Name = "Globex"
	opts.Seed = 2
	ds, err := Generate(lookup(t, "product_requirements_misalignment"), opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	c := &ds.Raw.Company
	roster := map[string]bool{}
	for _, p := range c.Persons {
		roster[p.Name] = true
	}
	checked := 0
	for _, e := range ds.Raw.Emails {
		if !e.IsPersonal() {
			continue
		}
		rel, ok := reg.Get(c.Person(e.From), c.Person(e.To[0]))
		if !ok {
			t.Fatalf("email %s has no relationship", e.ID)
		}
		if !roster[rel.Context["colleague"]] {
			t.Errorf("email %s relationship names %q, not a %s employee", e.ID, rel.Context["colleague"], c.Name)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("second run produced no personal emails")
	}
}

func TestAnalyze(t *testing.T) {
	ds := &models.Dataset{Raw: models.Raw{
		Company: models.Company{
			Departments: []models.Department{{ID: "dept_1", Name: "Executive"}, {ID: "dept_2", Name: "Marketing"}, {ID: "dept_3", Name: "Sales"}},
			Persons: []models.Person{
				{ID: "emp_1", DepartmentID: "dept_1"},
				{ID: "emp_2", DepartmentID: "dept_2"},
				{ID: "emp_3", DepartmentID: "dept_3"},
			},
		},
		Emails: []models.Email{
			{ID: "email_1", From: "emp_1", To: []string{"emp_3"}},
			{ID: "email_2", From: "emp_3", To: []string{"emp_2"}, Metadata: models.Metadata{MiscommunicationElements: []string{"b", "a"}}},
			{ID: "email_3", From: "emp_2", To: []string{"emp_3"}, Metadata: models.Metadata{MiscommunicationElements: []string{"b"}}},
			{ID: "email_4", From: "emp_1", To: []string{"emp_2"}, Metadata: models.Metadata{Personal: true, MiscommunicationElements: []string{"c"}}},
		},
	}}
	sc := models.Scenario{ComplexityLevel: 3, KeyIssues: []string{"x"}}

	ma := Analyze(sc, ds)
	if len(ma.AffectedDepartments) != 2 || ma.AffectedDepartments[0] != "Marketing" || ma.AffectedDepartments[1] != "Sales" {
		t.Errorf("AffectedDepartments = %v, want [Marketing Sales]", ma.AffectedDepartments)
	}
	want := []models.ElementCount{{Element: "b", Count: 2}, {Element: "a", Count: 1}}
	if len(ma.EmbeddedElements) != len(want) {
		t.Fatalf("EmbeddedElements = %v, want %v", ma.EmbeddedElements, want)
	}
	for i := range want {
		if ma.EmbeddedElements[i] != want[i] {
			t.Errorf("EmbeddedElements[%d] = %v, want %v", i, ma.EmbeddedElements[i], want[i])
		}
	}
}
