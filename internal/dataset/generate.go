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

// Package dataset assembles complete generation runs: company, business
// threads, personal threads, stats and the ground-truth analysis.
package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bcem/corpusgen/internal/business"
	"github.com/bcem/corpusgen/internal/company"
	"github.com/bcem/corpusgen/internal/enhance"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/personal"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/scenario"
)

// ErrInvalidOptions is returned when a generation request fails validation.
var ErrInvalidOptions = errors.New("invalid generation options")

// DefaultReference is the window end used when Options.Reference is zero.
var DefaultReference = time.Date(2025, 6, 30, 17, 0, 0, 0, time.UTC)

// Options is the generation-options bundle for one dataset. Zero company,
// thread count and emails-per-thread values are taken from the scenario's
// volume policy.
type Options struct {
	Seed      uint64
	Reference time.Time

	Company         company.Options
	ThreadCount     int
	EmailsPerThread models.Range
	ChanceOfCC      float64
	MaxCCRecipients int
	TypoChance      float64

	Personal PersonalOptions

	// Registry, when set, is used instead of a fresh registry so that
	// personas carry over between runs. It is rebound to the run's source.
	Registry *relationship.Registry
}

// DefaultOptions returns the options used by the command line generator.
func DefaultOptions() Options {
	return Options{
		ChanceOfCC:      business.DefaultChanceOfCC,
		MaxCCRecipients: business.DefaultMaxCCRecipients,
		TypoChance:      business.DefaultTypoChance,
		Personal:        DefaultPersonalOptions(),
	}
}

func (o Options) validate() error {
	if o.ThreadCount < 0 {
		return fmt.Errorf("%w: thread count %d is negative", ErrInvalidOptions, o.ThreadCount)
	}
	if o.EmailsPerThread != (models.Range{}) && (!o.EmailsPerThread.Valid() || o.EmailsPerThread.Max < 1) {
		return fmt.Errorf("%w: emails per thread {min:%d max:%d}", ErrInvalidOptions, o.EmailsPerThread.Min, o.EmailsPerThread.Max)
	}
	if o.Company.DepartmentCount != 0 {
		if err := o.Company.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}
	return o.Personal.Validate()
}

// Generate builds one complete dataset for a scenario. All configuration is
// validated before any generation starts; a fixed seed reproduces the
// dataset exactly.
func Generate(sc models.Scenario, opts Options) (*models.Dataset, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	vol, err := scenario.ForComplexity(sc.ComplexityLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	ref := opts.Reference
	if ref.IsZero() {
		ref = DefaultReference
	}
	window, err := scenario.Window(sc, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	companyOpts := opts.Company
	if companyOpts.DepartmentCount == 0 {
		companyOpts.DepartmentCount = vol.DepartmentCount
		companyOpts.EmployeesPerDepartment = vol.EmployeesPerDepartment
	}
	if err := companyOpts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	bizOpts := business.Options{
		ThreadCount:     opts.ThreadCount,
		EmailsPerThread: opts.EmailsPerThread,
		TimeSpan:        window,
		ChanceOfCC:      opts.ChanceOfCC,
		MaxCCRecipients: opts.MaxCCRecipients,
		TypoChance:      opts.TypoChance,
		AccidentalRate:  opts.Personal.accidentalRate(),
		Categories:      opts.Personal.categories(),
	}
	if bizOpts.ThreadCount == 0 {
		bizOpts.ThreadCount = vol.ThreadCount
	}
	if bizOpts.EmailsPerThread == (models.Range{}) {
		bizOpts.EmailsPerThread = vol.EmailsPerThread
	}
	if err := bizOpts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	rnd := rng.New(opts.Seed)

	c, err := company.NewSynthesizer(rnd).Synthesize(companyOpts)
	if err != nil {
		return nil, fmt.Errorf("synthesizing company: %w", err)
	}

	registry := opts.Registry
	if registry == nil {
		registry = relationship.NewRegistry(rnd, window.Start)
	} else {
		registry.Bind(rnd)
	}

	enh := enhance.New(rnd, enhance.DefaultProbabilities())
	ps := personal.NewSynthesizer(rnd, enh, registry)
	var injector *personal.Synthesizer
	if opts.Personal.Enabled {
		injector = ps
	}

	biz, err := business.NewSynthesizer(rnd, enh, injector).Generate(sc, c, bizOpts)
	if err != nil {
		return nil, fmt.Errorf("generating business threads: %w", err)
	}

	ds, stats, err := NewAssembler(rnd, ps).Assemble(c, biz, opts.Personal, window)
	if err != nil {
		return nil, fmt.Errorf("assembling dataset: %w", err)
	}

	runID, err := uuid.NewRandomFromReader(rnd)
	if err != nil {
		return nil, fmt.Errorf("generating run id: %w", err)
	}
	ds.Analysis = &models.Analysis{
		RunID:                    runID.String(),
		Seed:                     opts.Seed,
		Scenario:                 sc,
		Stats:                    stats,
		MiscommunicationAnalysis: Analyze(sc, ds),
	}

	slog.Info("dataset generated",
		"scenario", sc.ID,
		"run_id", ds.Analysis.RunID,
		"seed", opts.Seed,
		"persons", len(c.Persons),
		"threads", stats.TotalThreads,
		"emails", stats.TotalEmails,
		"personal_pct", stats.PersonalPercentage,
		"skipped", stats.SkippedSteps,
	)
	return ds, nil
}

// Analyze builds the ground-truth miscommunication analysis: the
// departments that took part in business mail carrying miscommunication
// elements, and how often each element was embedded.
func Analyze(sc models.Scenario, ds *models.Dataset) models.MiscommunicationAnalysis {
	c := &ds.Raw.Company
	touched := map[string]bool{}
	counts := map[string]int{}

	for _, e := range ds.Raw.Emails {
		if e.IsPersonal() || len(e.Metadata.MiscommunicationElements) == 0 {
			continue
		}
		for _, el := range e.Metadata.MiscommunicationElements {
			counts[el]++
		}
		for _, id := range e.Actors() {
			if p := c.Person(id); p != nil {
				touched[p.DepartmentID] = true
			}
		}
	}

	affected := []string{}
	for _, d := range c.Departments {
		if touched[d.ID] {
			affected = append(affected, d.Name)
		}
	}

	elements := make([]models.ElementCount, 0, len(counts))
	for el, n := range counts {
		elements = append(elements, models.ElementCount{Element: el, Count: n})
	}
	sort.Slice(elements, func(i, j int) bool {
		if elements[i].Count != elements[j].Count {
			return elements[i].Count > elements[j].Count
		}
		return elements[i].Element < elements[j].Element
	})

	return models.MiscommunicationAnalysis{
		ScenarioComplexity:  sc.ComplexityLevel,
		KeyIssues:           append([]string{}, sc.KeyIssues...),
		AffectedDepartments: affected,
		EmbeddedElements:    elements,
	}
}
