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

// Package batch generates a list of scenarios in one run and delivers each
// dataset to the configured sinks: files, Postgres and the scoring queue.
package batch

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/bcem/corpusgen/internal/dataset"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/rng"
	"github.com/bcem/corpusgen/internal/validate"
)

// Writer persists a dataset to files.
type Writer interface {
	Write(ds *models.Dataset) ([]string, error)
}

// Store persists a dataset to a database.
type Store interface {
	SaveDataset(ctx context.Context, ds *models.Dataset) error
}

// Publisher hands a dataset's emails to downstream workers.
type Publisher interface {
	PublishDataset(ctx context.Context, ds *models.Dataset) (int, error)
}

// RelationshipStore persists relationship records between processes.
type RelationshipStore interface {
	Load(ctx context.Context) (map[string]models.Relationship, error)
	Save(ctx context.Context, records map[string]models.Relationship) (int, error)
}

// GenerateFunc builds one dataset.
type GenerateFunc func(sc models.Scenario, opts dataset.Options) (*models.Dataset, error)

// Request defines the scope of a batch run.
type Request struct {
	Scenarios []models.Scenario
	// Options is the base generation options. Each scenario gets its own
	// seed derived from Options.Seed and the scenario ID.
	Options dataset.Options
}

// Result summarises a completed batch run.
type Result struct {
	ScenarioResults []ScenarioResult
	TotalEmails     int
	TotalThreads    int
	TotalPublished  int
	Failed          int
	Relationships   int
	Elapsed         time.Duration
}

// ScenarioResult tracks the outcome for one scenario.
type ScenarioResult struct {
	ScenarioID string
	RunID      string
	Seed       uint64
	Emails     int
	Threads    int
	Published  int
	Files      []string
	Errors     int
}

// Runner generates scenarios and fans the datasets out to sinks.
type Runner struct {
	generate      GenerateFunc
	writer        Writer
	store         Store
	publisher     Publisher
	relationships RelationshipStore
	share         bool
	verify        bool
}

// RunnerConfig holds dependencies for the batch runner. Nil sinks are
// skipped.
type RunnerConfig struct {
	Generate      GenerateFunc
	Writer        Writer
	Store         Store
	Publisher     Publisher
	Relationships RelationshipStore
	// ShareRelationships keeps one relationship registry across every
	// scenario of the run. It is implied by Relationships.
	ShareRelationships bool
	// Verify runs the dataset checker and drops datasets that fail it.
	Verify bool
}

// NewRunner creates a batch runner.
func NewRunner(cfg RunnerConfig) *Runner {
	gen := cfg.Generate
	if gen == nil {
		gen = dataset.Generate
	}
	return &Runner{
		generate:      gen,
		writer:        cfg.Writer,
		store:         cfg.Store,
		publisher:     cfg.Publisher,
		relationships: cfg.Relationships,
		share:         cfg.ShareRelationships || cfg.Relationships != nil,
		verify:        cfg.Verify,
	}
}

// ScenarioSeed derives the seed one scenario is generated with, so a
// scenario's dataset does not depend on which other scenarios share the run.
func ScenarioSeed(seed uint64, scenarioID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(scenarioID))
	return seed ^ h.Sum64()
}

// Run generates every requested scenario. A failing scenario is recorded
// and the run continues; only cancellation aborts it.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	slog.Info("starting batch generation",
		"scenarios", len(req.Scenarios),
		"seed", req.Options.Seed,
		"share_relationships", r.share,
	)

	var registry *relationship.Registry
	if r.share {
		ref := req.Options.Reference
		if ref.IsZero() {
			ref = dataset.DefaultReference
		}
		registry = relationship.NewRegistry(rng.New(req.Options.Seed), ref)
		if err := r.loadRelationships(ctx, registry); err != nil {
			slog.Warn("relationship preload failed", "error", err)
		}
	}

	result := &Result{}
	for _, sc := range req.Scenarios {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		opts := req.Options
		opts.Seed = ScenarioSeed(req.Options.Seed, sc.ID)
		opts.Registry = registry

		sr := r.runScenario(ctx, sc, opts)
		result.ScenarioResults = append(result.ScenarioResults, sr)
		result.TotalEmails += sr.Emails
		result.TotalThreads += sr.Threads
		result.TotalPublished += sr.Published
		if sr.Errors > 0 {
			result.Failed++
		}
	}

	if registry != nil {
		result.Relationships = registry.Len()
		if err := r.saveRelationships(ctx, registry); err != nil {
			slog.Warn("relationship save failed", "error", err)
		}
	}

	result.Elapsed = time.Since(start)

	slog.Info("batch generation complete",
		"scenarios", len(result.ScenarioResults),
		"failed", result.Failed,
		"total_emails", result.TotalEmails,
		"total_threads", result.TotalThreads,
		"published", result.TotalPublished,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// runScenario generates one dataset and delivers it to every sink,
// counting sink failures without stopping.
func (r *Runner) runScenario(ctx context.Context, sc models.Scenario, opts dataset.Options) ScenarioResult {
	sr := ScenarioResult{ScenarioID: sc.ID, Seed: opts.Seed}

	ds, err := r.generate(sc, opts)
	if err != nil {
		slog.Error("generation failed", "scenario", sc.ID, "error", err)
		sr.Errors++
		return sr
	}
	if ds.Analysis != nil {
		sr.RunID = ds.Analysis.RunID
	}
	sr.Emails = len(ds.Raw.Emails)
	sr.Threads = len(ds.Raw.Threads)

	if r.verify {
		if errs := validate.Check(ds); len(errs) > 0 {
			slog.Error("dataset failed verification",
				"scenario", sc.ID,
				"violations", len(errs),
				"first", errs[0].Error(),
			)
			sr.Errors++
			return sr
		}
	}

	if r.writer != nil {
		files, err := r.writer.Write(ds)
		if err != nil {
			slog.Warn("write failed", "scenario", sc.ID, "error", err)
			sr.Errors++
		}
		sr.Files = files
	}

	if r.store != nil {
		if err := r.store.SaveDataset(ctx, ds); err != nil {
			slog.Warn("store failed", "scenario", sc.ID, "error", err)
			sr.Errors++
		}
	}

	if r.publisher != nil {
		n, err := r.publisher.PublishDataset(ctx, ds)
		if err != nil {
			slog.Warn("publish failed", "scenario", sc.ID, "error", err)
			sr.Errors++
		}
		sr.Published = n
	}

	slog.Info("scenario complete",
		"scenario", sc.ID,
		"run_id", sr.RunID,
		"emails", sr.Emails,
		"threads", sr.Threads,
		"published", sr.Published,
		"errors", sr.Errors,
	)
	return sr
}

func (r *Runner) loadRelationships(ctx context.Context, registry *relationship.Registry) error {
	if r.relationships == nil {
		return nil
	}
	records, err := r.relationships.Load(ctx)
	if err != nil {
		return fmt.Errorf("load relationships: %w", err)
	}
	added := registry.Restore(records)
	slog.Info("relationships preloaded", "records", added)
	return nil
}

func (r *Runner) saveRelationships(ctx context.Context, registry *relationship.Registry) error {
	if r.relationships == nil {
		return nil
	}
	n, err := r.relationships.Save(ctx, registry.Snapshot())
	if err != nil {
		return fmt.Errorf("save relationships: %w", err)
	}
	slog.Info("relationships saved", "new_records", n, "total", registry.Len())
	return nil
}
