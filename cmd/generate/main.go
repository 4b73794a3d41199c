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

// Corpus Generator: command line launcher
//
// Generates synthetic corporate email datasets for one scenario or the
// whole catalog and delivers them to JSON files, and optionally to
// Postgres and the Redis scoring queue.
//
// Usage:
//
//	go run ./cmd/generate/ --scenario all [--seed 42] [--out data] [--verify] [--publish]
//	go run ./cmd/generate/ --runs 20 | --show-run ID | --delete-run ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/bcem/corpusgen/internal/batch"
	"github.com/bcem/corpusgen/internal/config"
	"github.com/bcem/corpusgen/internal/dedup"
	"github.com/bcem/corpusgen/internal/models"
	"github.com/bcem/corpusgen/internal/queue"
	"github.com/bcem/corpusgen/internal/relationship"
	"github.com/bcem/corpusgen/internal/scenario"
	"github.com/bcem/corpusgen/internal/store"
	"github.com/bcem/corpusgen/internal/writer"
)

func main() {
	if err := run(); err != nil {
		slog.Error("corpus generation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- CLI Flags ---
	scenarioFlag := flag.String("scenario", "all", "Scenario ID to generate, or \"all\"")
	seedFlag := flag.Uint64("seed", 0, "Base random seed (overrides config)")
	outFlag := flag.String("out", "", "Output directory (overrides config)")
	configFlag := flag.String("config", "", "Path to config.yaml (overrides CONFIG_PATH)")
	prettyFlag := flag.Bool("pretty", true, "Indent JSON output")
	rawFlag := flag.Bool("raw", false, "Also write <scenario>_raw.json with only the raw section")
	schemaFlag := flag.Bool("schema", false, "Write dataset.schema.json next to the datasets")
	listFlag := flag.Bool("list", false, "Print the scenario catalog and exit")
	verifyFlag := flag.Bool("verify", false, "Check every dataset and drop those with violations")
	publishFlag := flag.Bool("publish", false, "Push generated emails to the Redis scoring queue")
	shareFlag := flag.Bool("share-personas", false, "Keep one relationship registry across all scenarios")
	runsFlag := flag.Int("runs", 0, "List the N most recent runs stored in Postgres and exit")
	showRunFlag := flag.String("show-run", "", "Print one stored run and exit")
	deleteRunFlag := flag.String("delete-run", "", "Delete one stored run and exit")
	levelFlag := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(*levelFlag),
	}))
	slog.SetDefault(logger)

	if *listFlag {
		printCatalog()
		return nil
	}

	query := runQuery{List: *runsFlag, Show: *showRunFlag, Delete: *deleteRunFlag}

	var scenarios []models.Scenario
	if !query.active() {
		var err error
		scenarios, err = resolveScenarios(*scenarioFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			flag.Usage()
			return err
		}
	}

	// --- Load Configuration ---
	if *configFlag != "" {
		os.Setenv("CONFIG_PATH", *configFlag)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Flags given explicitly win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.Seed = *seedFlag
		case "out":
			cfg.OutputDir = *outFlag
		case "pretty":
			cfg.Pretty = *prettyFlag
		case "raw":
			cfg.WriteRaw = *rawFlag
		case "schema":
			cfg.EmitSchema = *schemaFlag
		case "share-personas":
			cfg.ShareRelationships = *shareFlag
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Connect to Postgres ---
	var st *store.Store
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("connect to Postgres: %w", err)
		}
		defer pool.Close()

		st, err = store.NewStore(ctx, pool)
		if err != nil {
			return fmt.Errorf("initialise dataset store: %w", err)
		}
		slog.Info("connected to Postgres")
	}

	if query.active() {
		if st == nil {
			return errors.New("--runs, --show-run and --delete-run require DATABASE_URL or postgres.url in config")
		}
		return query.exec(ctx, st, os.Stdout)
	}

	// --- File Output ---
	w := writer.New(cfg.OutputDir, writer.Options{Pretty: cfg.Pretty, Raw: cfg.WriteRaw})

	slog.Info("starting corpus generation",
		"scenarios", len(scenarios),
		"seed", cfg.Seed,
		"out", w.Dir(),
	)

	if cfg.EmitSchema {
		path, err := w.WriteSchema()
		if err != nil {
			return fmt.Errorf("write schema: %w", err)
		}
		slog.Info("schema written", "path", path)
	}

	runnerCfg := batch.RunnerConfig{
		Writer:             w,
		ShareRelationships: cfg.ShareRelationships,
		Verify:             *verifyFlag,
	}
	if st != nil {
		runnerCfg.Store = st
	}

	// --- Connect to Redis ---
	if *publishFlag || cfg.ShareRelationships {
		if cfg.RedisURL == "" {
			if *publishFlag {
				return errors.New("--publish requires REDIS_URL or redis.url in config")
			}
		} else {
			opt, err := redis.ParseURL(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("invalid REDIS_URL: %w", err)
			}
			rdb := redis.NewClient(opt)
			defer rdb.Close()

			if *publishFlag {
				filter := dedup.NewFilter(rdb, cfg.PublishedPrefix).WithTTL(cfg.PublishTTL)
				publisher := queue.NewPublisher(rdb, cfg.EmailsQueue, filter)
				if err := publisher.Ping(ctx); err != nil {
					return fmt.Errorf("connect to Redis queue: %w", err)
				}
				runnerCfg.Publisher = publisher
			}
			if cfg.ShareRelationships {
				relationships := relationship.NewRedisStore(rdb, cfg.RelationshipPrefix)
				if err := relationships.Ping(ctx); err != nil {
					return fmt.Errorf("connect to Redis relationship store: %w", err)
				}
				runnerCfg.Relationships = relationships
			}
			slog.Info("connected to Redis")
		}
	}

	// --- Run ---
	runner := batch.NewRunner(runnerCfg)
	result, err := runner.Run(ctx, batch.Request{
		Scenarios: scenarios,
		Options:   cfg.Options(),
	})
	if err != nil {
		return fmt.Errorf("generation aborted: %w", err)
	}

	// --- Summary ---
	for _, sr := range result.ScenarioResults {
		slog.Info("scenario result",
			"scenario", sr.ScenarioID,
			"run_id", sr.RunID,
			"seed", sr.Seed,
			"emails", sr.Emails,
			"threads", sr.Threads,
			"files", sr.Files,
			"errors", sr.Errors,
		)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", result.Failed, len(scenarios))
	}
	return nil
}

// runCatalog is the part of the dataset store the run management flags use.
type runCatalog interface {
	Get(ctx context.Context, runID string) (*store.Run, error)
	ListRuns(ctx context.Context, limit int) ([]store.Run, error)
	Delete(ctx context.Context, runID string) error
}

// runQuery holds the run management flags. Delete wins over Show, Show
// over List.
type runQuery struct {
	List   int
	Show   string
	Delete string
}

func (q runQuery) active() bool {
	return q.List > 0 || q.Show != "" || q.Delete != ""
}

func (q runQuery) exec(ctx context.Context, rc runCatalog, out io.Writer) error {
	switch {
	case q.Delete != "":
		r, err := rc.Get(ctx, q.Delete)
		if err != nil {
			return fmt.Errorf("get run %s: %w", q.Delete, err)
		}
		if r == nil {
			return fmt.Errorf("run %s not found", q.Delete)
		}
		if err := rc.Delete(ctx, q.Delete); err != nil {
			return fmt.Errorf("delete run %s: %w", q.Delete, err)
		}
		slog.Info("run deleted", "run_id", q.Delete, "scenario", r.ScenarioID)
		return nil
	case q.Show != "":
		r, err := rc.Get(ctx, q.Show)
		if err != nil {
			return fmt.Errorf("get run %s: %w", q.Show, err)
		}
		if r == nil {
			return fmt.Errorf("run %s not found", q.Show)
		}
		return printRuns(out, []store.Run{*r})
	default:
		runs, err := rc.ListRuns(ctx, q.List)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		return printRuns(out, runs)
	}
}

func printRuns(out io.Writer, runs []store.Run) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSCENARIO\tSEED\tCOMPANY\tEMAILS\tTHREADS\tPERSONAL\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%d (%.1f%%)\t%s\n",
			r.RunID, r.ScenarioID, r.Seed, r.CompanyName, r.TotalEmails, r.TotalThreads,
			r.PersonalEmails, r.PersonalPercentage, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func resolveScenarios(id string) ([]models.Scenario, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "all" {
		return append([]models.Scenario(nil), scenario.Catalog...), nil
	}
	var out []models.Scenario
	for _, part := range strings.Split(id, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sc, ok := scenario.Lookup(part)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q (known: %s)", part, strings.Join(scenario.IDs(), ", "))
		}
		out = append(out, sc)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no scenarios selected")
	}
	return out, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func printCatalog() {
	for _, sc := range scenario.Catalog {
		fmt.Printf("%-28s complexity=%-2d %-10s %s\n", sc.ID, sc.ComplexityLevel, sc.TimeSpan, sc.Name)
	}
}
