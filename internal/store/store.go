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

// Package store provides a Postgres sink for generated datasets so runs can
// be queried with SQL alongside the JSON files.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcem/corpusgen/internal/models"
)

// Run is the summary row of one persisted dataset.
type Run struct {
	RunID              string
	ScenarioID         string
	Seed               uint64
	CompanyName        string
	TotalEmails        int
	TotalThreads       int
	PersonalEmails     int
	PersonalPercentage float64
	CreatedAt          time.Time
}

// Store persists datasets in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a dataset store backed by the given Postgres pool.
// It ensures the tables exist on creation.
func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure dataset schema: %w", err)
	}
	slog.Info("dataset store initialised")
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS generation_runs (
			run_id              TEXT PRIMARY KEY,
			scenario_id         TEXT NOT NULL,
			seed                TEXT NOT NULL,
			company_name        TEXT NOT NULL,
			total_emails        INTEGER NOT NULL,
			total_threads       INTEGER NOT NULL,
			personal_emails     INTEGER NOT NULL,
			personal_percentage DOUBLE PRECISION NOT NULL,
			created_at          TIMESTAMPTZ DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS departments (
			run_id    TEXT NOT NULL REFERENCES generation_runs(run_id) ON DELETE CASCADE,
			id        TEXT NOT NULL,
			name      TEXT NOT NULL,
			parent_id TEXT,
			PRIMARY KEY (run_id, id)
		);
		CREATE TABLE IF NOT EXISTS persons (
			run_id              TEXT NOT NULL REFERENCES generation_runs(run_id) ON DELETE CASCADE,
			id                  TEXT NOT NULL,
			name                TEXT NOT NULL,
			email               TEXT NOT NULL,
			department_id       TEXT NOT NULL,
			role                TEXT NOT NULL,
			boss_id             TEXT,
			communication_style TEXT NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE TABLE IF NOT EXISTS threads (
			run_id       TEXT NOT NULL REFERENCES generation_runs(run_id) ON DELETE CASCADE,
			id           TEXT NOT NULL,
			subject      TEXT NOT NULL,
			participants TEXT[] NOT NULL,
			start_time   TIMESTAMPTZ NOT NULL,
			end_time     TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE TABLE IF NOT EXISTS emails (
			run_id    TEXT NOT NULL REFERENCES generation_runs(run_id) ON DELETE CASCADE,
			id        TEXT NOT NULL,
			thread_id TEXT NOT NULL,
			from_id   TEXT NOT NULL,
			to_ids    TEXT[] NOT NULL,
			cc_ids    TEXT[] NOT NULL,
			reply_to  TEXT,
			sent_at   TIMESTAMPTZ NOT NULL,
			subject   TEXT NOT NULL,
			body      TEXT NOT NULL,
			personal  BOOLEAN NOT NULL,
			category  TEXT DEFAULT '',
			metadata  JSONB NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON generation_runs(scenario_id);
		CREATE INDEX IF NOT EXISTS idx_emails_thread ON emails(run_id, thread_id);
		CREATE INDEX IF NOT EXISTS idx_emails_personal ON emails(run_id, personal);
	`)
	return err
}

// SaveDataset writes a dataset in one transaction. Saving a run ID that
// already exists replaces it.
func (s *Store) SaveDataset(ctx context.Context, ds *models.Dataset) error {
	if ds.Analysis == nil || ds.Analysis.RunID == "" {
		return errors.New("save dataset: missing run id")
	}
	runID := ds.Analysis.RunID

	emails, err := emailRows(runID, ds.Raw.Emails)
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", runID, err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM generation_runs WHERE run_id = $1`, runID); err != nil {
		return fmt.Errorf("clear run %s: %w", runID, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO generation_runs
			(run_id, scenario_id, seed, company_name, total_emails, total_threads, personal_emails, personal_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, runRow(ds)...); err != nil {
		return fmt.Errorf("insert run %s: %w", runID, err)
	}

	copies := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{"departments", departmentColumns, departmentRows(runID, &ds.Raw.Company)},
		{"persons", personColumns, personRows(runID, &ds.Raw.Company)},
		{"threads", threadColumns, threadRows(runID, ds.Raw.Threads)},
		{"emails", emailColumns, emails},
	}
	for _, c := range copies {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, pgx.CopyFromRows(c.rows))
		if err != nil {
			return fmt.Errorf("copy %s for run %s: %w", c.table, runID, err)
		}
		slog.Debug("rows copied", "table", c.table, "run_id", runID, "rows", n)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", runID, err)
	}
	slog.Info("dataset stored",
		"run_id", runID,
		"scenario", ds.Analysis.Scenario.ID,
		"emails", len(ds.Raw.Emails),
	)
	return nil
}

// Get retrieves one run summary, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT run_id, scenario_id, seed, company_name, total_emails,
		       total_threads, personal_emails, personal_percentage, created_at
		FROM generation_runs
		WHERE run_id = $1
	`, runID)
	return scanRun(row)
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT run_id, scenario_id, seed, company_name, total_emails,
		       total_threads, personal_emails, personal_percentage, created_at
		FROM generation_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRuns(rows)
}

// Delete removes a run and everything generated with it.
func (s *Store) Delete(ctx context.Context, runID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM generation_runs WHERE run_id = $1`, runID)
	return err
}

var (
	departmentColumns = []string{"run_id", "id", "name", "parent_id"}
	personColumns     = []string{"run_id", "id", "name", "email", "department_id", "role", "boss_id", "communication_style"}
	threadColumns     = []string{"run_id", "id", "subject", "participants", "start_time", "end_time"}
	emailColumns      = []string{"run_id", "id", "thread_id", "from_id", "to_ids", "cc_ids", "reply_to", "sent_at", "subject", "body", "personal", "category", "metadata"}
)

func runRow(ds *models.Dataset) []any {
	a := ds.Analysis
	return []any{
		a.RunID,
		a.Scenario.ID,
		strconv.FormatUint(a.Seed, 10),
		ds.Raw.Company.Name,
		a.Stats.TotalEmails,
		a.Stats.TotalThreads,
		a.Stats.PersonalEmails,
		a.Stats.PersonalPercentage,
	}
}

func departmentRows(runID string, c *models.Company) [][]any {
	rows := make([][]any, 0, len(c.Departments))
	for _, d := range c.Departments {
		rows = append(rows, []any{runID, d.ID, d.Name, d.ParentDepartment})
	}
	return rows
}

func personRows(runID string, c *models.Company) [][]any {
	rows := make([][]any, 0, len(c.Persons))
	for _, p := range c.Persons {
		rows = append(rows, []any{runID, p.ID, p.Name, p.Email, p.DepartmentID, p.Role, p.BossID, p.CommunicationStyle})
	}
	return rows
}

func threadRows(runID string, threads []models.Thread) [][]any {
	rows := make([][]any, 0, len(threads))
	for _, t := range threads {
		rows = append(rows, []any{runID, t.ID, t.Subject, nonNil(t.Participants), t.StartTime, t.EndTime})
	}
	return rows
}

func emailRows(runID string, emails []models.Email) ([][]any, error) {
	rows := make([][]any, 0, len(emails))
	for _, e := range emails {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshal metadata of %s: %w", e.ID, err)
		}
		rows = append(rows, []any{
			runID, e.ID, e.ThreadID, e.From, nonNil(e.To), nonNil(e.CC), e.ReplyTo,
			e.Timestamp, e.Subject, e.Body, e.Metadata.Personal, e.Metadata.Category, meta,
		})
	}
	return rows, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// scanRun scans a single row into a Run.
func scanRun(row pgx.Row) (*Run, error) {
	var (
		r    Run
		seed string
	)
	err := row.Scan(
		&r.RunID, &r.ScenarioID, &seed, &r.CompanyName, &r.TotalEmails,
		&r.TotalThreads, &r.PersonalEmails, &r.PersonalPercentage, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("parse seed of run %s: %w", r.RunID, err)
	}
	return &r, nil
}

// collectRuns scans multiple rows into a slice of Runs.
func collectRuns(rows pgx.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}
