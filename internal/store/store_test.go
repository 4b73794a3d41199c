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

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bcem/corpusgen/internal/models"
)

func ptr(s string) *string { return &s }

func sample() *models.Dataset {
	ts := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return &models.Dataset{
		Raw: models.Raw{
			Company: models.Company{
				Name: "Initech",
				Departments: []models.Department{
					{ID: "dept_1", Name: "Executive"},
					{ID: "dept_2", Name: "Sales", ParentDepartment: ptr("dept_1")},
				},
				Persons: []models.Person{
					{ID: "emp_1", Name: "Ada Lovelace", Email: "ada@initech.com", DepartmentID: "dept_1", Role: "CEO", CommunicationStyle: models.StyleFormal},
					{ID: "emp_2", Name: "Grace Hopper", Email: "grace@initech.com", DepartmentID: "dept_2", Role: "Director", BossID: ptr("emp_1"), CommunicationStyle: models.StyleDirect},
				},
			},
			Emails: []models.Email{
				{ID: "email_1", ThreadID: "thread_1", From: "emp_1", To: []string{"emp_2"}, Timestamp: ts, Subject: "Plan", Body: "Hi",
					Metadata: models.Metadata{Sentiment: models.SentimentUrgent, Importance: 4}},
				{ID: "email_2", ThreadID: "thread_1", From: "emp_2", To: []string{"emp_1"}, ReplyTo: ptr("email_1"), Timestamp: ts.Add(time.Hour), Subject: "Re: Plan", Body: "Sure",
					Metadata: models.Metadata{Personal: true, Sensitive: true, Category: models.CategoryDispute, AccidentallySent: true}},
			},
			Threads: []models.Thread{{ID: "thread_1", Subject: "Plan", StartTime: ts, EndTime: ts.Add(time.Hour), EmailIDs: []string{"email_1", "email_2"}}},
		},
		Analysis: &models.Analysis{
			RunID:    "run-1",
			Seed:     18446744073709551615,
			Scenario: models.Scenario{ID: "budget_approval_confusion"},
			Stats:    models.Stats{TotalEmails: 2, TotalThreads: 1, PersonalEmails: 1, PersonalPercentage: 50},
		},
	}
}

func TestRunRow(t *testing.T) {
	row := runRow(sample())
	if len(row) != 8 {
		t.Fatalf("run row has %d values, want 8", len(row))
	}
	if row[0] != "run-1" || row[1] != "budget_approval_confusion" {
		t.Errorf("run row ids = %v, %v", row[0], row[1])
	}
	if row[2] != "18446744073709551615" {
		t.Errorf("seed = %v, want the full uint64 as text", row[2])
	}
	if row[3] != "Initech" || row[4] != 2 || row[7] != 50.0 {
		t.Errorf("run row = %v", row)
	}
}

func TestDepartmentAndPersonRows(t *testing.T) {
	ds := sample()

	depts := departmentRows("run-1", &ds.Raw.Company)
	if len(depts) != 2 || len(depts[0]) != len(departmentColumns) {
		t.Fatalf("department rows = %v", depts)
	}
	if p, ok := depts[0][3].(*string); !ok || p != nil {
		t.Errorf("root parent = %v, want nil *string", depts[0][3])
	}
	if p := depts[1][3].(*string); p == nil || *p != "dept_1" {
		t.Errorf("child parent = %v, want dept_1", p)
	}

	persons := personRows("run-1", &ds.Raw.Company)
	if len(persons) != 2 || len(persons[1]) != len(personColumns) {
		t.Fatalf("person rows = %v", persons)
	}
	if boss := persons[1][6].(*string); boss == nil || *boss != "emp_1" {
		t.Errorf("boss_id = %v, want emp_1", boss)
	}
}

func TestThreadRows(t *testing.T) {
	rows := threadRows("run-1", sample().Raw.Threads)
	if len(rows) != 1 || len(rows[0]) != len(threadColumns) {
		t.Fatalf("thread rows = %v", rows)
	}
	if p, ok := rows[0][3].([]string); !ok || p == nil {
		t.Errorf("participants = %#v, want an empty non-nil slice", rows[0][3])
	}
}

func TestEmailRows(t *testing.T) {
	rows, err := emailRows("run-1", sample().Raw.Emails)
	if err != nil {
		t.Fatalf("emailRows: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != len(emailColumns) {
		t.Fatalf("email rows = %v", rows)
	}

	first, second := rows[0], rows[1]
	if cc, ok := first[5].([]string); !ok || cc == nil {
		t.Errorf("cc = %#v, want an empty non-nil slice", first[5])
	}
	if r := first[6].(*string); r != nil {
		t.Errorf("first reply_to = %v, want nil", *r)
	}
	if first[10] != false || second[10] != true {
		t.Errorf("personal flags = %v, %v", first[10], second[10])
	}
	if second[11] != models.CategoryDispute {
		t.Errorf("category = %v", second[11])
	}

	var meta map[string]any
	if err := json.Unmarshal(second[12].([]byte), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["accidentally_sent"] != true || meta["category"] != "dispute" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestNonNil(t *testing.T) {
	if got := nonNil(nil); got == nil || len(got) != 0 {
		t.Errorf("nonNil(nil) = %#v", got)
	}
	in := []string{"a"}
	if got := nonNil(in); len(got) != 1 || got[0] != "a" {
		t.Errorf("nonNil(%v) = %v", in, got)
	}
}

// fakeRow scans a fixed generation_runs row, in column order.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan %d columns into %d targets", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *int:
			*p = r.values[i].(int)
		case *float64:
			*p = r.values[i].(float64)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return fmt.Errorf("unexpected scan target %T", d)
		}
	}
	return nil
}

// fakeRows iterates fakeRow values.
type fakeRows struct {
	pgx.Rows
	rows   []fakeRow
	pos    int
	err    error
	closed bool
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return r.rows[r.pos-1].Scan(dest...) }
func (r *fakeRows) Err() error             { return r.err }
func (r *fakeRows) Close()                 { r.closed = true }

func runValues(id, seed string) []any {
	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return []any{id, "budget_approval_confusion", seed, "Initech", 40, 8, 3, 7.5, created}
}

func TestScanRun(t *testing.T) {
	r, err := scanRun(fakeRow{values: runValues("run-1", "18446744073709551615")})
	if err != nil {
		t.Fatalf("scanRun: %v", err)
	}
	if r.RunID != "run-1" || r.Seed != 18446744073709551615 || r.TotalEmails != 40 || r.PersonalPercentage != 7.5 {
		t.Errorf("run = %+v", r)
	}

	r, err = scanRun(fakeRow{err: pgx.ErrNoRows})
	if err != nil || r != nil {
		t.Errorf("missing row = %+v, %v; want nil, nil", r, err)
	}

	boom := errors.New("connection reset")
	if _, err := scanRun(fakeRow{err: boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}

	if _, err := scanRun(fakeRow{values: runValues("run-2", "-4")}); err == nil {
		t.Error("expected error for a negative seed")
	}
}

func TestCollectRuns(t *testing.T) {
	rows := &fakeRows{rows: []fakeRow{
		{values: runValues("run-2", "2")},
		{values: runValues("run-1", "1")},
	}}
	runs, err := collectRuns(rows)
	if err != nil {
		t.Fatalf("collectRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "run-2" || runs[1].Seed != 1 {
		t.Errorf("runs = %+v", runs)
	}

	runs, err = collectRuns(&fakeRows{})
	if err != nil || len(runs) != 0 {
		t.Errorf("empty = %+v, %v", runs, err)
	}

	iterErr := errors.New("iteration failed")
	if _, err := collectRuns(&fakeRows{err: iterErr}); !errors.Is(err, iterErr) {
		t.Errorf("err = %v, want %v", err, iterErr)
	}

	bad := &fakeRows{rows: []fakeRow{{values: runValues("run-3", "x")}}}
	if _, err := collectRuns(bad); err == nil {
		t.Error("expected error for an unparsable seed")
	}
}
