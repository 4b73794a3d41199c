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

package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/bcem/corpusgen/internal/models"
)

func TestMessage_Envelope(t *testing.T) {
	p := NewPublisher(nil, "scoring", nil)
	event := EmailEvent{
		RunID:      "run-1",
		ScenarioID: "design_feedback_loop",
		Email: models.Email{
			ID:        "email_1",
			ThreadID:  "thread_1",
			From:      "emp_1",
			To:        []string{"emp_2"},
			Timestamp: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
			Subject:   "Plan",
		},
	}

	raw, taskID, err := p.message(event)
	if err != nil {
		t.Fatalf("message: %v", err)
	}

	var msg celeryMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("envelope is not JSON: %v", err)
	}
	if msg.ContentType != "application/json" || msg.ContentEncoding != "utf-8" {
		t.Errorf("content = %s / %s", msg.ContentType, msg.ContentEncoding)
	}
	if msg.Headers["task"] != DefaultTaskName || msg.Headers["id"] != taskID {
		t.Errorf("headers = %v", msg.Headers)
	}
	if msg.Properties["routing_key"] != "scoring" {
		t.Errorf("routing_key = %v, want scoring", msg.Properties["routing_key"])
	}

	var task celeryTask
	if err := json.Unmarshal([]byte(msg.Body), &task); err != nil {
		t.Fatalf("task body is not JSON: %v", err)
	}
	if task.ID != taskID || task.Task != DefaultTaskName || len(task.Args) != 1 {
		t.Fatalf("task = %+v", task)
	}

	arg, ok := task.Args[0].(string)
	if !ok {
		t.Fatalf("task arg is %T, want string", task.Args[0])
	}
	var got EmailEvent
	if err := json.Unmarshal([]byte(arg), &got); err != nil {
		t.Fatalf("event is not JSON: %v", err)
	}
	if got.RunID != "run-1" || got.ScenarioID != "design_feedback_loop" || got.Email.ID != "email_1" || got.Email.From != "emp_1" {
		t.Errorf("event = %+v", got)
	}
}

func TestMessage_UniqueTaskIDs(t *testing.T) {
	p := NewPublisher(nil, "", nil)
	_, a, err := p.message(EmailEvent{})
	if err != nil {
		t.Fatal(err)
	}
	_, b, err := p.message(EmailEvent{})
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("task ids repeat")
	}
	if p.queueName != DefaultQueue {
		t.Errorf("queue = %q, want %q", p.queueName, DefaultQueue)
	}
}

func TestPublishDataset_MissingAnalysis(t *testing.T) {
	p := NewPublisher(nil, "", nil)
	if _, err := p.PublishDataset(context.Background(), &models.Dataset{}); err == nil {
		t.Error("expected error without analysis")
	}
}
