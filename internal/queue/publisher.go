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

// Package queue publishes generated emails to Redis as Celery-compatible
// tasks so the Python scoring workers can consume a dataset as a stream.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bcem/corpusgen/internal/dedup"
	"github.com/bcem/corpusgen/internal/models"
)

const (
	// DefaultQueue is the Redis list Celery workers read from.
	DefaultQueue = "emails"

	// DefaultTaskName is the Celery task that scores one email.
	DefaultTaskName = "analysis.tasks.score_email"
)

// EmailEvent is the task argument for one generated email.
type EmailEvent struct {
	RunID      string       `json:"run_id"`
	ScenarioID string       `json:"scenario_id"`
	Email      models.Email `json:"email"`
}

// Publisher sends generated emails to Redis in Celery task format.
type Publisher struct {
	rdb       *redis.Client
	queueName string
	taskName  string
	seen      *dedup.Filter
}

// NewPublisher creates a new Redis publisher targeting the specified queue.
// When seen is non-nil a run is only published once.
func NewPublisher(rdb *redis.Client, queueName string, seen *dedup.Filter) *Publisher {
	if queueName == "" {
		queueName = DefaultQueue
	}
	return &Publisher{
		rdb:       rdb,
		queueName: queueName,
		taskName:  DefaultTaskName,
		seen:      seen,
	}
}

// celeryTask represents a Celery-compatible task message.
// Celery reads tasks from Redis using this exact JSON structure.
type celeryTask struct {
	ID      string        `json:"id"`
	Task    string        `json:"task"`
	Args    []interface{} `json:"args"`
	Kwargs  interface{}   `json:"kwargs"`
	Retries int           `json:"retries"`
	ETA     *string       `json:"eta"`
}

// celeryMessage wraps a task for Redis transport.
type celeryMessage struct {
	Body            string                 `json:"body"`
	ContentEncoding string                 `json:"content-encoding"`
	ContentType     string                 `json:"content-type"`
	Headers         map[string]interface{} `json:"headers"`
	Properties      map[string]interface{} `json:"properties"`
}

// PublishDataset pushes every email of ds in one pipeline and returns how
// many were queued. A run already published is skipped.
func (p *Publisher) PublishDataset(ctx context.Context, ds *models.Dataset) (int, error) {
	if ds.Analysis == nil {
		return 0, fmt.Errorf("publish dataset: missing analysis")
	}
	runID := ds.Analysis.RunID
	scenarioID := ds.Analysis.Scenario.ID

	if p.seen != nil {
		isNew, err := p.seen.IsNew(ctx, runID)
		if err != nil {
			return 0, fmt.Errorf("publish dataset %s: %w", runID, err)
		}
		if !isNew {
			slog.Info("run already published, skipping", "run_id", runID, "queue", p.queueName)
			return 0, nil
		}
	}

	pipe := p.rdb.Pipeline()
	for _, e := range ds.Raw.Emails {
		msg, _, err := p.message(EmailEvent{RunID: runID, ScenarioID: scenarioID, Email: e})
		if err != nil {
			return 0, err
		}
		pipe.LPush(ctx, p.queueName, msg)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		if p.seen != nil {
			if ferr := p.seen.Forget(ctx, runID); ferr != nil {
				slog.Warn("failed to clear publish marker", "run_id", runID, "error", ferr)
			}
		}
		return 0, fmt.Errorf("redis LPUSH pipeline: %w", err)
	}

	slog.Info("published dataset to queue",
		"run_id", runID,
		"scenario", scenarioID,
		"emails", len(ds.Raw.Emails),
		"queue", p.queueName,
	)
	return len(ds.Raw.Emails), nil
}

func (p *Publisher) message(event EmailEvent) (string, string, error) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return "", "", fmt.Errorf("marshal email event: %w", err)
	}

	taskID := uuid.New().String()

	task := celeryTask{
		ID:     taskID,
		Task:   p.taskName,
		Args:   []interface{}{string(eventJSON)},
		Kwargs: map[string]interface{}{},
	}
	taskBody, err := json.Marshal(task)
	if err != nil {
		return "", "", fmt.Errorf("marshal celery task: %w", err)
	}

	msg := celeryMessage{
		Body:            string(taskBody),
		ContentEncoding: "utf-8",
		ContentType:     "application/json",
		Headers: map[string]interface{}{
			"lang":    "py",
			"task":    p.taskName,
			"id":      taskID,
			"retries": 0,
		},
		Properties: map[string]interface{}{
			"correlation_id": taskID,
			"delivery_mode":  2,
			"delivery_tag":   taskID,
			"body_encoding":  "utf-8",
			"exchange":       p.queueName,
			"routing_key":    p.queueName,
			"delivery_info": map[string]string{
				"exchange":    p.queueName,
				"routing_key": p.queueName,
			},
		},
	}

	msgJSON, err := json.Marshal(msg)
	if err != nil {
		return "", "", fmt.Errorf("marshal celery message: %w", err)
	}
	return string(msgJSON), taskID, nil
}

// Ping checks the Redis connection.
func (p *Publisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}
