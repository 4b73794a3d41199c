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

// Package writer persists generated datasets as JSON files.
package writer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/bcem/corpusgen/internal/models"
)

// SchemaFile is the name of the emitted dataset schema.
const SchemaFile = "dataset.schema.json"

// Options controls what Write emits.
type Options struct {
	Pretty bool
	// Raw additionally writes <scenario_id>_raw.json holding only the
	// sub-object the scoring layer consumes.
	Raw bool
}

// Writer writes datasets into one output directory.
type Writer struct {
	dir  string
	opts Options
}

// New creates a writer for dir. The directory is created on first write.
func New(dir string, opts Options) *Writer {
	return &Writer{dir: dir, opts: opts}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write persists ds as <scenario_id>.json (and optionally the raw file) and
// returns the paths written.
func (w *Writer) Write(ds *models.Dataset) ([]string, error) {
	if ds.Analysis == nil || ds.Analysis.Scenario.ID == "" {
		return nil, errors.New("write dataset: missing scenario id")
	}
	id := ds.Analysis.Scenario.ID

	full := filepath.Join(w.dir, id+".json")
	if err := WriteJSONFileAtomic(full, ds, w.opts.Pretty); err != nil {
		return nil, fmt.Errorf("write dataset %s: %w", id, err)
	}
	paths := []string{full}

	if w.opts.Raw {
		raw := filepath.Join(w.dir, id+"_raw.json")
		if err := WriteJSONFileAtomic(raw, models.Dataset{Raw: ds.Raw}, w.opts.Pretty); err != nil {
			return paths, fmt.Errorf("write raw dataset %s: %w", id, err)
		}
		paths = append(paths, raw)
	}

	slog.Info("dataset written", "scenario", id, "files", paths)
	return paths, nil
}

// WriteSchema writes the dataset JSON schema next to the datasets.
func (w *Writer) WriteSchema() (string, error) {
	path := filepath.Join(w.dir, SchemaFile)
	if err := WriteJSONFileAtomic(path, Schema(), true); err != nil {
		return "", fmt.Errorf("write schema: %w", err)
	}
	return path, nil
}

// Schema reflects the persisted dataset shape.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            false,
	}
	s := r.Reflect(&models.Dataset{})
	s.Title = "Generated email dataset"
	s.Description = "Company, emails and threads under raw; ground truth under analysis."
	return s
}

// Read loads a dataset written by Write.
func Read(path string) (*models.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds models.Dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}
	return &ds, nil
}

// WriteJSONFileAtomic marshals v and replaces path with it atomically.
func WriteJSONFileAtomic(path string, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := writeFileAtomic(path, b, 0o644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// writeFileAtomic writes data plus a trailing newline to a temp file in the
// target directory and renames it over path.
func writeFileAtomic(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp_dataset_*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
