package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/task"
)

// JSONFile stores tasks as a pretty-printed JSON array.
type JSONFile struct {
	path string
	opts Options
}

// NewJSONFile returns a JSON backend for path.
func NewJSONFile(path string, opts Options) *JSONFile {
	return &JSONFile{path: path, opts: opts}
}

// Path returns the data file path.
func (f *JSONFile) Path() string { return f.path }

// Format returns FormatJSON.
func (f *JSONFile) Format() string { return FormatJSON }

// Save writes tasks with 2-space indentation and a trailing newline.
func (f *JSONFile) Save(tasks []task.Task) error {
	data, err := MarshalJSON(tasks)
	if err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	if err := writeDataFile(f.path, data); err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}

// Load reads the task array. A missing or blank file yields no tasks.
func (f *JSONFile) Load() ([]task.Task, error) {
	data, err := readDataFile(f.path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	if data == nil {
		return []task.Task{}, nil
	}

	tasks, result := CheckJSON(data, f.opts)
	if !result.Valid {
		return nil, &PersistenceError{
			Op:   "load",
			Path: f.path,
			Err:  fmt.Errorf("file may be corrupt: %w", result.Err()),
		}
	}
	return tasks, nil
}

// MarshalJSON encodes tasks the way JSONFile writes them.
func MarshalJSON(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeJSON decodes a task array, rejecting unknown fields and
// trailing data.
func decodeJSON(data []byte) ([]task.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var tasks []task.Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("parse tasks: unexpected data after task array")
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
