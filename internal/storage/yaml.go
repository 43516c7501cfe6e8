package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	yaml "gopkg.in/yaml.v3"

	"github.com/nibzard/tasklist-go/internal/task"
)

// YAMLFile stores tasks as a YAML sequence.
// It has no schema support; loads run the minimal checks only.
type YAMLFile struct {
	path string
}

// NewYAMLFile returns a YAML backend for path.
func NewYAMLFile(path string) *YAMLFile {
	return &YAMLFile{path: path}
}

// Path returns the data file path.
func (f *YAMLFile) Path() string { return f.path }

// Format returns FormatYAML.
func (f *YAMLFile) Format() string { return FormatYAML }

// Save writes tasks as YAML with 2-space indentation.
func (f *YAMLFile) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tasks); err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: fmt.Errorf("marshal tasks: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: fmt.Errorf("marshal tasks: %w", err)}
	}
	if err := writeDataFile(f.path, buf.Bytes()); err != nil {
		return &PersistenceError{Op: "save", Path: f.path, Err: err}
	}
	return nil
}

// Load reads the task sequence. A missing or blank file yields no tasks.
func (f *YAMLFile) Load() ([]task.Task, error) {
	data, err := readDataFile(f.path)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: err}
	}
	if data == nil {
		return []task.Task{}, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var tasks []task.Task
	if err := dec.Decode(&tasks); err != nil && !errors.Is(err, io.EOF) {
		return nil, &PersistenceError{Op: "load", Path: f.path, Err: fmt.Errorf("parse tasks: %w", err)}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}

	result := newResult()
	validateMinimal(tasks, result)
	if !result.Valid {
		return nil, &PersistenceError{
			Op:   "load",
			Path: f.path,
			Err:  fmt.Errorf("file may be corrupt: %w", result.Err()),
		}
	}
	return tasks, nil
}
