// Package storage persists the task collection to durable storage.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nibzard/tasklist-go/internal/task"
)

// Supported storage formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatMemory = "memory"
)

// Backend is a task.Persister that can describe where it stores data.
type Backend interface {
	task.Persister
	// Path returns the data file path, or "" for in-memory backends.
	Path() string
	// Format returns one of the Format* constants.
	Format() string
}

// Options controls how file backends validate data on load.
type Options struct {
	// ValidateSchema enables JSON Schema validation of JSON data files.
	ValidateSchema bool
	// SchemaPath is an external schema file used instead of the embedded one.
	SchemaPath string
}

// PersistenceError reports an I/O or malformed-data failure.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s tasks: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s tasks %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// DetectFormat infers the storage format from a file extension.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// NormalizeFormat lowercases a format name and maps aliases.
// An empty string stays empty.
func NormalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "yml":
		return FormatYAML
	case "mem":
		return FormatMemory
	}
	return f
}

// Open returns the backend for format. An empty format is inferred from
// the path extension.
func Open(format, path string, opts Options) (Backend, error) {
	f := NormalizeFormat(format)
	if f == "" {
		f = DetectFormat(path)
	}

	switch f {
	case FormatJSON:
		if path == "" {
			return nil, fmt.Errorf("json storage requires a data file path")
		}
		return NewJSONFile(path, opts), nil
	case FormatYAML:
		if path == "" {
			return nil, fmt.Errorf("yaml storage requires a data file path")
		}
		return NewYAMLFile(path), nil
	case FormatMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported store format %q (expected json|yaml|memory)", format)
	}
}
