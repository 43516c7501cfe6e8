package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/tasklist-go/internal/task"
)

// FieldError is a validation failure at a location in the data file.
type FieldError struct {
	Path string // e.g. "[2].title"
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

func (r *ValidationResult) fail(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Err joins all validation errors, or returns nil when valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// CheckFile reads and validates the data file at path without locking
// or modifying it. A missing file is reported as valid with a warning.
func CheckFile(format, path string, opts Options) ([]task.Task, *ValidationResult) {
	f := NormalizeFormat(format)
	if f == "" {
		f = DetectFormat(path)
	}

	switch f {
	case FormatMemory:
		result := newResult()
		result.Warnings = append(result.Warnings, "memory store has no data file")
		return []task.Task{}, result
	case FormatYAML:
		result := newResult()
		tasks, err := NewYAMLFile(path).Load()
		if err != nil {
			result.fail(err)
		}
		return tasks, result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result := newResult()
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("data file not found: %s", path))
			return []task.Task{}, result
		}
		result.fail(fmt.Errorf("read data file: %w", err))
		return nil, result
	}
	return CheckJSON(data, opts)
}

// CheckJSON decodes and validates a JSON task array.
//
// Minimal checks always run. When opts.ValidateSchema is set the document
// is first validated against the schema; if the schema cannot be loaded a
// warning is recorded and only the minimal checks apply.
func CheckJSON(data []byte, opts Options) ([]task.Task, *ValidationResult) {
	result := newResult()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return []task.Task{}, result
	}

	if opts.ValidateSchema {
		validateWithSchema(trimmed, opts.SchemaPath, result)
		if !result.Valid {
			return nil, result
		}
	}

	tasks, err := decodeJSON(trimmed)
	if err != nil {
		result.fail(err)
		return nil, result
	}

	validateMinimal(tasks, result)
	if !result.Valid {
		return nil, result
	}
	return tasks, result
}

func validateWithSchema(data []byte, schemaPath string, result *ValidationResult) {
	schema, err := loadSchema(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
		return
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		result.fail(fmt.Errorf("parse tasks: %w", err))
		return
	}

	result.UsedSchema = true
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
}

// validateMinimal checks the invariants the store relies on.
func validateMinimal(tasks []task.Task, result *ValidationResult) {
	seen := make(map[int64]int, len(tasks))
	for i, t := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if t.ID < 1 {
			result.fail(&FieldError{Path: path + ".id", Err: fmt.Errorf("must be a positive integer, got %d", t.ID)})
		} else if first, dup := seen[t.ID]; dup {
			result.fail(&FieldError{Path: path + ".id", Err: fmt.Errorf("duplicate id %d (first used at [%d])", t.ID, first)})
		} else {
			seen[t.ID] = i
		}
		if strings.TrimSpace(t.Title) == "" {
			result.fail(&FieldError{Path: path + ".title", Err: task.ErrTitleRequired})
		}
		if !t.Status.Valid() {
			result.fail(&FieldError{Path: path + ".status", Err: fmt.Errorf("invalid status %q, must be one of: pending, done", t.Status)})
		}
		if t.DueDate != nil && t.DueDate.IsZero() {
			result.fail(&FieldError{Path: path + ".due_date", Err: task.ErrInvalidDate})
		}
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &FieldError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/2/title" into "[2].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
