package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/tasklist-go/internal/task"
)

func sampleTasks() []task.Task {
	due := task.NewDate(2024, time.May, 1)
	return []task.Task{
		{ID: 1, Title: "Buy milk", Status: task.StatusPending},
		{ID: 2, Title: "File taxes", Description: "before the deadline", DueDate: &due, Status: task.StatusDone},
	}
}

func equalTasks(t *testing.T, got, want []task.Task) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Title != w.Title || g.Description != w.Description || g.Status != w.Status {
			t.Errorf("task %d = %+v, want %+v", i, g, w)
		}
		if (g.DueDate == nil) != (w.DueDate == nil) {
			t.Errorf("task %d due date = %v, want %v", i, g.DueDate, w.DueDate)
			continue
		}
		if g.DueDate != nil && *g.DueDate != *w.DueDate {
			t.Errorf("task %d due date = %v, want %v", i, *g.DueDate, *w.DueDate)
		}
	}
}

func TestJSONFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := NewJSONFile(path, Options{ValidateSchema: true})

	if err := f.Save(sampleTasks()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	equalTasks(t, got, sampleTasks())
}

func TestJSONFileFormatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	f := NewJSONFile(path, Options{})

	if err := f.Save(sampleTasks()[:1]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := "[\n  {\n    \"id\": 1,\n    \"title\": \"Buy milk\",\n    \"status\": \"pending\"\n  }\n]\n"
	if string(data) != want {
		t.Errorf("file contents =\n%s\nwant\n%s", data, want)
	}
}

func TestJSONFileSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := NewJSONFile(path, Options{}).Save(nil); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("file contents = %q, want %q", data, "[]\n")
	}
}

func TestJSONFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tasks.json")
	if err := NewJSONFile(path, Options{}).Save(sampleTasks()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("data file not created: %v", err)
	}
}

func TestJSONFileLoadEmptySources(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: strPtr("")},
		{name: "whitespace", content: strPtr("  \n\t\n")},
		{name: "null document", content: strPtr("null\n")},
		{name: "empty array", content: strPtr("[]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if tt.content != nil {
				if err := os.WriteFile(path, []byte(*tt.content), 0o644); err != nil {
					t.Fatalf("WriteFile() error = %v", err)
				}
			}
			got, err := NewJSONFile(path, Options{ValidateSchema: true}).Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("Load() = %v, want empty non-nil slice", got)
			}
		})
	}
}

func TestJSONFileLoadRejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		content string
		schema  bool
	}{
		{name: "not json", content: "{not json"},
		{name: "object root", content: `{"id": 1}`},
		{name: "wrong type", content: `[{"id": "one", "title": "a", "status": "pending"}]`},
		{name: "unknown field", content: `[{"id": 1, "title": "a", "status": "pending", "priority": 2}]`},
		{name: "bad status", content: `[{"id": 1, "title": "a", "status": "doing"}]`},
		{name: "blank title", content: `[{"id": 1, "title": "  ", "status": "pending"}]`},
		{name: "zero id", content: `[{"id": 0, "title": "a", "status": "pending"}]`},
		{name: "duplicate id", content: `[{"id": 1, "title": "a", "status": "pending"}, {"id": 1, "title": "b", "status": "done"}]`},
		{name: "bad date", content: `[{"id": 1, "title": "a", "status": "pending", "due_date": "01/05/2024"}]`},
		{name: "trailing data", content: `[] []`},
		{name: "schema bad status", content: `[{"id": 1, "title": "a", "status": "doing"}]`, schema: true},
		{name: "schema missing title", content: `[{"id": 1, "status": "pending"}]`, schema: true},
		{name: "schema bad date", content: `[{"id": 1, "title": "a", "status": "pending", "due_date": "2024-02-30"}]`, schema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tasks.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			_, err := NewJSONFile(path, Options{ValidateSchema: tt.schema}).Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			var pe *PersistenceError
			if !errors.As(err, &pe) {
				t.Fatalf("Load() error = %T, want *PersistenceError", err)
			}
			if pe.Op != "load" || pe.Path != path {
				t.Errorf("PersistenceError = {Op: %q, Path: %q}, want {load, %q}", pe.Op, pe.Path, path)
			}
		})
	}
}

func TestJSONFileSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	err := NewJSONFile(filepath.Join(blocker, "tasks.json"), Options{}).Save(sampleTasks())
	var pe *PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Save() error = %v, want *PersistenceError", err)
	}
	if pe.Op != "save" {
		t.Errorf("Op = %q, want save", pe.Op)
	}
}

func TestJSONFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := NewJSONFile(filepath.Join(dir, "tasks.json"), Options{})
	for i := 0; i < 3; i++ {
		if err := f.Save(sampleTasks()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestYAMLFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	f := NewYAMLFile(path)

	if err := f.Save(sampleTasks()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "due_date: \"2024-05-01\"") && !strings.Contains(string(data), "due_date: 2024-05-01") {
		t.Errorf("yaml output missing due date:\n%s", data)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	equalTasks(t, got, sampleTasks())
}

func TestYAMLFileLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		got, err := NewYAMLFile(filepath.Join(t.TempDir(), "none.yaml")).Load()
		if err != nil || len(got) != 0 {
			t.Fatalf("Load() = %v, %v; want empty, nil", got, err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.yaml")
		content := "- id: 1\n  title: a\n  status: pending\n  owner: me\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := NewYAMLFile(path).Load(); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.yaml")
		content := "- id: 3\n  title: a\n  status: pending\n- id: 3\n  title: b\n  status: done\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if _, err := NewYAMLFile(path).Load(); err == nil {
			t.Fatal("Load() error = nil, want error")
		}
	})
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	tasks := sampleTasks()
	if err := m.Save(tasks); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	tasks[1].DueDate.Day = 9

	got, err := m.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	equalTasks(t, got, sampleTasks())
	if m.Saves != 1 {
		t.Errorf("Saves = %d, want 1", m.Saves)
	}

	m.SaveErr = errors.New("disk full")
	if err := m.Save(nil); err == nil {
		t.Error("Save() error = nil, want error")
	}
	m.LoadErr = errors.New("gone")
	if _, err := m.Load(); err == nil {
		t.Error("Load() error = nil, want error")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		format  string
		path    string
		want    string
		wantErr bool
	}{
		{format: "", path: filepath.Join(dir, "tasks.json"), want: FormatJSON},
		{format: "", path: filepath.Join(dir, "tasks.YML"), want: FormatYAML},
		{format: "json", path: filepath.Join(dir, "tasks.yaml"), want: FormatJSON},
		{format: "yml", path: filepath.Join(dir, "tasks.txt"), want: FormatYAML},
		{format: "mem", want: FormatMemory},
		{format: "json", path: "", wantErr: true},
		{format: "sqlite", path: filepath.Join(dir, "tasks.db"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"|"+filepath.Base(tt.path), func(t *testing.T) {
			b, err := Open(tt.format, tt.path, Options{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Open() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if b.Format() != tt.want {
				t.Errorf("Format() = %q, want %q", b.Format(), tt.want)
			}
			if tt.want != FormatMemory && b.Path() != tt.path {
				t.Errorf("Path() = %q, want %q", b.Path(), tt.path)
			}
		})
	}
}

func TestPersistenceErrorMessage(t *testing.T) {
	err := &PersistenceError{Op: "save", Path: "/tmp/t.json", Err: errors.New("boom")}
	if got, want := err.Error(), "save tasks /tmp/t.json: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.Path = ""
	if got, want := err.Error(), "save tasks: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func strPtr(s string) *string { return &s }
