// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nibzard/tasklist-go/internal/task"
)

// setupWorkdir isolates config lookup and changes into a fresh directory.
func setupWorkdir(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKLIST_DATA_FILE", "TASKLIST_STORE", "TASKLIST_SCHEMA",
		"TASKLIST_VALIDATE_SCHEMA", "TASKLIST_DATE_FORMAT",
		"TASKLIST_LOG_LEVEL", "TASKLIST_LOG_FORMAT", "TASKLIST_LOG_FILE",
		"TASKLIST_LOG_TIMESTAMPS", "TASKLIST_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
	return work
}

// runCLI runs the CLI with captured output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI and fails the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("run %v: %v\nstderr: %s", args, err, errOut)
	}
	return out
}

func readTasks(t *testing.T, path string) []task.Task {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		t.Fatalf("decoding %s: %v\n%s", path, err, data)
	}
	return tasks
}

// TestRun tests the main dispatch paths.
func TestRun(t *testing.T) {
	setupWorkdir(t)

	t.Run("shows help with -h flag", func(t *testing.T) {
		out, _, err := runCLI(t, "-h")
		if err != nil {
			t.Fatalf("expected no error with -h, got %v", err)
		}
		if !strings.Contains(out, "Usage:") {
			t.Errorf("help output missing usage:\n%s", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		out := mustRun(t, "help")
		if !strings.Contains(out, "Commands:") {
			t.Errorf("help output missing commands:\n%s", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		for _, args := range [][]string{{"-version"}, {"-v"}, {"version"}} {
			out := mustRun(t, args...)
			if out != "tasklist version dev\n" {
				t.Errorf("%v: got %q", args, out)
			}
		}
	})

	t.Run("unknown command returns usage error", func(t *testing.T) {
		_, errOut, err := runCLI(t, "frobnicate")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Fatalf("expected unknown command error, got %v", err)
		}
		if ExitCode(err) != ExitUsage {
			t.Errorf("ExitCode: got %d, want %d", ExitCode(err), ExitUsage)
		}
		if !strings.Contains(errOut, "Unknown command: frobnicate") {
			t.Errorf("stderr: %q", errOut)
		}
	})

	t.Run("invalid config is a usage error", func(t *testing.T) {
		_, _, err := runCLI(t, "-log-level", "loud", "ls")
		if err == nil {
			t.Fatal("expected error for invalid log level")
		}
		if ExitCode(err) != ExitUsage {
			t.Errorf("ExitCode: got %d, want %d", ExitCode(err), ExitUsage)
		}
	})

	t.Run("subcommand help is not an error", func(t *testing.T) {
		if _, _, err := runCLI(t, "add", "-h"); err != nil {
			t.Errorf("add -h: %v", err)
		}
	})
}

func TestAddAndList(t *testing.T) {
	work := setupWorkdir(t)

	out := mustRun(t, "add", "-desc", "2 litres", "-due", "31/12/2025", "Buy", "milk")
	if out != "Added task 1: Buy milk\n" {
		t.Errorf("add output: %q", out)
	}
	out = mustRun(t, "add", "-due", "2025-01-05", "Call mum")
	if out != "Added task 2: Call mum\n" {
		t.Errorf("add output: %q", out)
	}

	tasks := readTasks(t, filepath.Join(work, "tasks.json"))
	if len(tasks) != 2 {
		t.Fatalf("saved %d tasks, want 2", len(tasks))
	}
	if tasks[0].Description != "2 litres" || tasks[0].Status != task.StatusPending {
		t.Errorf("first task: %+v", tasks[0])
	}
	if tasks[1].DueDate == nil || tasks[1].DueDate.String() != "2025-01-05" {
		t.Errorf("second task due: %v", tasks[1].DueDate)
	}

	out = mustRun(t, "ls")
	if !strings.Contains(out, "Buy milk  (due 31/12/2025)") || !strings.Contains(out, "Call mum") {
		t.Errorf("ls output:\n%s", out)
	}

	out = mustRun(t, "ls", "-v")
	want := "ID: 1 | Title: Buy milk | Status: Pending | Due: 31/12/2025 | Description: 2 litres"
	if !strings.Contains(out, want) {
		t.Errorf("ls -v output missing %q:\n%s", want, out)
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	work := setupWorkdir(t)

	tests := []struct {
		name string
		args []string
	}{
		{"blank title", []string{"add", "   "}},
		{"no title", []string{"add"}},
		{"bad due date", []string{"add", "-due", "31-12-2025", "Title"}},
		{"impossible date", []string{"add", "-due", "31/02/2025", "Title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if ExitCode(err) != ExitUserError {
				t.Errorf("ExitCode: got %d, want %d (%v)", ExitCode(err), ExitUserError, err)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(work, "tasks.json")); !os.IsNotExist(err) {
		t.Errorf("data file should not exist after rejected adds, stat err = %v", err)
	}
}

func TestStatusCommands(t *testing.T) {
	setupWorkdir(t)
	mustRun(t, "add", "One")
	mustRun(t, "add", "Two")
	mustRun(t, "add", "Three")

	out := mustRun(t, "done", "1", "3")
	if out != "Task 1 marked as Done.\nTask 3 marked as Done.\n" {
		t.Errorf("done output: %q", out)
	}

	tests := []struct {
		filter string
		want   []string
		absent []string
	}{
		{"pending", []string{"Two"}, []string{"One", "Three"}},
		{"done", []string{"One", "Three"}, []string{"Two"}},
		{"all", []string{"One", "Two", "Three"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			out := mustRun(t, "ls", tt.filter)
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("missing %q in:\n%s", s, out)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(out, s) {
					t.Errorf("unexpected %q in:\n%s", s, out)
				}
			}
		})
	}

	mustRun(t, "reopen", "3")
	out = mustRun(t, "ls", "-status", "done")
	if strings.Contains(out, "Three") || !strings.Contains(out, "[x]   1  One") {
		t.Errorf("ls done after reopen:\n%s", out)
	}

	_, _, err := runCLI(t, "done", "42")
	if !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("done 42: got %v, want ErrNotFound", err)
	}
	if ExitCode(err) != ExitUserError {
		t.Errorf("ExitCode: got %d, want %d", ExitCode(err), ExitUserError)
	}

	if _, _, err := runCLI(t, "ls", "blocked"); ExitCode(err) != ExitUsage {
		t.Errorf("ls blocked: got %v, want usage error", err)
	}
}

func TestEditAndShow(t *testing.T) {
	setupWorkdir(t)
	mustRun(t, "add", "-desc", "old desc", "-due", "01/02/2025", "Old title")

	mustRun(t, "edit", "1", "-title", "New title")
	out := mustRun(t, "show", "1")
	for _, want := range []string{
		"Title:       New title",
		"Description: old desc",
		"Due:         01/02/2025",
		"Status:      Pending",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	mustRun(t, "edit", "-clear-due", "-desc", "", "1")
	out = mustRun(t, "show", "1")
	if !strings.Contains(out, "Due:         N/A") || !strings.Contains(out, "Description: \n") {
		t.Errorf("show after clearing:\n%s", out)
	}

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no changes", []string{"edit", "1"}, ExitUsage},
		{"blank title", []string{"edit", "1", "-title", " "}, ExitUserError},
		{"conflicting due flags", []string{"edit", "1", "-due", "01/01/2025", "-clear-due"}, ExitUsage},
		{"unknown id", []string{"edit", "9", "-title", "x"}, ExitUserError},
		{"bad id", []string{"edit", "abc", "-title", "x"}, ExitUsage},
		{"show unknown", []string{"show", "9"}, ExitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if ExitCode(err) != tt.code {
				t.Errorf("ExitCode: got %d, want %d (%v)", ExitCode(err), tt.code, err)
			}
		})
	}

	out = mustRun(t, "show", "1")
	if !strings.Contains(out, "Title:       New title") {
		t.Errorf("failed edits changed the task:\n%s", out)
	}
}

func TestRemoveThenAddReusesMaxPlusOne(t *testing.T) {
	work := setupWorkdir(t)
	mustRun(t, "add", "One")
	mustRun(t, "add", "Two")

	if out := mustRun(t, "rm", "2"); out != "Task 2 deleted.\n" {
		t.Errorf("rm output: %q", out)
	}
	if _, _, err := runCLI(t, "rm", "2"); !errors.Is(err, task.ErrNotFound) {
		t.Errorf("second rm: got %v, want ErrNotFound", err)
	}

	mustRun(t, "add", "Three")
	tasks := readTasks(t, filepath.Join(work, "tasks.json"))
	if len(tasks) != 2 || tasks[1].ID != 2 {
		t.Errorf("tasks after re-add: %+v", tasks)
	}
}

func TestMultiIDCommandsAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOut    string
		wantIDs    []int64
		wantStatus task.Status
	}{
		{
			name:       "done with unknown id changes nothing",
			args:       []string{"done", "1", "99", "2"},
			wantErr:    true,
			wantIDs:    []int64{1, 2, 3},
			wantStatus: task.StatusPending,
		},
		{
			name:       "rm with unknown id changes nothing",
			args:       []string{"rm", "1", "99"},
			wantErr:    true,
			wantIDs:    []int64{1, 2, 3},
			wantStatus: task.StatusPending,
		},
		{
			name:       "repeated id is removed once",
			args:       []string{"rm", "3", "3"},
			wantOut:    "Task 3 deleted.\n",
			wantIDs:    []int64{1, 2},
			wantStatus: task.StatusPending,
		},
		{
			name:       "repeated id is marked once",
			args:       []string{"done", "2", "#2"},
			wantOut:    "Task 2 marked as Done.\n",
			wantIDs:    []int64{1, 2, 3},
			wantStatus: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := setupWorkdir(t)
			mustRun(t, "add", "One")
			mustRun(t, "add", "Two")
			mustRun(t, "add", "Three")

			out, _, err := runCLI(t, tt.args...)
			if tt.wantErr {
				if !errors.Is(err, task.ErrNotFound) {
					t.Fatalf("run %v: got %v, want ErrNotFound", tt.args, err)
				}
				if out != "" {
					t.Errorf("output after failure: %q", out)
				}
			} else {
				if err != nil {
					t.Fatalf("run %v: %v", tt.args, err)
				}
				if out != tt.wantOut {
					t.Errorf("output: got %q, want %q", out, tt.wantOut)
				}
			}

			tasks := readTasks(t, filepath.Join(work, "tasks.json"))
			if len(tasks) != len(tt.wantIDs) {
				t.Fatalf("tasks: got %+v, want ids %v", tasks, tt.wantIDs)
			}
			for i, got := range tasks {
				if got.ID != tt.wantIDs[i] {
					t.Errorf("tasks[%d].ID: got %d, want %d", i, got.ID, tt.wantIDs[i])
				}
				if tt.wantStatus != "" && got.Status != tt.wantStatus {
					t.Errorf("task %d status: got %s, want %s", got.ID, got.Status, tt.wantStatus)
				}
			}
		})
	}
}

func TestListJSON(t *testing.T) {
	setupWorkdir(t)

	out := mustRun(t, "ls", "-json")
	if out != "[]\n" {
		t.Errorf("empty ls -json: %q", out)
	}

	mustRun(t, "add", "-due", "09/02/2024", "Report")
	out = mustRun(t, "ls", "-json", "pending")
	var tasks []task.Task
	if err := json.Unmarshal([]byte(out), &tasks); err != nil {
		t.Fatalf("ls -json output is not JSON: %v\n%s", err, out)
	}
	if len(tasks) != 1 || tasks[0].Title != "Report" || tasks[0].DueDate.String() != "2024-02-09" {
		t.Errorf("ls -json tasks: %+v", tasks)
	}
}

func TestCorruptDataFileIsNotOverwritten(t *testing.T) {
	work := setupWorkdir(t)
	path := filepath.Join(work, "tasks.json")
	corrupt := []byte(`[{"id": 1, "title": "x", "status": "pending"`)
	if err := os.WriteFile(path, corrupt, 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "add", "New task")
	if err == nil {
		t.Fatal("expected error adding to a corrupt file")
	}
	if ExitCode(err) != ExitStorage {
		t.Errorf("ExitCode: got %d, want %d (%v)", ExitCode(err), ExitStorage, err)
	}
	if !strings.Contains(err.Error(), "tasklist doctor") {
		t.Errorf("error should point at doctor: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, corrupt) {
		t.Errorf("corrupt file was modified: %q", got)
	}
}

func TestDoctorCommand(t *testing.T) {
	work := setupWorkdir(t)

	t.Run("missing data file passes", func(t *testing.T) {
		out := mustRun(t, "doctor")
		if !strings.Contains(out, "data file not found") || !strings.Contains(out, "All checks passed") {
			t.Errorf("doctor output:\n%s", out)
		}
	})

	t.Run("valid data file", func(t *testing.T) {
		mustRun(t, "add", "One")
		out := mustRun(t, "doctor", "-v")
		if !strings.Contains(out, "✅ Valid (1 tasks)") || !strings.Contains(out, "One") {
			t.Errorf("doctor output:\n%s", out)
		}
	})

	t.Run("invalid data file fails", func(t *testing.T) {
		bad := filepath.Join(work, "bad.json")
		data := `[{"id": 1, "title": "a", "status": "pending"}, {"id": 1, "title": "b", "status": "waiting"}]`
		if err := os.WriteFile(bad, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		out, _, err := runCLI(t, "doctor", "bad.json")
		if err == nil {
			t.Fatal("expected doctor to fail")
		}
		if !strings.Contains(out, "❌ Validation failed:") || !strings.Contains(out, "[1].status") {
			t.Errorf("doctor output:\n%s", out)
		}
	})
}

func TestInitCommand(t *testing.T) {
	work := setupWorkdir(t)

	out := mustRun(t, "init")
	if strings.Count(out, "Created ") != 3 {
		t.Errorf("init output:\n%s", out)
	}
	for _, name := range []string{"tasklist.toml", "tasks.schema.json", "tasks.json"} {
		if _, err := os.Stat(filepath.Join(work, name)); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
	if tasks := readTasks(t, filepath.Join(work, "tasks.json")); len(tasks) != 0 {
		t.Errorf("new data file has %d tasks", len(tasks))
	}

	mustRun(t, "add", "Keep me")
	out = mustRun(t, "init", "-force")
	if !strings.Contains(out, "Kept ") || !strings.Contains(out, "tasks.json\n") {
		t.Errorf("init -force output:\n%s", out)
	}
	if tasks := readTasks(t, filepath.Join(work, "tasks.json")); len(tasks) != 1 {
		t.Errorf("init replaced the data file: %+v", tasks)
	}

	out = mustRun(t, "init")
	if !strings.Contains(out, "use -force to overwrite") {
		t.Errorf("second init output:\n%s", out)
	}
}

func TestConfigCommand(t *testing.T) {
	setupWorkdir(t)
	t.Setenv("TASKLIST_DATE_FORMAT", "yyyy-MM-dd")

	out := mustRun(t, "-log-level", "error", "config")
	for _, want := range []string{
		`date_format      = "yyyy-MM-dd"`,
		"(environment)",
		`log_level        = "error"`,
		"(flag)",
		"(default)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "config", "-example")
	if !strings.Contains(out, "data_file = \"tasks.json\"") {
		t.Errorf("config -example output:\n%s", out)
	}
}

func TestLogCommand(t *testing.T) {
	work := setupWorkdir(t)

	out := mustRun(t, "log")
	if !strings.Contains(out, "No log file configured") {
		t.Errorf("log without file: %q", out)
	}

	logFile := filepath.Join(work, "logs", "tasklist.log")
	t.Setenv("TASKLIST_LOG_FILE", logFile)
	out = mustRun(t, "log")
	if !strings.Contains(out, "No log entries yet.") {
		t.Errorf("log before writes: %q", out)
	}

	mustRun(t, "-log-level", "info", "add", "Logged")
	out = mustRun(t, "log", "-n", "5")
	if !strings.Contains(out, "tasks loaded") {
		t.Errorf("log output missing load entry:\n%s", out)
	}
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		args    []string
		want    int
		wantLen int
		wantErr bool
	}{
		{[]string{"1"}, 1, 1, false},
		{[]string{"#7"}, 1, 1, false},
		{[]string{"1", "2", "3"}, -1, 3, false},
		{[]string{"3", "#3", "1", "3"}, -1, 2, false},
		{nil, 1, 0, true},
		{[]string{"1", "2"}, 1, 0, true},
		{[]string{"0"}, 1, 0, true},
		{[]string{"-3"}, 1, 0, true},
		{[]string{"x"}, -1, 0, true},
	}

	for _, tt := range tests {
		ids, err := parseIDs(tt.args, tt.want)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIDs(%v): err = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && len(ids) != tt.wantLen {
			t.Errorf("parseIDs(%v): got %v", tt.args, ids)
		}
	}
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"3", "-title", "x"}, []string{"-title", "x", "3"}},
		{[]string{"-clear-due", "3"}, []string{"-clear-due", "3"}},
		{[]string{"3", "-desc=a b", "-clear-due"}, []string{"-desc=a b", "-clear-due", "3"}},
		{[]string{"3", "--", "-title"}, []string{"3", "-title"}},
	}

	for _, tt := range tests {
		got := reorderArgs(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("reorderArgs(%v): got %v, want %v", tt.in, got, tt.want)
		}
	}
}
