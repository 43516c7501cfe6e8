package task

import "strings"

// Status represents a task status.
type Status string

const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDone:
		return true
	}
	return false
}

// Label returns the human-readable status name.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusDone:
		return "Done"
	default:
		return string(s)
	}
}

// ParseStatus parses a status name, case-insensitively.
// "open" and "todo" are accepted for pending, "completed" for done.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "open", "todo":
		return StatusPending, nil
	case "done", "completed":
		return StatusDone, nil
	}
	return "", &ValidationError{Field: "status", Err: ErrInvalidStatus}
}

// Task represents a single to-do item.
type Task struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *Date  `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Status      Status `json:"status" yaml:"status"`
}

// IsDone reports whether the task is complete.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// Clone returns a copy of t that shares no memory with it.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// normalizeTitle trims the title and rejects blank values.
func normalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "title", Err: ErrTitleRequired}
	}
	return trimmed, nil
}
