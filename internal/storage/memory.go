package storage

import "github.com/nibzard/tasklist-go/internal/task"

// Memory keeps tasks in process memory. Nothing survives a restart.
type Memory struct {
	tasks []task.Task

	// SaveErr and LoadErr, when set, are returned by Save and Load.
	SaveErr error
	LoadErr error
	// Saves counts Save calls, including failed ones.
	Saves int
}

// NewMemory returns an empty in-memory backend.
func NewMemory(seed ...task.Task) *Memory {
	return &Memory{tasks: cloneTasks(seed)}
}

// Path returns "".
func (m *Memory) Path() string { return "" }

// Format returns FormatMemory.
func (m *Memory) Format() string { return FormatMemory }

// Save replaces the stored tasks with a copy of tasks.
func (m *Memory) Save(tasks []task.Task) error {
	m.Saves++
	if m.SaveErr != nil {
		return &PersistenceError{Op: "save", Err: m.SaveErr}
	}
	m.tasks = cloneTasks(tasks)
	return nil
}

// Load returns a copy of the stored tasks.
func (m *Memory) Load() ([]task.Task, error) {
	if m.LoadErr != nil {
		return nil, &PersistenceError{Op: "load", Err: m.LoadErr}
	}
	return cloneTasks(m.tasks), nil
}

func cloneTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
