package task

import (
	"io"

	"github.com/charmbracelet/log"
)

// Persister saves and loads the full task collection.
type Persister interface {
	// Save writes the full collection, replacing any previous state.
	Save(tasks []Task) error
	// Load returns the persisted collection, empty if nothing was saved.
	Load() ([]Task, error)
}

// Store is an in-memory ordered task collection with write-through
// persistence. It is not safe for concurrent use.
type Store struct {
	tasks     []Task
	nextID    int64
	persister Persister
	logger    *log.Logger
	saveErr   error
}

// NewStore creates a store and loads existing tasks from p.
// A load failure is logged and the store starts empty.
// A nil logger discards log output.
func NewStore(p Persister, logger *log.Logger) *Store {
	s, err := LoadStore(p, logger)
	if err != nil {
		s.logger.Warn("could not load saved tasks, starting with an empty list", "err", err)
	}
	return s
}

// LoadStore is like NewStore but returns the load error to the caller.
// The returned store is always usable; on error it is empty.
func LoadStore(p Persister, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Store{
		persister: p,
		logger:    logger,
		nextID:    1,
	}

	loaded, err := p.Load()
	if err != nil {
		return s, err
	}
	logger.Info("tasks loaded", "count", len(loaded))

	s.tasks = make([]Task, 0, len(loaded))
	var maxID int64
	for _, t := range loaded {
		s.tasks = append(s.tasks, t.Clone())
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	s.nextID = maxID + 1
	return s, nil
}

// Add creates a pending task with the next identifier.
func (s *Store) Add(title, description string, due *Date) (Task, error) {
	trimmed, err := normalizeTitle(title)
	if err != nil {
		return Task{}, err
	}
	if s.nextID <= 0 {
		return Task{}, ErrIDsExhausted
	}

	t := Task{
		ID:          s.nextID,
		Title:       trimmed,
		Description: description,
		DueDate:     cloneDate(due),
		Status:      StatusPending,
	}
	s.nextID++
	s.tasks = append(s.tasks, t)
	s.persist()
	return t.Clone(), nil
}

// Find returns the task with the given id.
func (s *Store) Find(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i].Clone(), true
	}
	return Task{}, false
}

// All returns a snapshot of every task in insertion order.
func (s *Store) All() []Task {
	return s.filter(func(*Task) bool { return true })
}

// Pending returns a snapshot of the pending tasks.
func (s *Store) Pending() []Task {
	return s.filter(func(t *Task) bool { return t.Status == StatusPending })
}

// Done returns a snapshot of the completed tasks.
func (s *Store) Done() []Task {
	return s.filter(func(t *Task) bool { return t.Status == StatusDone })
}

// ByStatus returns the snapshot for status, or every task if status is empty.
func (s *Store) ByStatus(status Status) []Task {
	if status == "" {
		return s.All()
	}
	return s.filter(func(t *Task) bool { return t.Status == status })
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Counts returns the number of tasks per status.
func (s *Store) Counts() map[Status]int {
	counts := map[Status]int{
		StatusPending: 0,
		StatusDone:    0,
	}
	for i := range s.tasks {
		counts[s.tasks[i].Status]++
	}
	return counts
}

// Update replaces the title, description and due date of a task.
// It returns false without writing if id is unknown.
func (s *Store) Update(id int64, title, description string, due *Date) (bool, error) {
	trimmed, err := normalizeTitle(title)
	if err != nil {
		return false, err
	}
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	s.tasks[i].Title = trimmed
	s.tasks[i].Description = description
	s.tasks[i].DueDate = cloneDate(due)
	s.persist()
	return true, nil
}

// SetStatus sets the status of a task.
// It returns false without writing if id is unknown or status is invalid.
func (s *Store) SetStatus(id int64, status Status) bool {
	if !status.Valid() {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Status = status
	s.persist()
	return true
}

// Complete marks a task as done.
func (s *Store) Complete(id int64) bool {
	return s.SetStatus(id, StatusDone)
}

// Reopen marks a task as pending.
func (s *Store) Reopen(id int64) bool {
	return s.SetStatus(id, StatusPending)
}

// Remove deletes a task. It returns false without writing if id is unknown.
func (s *Store) Remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()
	return true
}

// Save writes the collection and returns the persister's error, if any.
func (s *Store) Save() error {
	err := s.persister.Save(s.All())
	s.saveErr = err
	return err
}

// LastSaveError returns the error from the most recent write, or nil
// if it succeeded.
func (s *Store) LastSaveError() error {
	return s.saveErr
}

// persist writes the collection after a mutation. Failures are logged,
// not returned.
func (s *Store) persist() {
	if err := s.Save(); err != nil {
		s.logger.Error("failed to save tasks", "err", err)
	}
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) filter(keep func(*Task) bool) []Task {
	out := make([]Task, 0, len(s.tasks))
	for i := range s.tasks {
		if keep(&s.tasks[i]) {
			out = append(out, s.tasks[i].Clone())
		}
	}
	return out
}

func cloneDate(d *Date) *Date {
	if d == nil || d.IsZero() {
		return nil
	}
	c := *d
	return &c
}
