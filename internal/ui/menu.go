package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist-go/internal/task"
)

type screen int

const (
	screenMenu screen = iota
	screenForm
	screenList
)

// menuItems mirrors the numbered console menu.
var menuItems = []struct {
	key   string
	label string
}{
	{"1", "Add new task"},
	{"2", "List all tasks"},
	{"3", "List pending tasks"},
	{"4", "List completed tasks"},
	{"5", "Mark task as done"},
	{"6", "Edit task"},
	{"7", "Delete task"},
	{"8", "Mark task as pending"},
	{"0", "Quit"},
}

// MenuOptions configures the interactive menu.
type MenuOptions struct {
	// DateLayout is the Go layout for due date input and display.
	DateLayout string
	// DateHint is shown in prompts, e.g. "dd/MM/yyyy".
	DateHint string
	// DataPath is shown in the footer. Empty hides it.
	DataPath string
	// Notice is an initial warning, e.g. an unreadable data file.
	Notice string
}

type menuModel struct {
	store *task.Store
	opts  MenuOptions

	screen  screen
	form    *form
	list    listing
	message string
	isErr   bool
	quit    bool
}

type listing struct {
	title string
	tasks []task.Task
}

func newMenuModel(store *task.Store, opts MenuOptions) *menuModel {
	if opts.DateLayout == "" {
		opts.DateLayout = task.DefaultDisplayLayout
	}
	if opts.DateHint == "" {
		opts.DateHint = "dd/MM/yyyy"
	}
	m := &menuModel{store: store, opts: opts}
	if opts.Notice != "" {
		m.message = opts.Notice
		m.isErr = true
	}
	return m
}

func (m *menuModel) Init() tea.Cmd {
	return nil
}

func (m *menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		m.quit = true
		return m, tea.Quit
	}

	switch m.screen {
	case screenForm:
		return m.updateForm(key)
	case screenList:
		// Any key returns to the menu.
		m.screen = screenMenu
		m.list = listing{}
		return m, nil
	}
	return m.updateMenu(key)
}

func (m *menuModel) updateMenu(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message, m.isErr = "", false

	switch key.String() {
	case "1":
		m.openForm(m.addForm())
	case "2":
		m.showList("All Tasks", m.store.All())
	case "3":
		m.showList("Pending Tasks", m.store.Pending())
	case "4":
		m.showList("Completed Tasks", m.store.Done())
	case "5":
		m.openForm(m.statusForm(task.StatusDone))
	case "6":
		m.openForm(m.editLookupForm())
	case "7":
		m.openForm(m.deleteForm())
	case "8":
		m.openForm(m.statusForm(task.StatusPending))
	case "0", "q", "esc":
		m.quit = true
		return m, tea.Quit
	default:
		m.setMessage("Invalid option. Try again.", true)
	}
	return m, nil
}

func (m *menuModel) updateForm(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyEsc {
		m.form = nil
		m.screen = screenMenu
		m.setMessage("Cancelled.", false)
		return m, nil
	}
	if !m.form.handleKey(key) {
		return m, nil
	}

	res := m.form.submit(m.form.values)
	if res.next != nil {
		m.form = res.next
		return m, nil
	}
	m.form = nil
	m.screen = screenMenu
	m.setMessage(res.message, res.isErr)
	return m, nil
}

func (m *menuModel) openForm(f *form) {
	m.form = f
	m.screen = screenForm
}

func (m *menuModel) showList(title string, tasks []task.Task) {
	m.list = listing{title: title, tasks: tasks}
	m.screen = screenList
}

func (m *menuModel) setMessage(msg string, isErr bool) {
	m.message, m.isErr = msg, isErr
}

// saved appends a warning to msg when the last write failed.
func (m *menuModel) saved(msg string) formResult {
	if err := m.store.LastSaveError(); err != nil {
		return formResult{message: msg + "\nWarning: changes could not be saved: " + err.Error(), isErr: true}
	}
	return formResult{message: msg}
}

func (m *menuModel) addForm() *form {
	return &form{
		title: "Add New Task",
		fields: []field{
			{prompt: "Title:"},
			{prompt: "Description (optional):"},
			{prompt: fmt.Sprintf("Due date (%s, optional):", m.opts.DateHint), check: m.checkDate},
		},
		submit: func(v []string) formResult {
			due, _ := task.ParseOptionalDate(m.opts.DateLayout, v[2])
			t, err := m.store.Add(v[0], v[1], due)
			if err != nil {
				return formResult{message: "Error adding task: " + err.Error(), isErr: true}
			}
			return m.saved(fmt.Sprintf("Task added successfully! ID: %d", t.ID))
		},
	}
}

func (m *menuModel) statusForm(status task.Status) *form {
	title := "Complete Task"
	if status == task.StatusPending {
		title = "Reopen Task (Mark as Pending)"
	}
	return &form{
		title:  title,
		fields: []field{idField()},
		submit: func(v []string) formResult {
			id := mustID(v[0])
			if !m.store.SetStatus(id, status) {
				return formResult{message: fmt.Sprintf("Task with ID %d not found.", id), isErr: true}
			}
			return m.saved(fmt.Sprintf("Task ID %d status updated to %s.", id, status.Label()))
		},
	}
}

func (m *menuModel) deleteForm() *form {
	return &form{
		title:  "Delete Task",
		fields: []field{idField()},
		submit: func(v []string) formResult {
			id := mustID(v[0])
			if !m.store.Remove(id) {
				return formResult{message: fmt.Sprintf("Task with ID %d not found.", id), isErr: true}
			}
			return m.saved("Task deleted successfully!")
		},
	}
}

func (m *menuModel) editLookupForm() *form {
	return &form{
		title:  "Edit Task",
		fields: []field{idField()},
		submit: func(v []string) formResult {
			id := mustID(v[0])
			t, ok := m.store.Find(id)
			if !ok {
				return formResult{message: fmt.Sprintf("Task with ID %d not found.", id), isErr: true}
			}
			return formResult{next: m.editForm(t)}
		},
	}
}

// editForm keeps the current value for every blank answer. "-" clears the
// description or due date.
func (m *menuModel) editForm(t task.Task) *form {
	return &form{
		title: fmt.Sprintf("Edit Task %d", t.ID),
		fields: []field{
			{note: "Current title: " + t.Title, prompt: "New title (Enter to keep):"},
			{note: "Current description: " + t.Description, prompt: "New description (Enter to keep, - to clear):"},
			{
				note:   "Current due date: " + task.FormatDue(t.DueDate, m.opts.DateLayout),
				prompt: fmt.Sprintf("New due date (%s, Enter to keep, - to clear):", m.opts.DateHint),
				check: func(s string) string {
					if strings.TrimSpace(s) == "-" {
						return ""
					}
					return m.checkDate(s)
				},
			},
		},
		submit: func(v []string) formResult {
			title := t.Title
			if strings.TrimSpace(v[0]) != "" {
				title = v[0]
			}
			desc := keepOrClear(t.Description, v[1])

			due := t.DueDate
			switch strings.TrimSpace(v[2]) {
			case "":
			case "-":
				due = nil
			default:
				due, _ = task.ParseOptionalDate(m.opts.DateLayout, v[2])
			}

			ok, err := m.store.Update(t.ID, title, desc, due)
			if err != nil {
				return formResult{message: "Error updating task: " + err.Error(), isErr: true}
			}
			if !ok {
				return formResult{message: fmt.Sprintf("Task with ID %d not found.", t.ID), isErr: true}
			}
			return m.saved("Task updated successfully!")
		},
	}
}

func (m *menuModel) checkDate(s string) string {
	if _, err := task.ParseOptionalDate(m.opts.DateLayout, s); err != nil {
		return fmt.Sprintf("Invalid date format. Use %s or leave blank.", m.opts.DateHint)
	}
	return ""
}

func idField() field {
	return field{prompt: "Task ID:", check: checkID}
}

func checkID(s string) string {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return "Invalid input. Enter a number for the ID."
	}
	if id < 0 {
		return "ID cannot be negative."
	}
	return ""
}

// mustID parses input already accepted by checkID.
func mustID(s string) int64 {
	id, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return id
}

func keepOrClear(current, input string) string {
	switch strings.TrimSpace(input) {
	case "":
		return current
	case "-":
		return ""
	}
	return input
}

func (m *menuModel) View() string {
	if m.quit {
		return "Exiting. Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("To-Do List") + "\n\n")

	switch m.screen {
	case screenForm:
		m.form.view(&b)
		b.WriteString("\n" + footerStyle.Render("enter: confirm | esc: cancel") + "\n")
	case screenList:
		b.WriteString(headingStyle.Render("--- "+m.list.title+" ---") + "\n")
		if len(m.list.tasks) == 0 {
			b.WriteString("No tasks found.\n")
		}
		for _, t := range m.list.tasks {
			line := FormatLine(t, m.opts.DateLayout)
			if t.IsDone() {
				line = doneStyle.Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + footerStyle.Render("Press any key to return to the menu") + "\n")
	default:
		m.viewMenu(&b)
	}
	return b.String()
}

func (m *menuModel) viewMenu(b *strings.Builder) {
	if m.message != "" {
		style := okStyle
		if m.isErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.message) + "\n\n")
	}

	b.WriteString(headingStyle.Render("--- Menu ---") + "\n")
	for _, item := range menuItems {
		b.WriteString(fmt.Sprintf("%s. %s\n", item.key, item.label))
	}
	b.WriteString("Choose an option: ")
	b.WriteString(cursorStyle.Render(" ") + "\n\n")

	counts := m.store.Counts()
	footer := fmt.Sprintf("%d pending | %d done", counts[task.StatusPending], counts[task.StatusDone])
	if m.opts.DataPath != "" {
		footer += " | " + m.opts.DataPath
	}
	b.WriteString(footerStyle.Render(footer) + "\n")
}

// FormatLine renders a task as a single listing line.
func FormatLine(t task.Task, layout string) string {
	return fmt.Sprintf("ID: %d | Title: %s | Status: %s | Due: %s | Description: %s",
		t.ID, t.Title, t.Status.Label(), task.FormatDue(t.DueDate, layout), t.Description)
}
