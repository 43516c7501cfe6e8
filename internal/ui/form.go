package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// field is one line of input inside a form.
type field struct {
	note   string // context shown above the prompt, e.g. the current value
	prompt string
	// check validates raw input and returns a problem description, or ""
	// when the input is acceptable. A problem keeps the form on this field.
	check func(string) string
}

// form collects a sequence of answers and hands them to submit.
type form struct {
	title  string
	fields []field
	values []string
	step   int
	input  []rune
	err    string

	// submit receives one value per field. It returns either a follow-up
	// form or a result message for the menu.
	submit func(values []string) formResult
}

type formResult struct {
	next    *form
	message string
	isErr   bool
}

func (f *form) current() field {
	return f.fields[f.step]
}

func (f *form) done() bool {
	return f.step >= len(f.fields)
}

// handleKey edits the input line. It reports true when the last field has
// been accepted.
func (f *form) handleKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyRunes:
		f.input = append(f.input, msg.Runes...)
	case tea.KeySpace:
		f.input = append(f.input, ' ')
	case tea.KeyBackspace:
		if len(f.input) > 0 {
			f.input = f.input[:len(f.input)-1]
		}
	case tea.KeyCtrlU:
		f.input = f.input[:0]
	case tea.KeyEnter:
		return f.accept()
	}
	return false
}

func (f *form) accept() bool {
	value := string(f.input)
	if check := f.current().check; check != nil {
		if problem := check(value); problem != "" {
			f.err = problem
			f.input = f.input[:0]
			return false
		}
	}
	f.err = ""
	f.values = append(f.values, value)
	f.input = f.input[:0]
	f.step++
	return f.done()
}

func (f *form) view(b *strings.Builder) {
	b.WriteString(headingStyle.Render("--- "+f.title+" ---") + "\n\n")
	for i := 0; i < f.step; i++ {
		writeNote(b, f.fields[i].note)
		b.WriteString(promptStyle.Render(f.fields[i].prompt) + " " + f.values[i] + "\n")
	}
	if f.done() {
		return
	}
	writeNote(b, f.current().note)
	if f.err != "" {
		b.WriteString(errorStyle.Render(f.err) + "\n")
	}
	b.WriteString(promptStyle.Render(f.current().prompt) + " " + string(f.input) + cursorStyle.Render(" ") + "\n")
}

func writeNote(b *strings.Builder, note string) {
	if note != "" {
		b.WriteString(noteStyle.Render(note) + "\n")
	}
}
