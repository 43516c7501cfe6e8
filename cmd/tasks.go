package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/task"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// menuCommand runs the interactive menu. Unlike the other commands it
// starts on an empty list when the data file cannot be read, and says so.
func (a *app) menuCommand(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return usageErrorf("menu takes no arguments, got %v", args)
	}
	backend, err := a.openBackend()
	if err != nil {
		return err
	}
	var notice string
	store, err := task.LoadStore(backend, a.logger)
	if err != nil {
		a.logger.Warn("could not load saved tasks, starting with an empty list", "err", err)
		notice = fmt.Sprintf("Warning: %v\nStarting with an empty list.", err)
	}
	return ui.RunMenu(ctx, store, ui.MenuOptions{
		DateLayout: a.cfg.DateLayout(),
		DateHint:   a.cfg.DateFormatHint(),
		DataPath:   backend.Path(),
		Notice:     notice,
	})
}

func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	desc := fs.String("desc", "", "Description")
	due := fs.String("due", "", "Due date")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dueDate, err := a.parseDue(*due)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}

	t, err := store.Add(joinArgs(fs.Args()), *desc, dueDate)
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	if err := store.LastSaveError(); err != nil {
		return fmt.Errorf("task %d added but not saved: %w", t.ID, err)
	}
	fmt.Fprintf(a.out, "Added task %d: %s\n", t.ID, t.Title)
	return nil
}

// lsCommand lists tasks, optionally filtered by status.
func (a *app) lsCommand(args []string) error {
	fs := a.newFlagSet("ls")
	statusFilter := fs.String("status", "", "Filter by status (all|pending|done)")
	verbose := fs.Bool("v", false, "Show full task lines")
	asJSON := fs.Bool("json", false, "Print tasks as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 1 && *statusFilter == "" {
		*statusFilter = remaining[0]
		remaining = remaining[1:]
	}
	if len(remaining) > 0 {
		return usageErrorf("unexpected arguments: %v", remaining)
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}

	var tasks []task.Task
	switch f := strings.ToLower(strings.TrimSpace(*statusFilter)); f {
	case "", "all":
		tasks = store.All()
	default:
		status, err := task.ParseStatus(f)
		if err != nil {
			return usageErrorf("invalid status %q (expected all|pending|done)", *statusFilter)
		}
		tasks = store.ByStatus(status)
	}

	if *asJSON {
		data, err := storage.MarshalJSON(tasks)
		if err != nil {
			return err
		}
		_, err = a.out.Write(data)
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No tasks found.")
		return nil
	}
	layout := a.cfg.DateLayout()
	for _, t := range tasks {
		if *verbose {
			fmt.Fprintln(a.out, ui.FormatLine(t, layout))
			continue
		}
		fmt.Fprintln(a.out, formatShort(t, layout))
	}
	return nil
}

func (a *app) showCommand(args []string) error {
	fs := a.newFlagSet("show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args(), 1)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}

	t, ok := store.Find(ids[0])
	if !ok {
		return notFound(ids[0])
	}
	layout := a.cfg.DateLayout()
	fmt.Fprintf(a.out, "ID:          %d\n", t.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", t.Title)
	fmt.Fprintf(a.out, "Status:      %s\n", t.Status.Label())
	fmt.Fprintf(a.out, "Due:         %s\n", task.FormatDue(t.DueDate, layout))
	fmt.Fprintf(a.out, "Description: %s\n", t.Description)
	return nil
}

// statusCommand implements done and reopen.
func (a *app) statusCommand(args []string, status task.Status) error {
	name := "done"
	if status == task.StatusPending {
		name = "reopen"
	}
	fs := a.newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args(), -1)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}

	if err := requireTasks(store, ids); err != nil {
		return err
	}
	for _, id := range ids {
		store.SetStatus(id, status)
		if err := store.LastSaveError(); err != nil {
			return fmt.Errorf("task %d updated but not saved: %w", id, err)
		}
		fmt.Fprintf(a.out, "Task %d marked as %s.\n", id, status.Label())
	}
	return nil
}

// editCommand changes only the fields whose flags were given.
func (a *app) editCommand(args []string) error {
	fs := a.newFlagSet("edit")
	title := fs.String("title", "", "New title")
	desc := fs.String("desc", "", "New description")
	due := fs.String("due", "", "New due date")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args(), 1)
	if err != nil {
		return err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		return usageErrorf("edit needs at least one of -title, -desc, -due, -clear-due")
	}
	if set["due"] && *clearDue {
		return usageErrorf("-due and -clear-due cannot be combined")
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	current, ok := store.Find(ids[0])
	if !ok {
		return notFound(ids[0])
	}

	newTitle := current.Title
	if set["title"] {
		newTitle = *title
	}
	newDesc := current.Description
	if set["desc"] {
		newDesc = *desc
	}
	newDue := current.DueDate
	switch {
	case *clearDue:
		newDue = nil
	case set["due"]:
		if newDue, err = a.parseDue(*due); err != nil {
			return err
		}
	}

	if _, err := store.Update(current.ID, newTitle, newDesc, newDue); err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if err := store.LastSaveError(); err != nil {
		return fmt.Errorf("task %d updated but not saved: %w", current.ID, err)
	}
	fmt.Fprintf(a.out, "Task %d updated.\n", current.ID)
	return nil
}

func (a *app) rmCommand(args []string) error {
	fs := a.newFlagSet("rm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args(), -1)
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}

	if err := requireTasks(store, ids); err != nil {
		return err
	}
	for _, id := range ids {
		store.Remove(id)
		if err := store.LastSaveError(); err != nil {
			return fmt.Errorf("task %d deleted but not saved: %w", id, err)
		}
		fmt.Fprintf(a.out, "Task %d deleted.\n", id)
	}
	return nil
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasklist "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parseDue parses a due date in the configured layout, falling back to
// yyyy-MM-dd. Blank input means no due date.
func (a *app) parseDue(s string) (*task.Date, error) {
	d, err := task.ParseOptionalDate(a.cfg.DateLayout(), s)
	if err == nil {
		return d, nil
	}
	if iso, isoErr := task.ParseOptionalDate(task.DateLayout, s); isoErr == nil {
		return iso, nil
	}
	return nil, fmt.Errorf("%w (use %s)", err, a.cfg.DateFormatHint())
}

// parseIDs parses task ids. want is the exact count required, or -1 for
// one or more. Repeated ids are dropped.
func parseIDs(args []string, want int) ([]int64, error) {
	if len(args) == 0 {
		return nil, usageErrorf("missing task id")
	}
	if want > 0 && len(args) != want {
		return nil, usageErrorf("expected %d task id, got %d arguments", want, len(args))
	}
	ids := make([]int64, 0, len(args))
	seen := make(map[int64]bool, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil || id < 1 {
			return nil, usageErrorf("invalid task id %q", arg)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// requireTasks returns a not-found error for the first id missing from store.
func requireTasks(store *task.Store, ids []int64) error {
	for _, id := range ids {
		if _, ok := store.Find(id); !ok {
			return notFound(id)
		}
	}
	return nil
}

// reorderArgs moves positional arguments after flags so that
// "edit 3 -title x" parses like "edit -title x 3".
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && name != "clear-due" && i+1 < len(args) {
			flags = append(flags, args[i+1])
			i++
		}
	}
	return append(flags, positional...)
}

func notFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, task.ErrNotFound)
}

// formatShort renders a compact listing line.
func formatShort(t task.Task, layout string) string {
	mark := " "
	if t.IsDone() {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %3d  %s", mark, t.ID, t.Title)
	if t.DueDate != nil {
		line += "  (due " + task.FormatDue(t.DueDate, layout) + ")"
	}
	return line
}
