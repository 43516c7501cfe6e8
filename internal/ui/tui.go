// Package ui provides the interactive terminal menu.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasklist-go/internal/task"
)

// RunMenu runs the interactive menu until the user quits or ctx is done.
// Both stdin and stdout must be terminals.
func RunMenu(ctx context.Context, store *task.Store, opts MenuOptions) error {
	if !IsTTY(os.Stdout) || !IsTTY(os.Stdin) {
		return fmt.Errorf("menu requires a TTY")
	}
	return runProgram(ctx, newMenuModel(store, opts))
}

func runProgram(ctx context.Context, model *menuModel) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// IsTTY returns true if w is a terminal.
func IsTTY(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
