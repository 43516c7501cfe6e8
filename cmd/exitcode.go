package cmd

import (
	"errors"

	"github.com/nibzard/tasklist-go/internal/storage"
)

// Exit codes returned by the tasklist binary.
const (
	ExitOK = 0

	// ExitUserError covers unknown ids, invalid input and failed checks.
	ExitUserError = 1

	// ExitUsage covers bad arguments and invalid configuration.
	ExitUsage = 2

	// ExitStorage covers unreadable or unwritable data files.
	ExitStorage = 3
)

// errConfig marks configuration loading failures.
var errConfig = errors.New("invalid configuration")

// ExitCode maps an error returned by Run to a process exit code.
func ExitCode(err error) int {
	var perr *storage.PersistenceError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), errors.Is(err, errConfig):
		return ExitUsage
	case errors.As(err, &perr):
		return ExitStorage
	default:
		return ExitUserError
	}
}
