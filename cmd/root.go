// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/task"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// errUsage marks errors caused by bad command-line arguments.
var errUsage = errors.New("usage error")

// app carries what every command needs.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	out     io.Writer
	errOut  io.Writer
	logger  *log.Logger
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws,
		out:     stdout,
		errOut:  stderr,
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand
	// With no arguments, open the menu on a terminal and list tasks otherwise
	remainingArgs := fs.Args()
	subcommand := ""
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	} else if ui.IsTTY(os.Stdin) && ui.IsTTY(stdout) {
		subcommand = "menu"
	} else {
		subcommand = "ls"
	}

	// Commands that never touch the logger
	switch subcommand {
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	case "config":
		if err := a.configCommand(remainingArgs); !errors.Is(err, flag.ErrHelp) {
			return err
		}
		return nil
	}

	closeLogger, err := a.setupLogger(subcommand == "menu")
	if err != nil {
		return err
	}
	defer closeLogger()

	err = a.dispatch(ctx, fs, subcommand, remainingArgs)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// dispatch executes a subcommand that needs the logger.
func (a *app) dispatch(ctx context.Context, fs *flag.FlagSet, subcommand string, remainingArgs []string) error {
	switch subcommand {
	case "menu":
		return a.menuCommand(ctx, remainingArgs)
	case "add":
		return a.addCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "show":
		return a.showCommand(remainingArgs)
	case "done":
		return a.statusCommand(remainingArgs, task.StatusDone)
	case "reopen":
		return a.statusCommand(remainingArgs, task.StatusPending)
	case "edit":
		return a.editCommand(remainingArgs)
	case "rm":
		return a.rmCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(remainingArgs)
	case "init":
		return a.initCommand(remainingArgs)
	case "log":
		return a.logCommand(ctx, remainingArgs)
	default:
		fmt.Fprintf(a.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, a.errOut)
		return usageErrorf("unknown command: %s", subcommand)
	}
}

// setupLogger builds the logger from config. The menu owns the terminal,
// so it only logs when a log file is configured.
func (a *app) setupLogger(menu bool) (func(), error) {
	opts := logging.Options{
		Level:      a.cfg.LogLevel,
		Format:     a.cfg.LogFormat,
		Timestamps: a.cfg.LogTimestamps,
		Caller:     a.cfg.LogCaller,
		File:       a.cfg.LogFile,
	}
	var w io.Writer = a.errOut
	if menu {
		w = io.Discard
	}
	logger, closer, err := logging.New(opts, w)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logger
	return func() { _ = closer.Close() }, nil
}

// openBackend returns the configured persistence backend.
func (a *app) openBackend() (storage.Backend, error) {
	backend, err := storage.Open(a.cfg.StoreFormat, a.cfg.DataFile, storage.Options{
		ValidateSchema: a.cfg.ValidateSchema,
		SchemaPath:     a.cfg.SchemaFile,
	})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return backend, nil
}

// openStore loads the task store. Command-line edits refuse to run on an
// unreadable data file, since the next save would replace it.
func (a *app) openStore() (*task.Store, error) {
	backend, err := a.openBackend()
	if err != nil {
		return nil, err
	}
	store, err := task.LoadStore(backend, a.logger)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'tasklist doctor' for details)", err)
	}
	return store, nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.out, "tasklist version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - A single-user task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [options] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu                 Interactive menu (default on a terminal)")
	fmt.Fprintln(w, "  add <title...>       Add a task")
	fmt.Fprintln(w, "  ls [status]          List tasks (alias: list)")
	fmt.Fprintln(w, "  show <id>            Show one task")
	fmt.Fprintln(w, "  done <id...>         Mark tasks as done")
	fmt.Fprintln(w, "  reopen <id...>       Mark tasks as pending")
	fmt.Fprintln(w, "  edit <id>            Change title, description or due date")
	fmt.Fprintln(w, "  rm <id...>           Delete tasks")
	fmt.Fprintln(w, "  doctor               Check config and data file validity")
	fmt.Fprintln(w, "  init                 Write example config, schema and empty data file")
	fmt.Fprintln(w, "  config               Show effective configuration and value sources")
	fmt.Fprintln(w, "  log                  Tail the log file")
	fmt.Fprintln(w, "  version              Show version information")
	fmt.Fprintln(w, "  help                 Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -desc string    Description")
	fmt.Fprintln(w, "  -due string     Due date (date_format or yyyy-MM-dd)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -status string  Filter by status (all|pending|done)")
	fmt.Fprintln(w, "  -v              Show full task lines")
	fmt.Fprintln(w, "  -json           Print tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Edit Options:")
	fmt.Fprintln(w, "  -title string   New title")
	fmt.Fprintln(w, "  -desc string    New description")
	fmt.Fprintln(w, "  -due string     New due date")
	fmt.Fprintln(w, "  -clear-due      Remove the due date")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, -follow     Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int          Number of lines to show (0 = all)")
}

// usageErrorf returns an error wrapping errUsage.
func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// joinArgs joins positional arguments into one string.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
