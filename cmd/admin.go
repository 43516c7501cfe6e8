package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/task"
)

// doctorCommand checks config, the data file and the log file.
func (a *app) doctorCommand(args []string) error {
	fs := a.newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return usageErrorf("unexpected arguments: %v", remaining[1:])
	}
	dataPath := a.cfg.DataFile
	if len(remaining) == 1 {
		dataPath = remaining[0]
		if !filepath.IsAbs(dataPath) {
			dataPath = filepath.Join(a.cfg.ProjectRoot, dataPath)
		}
	}
	format := storage.NormalizeFormat(a.cfg.StoreFormat)
	if format == "" {
		format = storage.DetectFormat(dataPath)
	}

	w := a.out
	fmt.Fprintln(w, "Tasklist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config files
	fmt.Fprintln(w, "Config:")
	if len(a.sources.Files) == 0 {
		fmt.Fprintln(w, "  ⚠️  No config file (using defaults)")
	}
	for _, f := range a.sources.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintf(w, "  ✅ Store format: %s\n", format)
	fmt.Fprintf(w, "  ✅ Date format: %s\n", a.cfg.DateFormatHint())
	fmt.Fprintln(w)

	// Data file
	fmt.Fprintf(w, "Data file: %s\n", dataPath)
	if format != storage.FormatMemory {
		if info, err := os.Stat(dataPath); err == nil && info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is a directory")
			allOK = false
		}
	}
	if allOK {
		tasks, result := storage.CheckFile(format, dataPath, storage.Options{
			ValidateSchema: a.cfg.ValidateSchema,
			SchemaPath:     a.cfg.SchemaFile,
		})
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  ⚠️  %s\n", warning)
		}
		if result.Valid {
			fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", len(tasks))
		} else {
			fmt.Fprintln(w, "  ❌ Validation failed:")
			for _, e := range result.Errors {
				fmt.Fprintf(w, "     - %v\n", e)
			}
			allOK = false
		}
		if *verbose && result.Valid {
			for _, t := range tasks {
				fmt.Fprintf(w, "    - %s\n", formatShort(t, a.cfg.DateLayout()))
			}
		}
	}
	fmt.Fprintln(w)

	// Schema
	switch {
	case !a.cfg.ValidateSchema:
		fmt.Fprintln(w, "Schema: disabled")
	case a.cfg.SchemaFile == "":
		fmt.Fprintln(w, "Schema: built-in")
	default:
		fmt.Fprintf(w, "Schema file: %s\n", a.cfg.SchemaFile)
		if _, err := os.Stat(a.cfg.SchemaFile); err != nil {
			fmt.Fprintf(w, "  ⚠️  %v (falling back to built-in)\n", err)
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	// Log file
	if a.cfg.LogFile == "" {
		fmt.Fprintln(w, "Log file: none (logging to stderr)")
	} else {
		fmt.Fprintf(w, "Log file: %s\n", a.cfg.LogFile)
		lines, err := logging.CountLines(a.cfg.LogFile)
		if err != nil {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ OK (%d lines)\n", lines)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

// initCommand writes a project config file, the task schema and an empty
// data file. Existing data files are never replaced.
func (a *app) initCommand(args []string) error {
	fs := a.newFlagSet("init")
	force := fs.Bool("force", false, "Overwrite existing config and schema files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %v", fs.Args())
	}

	configPath := filepath.Join(a.cfg.ProjectRoot, "tasklist.toml")
	if err := a.writeInitFile(configPath, []byte(config.ExampleConfig()), *force); err != nil {
		return err
	}

	backend, err := a.openBackend()
	if err != nil {
		return err
	}
	if backend.Format() == storage.FormatJSON {
		schemaPath := filepath.Join(filepath.Dir(backend.Path()), "tasks.schema.json")
		if err := a.writeInitFile(schemaPath, storage.Schema(), *force); err != nil {
			return err
		}
	}

	if path := backend.Path(); path != "" {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(a.out, "Kept %s\n", path)
			return nil
		} else if !os.IsNotExist(err) {
			return err
		}
		if err := backend.Save([]task.Task{}); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Created %s\n", path)
	}
	return nil
}

func (a *app) writeInitFile(path string, data []byte, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(a.out, "Kept %s (use -force to overwrite)\n", path)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	fmt.Fprintf(a.out, "Created %s\n", path)
	return nil
}

// configCommand prints the effective configuration and where each value
// came from.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(a.out, config.ExampleConfig())
		return nil
	}

	for _, f := range a.sources.Files {
		fmt.Fprintf(a.out, "# %s\n", f)
	}
	for _, field := range config.Fields() {
		source := a.sources.Sources[field]
		if source == "" {
			source = config.SourceDefault
		}
		fmt.Fprintf(a.out, "%-16s = %-24q (%s)\n", field, a.cfg.Value(field), source)
	}
	return nil
}

// logCommand tails the configured log file.
func (a *app) logCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("log")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.LogFile == "" {
		fmt.Fprintln(a.out, "No log file configured (set log_file or TASKLIST_LOG_FILE).")
		return nil
	}
	info, err := os.Stat(a.cfg.LogFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("checking log file: %w", err)
	}
	if err != nil || (info.Size() == 0 && !*follow) {
		fmt.Fprintln(a.out, "No log entries yet.")
		return nil
	}
	if *follow {
		fmt.Fprintf(a.errOut, "Tailing: %s (Ctrl+C to stop)\n", a.cfg.LogFile)
	}
	return logging.Tail(ctx, a.out, a.cfg.LogFile, *n, *follow)
}
