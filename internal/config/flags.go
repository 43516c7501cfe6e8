package config

import "flag"

// flagFields maps global flag names to config keys.
var flagFields = map[string]string{
	"data":            "data_file",
	"store":           "store_format",
	"schema":          "schema_file",
	"validate-schema": "validate_schema",
	"date-format":     "date_format",
	"log-level":       "log_level",
	"log-format":      "log_format",
	"log-timestamps":  "log_timestamps",
	"log-caller":      "log_caller",
	"log-file":        "log_file",
}

// parseFlags defines the global flags on fs, parses args and records
// explicitly set flags in sources. The caller may have registered its own
// flags on fs beforehand.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.DataFile, "data", cfg.DataFile, "Path to task data file")
	fs.StringVar(&cfg.StoreFormat, "store", cfg.StoreFormat, "Store format (json|yaml|memory, default from file extension)")
	fs.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "External JSON Schema for the data file (default embedded)")
	fs.BoolVar(&cfg.ValidateSchema, "validate-schema", cfg.ValidateSchema, "Validate JSON data files against the schema on load")

	// Presentation
	fs.StringVar(&cfg.DateFormat, "date-format", cfg.DateFormat, "Due date input/display format (Go layout or dd/MM/yyyy)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error|fatal)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in logs")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Write logs to this file instead of stderr")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagFields[f.Name]; ok && sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}
