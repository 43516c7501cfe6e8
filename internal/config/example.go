package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags

# Task data file (relative to the working directory, supports ~ expansion)
data_file = "tasks.json"

# Store format: json, yaml or memory (empty infers from the data_file extension)
store_format = ""

# Validate JSON data files against the schema on load
validate_schema = true

# External schema file (empty uses the built-in schema)
# schema_file = "tasks.schema.json"

# Due date format for input and display (Go layout or dd/MM/yyyy)
date_format = "02/01/2006"

# Logging: debug, info, warn, error
log_level = "warn"

# Log format: text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false

# Write logs to a file instead of stderr
# log_file = "~/.tasklist/tasklist.log"
`
}
