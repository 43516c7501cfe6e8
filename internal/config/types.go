package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultDataFile   = "tasks.json"
	DefaultDateFormat = "02/01/2006"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for tasklist.
type Config struct {
	// Storage
	DataFile       string `toml:"data_file"`
	StoreFormat    string `toml:"store_format"` // json, yaml, memory; empty infers from data_file
	SchemaFile     string `toml:"schema_file"`  // empty uses the embedded schema
	ValidateSchema bool   `toml:"validate_schema"`

	// Presentation
	DateFormat string `toml:"date_format"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogFile       string `toml:"log_file"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"data_file",
		"store_format",
		"schema_file",
		"validate_schema",
		"date_format",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_file",
	}
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return configFields()
}
