package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TASKLIST_* environment variables and
// updates source tracking.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	strs := []struct {
		env    string
		field  string
		target *string
	}{
		{"TASKLIST_DATA_FILE", "data_file", &cfg.DataFile},
		{"TASKLIST_STORE", "store_format", &cfg.StoreFormat},
		{"TASKLIST_SCHEMA", "schema_file", &cfg.SchemaFile},
		{"TASKLIST_DATE_FORMAT", "date_format", &cfg.DateFormat},
		{"TASKLIST_LOG_LEVEL", "log_level", &cfg.LogLevel},
		{"TASKLIST_LOG_FORMAT", "log_format", &cfg.LogFormat},
		{"TASKLIST_LOG_FILE", "log_file", &cfg.LogFile},
	}
	for _, s := range strs {
		if v := os.Getenv(s.env); v != "" {
			*s.target = v
			sources[s.field] = SourceEnv
		}
	}

	bools := []struct {
		env    string
		field  string
		target *bool
	}{
		{"TASKLIST_VALIDATE_SCHEMA", "validate_schema", &cfg.ValidateSchema},
		{"TASKLIST_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps},
		{"TASKLIST_LOG_CALLER", "log_caller", &cfg.LogCaller},
	}
	for _, b := range bools {
		v := os.Getenv(b.env)
		if v == "" {
			continue
		}
		parsed, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", b.env, err)
		}
		*b.target = parsed
		sources[b.field] = SourceEnv
	}
	return nil
}

// parseBool accepts the strconv forms plus yes/no and on/off.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", v)
	}
	return b, nil
}
