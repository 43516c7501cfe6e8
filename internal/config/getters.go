package config

import (
	"fmt"
	"strings"
	"time"
)

var (
	validStoreFormats = []string{"", "json", "yaml", "yml", "memory", "mem"}
	validLogLevels    = []string{"debug", "info", "warn", "warning", "error", "fatal"}
	validLogFormats   = []string{"text", "json", "logfmt"}
)

// dateTokens maps dd/MM/yyyy style tokens to Go layout elements.
var dateTokens = strings.NewReplacer(
	"yyyy", "2006",
	"yy", "06",
	"MM", "01",
	"dd", "02",
)

// DateLayout returns DateFormat as a Go time layout.
// Both Go layouts ("02/01/2006") and dd/MM/yyyy patterns are accepted.
func (c *Config) DateLayout() string {
	if strings.TrimSpace(c.DateFormat) == "" {
		return DefaultDateFormat
	}
	return dateTokens.Replace(c.DateFormat)
}

// DateFormatHint returns a human-readable form of the date layout,
// e.g. "dd/MM/yyyy".
func (c *Config) DateFormatHint() string {
	return strings.NewReplacer("2006", "yyyy", "01", "MM", "02", "dd").Replace(c.DateLayout())
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	if !contains(validStoreFormats, strings.ToLower(c.StoreFormat)) {
		return fmt.Errorf("invalid store_format %q (expected json|yaml|memory)", c.StoreFormat)
	}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (expected debug|info|warn|error|fatal)", c.LogLevel)
	}
	if !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		return fmt.Errorf("invalid log_format %q (expected text|json|logfmt)", c.LogFormat)
	}

	layout := c.DateLayout()
	sample := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, sample.Format(layout))
	if err != nil || !parsed.Equal(sample) {
		return fmt.Errorf("invalid date_format %q: must include day, month and year", c.DateFormat)
	}
	return nil
}

// Value returns the effective value of a config key as a string.
func (c *Config) Value(field string) string {
	switch field {
	case "data_file":
		return c.DataFile
	case "store_format":
		return c.StoreFormat
	case "schema_file":
		return c.SchemaFile
	case "validate_schema":
		return fmt.Sprint(c.ValidateSchema)
	case "date_format":
		return c.DateFormat
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	case "log_file":
		return c.LogFile
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
