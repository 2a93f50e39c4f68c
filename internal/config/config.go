// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and HOLICAL_ env vars on top of the defaults.
// - Validation errors wrap ErrInvalidConfig; provider errors wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/holical/internal/domain/calendar"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WeekStart is the first column of the month grid, e.g. "monday".
	WeekStart string `koanf:"week_start"`

	// InitialYear and InitialMonth pick the month shown when a request
	// names none. Zero means the current month.
	InitialYear  int `koanf:"initial_year"`
	InitialMonth int `koanf:"initial_month"`

	// Timezone is the IANA zone used to decide which day is today.
	Timezone string `koanf:"timezone"`

	// SeedDemo fills the repository with demo holidays at startup.
	SeedDemo bool `koanf:"seed_demo"`

	// MaxImportRows caps the data rows read from one spreadsheet.
	MaxImportRows int `koanf:"max_import_rows"`

	// CalendarName is the display name used in exports.
	CalendarName string `koanf:"calendar_name"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          ":9080",
		WeekStart:     "monday",
		Timezone:      "UTC",
		SeedDemo:      true,
		MaxImportRows: 5000,
		CalendarName:  "Staff Holidays",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, err := calendar.ParseWeekday(c.WeekStart); err != nil {
		return fmt.Errorf("%w: week_start %q", ErrInvalidConfig, c.WeekStart)
	}
	if c.InitialMonth < 0 || c.InitialMonth > 12 {
		return fmt.Errorf("%w: initial_month %d out of range 0..12", ErrInvalidConfig, c.InitialMonth)
	}
	if c.InitialYear < 0 || c.InitialYear > 9999 {
		return fmt.Errorf("%w: initial_year %d out of range 0..9999", ErrInvalidConfig, c.InitialYear)
	}
	if (c.InitialYear == 0) != (c.InitialMonth == 0) {
		return fmt.Errorf("%w: initial_year and initial_month must be set together", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if c.MaxImportRows <= 0 {
		return fmt.Errorf("%w: max_import_rows must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// WeekStartDay returns the parsed week start.
func (c *Config) WeekStartDay() time.Weekday {
	d, err := calendar.ParseWeekday(c.WeekStart)
	if err != nil {
		return time.Monday
	}
	return d
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
