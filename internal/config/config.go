// Package config loads the application configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kreger51/mcgill-schedule/internal/course"
)

// DefaultPath is the configuration file looked up when no --config flag is
// given.
const DefaultPath = "~/.mcgill-schedule.yaml"

// FormatterConfig holds the event template pair.
type FormatterConfig struct {
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

// Config is the top-level application configuration.
type Config struct {
	// Timezone is the IANA timezone courses are localized in. Minerva
	// renders times in campus-local time, so this should stay on the
	// campus zone unless the portal moves.
	Timezone string `yaml:"timezone"`

	// Listen is the HTTP listen address for the serve command.
	Listen string `yaml:"listen"`

	// Formatter provides the default summary/description templates used
	// when a request or command supplies none.
	Formatter FormatterConfig `yaml:"formatter"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "America/New_York",
		Listen:   "127.0.0.1:8000",
		Formatter: FormatterConfig{
			Summary:     course.DefaultFormatter.Summary,
			Description: course.DefaultFormatter.Description,
		},
	}
}

// Normalize fills in missing values so a partially-filled config still
// behaves correctly.
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.Timezone == "" {
		c.Timezone = defaults.Timezone
	}
	if c.Listen == "" {
		c.Listen = defaults.Listen
	}
	if c.Formatter.Summary == "" {
		c.Formatter.Summary = defaults.Formatter.Summary
	}
	if c.Formatter.Description == "" {
		c.Formatter.Description = defaults.Formatter.Description
	}
}

// Load reads the configuration at path, which may start with "~/". A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()
	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// CourseFormatter converts the configured templates into a course.Formatter.
func (c *Config) CourseFormatter() course.Formatter {
	return course.Formatter{
		Summary:     c.Formatter.Summary,
		Description: c.Formatter.Description,
	}
}

func expandHome(path string) (string, error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}
