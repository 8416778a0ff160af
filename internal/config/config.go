package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"icsevents/internal/errs"
	appLog "icsevents/internal/log"
)

// EnvPath names the environment variable consulted when --config is not given.
const EnvPath = "ICSEVENTS_CONFIG"

const (
	DefaultFormat         = "table"
	DefaultCSVOutput      = "events.csv"
	DefaultMarkdownOutput = "events.md"
	DefaultTitle          = "Event Schedule"
	DefaultLogLevel       = "error"
	DefaultFetchTimeout   = 15
)

// Config holds the defaults a run starts from before command-line flags are
// applied. Every field is optional in the YAML file.
type Config struct {
	// Format is one of "table", "csv" or "markdown".
	Format string `yaml:"format"`

	// Short caps the number of events shown. 0 means no cap.
	Short int `yaml:"short"`

	// All includes past events.
	All bool `yaml:"all"`

	// CSVOutput / MarkdownOutput are the files written when --output is
	// not given.
	CSVOutput      string `yaml:"csv_output"`
	MarkdownOutput string `yaml:"markdown_output"`

	// Timezone is the IANA zone used for "today" and for the date of timed
	// events (e.g. "Europe/Berlin"). Empty means the system zone.
	Timezone string `yaml:"timezone"`

	// Title is printed above the terminal table.
	Title string `yaml:"title"`

	// LogLevel is the minimum diagnostic level written to stderr.
	LogLevel string `yaml:"log_level"`

	// FetchTimeoutSec bounds downloads of http(s) calendars.
	FetchTimeoutSec int `yaml:"fetch_timeout_sec"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:          DefaultFormat,
		CSVOutput:       DefaultCSVOutput,
		MarkdownOutput:  DefaultMarkdownOutput,
		Title:           DefaultTitle,
		LogLevel:        DefaultLogLevel,
		FetchTimeoutSec: DefaultFetchTimeout,
	}
}

// Normalize fills in missing values with defaults.
func (c *Config) Normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.CSVOutput == "" {
		c.CSVOutput = DefaultCSVOutput
	}
	if c.MarkdownOutput == "" {
		c.MarkdownOutput = DefaultMarkdownOutput
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.FetchTimeoutSec <= 0 {
		c.FetchTimeoutSec = DefaultFetchTimeout
	}
}

// Validate checks values Normalize cannot repair. The format itself is
// validated by the renderer registry.
func (c *Config) Validate() error {
	if c.Short < 0 {
		return fmt.Errorf("short must not be negative, got %d", c.Short)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone, falling back to time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return loc, nil
}

// FetchTimeout returns FetchTimeoutSec as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Load reads the YAML file at path on top of DefaultConfig.
//
//   - An empty path yields the defaults.
//   - A path that does not exist is an error: the user named it explicitly.
//   - An empty file yields the defaults.
//   - Unknown keys are rejected so typos do not silently fall back.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.New(errs.ConfigError, path, errors.New("file does not exist"))
		}
		return nil, errs.New(errs.ConfigError, path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.New(errs.ConfigError, path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, errs.New(errs.ConfigError, path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML; the CLI uses it for --write-config.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
