// Package config provides configuration loading for vcalconv.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Conversion directions.
const (
	// DirectionDowngrade converts iCalendar 2.0 documents to vCalendar 1.0.
	DirectionDowngrade = "downgrade"
	// DirectionUpgrade converts vCalendar 1.0 documents to iCalendar 2.0.
	DirectionUpgrade = "upgrade"
)

// passwordEnvPrefix prefixes per-source password overrides,
// e.g. VCALCONV_PASSWORD_WORK for a source named "work".
const passwordEnvPrefix = "VCALCONV_PASSWORD_"

// Config is the root configuration structure.
type Config struct {
	Convert ConvertConfig  `yaml:"convert"`
	Sync    SyncConfig     `yaml:"sync"`
	Sources []SourceConfig `yaml:"sources"`
	Filters FilterConfig   `yaml:"filters"`
}

// ConvertConfig controls the document conversion.
type ConvertConfig struct {
	Direction  string `yaml:"direction"`   // "downgrade" or "upgrade"
	ProductID  string `yaml:"product_id"`  // PRODID written to output documents
	TimezoneID string `yaml:"timezone_id"` // TZID for timezones built from DAYLIGHT

	// DefaultRelated anchors relative alarm triggers that carry no RELATED
	// parameter: "start", "end", or empty to leave them unresolved.
	DefaultRelated string `yaml:"default_related"`
}

// SyncConfig configures fetching and output.
type SyncConfig struct {
	Interval  time.Duration `yaml:"interval"` // 0 converts once and exits
	OutputDir string        `yaml:"output_dir"`
}

// SourceConfig configures a calendar source.
type SourceConfig struct {
	Name        string       `yaml:"name"`
	Type        string       `yaml:"type"` // "file", "ics", "caldav", "icloud"
	URL         string       `yaml:"url,omitempty"`
	Path        string       `yaml:"path,omitempty"`
	Username    string       `yaml:"username,omitempty"`
	Password    string       `yaml:"password,omitempty"`
	PasswordCmd string       `yaml:"password_cmd,omitempty"`
	Calendars   []string     `yaml:"calendars,omitempty"` // For CalDAV: which calendars to convert
	Filters     FilterConfig `yaml:"filters,omitempty"`   // Per-source filters (include)
}

// FilterConfig configures component filtering.
type FilterConfig struct {
	Mode  string       `yaml:"mode"` // "or" or "and"
	Rules []FilterRule `yaml:"rules"`
}

// FilterRule defines a single filter rule.
// Use exactly one of: Contains, Exact, Prefix, Suffix, or Regex.
type FilterRule struct {
	Field           string `yaml:"field"`              // "title", "organizer", "uid", "description", "location", "categories", "component"
	Contains        string `yaml:"contains,omitempty"` // Substring match
	Exact           string `yaml:"exact,omitempty"`    // Exact string match
	Prefix          string `yaml:"prefix,omitempty"`   // Starts with
	Suffix          string `yaml:"suffix,omitempty"`   // Ends with
	Regex           string `yaml:"regex,omitempty"`    // Regular expression
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

// Load reads configuration from the default location (~/.config/vcalconv/config.yaml).
func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("get config dir: %w", err)
	}

	path := filepath.Join(configDir, "vcalconv", "config.yaml")
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific path. A .env file next to the
// config file is loaded into the environment first.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration from YAML, applies defaults and environment
// overrides, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	// Apply defaults
	cfg.applyDefaults()
	cfg.applyEnv()

	// Expand paths
	cfg.Sync.OutputDir = expandPath(cfg.Sync.OutputDir)
	for i := range cfg.Sources {
		cfg.Sources[i].Path = expandPath(cfg.Sources[i].Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults sets default values for unspecified config options.
func (c *Config) applyDefaults() {
	if c.Convert.Direction == "" {
		c.Convert.Direction = DirectionDowngrade
	}
	if c.Convert.ProductID == "" {
		c.Convert.ProductID = "-//vcalconv//vcalconv//EN"
	}
	if c.Convert.TimezoneID == "" {
		c.Convert.TimezoneID = "TZ1"
	}
	if c.Sync.OutputDir == "" {
		dataDir, _ := os.UserHomeDir()
		c.Sync.OutputDir = filepath.Join(dataDir, ".local", "share", "vcalconv")
	}
	if c.Filters.Mode == "" {
		c.Filters.Mode = "or"
	}
}

// applyEnv overrides source passwords from VCALCONV_PASSWORD_<NAME>.
func (c *Config) applyEnv() {
	for i := range c.Sources {
		if v, ok := os.LookupEnv(PasswordEnvVar(c.Sources[i].Name)); ok {
			c.Sources[i].Password = v
		}
	}
}

// PasswordEnvVar returns the environment variable overriding the password of
// the named source.
func PasswordEnvVar(name string) string {
	var b strings.Builder
	b.WriteString(passwordEnvPrefix)
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Validate checks option values.
func (c *Config) Validate() error {
	var errs []error

	switch c.Convert.Direction {
	case DirectionDowngrade, DirectionUpgrade:
	default:
		errs = append(errs, fmt.Errorf("convert.direction: unknown direction %q", c.Convert.Direction))
	}

	switch strings.ToLower(c.Convert.DefaultRelated) {
	case "", "start", "end":
	default:
		errs = append(errs, fmt.Errorf("convert.default_related: want start or end, got %q", c.Convert.DefaultRelated))
	}

	seen := make(map[string]bool)
	for i, s := range c.Sources {
		if s.Name == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: missing name", i))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}

	return errors.Join(errs...)
}

// GetPassword returns the password for a source, executing password_cmd if needed.
func (s *SourceConfig) GetPassword() (string, error) {
	if s.Password != "" {
		return s.Password, nil
	}
	if s.PasswordCmd == "" {
		return "", nil
	}

	// Execute the password command
	cmd := exec.Command("sh", "-c", s.PasswordCmd)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("execute password_cmd: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// UnmarshalYAML implements custom unmarshaling for the interval field.
func (c *SyncConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Interval  string `yaml:"interval"`
		OutputDir string `yaml:"output_dir"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	d, err := parseDuration(raw.Interval)
	if err != nil {
		return fmt.Errorf("parse interval: %w", err)
	}
	c.Interval = d
	c.OutputDir = raw.OutputDir
	return nil
}

// parseDuration accepts Go durations plus day ("14d") and week ("2w") suffixes.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	unit := time.Duration(0)
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		unit = 7 * 24 * time.Hour
	default:
		return time.ParseDuration(s)
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return time.Duration(n) * unit, nil
}
