// Package config loads the chandragen configuration file: system settings,
// the defaults block and the per-document entries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/confdecode"
	"github.com/thanosengine/ChandraGen/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// DefaultName is the config name looked up when none is given.
const DefaultName = "chandragen"

// appDir is the directory under the user config dir searched for configs.
const appDir = "chandragen"

// Log settings accepted in the system block.
var (
	LogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	LogFormats = []string{"console", "json", "pretty"}
)

// System defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Config is the whole configuration file.
type Config struct {
	System   SystemConfig           `toml:"system" yaml:"system"`
	Defaults DefaultsConfig         `toml:"defaults" yaml:"defaults"`
	Entries  map[string]EntryConfig `toml:"entries" yaml:"entries"`

	// Path is the file the config was loaded from.
	Path string `toml:"-" yaml:"-"`
}

// SystemConfig controls the scheduler and logging.
type SystemConfig struct {
	SchedulerMode string `toml:"scheduler_mode" yaml:"scheduler_mode"` // "oneshot" (default) or "crontab"
	TickRate      string `toml:"tick_rate" yaml:"tick_rate"`           // Go duration, default "1m"
	Workers       int    `toml:"workers" yaml:"workers"`               // 0 = auto
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"`
}

// DefaultsConfig is the base every entry inherits.
type DefaultsConfig struct {
	Formatters          []string       `toml:"formatters" yaml:"formatters"`
	InputPath           string         `toml:"input_path" yaml:"input_path"`
	OutputPath          string         `toml:"output_path" yaml:"output_path"` // may contain {name}
	PreformattedColumns int            `toml:"preformatted_text_columns" yaml:"preformatted_text_columns"`
	Interval            string         `toml:"interval" yaml:"interval"`
	Flags               map[string]any `toml:"flags" yaml:"flags"`
	Heading             string         `toml:"heading" yaml:"heading"`
	HeadingEndPattern   string         `toml:"heading_end_pattern" yaml:"heading_end_pattern"`
	HeadingStripOffset  int            `toml:"heading_strip_offset" yaml:"heading_strip_offset"`
	Footing             string         `toml:"footing" yaml:"footing"`
}

// EntryConfig configures one document, directory or glob.
// Unset pointer fields inherit the defaults.
type EntryConfig struct {
	Formatters          []string       `toml:"formatters" yaml:"formatters"`
	FormatterBlacklist  []string       `toml:"formatter_blacklist" yaml:"formatter_blacklist"`
	InputPath           string         `toml:"input_path" yaml:"input_path"`
	OutputPath          string         `toml:"output_path" yaml:"output_path"`
	PreformattedColumns int            `toml:"preformatted_text_columns" yaml:"preformatted_text_columns"`
	Interval            string         `toml:"interval" yaml:"interval"`
	Flags               map[string]any `toml:"flags" yaml:"flags"`
	Heading             *string        `toml:"heading" yaml:"heading"`
	HeadingEndPattern   *string        `toml:"heading_end_pattern" yaml:"heading_end_pattern"`
	HeadingStripOffset  *int           `toml:"heading_strip_offset" yaml:"heading_strip_offset"`
	Footing             *string        `toml:"footing" yaml:"footing"`
	Recursive           bool           `toml:"recursive" yaml:"recursive"`
}

// ApplyDefaults fills unset system settings.
func (c *Config) ApplyDefaults() {
	if c.System.SchedulerMode == "" {
		c.System.SchedulerMode = string(chandragen.ModeOneshot)
	}
	if c.System.TickRate == "" {
		c.System.TickRate = chandragen.DefaultTickRate.String()
	}
	if c.System.LogLevel == "" {
		c.System.LogLevel = DefaultLogLevel
	}
	if c.System.LogFormat == "" {
		c.System.LogFormat = DefaultLogFormat
	}
}

// Mode returns the parsed scheduler mode.
func (c *Config) Mode() (chandragen.Mode, error) {
	return chandragen.ParseMode(c.System.SchedulerMode)
}

// TickRate returns the parsed tick rate, or the default when unset.
func (c *Config) TickRate() (time.Duration, error) {
	if c.System.TickRate == "" {
		return chandragen.DefaultTickRate, nil
	}
	return time.ParseDuration(c.System.TickRate)
}

// Parse decodes and validates a config document. Unknown keys are an error.
func Parse(format confdecode.Format, data []byte) (*Config, error) {
	var cfg Config
	if err := confdecode.UnmarshalStrict(format, data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator or ending in a config extension is
// read as a file. Otherwise it is a name searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if _, extErr := confdecode.FormatForPath(nameOrPath); fileutil.IsFilePath(nameOrPath) || extErr == nil {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	format, err := confdecode.FormatForPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	cfg.Path = configPath
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .toml, .yaml, .yml
// Tries locations in order: current directory, <user config dir>/chandragen/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".toml", ".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
