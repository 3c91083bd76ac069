package config

import (
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/cronspec"
)

// Bounds for system settings.
const (
	MinTickRate = time.Second
	// MaxCrontabTickRate keeps every minute of a crontab schedule observed.
	MaxCrontabTickRate = time.Minute
	MaxWorkers         = 64
)

// Validate checks the system and defaults sections and reports every problem
// at once, keyed by its path in the file (e.g. "defaults.interval").
// Entries are checked one at a time by Plan and chandragen.Resolve, so a
// broken entry never rejects the whole file.
func (c *Config) Validate() error {
	errs := validation.Errors{
		"system.scheduler_mode": validation.Validate(c.System.SchedulerMode,
			validation.In(string(chandragen.ModeOneshot), string(chandragen.ModeCrontab)).Error("must be oneshot or crontab")),
		"system.tick_rate": validation.Validate(c.System.TickRate, validation.By(c.checkTickRate)),
		"system.workers": validation.Validate(c.System.Workers,
			validation.Min(0), validation.Max(MaxWorkers)),
		"system.log_level":  validation.Validate(c.System.LogLevel, validation.In(toAny(LogLevels)...)),
		"system.log_format": validation.Validate(c.System.LogFormat, validation.In(toAny(LogFormats)...)),

		"defaults.preformatted_text_columns": validation.Validate(c.Defaults.PreformattedColumns, validation.Min(0)),
		"defaults.heading_strip_offset":      validation.Validate(c.Defaults.HeadingStripOffset, validation.Min(0)),
		"defaults.heading_end_pattern":       validation.Validate(c.Defaults.HeadingEndPattern, validation.By(checkPattern)),
		"defaults.interval":                  validation.Validate(c.Defaults.Interval, validation.By(checkInterval)),
	}

	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	return nil
}

func (c *Config) checkTickRate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return validation.NewError("chandragen.config.tick_rate_invalid", "must be a duration such as 30s or 1m")
	}
	if d < MinTickRate {
		return validation.NewError("chandragen.config.tick_rate_too_small", "must be at least 1s")
	}
	if c.System.SchedulerMode == string(chandragen.ModeCrontab) && d > MaxCrontabTickRate {
		return validation.NewError("chandragen.config.tick_rate_too_large", "must be at most 1m in crontab mode")
	}
	return nil
}

func checkPattern(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := regexp.Compile(s); err != nil {
		return validation.NewError("chandragen.config.pattern_invalid", err.Error())
	}
	return nil
}

func checkInterval(value any) error {
	s, _ := value.(string)
	if _, err := cronspec.Parse(s); err != nil {
		return validation.NewError("chandragen.config.interval_invalid", err.Error())
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
