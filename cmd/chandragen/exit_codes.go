package main

import (
	"errors"
	"os"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/config"
	"github.com/thanosengine/ChandraGen/internal/cronspec"
	"github.com/thanosengine/ChandraGen/internal/discovery"
)

// Exit codes for the chandragen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every job succeeded
	ExitGeneral = 1 // A job failed, or an unexpected error
	ExitUsage   = 2 // Invalid flags, config, or resolution errors
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// Job failures are checked first: a failed run exits 1 even when the job
// failed on I/O.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrJobsFailed) || errors.Is(err, chandragen.ErrJobFailed) {
		return ExitGeneral
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoJobs) ||
		errors.Is(err, ErrResolve) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrExpand) ||
		errors.Is(err, cronspec.ErrInvalidInterval) ||
		errors.Is(err, chandragen.ErrUnknownFormatter) ||
		errors.Is(err, chandragen.ErrDuplicateFormatter) ||
		errors.Is(err, chandragen.ErrMissingField) ||
		errors.Is(err, chandragen.ErrInvalidField) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, discovery.ErrNoMatches) ||
		errors.Is(err, chandragen.ErrReadInput) ||
		errors.Is(err, chandragen.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
