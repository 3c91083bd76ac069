package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	chandragen "github.com/thanosengine/ChandraGen"
	"github.com/thanosengine/ChandraGen/internal/config"
	"github.com/thanosengine/ChandraGen/internal/cronspec"
	"github.com/thanosengine/ChandraGen/internal/hints"
)

// reportError prints err to w followed by its hint.
func reportError(w io.Writer, err error, env *Environment) {
	fmt.Fprintf(w, "%v%s\n", err, hintFor(err, env))
}

// reportProblems prints one line per configuration problem.
func reportProblems(w io.Writer, problems []error, env *Environment) {
	fmt.Fprintf(w, "%d configuration problem(s):\n", len(problems))
	for _, p := range problems {
		fmt.Fprintf(w, "  %v%s\n", p, hintFor(p, env))
	}
}

// hintFor returns an actionable hint for err, or "" when none applies.
func hintFor(err error, env *Environment) string {
	var unknown *chandragen.UnknownFormatterError
	if errors.As(err, &unknown) {
		var names []string
		if env.Registry != nil {
			names = env.Registry.Names()
		}
		return hints.ForUnknownFormatter(unknown.Name, names)
	}

	var boundary *chandragen.HeadingBoundaryNotFoundError
	if errors.As(err, &boundary) {
		return hints.ForHeadingBoundary(boundary.Pattern)
	}

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(userConfigPaths())
	case errors.Is(err, chandragen.ErrTableFormat):
		return hints.ForTableFormat()
	case errors.Is(err, chandragen.ErrCodeblockFormat):
		return hints.ForCodeblockFormat()
	case errors.Is(err, cronspec.ErrInvalidInterval):
		return hints.ForInterval()
	case errors.Is(err, chandragen.ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// userConfigPaths lists where a default config would be picked up.
func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "chandragen", defaultConfigName+".toml")}
}
