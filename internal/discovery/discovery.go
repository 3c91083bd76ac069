// Package discovery expands directory and glob input paths into the
// Markdown files they select.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/thanosengine/ChandraGen/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidPattern = errors.New("invalid glob pattern")
	ErrNoMatches      = errors.New("no markdown files found")
)

// OutputExt is the extension given to discovered output files.
const OutputExt = ".gmi"

// Extensions lists the file extensions discovery picks up.
var Extensions = []string{".md", ".markdown", ".mdx"}

const globMeta = "*?[{"

// File is one discovered document.
type File struct {
	InputPath  string
	OutputPath string
	// RelPath is the input path relative to the walked root, slash separated.
	RelPath string
}

// IsPattern reports whether p contains glob metacharacters.
func IsPattern(p string) bool {
	return strings.ContainsAny(p, globMeta)
}

// NeedsExpansion reports whether input names more than a single file:
// a glob pattern or an existing directory.
func NeedsExpansion(input string) bool {
	return IsPattern(input) || fileutil.DirExists(input)
}

// IsMarkdown reports whether p has one of the Extensions.
func IsMarkdown(p string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(p)))
}

// Discover expands input into files. A directory is walked, descending
// into subdirectories only when recursive is set. A glob pattern is matched
// against slash-separated paths below its literal prefix; "*" stays within
// one directory and "**" crosses directories. Each file's output goes to
// outputDir, keeping its directory relative to the walked root.
func Discover(input, outputDir string, recursive bool) ([]File, error) {
	if IsPattern(input) {
		return discoverGlob(input, outputDir)
	}

	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []File{{
			InputPath:  input,
			OutputPath: resolveOutputPath(input, outputDir, ""),
			RelPath:    filepath.ToSlash(filepath.Base(input)),
		}}, nil
	}

	files, err := walk(input, outputDir, func(p string, d fs.DirEntry) (bool, error) {
		if d.IsDir() {
			if p != input && !recursive {
				return false, filepath.SkipDir
			}
			return false, nil
		}
		return IsMarkdown(p), nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoMatches, input)
	}
	return files, nil
}

func discoverGlob(pattern, outputDir string) ([]File, error) {
	slashPattern := path.Clean(filepath.ToSlash(pattern))
	g, err := glob.Compile(slashPattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}

	root := filepath.FromSlash(literalPrefix(slashPattern))
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w matching %s", ErrNoMatches, pattern)
		}
		return nil, err
	}

	files, err := walk(root, outputDir, func(p string, d fs.DirEntry) (bool, error) {
		if d.IsDir() {
			return false, nil
		}
		return IsMarkdown(p) && g.Match(filepath.ToSlash(p)), nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching %s", ErrNoMatches, pattern)
	}
	return files, nil
}

// walk visits root in lexical order and collects the files keep selects.
func walk(root, outputDir string, keep func(string, fs.DirEntry) (bool, error)) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", p, err)
		}
		ok, err := keep(p, d)
		if err != nil || !ok {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			rel = filepath.Base(p)
		}
		files = append(files, File{
			InputPath:  p,
			OutputPath: resolveOutputPath(p, outputDir, root),
			RelPath:    filepath.ToSlash(rel),
		})
		return nil
	})
	return files, err
}

// literalPrefix returns the directory part of pattern before its first
// metacharacter, or "." when the pattern starts with one.
func literalPrefix(pattern string) string {
	i := strings.IndexAny(pattern, globMeta)
	if i < 0 {
		return path.Dir(pattern)
	}
	slash := strings.LastIndex(pattern[:i], "/")
	switch {
	case slash < 0:
		return "."
	case slash == 0:
		return "/"
	default:
		return pattern[:slash]
	}
}

// resolveOutputPath determines the Gemtext output path for a document.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	base := fileutil.ReplaceExt(filepath.Base(inputPath), OutputExt)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if strings.HasSuffix(outputDir, OutputExt) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base)
		}
	}

	return filepath.Join(outputDir, base)
}
