package formatters

import (
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// frontMatterEnvelope holds the front matter fields the formatter reads.
// Other keys are ignored.
type frontMatterEnvelope struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

// StripFrontmatter removes a leading YAML (---), TOML (+++) or JSON front
// matter block. With frontmatter_title set, a non-empty title becomes the
// document's level-one heading.
func StripFrontmatter(text string, flags Flags) (string, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFrontmatter, err)
	}

	out := string(body)
	if len(out) == len(text) {
		return text, nil
	}
	if flags.Bool(FlagFrontmatterTitle, false) && strings.TrimSpace(meta.Title) != "" {
		out = "# " + strings.TrimSpace(meta.Title) + "\n\n" + strings.TrimLeft(out, "\n")
	}
	return out, nil
}
