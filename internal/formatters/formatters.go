package formatters

import (
	"errors"
	"fmt"
)

// Flag keys read by the built-in formatters.
const (
	FlagPreformattedColumns = "preformatted_text_columns"
	FlagTableStyle          = "table_style"
	FlagTablePreformat      = "table_preformat"
	FlagInlineLinkSuffix    = "inline_link_suffix"
	FlagFrontmatterTitle    = "frontmatter_title"
)

// Flag defaults.
const (
	DefaultColumns          = 80
	DefaultTableStyle       = "single"
	DefaultInlineLinkSuffix = " (see below)"
)

// Document kinds a formatter is written for.
const (
	KindMarkdown = "md"
	KindMDX      = "mdx"
)

// Sentinel errors for formatter failures.
var (
	ErrInvalidFlag     = errors.New("invalid formatter flag")
	ErrTableFormat     = errors.New("malformed table")
	ErrCodeblockFormat = errors.New("malformed code block")
	ErrFrontmatter     = errors.New("malformed front matter")
)

// TableFormatError reports a table row whose cell count differs from the header.
// Row is 0-indexed over the table rows: 0 is the header, 1 the alignment row,
// 2 and up the body. Line is the 1-indexed line in the document.
type TableFormatError struct {
	Line int
	Row  int
	Want int
	Got  int
}

func (e *TableFormatError) Error() string {
	return fmt.Sprintf("%v: row %d (line %d) has %d cells, want %d", ErrTableFormat, e.Row, e.Line, e.Got, e.Want)
}

func (e *TableFormatError) Unwrap() error { return ErrTableFormat }

// CodeblockFormatError reports a code block that cannot be normalized.
// Line is the 1-indexed line of the opening fence.
type CodeblockFormatError struct {
	Line   int
	Reason string
}

func (e *CodeblockFormatError) Error() string {
	return fmt.Sprintf("%v: line %d: %s", ErrCodeblockFormat, e.Line, e.Reason)
}

func (e *CodeblockFormatError) Unwrap() error { return ErrCodeblockFormat }

// Flags is the read-only view of job flags a formatter receives.
// Accessors return fallback when the key is absent.
type Flags interface {
	String(key, fallback string) string
	Bool(key string, fallback bool) bool
	Int(key string, fallback int) int
}

// Func transforms a whole document.
type Func func(text string, flags Flags) (string, error)

// Builtin describes one built-in formatter.
type Builtin struct {
	Name        string
	Description string
	Kinds       []string
	Apply       Func
}

var (
	allKinds = []string{KindMarkdown, KindMDX}
	mdxOnly  = []string{KindMDX}
)

// Builtins returns the built-in formatters in a stable order.
func Builtins() []Builtin {
	return []Builtin{
		{Name: "normalize_line_endings", Description: "Convert CRLF and CR line endings to LF.", Kinds: allKinds, Apply: infallible(NormalizeLineEndings)},
		{Name: "compress_blank_lines", Description: "Limit consecutive blank lines to one.", Kinds: allKinds, Apply: infallible(CompressBlankLines)},
		{Name: "strip_frontmatter", Description: "Remove YAML, TOML or JSON front matter, optionally keeping the title as a heading.", Kinds: allKinds, Apply: StripFrontmatter},
		{Name: "strip_html_comments", Description: "Remove HTML comment lines and comment blocks.", Kinds: allKinds, Apply: infallible(StripHTMLComments)},
		{Name: "strip_inline_md_formatting", Description: "Strip bold and italic markers outside inline code.", Kinds: allKinds, Apply: infallible(StripInlineMarkdown)},
		{Name: "convert_bullet_point_links", Description: "Turn \"- [label](url)\" list items into Gemini link lines.", Kinds: allKinds, Apply: infallible(ConvertBulletPointLinks)},
		{Name: "convert_inline_links", Description: "Replace inline links with their label and list them as link lines after the paragraph.", Kinds: allKinds, Apply: ConvertInlineLinks},
		{Name: "resolve_reference_links", Description: "Rewrite reference-style links as inline links and drop their definitions.", Kinds: allKinds, Apply: ResolveReferenceLinks},
		{Name: "clamp_heading_levels", Description: "Reduce headings deeper than ### to ###.", Kinds: allKinds, Apply: infallible(ClampHeadingLevels)},
		{Name: "table_to_unicode", Description: "Render pipe tables as box-drawing tables.", Kinds: allKinds, Apply: TableToUnicode},
		{Name: "normalize_code_blocks", Description: "Wrap code block lines wider than preformatted_text_columns.", Kinds: allKinds, Apply: NormalizeCodeBlocks},
		{Name: "strip_codeblock_language", Description: "Drop language tags from code fences.", Kinds: allKinds, Apply: infallible(StripCodeblockLanguage)},
		{Name: "detect_codeblock_language", Description: "Tag untagged code fences with a detected language.", Kinds: allKinds, Apply: infallible(DetectCodeblockLanguage)},
		{Name: "strip_imports_exports", Description: "Remove MDX import and export statements.", Kinds: mdxOnly, Apply: infallible(StripImportsExports)},
		{Name: "strip_jsx_tags", Description: "Remove lines that are JSX or HTML tags.", Kinds: mdxOnly, Apply: infallible(StripJSXTags)},
		{Name: "strip_jsx_expressions", Description: "Remove {expression} spans.", Kinds: mdxOnly, Apply: infallible(StripJSXExpressions)},
		{Name: "convert_known_mdx_components", Description: "Replace <Note> and <Warning> components with plain labels.", Kinds: mdxOnly, Apply: infallible(ConvertKnownMDXComponents)},
	}
}

// infallible adapts a formatter that needs no flags and cannot fail.
func infallible(fn func(string) string) Func {
	return func(text string, _ Flags) (string, error) {
		return fn(text), nil
	}
}
