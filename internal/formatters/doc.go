// Package formatters implements the built-in text transformations that turn
// Markdown and MDX into Gemtext.
//
// Every formatter is a pure function of the input text and the job flags:
//   - line formatters rewrite or drop individual lines (links, comments, MDX)
//   - structural formatters walk a textdoc.Document (tables, code blocks)
//   - preprocessing formatters normalize the raw text (line endings, blank lines)
//
// Fenced code blocks are preformatted text in Gemtext, so every formatter that
// is not explicitly about code blocks leaves their content untouched.
package formatters
