package chandragen

import (
	"regexp"
	"strings"
)

// spliceHeading replaces the document's leading section with heading.
//
// Without a pattern the heading is prepended and offset is ignored. With
// one, the first line matching it (index L) marks the boundary and the body
// keeps lines from L+offset on; an offset reaching past the end leaves an
// empty body.
func spliceHeading(text, heading string, pattern *regexp.Regexp, offset int) (string, error) {
	body := text
	if pattern != nil {
		lines := strings.Split(text, "\n")
		boundary := -1
		for i, line := range lines {
			if pattern.MatchString(line) {
				boundary = i
				break
			}
		}
		if boundary < 0 {
			return "", &HeadingBoundaryNotFoundError{Pattern: pattern.String()}
		}

		start := boundary + offset
		if start >= len(lines) {
			body = ""
		} else {
			body = strings.Join(lines[start:], "\n")
		}
	}

	if heading == "" {
		return body, nil
	}
	if !strings.HasSuffix(heading, "\n") {
		heading += "\n"
	}
	return heading + body, nil
}

// appendFooting adds footing after body, separated by a newline when body
// does not already end with one.
func appendFooting(body, footing string) string {
	if footing == "" {
		return body
	}
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return body + footing
}
