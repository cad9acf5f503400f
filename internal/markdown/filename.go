package markdown

import (
	"regexp"
	"strings"
)

var (
	filenameSpaces  = regexp.MustCompile(`\s+`)
	filenameInvalid = regexp.MustCompile(`[^a-z0-9\-_]`)
	filenameHyphens = regexp.MustCompile(`-+`)
)

// GenerateFilename builds the export filename for a document. The slug wins
// when present; otherwise the title is sanitized to a lowercase hyphenated
// name, falling back to "document" when nothing survives sanitization.
func GenerateFilename(title, slug string) string {
	name := strings.TrimSpace(slug)
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(title))
		name = filenameSpaces.ReplaceAllString(name, "-")
		name = filenameInvalid.ReplaceAllString(name, "")
		name = filenameHyphens.ReplaceAllString(name, "-")
		name = strings.Trim(name, "-")
	}
	if name == "" {
		name = "document"
	}
	return name + ".md"
}
