package documents

import "github.com/goliatone/go-slug"

// NormalizeSlug derives a URL safe slug from a document title.
func NormalizeSlug(title string) (string, error) {
	return slug.Normalize(title)
}

// IsValidSlug reports whether a caller supplied slug is acceptable as is.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}
