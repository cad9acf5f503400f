package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

// MetaField is one front matter entry. Fields are rendered in slice order so
// exported documents are byte stable.
type MetaField struct {
	Key   string
	Value any
}

var frontmatterPattern = regexp.MustCompile(`(?s)^---\s*\n(.*?)\n---\s*\n?(.*)$`)

// AddFrontmatter prepends a front matter block of `key: value` lines to the
// document. Booleans render as the literal true/false tokens and string
// slices are joined with a comma and space.
func AddFrontmatter(markdown string, fields []MetaField) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, field := range fields {
		b.WriteString(field.Key)
		b.WriteString(": ")
		b.WriteString(renderMetaValue(field.Value))
		b.WriteString("\n")
	}
	b.WriteString("---\n\n")
	b.WriteString(markdown)
	return b.String()
}

// ParseFrontmatter splits a leading front matter block from the document
// body. Values are kept as strings except the literal tokens true and false,
// which coerce to booleans. Documents without a leading block return an
// empty mapping and the input unchanged; parsing never fails.
func ParseFrontmatter(input string) (map[string]any, string) {
	match := frontmatterPattern.FindStringSubmatch(input)
	if match == nil {
		return map[string]any{}, input
	}

	metadata := map[string]any{}
	for _, line := range strings.Split(match[1], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		metadata[key] = coerceMetaValue(strings.TrimSpace(value))
	}

	return metadata, strings.TrimSpace(match[2])
}

func renderMetaValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceMetaValue(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}
