package markdown_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-server-docs/internal/markdown"
)

func TestAddFrontmatterFormat(t *testing.T) {
	got := markdown.AddFrontmatter("# Body", []markdown.MetaField{
		{Key: "title", Value: "Server Rules"},
		{Key: "is_global", Value: true},
		{Key: "is_published", Value: false},
		{Key: "tags", Value: []string{"rules", "pvp"}},
	})

	want := "---\n" +
		"title: Server Rules\n" +
		"is_global: true\n" +
		"is_published: false\n" +
		"tags: rules, pvp\n" +
		"---\n\n" +
		"# Body"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseFrontmatter(t *testing.T) {
	input := "---\ntitle: Server Rules\nis_global: true\nsort_order: 3\n---\n\n# Body\n\ntext"

	metadata, body := markdown.ParseFrontmatter(input)

	want := map[string]any{
		"title":      "Server Rules",
		"is_global":  true,
		"sort_order": "3",
	}
	if !reflect.DeepEqual(metadata, want) {
		t.Fatalf("metadata = %v, want %v", metadata, want)
	}
	if body != "# Body\n\ntext" {
		t.Fatalf("body = %q", body)
	}
}

func TestParseFrontmatterRoundTrip(t *testing.T) {
	source := "# Guide\n\nHello world"
	fields := []markdown.MetaField{
		{Key: "title", Value: "Guide"},
		{Key: "slug", Value: "guide"},
		{Key: "is_global", Value: false},
		{Key: "is_published", Value: true},
	}

	metadata, body := markdown.ParseFrontmatter(markdown.AddFrontmatter(source, fields))

	if body != source {
		t.Fatalf("body = %q, want %q", body, source)
	}
	for _, field := range fields {
		if !reflect.DeepEqual(metadata[field.Key], field.Value) {
			t.Fatalf("metadata[%q] = %v, want %v", field.Key, metadata[field.Key], field.Value)
		}
	}
	if len(metadata) != len(fields) {
		t.Fatalf("metadata has %d keys, want %d", len(metadata), len(fields))
	}
}

func TestParseFrontmatterNoBlock(t *testing.T) {
	input := "# Just a document\n\nwith no front matter"

	metadata, body := markdown.ParseFrontmatter(input)

	if len(metadata) != 0 {
		t.Fatalf("metadata = %v, want empty", metadata)
	}
	if body != input {
		t.Fatalf("body changed: %q", body)
	}
}

func TestParseFrontmatterMalformed(t *testing.T) {
	cases := []string{
		"---\nnever closed\nkey: value",
		"--\nkey: value\n--\nbody",
		"body first\n---\nkey: value\n---\n",
	}

	for _, input := range cases {
		metadata, body := markdown.ParseFrontmatter(input)
		if len(metadata) != 0 {
			t.Fatalf("ParseFrontmatter(%q) metadata = %v, want empty", input, metadata)
		}
		if body != input {
			t.Fatalf("ParseFrontmatter(%q) body = %q, want input unchanged", input, body)
		}
	}
}

func TestParseFrontmatterSkipsUnparsableLines(t *testing.T) {
	input := "---\ntitle: Guide\nnot a pair\n: empty key\n---\n\nbody"

	metadata, body := markdown.ParseFrontmatter(input)

	if len(metadata) != 1 || metadata["title"] != "Guide" {
		t.Fatalf("metadata = %v, want only title", metadata)
	}
	if body != "body" {
		t.Fatalf("body = %q", body)
	}
}

func TestGenerateFilename(t *testing.T) {
	cases := []struct {
		title string
		slug  string
		want  string
	}{
		{"My Guide!", "", "my-guide.md"},
		{"My Guide!", "my-guide", "my-guide.md"},
		{"  Spaced   Out  ", "", "spaced-out.md"},
		{"???", "", "document.md"},
		{"", "", "document.md"},
		{"with_underscore-kept", "", "with_underscore-kept.md"},
		{"ignored", "explicit-slug", "explicit-slug.md"},
	}

	for _, tc := range cases {
		if got := markdown.GenerateFilename(tc.title, tc.slug); got != tc.want {
			t.Fatalf("GenerateFilename(%q, %q) = %q, want %q", tc.title, tc.slug, got, tc.want)
		}
	}
}
