package markdown

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	docs "github.com/goliatone/go-server-docs/documents"
)

// ExportedDocument is a document rendered as a portable Markdown file.
type ExportedDocument struct {
	Filename string
	Content  string
}

// Exporter renders documents as Markdown files with front matter.
type Exporter struct {
	service   docs.Service
	converter *Converter
}

// NewExporter creates an exporter over the document service.
func NewExporter(service docs.Service, converter *Converter) *Exporter {
	return &Exporter{service: service, converter: converter}
}

// Export fetches the document and renders it as front matter followed by the
// Markdown conversion of its body.
func (e *Exporter) Export(ctx context.Context, documentID uuid.UUID) (*ExportedDocument, error) {
	record, err := e.service.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return e.Render(record), nil
}

// Render converts an already loaded document.
func (e *Exporter) Render(record *docs.Document) *ExportedDocument {
	body := e.converter.ToMarkdown(record.Content)
	content := AddFrontmatter(body, []MetaField{
		{Key: "title", Value: record.Title},
		{Key: "slug", Value: record.Slug},
		{Key: "type", Value: string(record.Classification)},
		{Key: "is_global", Value: record.IsGlobal},
		{Key: "is_published", Value: record.IsPublished},
		{Key: "sort_order", Value: strconv.Itoa(record.SortOrder)},
	})

	return &ExportedDocument{
		Filename: GenerateFilename(record.Title, record.Slug),
		Content:  content,
	}
}
