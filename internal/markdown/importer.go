package markdown

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	docs "github.com/goliatone/go-server-docs/documents"
	"github.com/goliatone/go-server-docs/internal/logging"
	"github.com/goliatone/go-server-docs/pkg/interfaces"
)

// ImportOptions carries the context of a Markdown import.
type ImportOptions struct {
	// Filename provides the title fallback when neither front matter nor a
	// leading heading names the document.
	Filename string
	AuthorID uuid.UUID
	// AttachTo, when set, attaches the imported document to that server.
	AttachTo uuid.UUID
}

// Importer creates documents from Markdown files with optional front matter.
type Importer struct {
	service   docs.Service
	converter *Converter
	logger    interfaces.Logger
}

// ImporterOption configures the importer.
type ImporterOption func(*Importer)

// WithImporterLogger attaches a logger to the importer.
func WithImporterLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewImporter creates an importer over the document service.
func NewImporter(service docs.Service, converter *Converter, opts ...ImporterOption) *Importer {
	imp := &Importer{
		service:   service,
		converter: converter,
		logger:    logging.NoOp(),
	}

	for _, opt := range opts {
		opt(imp)
	}

	return imp
}

// Import parses front matter, resolves the title and a unique slug, converts
// the body to rich text and creates the document. Title resolution falls
// back from front matter to the first level one heading to the filename
// stem. A taken slug is probed with -1, -2, ... suffixes until free.
func (i *Importer) Import(ctx context.Context, source []byte, opts ImportOptions) (*docs.Document, error) {
	metadata, body := ParseFrontmatter(string(source))

	title := metadataString(metadata, "title")
	if title == "" {
		title = firstHeading(body)
	}
	if title == "" {
		title = filenameStem(opts.Filename)
	}
	if title == "" {
		title = "Imported Document"
	}

	slug := metadataString(metadata, "slug")
	if slug == "" {
		normalized, err := docs.NormalizeSlug(title)
		if err != nil {
			return nil, fmt.Errorf("derive slug: %w", err)
		}
		slug = normalized
	}
	slug, err := i.uniqueSlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	content, err := i.converter.ToHTML(body)
	if err != nil {
		return nil, fmt.Errorf("convert body: %w", err)
	}

	req := docs.CreateDocumentRequest{
		Title:          title,
		Slug:           slug,
		Content:        content,
		Classification: docs.ParseTier(metadataString(metadata, "type")),
		IsGlobal:       metadataBool(metadata, "is_global", false),
		IsPublished:    metadataBool(metadata, "is_published", true),
		SortOrder:      metadataInt(metadata, "sort_order", 0),
		AuthorID:       opts.AuthorID,
	}

	record, err := i.service.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if opts.AttachTo != uuid.Nil {
		if _, err := i.service.Attach(ctx, docs.AttachDocumentRequest{
			DocumentID: record.ID,
			ServerID:   opts.AttachTo,
			SortOrder:  record.SortOrder,
		}); err != nil {
			return nil, err
		}
	}

	i.logger.Info("markdown imported", "document_id", record.ID, "slug", record.Slug)
	return record, nil
}

// uniqueSlug probes slug, slug-1, slug-2, ... until one is free.
func (i *Importer) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for suffix := 1; ; suffix++ {
		_, err := i.service.GetBySlug(ctx, candidate)
		if err != nil {
			var notFound *docs.NotFoundError
			if errors.As(err, &notFound) {
				return candidate, nil
			}
			return "", err
		}
		candidate = base + "-" + strconv.Itoa(suffix)
	}
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func filenameStem(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

func metadataString(metadata map[string]any, key string) string {
	if value, ok := metadata[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func metadataBool(metadata map[string]any, key string, fallback bool) bool {
	if value, ok := metadata[key].(bool); ok {
		return value
	}
	return fallback
}

func metadataInt(metadata map[string]any, key string, fallback int) int {
	if value, ok := metadata[key].(string); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}
