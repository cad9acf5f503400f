package serverdocs

import (
	"github.com/goliatone/go-server-docs/documents"
	internaldocuments "github.com/goliatone/go-server-docs/internal/documents"
	"github.com/goliatone/go-server-docs/internal/logging"
	"github.com/goliatone/go-server-docs/internal/logging/gologger"
	"github.com/goliatone/go-server-docs/internal/markdown"
	"github.com/goliatone/go-server-docs/pkg/interfaces"
)

// DocumentService exports the document service contract for consumers of the
// serverdocs package.
type DocumentService = documents.Service

// Document exports the document record.
type Document = documents.Document

// DocumentVersion exports the version record.
type DocumentVersion = documents.DocumentVersion

// DocumentServer exports the attachment record.
type DocumentServer = documents.DocumentServer

// Tier exports the classification tier enum.
type Tier = documents.Tier

// CreateDocumentRequest exports the document creation request.
type CreateDocumentRequest = documents.CreateDocumentRequest

// UpdateDocumentRequest exports the document update request.
type UpdateDocumentRequest = documents.UpdateDocumentRequest

// DeleteDocumentRequest exports the document delete request.
type DeleteDocumentRequest = documents.DeleteDocumentRequest

// AttachDocumentRequest exports the attach request.
type AttachDocumentRequest = documents.AttachDocumentRequest

// DetachDocumentRequest exports the detach request.
type DetachDocumentRequest = documents.DetachDocumentRequest

// RestoreVersionRequest exports the version restore request.
type RestoreVersionRequest = documents.RestoreVersionRequest

// Viewer exports the viewer capability descriptor.
type Viewer = documents.Viewer

// Converter exports the Markdown converter.
type Converter = markdown.Converter

// Importer exports the Markdown importer.
type Importer = markdown.Importer

// Exporter exports the Markdown exporter.
type Exporter = markdown.Exporter

// ExportedDocument exports the rendered Markdown file payload.
type ExportedDocument = markdown.ExportedDocument

// ImportOptions exports the import context options.
type ImportOptions = markdown.ImportOptions

// MetaField exports one ordered front matter entry.
type MetaField = markdown.MetaField

// Logger exports the scoped logger contract.
type Logger = interfaces.Logger

// LoggerProvider exports the logger provider contract.
type LoggerProvider = interfaces.LoggerProvider

// Module is the top level runtime façade. It wires the document service,
// repositories and the Markdown pipeline from a single configuration.
type Module struct {
	config    Config
	provider  LoggerProvider
	documents DocumentService
	converter *Converter
	importer  *Importer
	exporter  *Exporter
}

// New constructs the module. A nil Config.DB selects in-memory persistence.
func New(cfg Config, opts ...internaldocuments.ServiceOption) (*Module, error) {
	provider := cfg.Logging.Provider
	if provider == nil {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		provider = built
	}

	var (
		documentRepo   documents.DocumentRepository
		versionRepo    documents.VersionRepository
		attachmentRepo documents.AttachmentRepository
	)
	if cfg.DB != nil {
		documentRepo = internaldocuments.NewBunDocumentRepository(cfg.DB)
		versionRepo = internaldocuments.NewBunVersionRepository(cfg.DB)
		attachmentRepo = internaldocuments.NewBunAttachmentRepository(cfg.DB)
	} else {
		memoryDocs := internaldocuments.NewMemoryDocumentRepository()
		documentRepo = memoryDocs
		versionRepo = internaldocuments.NewMemoryVersionRepository()
		attachmentRepo = internaldocuments.NewMemoryAttachmentRepository(memoryDocs)
	}

	serviceOpts := append([]internaldocuments.ServiceOption{
		internaldocuments.WithLogger(logging.DocumentsLogger(provider)),
	}, opts...)
	service := internaldocuments.NewService(documentRepo, versionRepo, attachmentRepo, serviceOpts...)

	converter := markdown.NewConverter(
		markdown.WithConverterLogger(logging.MarkdownLogger(provider)),
	)

	return &Module{
		config:    cfg,
		provider:  provider,
		documents: service,
		converter: converter,
		importer: markdown.NewImporter(service, converter,
			markdown.WithImporterLogger(logging.MarkdownLogger(provider)),
		),
		exporter: markdown.NewExporter(service, converter),
	}, nil
}

// Documents returns the configured document service.
func (m *Module) Documents() DocumentService {
	return m.documents
}

// Converter returns the Markdown converter.
func (m *Module) Converter() *Converter {
	return m.converter
}

// Importer returns the Markdown importer.
func (m *Module) Importer() *Importer {
	return m.importer
}

// Exporter returns the Markdown exporter.
func (m *Module) Exporter() *Exporter {
	return m.exporter
}

// Logger returns a scoped logger from the module's provider.
func (m *Module) Logger(name string) Logger {
	if m == nil || m.provider == nil {
		return logging.NoOp()
	}
	return m.provider.GetLogger(name)
}
