package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	docs "github.com/goliatone/go-server-docs/documents"
	"github.com/goliatone/go-server-docs/internal/logging"
	"github.com/goliatone/go-server-docs/pkg/interfaces"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator produces identifiers for new records.
type IDGenerator func() uuid.UUID

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a logger to the service.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements docs.Service.
type service struct {
	documents   docs.DocumentRepository
	versions    docs.VersionRepository
	attachments docs.AttachmentRepository
	now         func() time.Time
	id          IDGenerator
	logger      interfaces.Logger
}

// NewService constructs a document service with the required repositories.
func NewService(documents docs.DocumentRepository, versions docs.VersionRepository, attachments docs.AttachmentRepository, opts ...ServiceOption) docs.Service {
	s := &service{
		documents:   documents,
		versions:    versions,
		attachments: attachments,
		now:         time.Now,
		id:          uuid.New,
		logger:      logging.NoOp(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create stores a new document, deriving the slug from the title when one is
// not supplied. The version log starts empty; a document with no recorded
// versions is implicitly at version 1.
func (s *service) Create(ctx context.Context, req docs.CreateDocumentRequest) (*docs.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	slugValue := strings.TrimSpace(req.Slug)
	if slugValue == "" {
		normalized, err := docs.NormalizeSlug(title)
		if err != nil {
			return nil, docs.ErrSlugInvalid
		}
		slugValue = normalized
	}

	if existing, err := s.documents.GetBySlug(ctx, slugValue); err == nil && existing != nil {
		return nil, docs.ErrSlugExists
	} else if err != nil {
		var notFound *docs.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	record := &docs.Document{
		ID:             s.id(),
		Title:          title,
		Slug:           slugValue,
		Content:        req.Content,
		Classification: docs.ParseTier(string(req.Classification)),
		IsGlobal:       req.IsGlobal,
		IsPublished:    req.IsPublished,
		SortOrder:      req.SortOrder,
		AuthorID:       req.AuthorID,
		LastEditedBy:   req.AuthorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.documents.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("document created", "document_id", created.ID, "slug", created.Slug)
	return created, nil
}

// Get fetches a document by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*docs.Document, error) {
	if id == uuid.Nil {
		return nil, docs.ErrDocumentIDRequired
	}
	return s.documents.GetByID(ctx, id)
}

// GetBySlug fetches a document by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*docs.Document, error) {
	return s.documents.GetBySlug(ctx, strings.TrimSpace(slug))
}

// List returns all non-deleted documents.
func (s *service) List(ctx context.Context) ([]*docs.Document, error) {
	return s.documents.List(ctx)
}

// Update applies mutable fields to a document. When the update changes title
// or content, the prior values are snapshotted exactly once before the new
// state is persisted and the last editor is stamped.
func (s *service) Update(ctx context.Context, req docs.UpdateDocumentRequest) (*docs.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.documents.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	dirty := false
	if req.Title != nil && strings.TrimSpace(*req.Title) != record.Title {
		dirty = true
	}
	if req.Content != nil && *req.Content != record.Content {
		dirty = true
	}

	if dirty {
		if _, err := s.snapshot(ctx, record, req.UpdatedBy, req.ChangeSummary); err != nil {
			return nil, err
		}
		record.LastEditedBy = req.UpdatedBy
	}

	if req.Title != nil {
		record.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		record.Content = *req.Content
	}
	if req.Classification != nil {
		record.Classification = docs.ParseTier(string(*req.Classification))
	}
	if req.IsGlobal != nil {
		record.IsGlobal = *req.IsGlobal
	}
	if req.IsPublished != nil {
		record.IsPublished = *req.IsPublished
	}
	if req.SortOrder != nil {
		record.SortOrder = *req.SortOrder
	}
	record.UpdatedAt = s.now()

	return s.documents.Update(ctx, record)
}

// Delete removes a document, soft deleting unless a hard delete is requested.
func (s *service) Delete(ctx context.Context, req docs.DeleteDocumentRequest) error {
	if req.ID == uuid.Nil {
		return docs.ErrDocumentIDRequired
	}
	if _, err := s.documents.GetByID(ctx, req.ID); err != nil {
		return err
	}
	return s.documents.Delete(ctx, req.ID, req.HardDelete)
}

// Attach links a document to a server scope, updating the per-pair sort
// order when the pair already exists.
func (s *service) Attach(ctx context.Context, req docs.AttachDocumentRequest) (*docs.DocumentServer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.documents.GetByID(ctx, req.DocumentID); err != nil {
		return nil, err
	}

	now := s.now()
	return s.attachments.Attach(ctx, &docs.DocumentServer{
		ID:         s.id(),
		DocumentID: req.DocumentID,
		ServerID:   req.ServerID,
		SortOrder:  req.SortOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// Detach removes the attachment between a document and a server scope.
func (s *service) Detach(ctx context.Context, req docs.DetachDocumentRequest) error {
	if req.DocumentID == uuid.Nil {
		return docs.ErrDocumentIDRequired
	}
	if req.ServerID == uuid.Nil {
		return docs.ErrScopeRequired
	}
	return s.attachments.Detach(ctx, req.DocumentID, req.ServerID)
}

// ListVersions returns the document's snapshots, newest first.
func (s *service) ListVersions(ctx context.Context, documentID uuid.UUID) ([]*docs.DocumentVersion, error) {
	if documentID == uuid.Nil {
		return nil, docs.ErrDocumentIDRequired
	}
	if _, err := s.documents.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.versions.ListByDocument(ctx, documentID)
}

// CurrentVersionNumber returns the highest recorded version number, or 1 when
// no versions exist yet.
func (s *service) CurrentVersionNumber(ctx context.Context, documentID uuid.UUID) (int, error) {
	if documentID == uuid.Nil {
		return 0, docs.ErrDocumentIDRequired
	}
	if _, err := s.documents.GetByID(ctx, documentID); err != nil {
		return 0, err
	}

	versions, err := s.versions.ListByDocument(ctx, documentID)
	if err != nil {
		return 0, err
	}
	if max := maxVersionNumber(versions); max > 0 {
		return max, nil
	}
	return 1, nil
}

// RestoreVersion copies a historical version's title and content into the
// live document. The snapshot taken first captures the state being replaced,
// so restore always yields exactly one new latest version whose stored
// content is the pre-restore state.
func (s *service) RestoreVersion(ctx context.Context, req docs.RestoreVersionRequest) (*docs.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	record, err := s.documents.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	target, err := s.versions.GetByNumber(ctx, req.DocumentID, req.VersionNumber)
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("Restored from version %d", target.VersionNumber)
	if _, err := s.snapshot(ctx, record, req.RestoredBy, &summary); err != nil {
		return nil, err
	}

	record.Title = target.Title
	record.Content = target.Content
	record.LastEditedBy = req.RestoredBy
	record.UpdatedAt = s.now()

	restored, err := s.documents.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document restored", "document_id", record.ID, "version", target.VersionNumber)
	return restored, nil
}

// VisibleDocuments resolves the viewer's allowed tiers and merges the scope's
// attached documents with the published globals. Attached documents lead in
// attachment order; globals follow in their own sort order, skipping any id
// already present. The merged order is final and never re-sorted.
func (s *service) VisibleDocuments(ctx context.Context, viewer docs.Viewer, scopeID uuid.UUID) ([]*docs.Document, error) {
	allowed := docs.ResolveAllowedTiers(viewer)

	var attached []*docs.Document
	if scopeID != uuid.Nil {
		records, err := s.attachments.ListAttached(ctx, scopeID, allowed)
		if err != nil {
			return nil, err
		}
		attached = records
	}

	global, err := s.documents.ListGlobal(ctx, allowed)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(attached))
	merged := make([]*docs.Document, 0, len(attached)+len(global))
	for _, record := range attached {
		if _, ok := seen[record.ID]; ok {
			continue
		}
		seen[record.ID] = struct{}{}
		merged = append(merged, record)
	}
	for _, record := range global {
		if _, ok := seen[record.ID]; ok {
			continue
		}
		seen[record.ID] = struct{}{}
		merged = append(merged, record)
	}

	return merged, nil
}

// CanView reports whether the viewer may read one document on a scope. The
// document must be published (global admins also see unpublished drafts),
// attached to the scope or global, and classified within the viewer's
// allowed tiers.
func (s *service) CanView(ctx context.Context, viewer docs.Viewer, documentID, scopeID uuid.UUID) (bool, error) {
	if documentID == uuid.Nil {
		return false, docs.ErrDocumentIDRequired
	}

	record, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return false, err
	}

	if !record.IsPublished && !viewer.IsGlobalAdmin {
		return false, nil
	}

	if !record.IsGlobal {
		if scopeID == uuid.Nil {
			return false, nil
		}
		attached, err := s.attachments.IsAttached(ctx, documentID, scopeID)
		if err != nil {
			return false, err
		}
		if !attached {
			return false, nil
		}
	}

	allowed := docs.ResolveAllowedTiers(viewer)
	return docs.TierAllowed(allowed, record.Classification), nil
}

// snapshot records the document's current title and content as the next
// version. The version number is max(existing)+1; the repository surfaces a
// collision on concurrent snapshots as *docs.VersionConflictError.
func (s *service) snapshot(ctx context.Context, record *docs.Document, editor uuid.UUID, summary *string) (*docs.DocumentVersion, error) {
	versions, err := s.versions.ListByDocument(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	version := &docs.DocumentVersion{
		ID:            s.id(),
		DocumentID:    record.ID,
		Title:         record.Title,
		Content:       record.Content,
		VersionNumber: maxVersionNumber(versions) + 1,
		EditedBy:      editor,
		ChangeSummary: summary,
		CreatedAt:     s.now(),
	}

	return s.versions.Create(ctx, version)
}

func maxVersionNumber(versions []*docs.DocumentVersion) int {
	max := 0
	for _, version := range versions {
		if version == nil {
			continue
		}
		if version.VersionNumber > max {
			max = version.VersionNumber
		}
	}
	return max
}
