package documents

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	docs "github.com/goliatone/go-server-docs/documents"
)

// MemoryDocumentRepository is an in-memory implementation for scaffolding and tests.
type MemoryDocumentRepository struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*docs.Document
	slugIndex map[string]uuid.UUID
}

// NewMemoryDocumentRepository creates an empty in-memory document repository.
func NewMemoryDocumentRepository() *MemoryDocumentRepository {
	return &MemoryDocumentRepository{
		documents: make(map[uuid.UUID]*docs.Document),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied document.
func (m *MemoryDocumentRepository) Create(_ context.Context, record *docs.Document) (*docs.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneDocument(record)
	m.documents[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneDocument(copied), nil
}

// GetByID retrieves a document by identifier. Soft deleted rows are treated
// as absent.
func (m *MemoryDocumentRepository) GetByID(_ context.Context, id uuid.UUID) (*docs.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.documents[id]
	if !ok || rec.DeletedAt != nil {
		return nil, &docs.NotFoundError{Resource: "document", Key: id.String()}
	}
	return cloneDocument(rec), nil
}

// GetBySlug retrieves a document by slug, returning NotFoundError when absent.
func (m *MemoryDocumentRepository) GetBySlug(_ context.Context, slug string) (*docs.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &docs.NotFoundError{Resource: "document", Key: slug}
	}
	rec := m.documents[id]
	if rec == nil || rec.DeletedAt != nil {
		return nil, &docs.NotFoundError{Resource: "document", Key: slug}
	}
	return cloneDocument(rec), nil
}

// List returns all non-deleted documents ordered by sort order.
func (m *MemoryDocumentRepository) List(_ context.Context) ([]*docs.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*docs.Document, 0, len(m.documents))
	for _, rec := range m.documents {
		if rec.DeletedAt != nil {
			continue
		}
		out = append(out, cloneDocument(rec))
	}
	sortDocuments(out)
	return out, nil
}

// ListGlobal returns published global documents classified within the
// allowed tiers, ordered by sort order.
func (m *MemoryDocumentRepository) ListGlobal(_ context.Context, allowed []docs.Tier) ([]*docs.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*docs.Document{}
	for _, rec := range m.documents {
		if rec.DeletedAt != nil || !rec.IsGlobal || !rec.IsPublished {
			continue
		}
		if !docs.TierAllowed(allowed, rec.Classification) {
			continue
		}
		out = append(out, cloneDocument(rec))
	}
	sortDocuments(out)
	return out, nil
}

// Update replaces the stored document.
func (m *MemoryDocumentRepository) Update(_ context.Context, record *docs.Document) (*docs.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.documents[record.ID]
	if !ok {
		return nil, &docs.NotFoundError{Resource: "document", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, existing.Slug)
	}

	copied := cloneDocument(record)
	m.documents[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneDocument(copied), nil
}

// Delete removes a document, soft deleting unless hard is set.
func (m *MemoryDocumentRepository) Delete(_ context.Context, id uuid.UUID, hard bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.documents[id]
	if !ok || rec.DeletedAt != nil {
		return &docs.NotFoundError{Resource: "document", Key: id.String()}
	}

	if hard {
		delete(m.slugIndex, rec.Slug)
		delete(m.documents, id)
		return nil
	}

	now := time.Now()
	rec.DeletedAt = &now
	return nil
}

// MemoryVersionRepository is an in-memory implementation for scaffolding and tests.
type MemoryVersionRepository struct {
	mu       sync.RWMutex
	versions map[uuid.UUID]map[int]*docs.DocumentVersion
}

// NewMemoryVersionRepository creates an empty in-memory version repository.
func NewMemoryVersionRepository() *MemoryVersionRepository {
	return &MemoryVersionRepository{
		versions: make(map[uuid.UUID]map[int]*docs.DocumentVersion),
	}
}

// Create inserts a version, rejecting a duplicate number per document.
func (m *MemoryVersionRepository) Create(_ context.Context, record *docs.DocumentVersion) (*docs.DocumentVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byNumber, ok := m.versions[record.DocumentID]
	if !ok {
		byNumber = make(map[int]*docs.DocumentVersion)
		m.versions[record.DocumentID] = byNumber
	}
	if _, exists := byNumber[record.VersionNumber]; exists {
		return nil, &docs.VersionConflictError{
			DocumentID:    record.DocumentID,
			VersionNumber: record.VersionNumber,
		}
	}

	copied := cloneVersion(record)
	byNumber[copied.VersionNumber] = copied
	return cloneVersion(copied), nil
}

// ListByDocument returns a document's versions, highest number first.
func (m *MemoryVersionRepository) ListByDocument(_ context.Context, documentID uuid.UUID) ([]*docs.DocumentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byNumber := m.versions[documentID]
	out := make([]*docs.DocumentVersion, 0, len(byNumber))
	for _, rec := range byNumber {
		out = append(out, cloneVersion(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber > out[j].VersionNumber
	})
	return out, nil
}

// GetByNumber retrieves a version by document and version number.
func (m *MemoryVersionRepository) GetByNumber(_ context.Context, documentID uuid.UUID, number int) (*docs.DocumentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.versions[documentID][number]
	if !ok {
		return nil, &docs.NotFoundError{Resource: "document_version", Key: versionKey(documentID, number)}
	}
	return cloneVersion(rec), nil
}

// MemoryAttachmentRepository is an in-memory implementation for scaffolding
// and tests. It reads through the supplied document repository when listing
// a scope's attached documents.
type MemoryAttachmentRepository struct {
	mu        sync.RWMutex
	pairs     map[string]*docs.DocumentServer
	documents *MemoryDocumentRepository
}

// NewMemoryAttachmentRepository creates an empty in-memory attachment repository.
func NewMemoryAttachmentRepository(documents *MemoryDocumentRepository) *MemoryAttachmentRepository {
	return &MemoryAttachmentRepository{
		pairs:     make(map[string]*docs.DocumentServer),
		documents: documents,
	}
}

// Attach inserts the attachment, updating the sort order when the pair
// already exists.
func (m *MemoryAttachmentRepository) Attach(_ context.Context, record *docs.DocumentServer) (*docs.DocumentServer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey(record.DocumentID, record.ServerID)
	if existing, ok := m.pairs[key]; ok {
		existing.SortOrder = record.SortOrder
		existing.UpdatedAt = record.UpdatedAt
		return cloneAttachment(existing), nil
	}

	copied := cloneAttachment(record)
	m.pairs[key] = copied
	return cloneAttachment(copied), nil
}

// Detach removes the attachment between a document and a server.
func (m *MemoryAttachmentRepository) Detach(_ context.Context, documentID, serverID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey(documentID, serverID)
	if _, ok := m.pairs[key]; !ok {
		return &docs.NotFoundError{Resource: "document_server", Key: key}
	}
	delete(m.pairs, key)
	return nil
}

// IsAttached reports whether the document is attached to the server.
func (m *MemoryAttachmentRepository) IsAttached(_ context.Context, documentID, serverID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.pairs[pairKey(documentID, serverID)]
	return ok, nil
}

// ListAttached returns the server's attached documents that are published
// and classified within the allowed tiers, ordered by attachment sort order.
func (m *MemoryAttachmentRepository) ListAttached(_ context.Context, serverID uuid.UUID, allowed []docs.Tier) ([]*docs.Document, error) {
	m.mu.RLock()
	pivots := []*docs.DocumentServer{}
	for _, pair := range m.pairs {
		if pair.ServerID == serverID {
			pivots = append(pivots, cloneAttachment(pair))
		}
	}
	m.mu.RUnlock()

	sort.Slice(pivots, func(i, j int) bool {
		if pivots[i].SortOrder != pivots[j].SortOrder {
			return pivots[i].SortOrder < pivots[j].SortOrder
		}
		return pivots[i].DocumentID.String() < pivots[j].DocumentID.String()
	})

	m.documents.mu.RLock()
	defer m.documents.mu.RUnlock()

	out := []*docs.Document{}
	for _, pair := range pivots {
		rec, ok := m.documents.documents[pair.DocumentID]
		if !ok || rec.DeletedAt != nil || !rec.IsPublished {
			continue
		}
		if !docs.TierAllowed(allowed, rec.Classification) {
			continue
		}
		out = append(out, cloneDocument(rec))
	}
	return out, nil
}

func sortDocuments(records []*docs.Document) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SortOrder != records[j].SortOrder {
			return records[i].SortOrder < records[j].SortOrder
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}

func pairKey(documentID, serverID uuid.UUID) string {
	return documentID.String() + ":" + serverID.String()
}

func versionKey(documentID uuid.UUID, number int) string {
	return documentID.String() + ":" + strconv.Itoa(number)
}

func cloneDocument(src *docs.Document) *docs.Document {
	if src == nil {
		return nil
	}

	copied := *src
	if src.DeletedAt != nil {
		deleted := *src.DeletedAt
		copied.DeletedAt = &deleted
	}
	if len(src.Versions) > 0 {
		copied.Versions = make([]*docs.DocumentVersion, len(src.Versions))
		for i, version := range src.Versions {
			copied.Versions[i] = cloneVersion(version)
		}
	}
	if len(src.Attachments) > 0 {
		copied.Attachments = make([]*docs.DocumentServer, len(src.Attachments))
		for i, attachment := range src.Attachments {
			copied.Attachments[i] = cloneAttachment(attachment)
		}
	}
	return &copied
}

func cloneVersion(src *docs.DocumentVersion) *docs.DocumentVersion {
	if src == nil {
		return nil
	}

	copied := *src
	copied.Document = nil
	if src.ChangeSummary != nil {
		summary := *src.ChangeSummary
		copied.ChangeSummary = &summary
	}
	return &copied
}

func cloneAttachment(src *docs.DocumentServer) *docs.DocumentServer {
	if src == nil {
		return nil
	}

	copied := *src
	return &copied
}
