package documents

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository abstracts storage operations for document records. List
// queries exclude soft-deleted rows. Implementations must treat missing rows
// as *NotFoundError so callers can branch with errors.As.
type DocumentRepository interface {
	Create(ctx context.Context, record *Document) (*Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetBySlug(ctx context.Context, slug string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	// ListGlobal returns published global documents whose classification is in
	// the allowed set, ordered by the document's own sort_order with id ties
	// broken deterministically.
	ListGlobal(ctx context.Context, allowed []Tier) ([]*Document, error)
	Update(ctx context.Context, record *Document) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID, hard bool) error
}

// VersionRepository abstracts storage for document version snapshots. Create
// must enforce uniqueness on (document_id, version_number): concurrent
// snapshot attempts for the same document either serialize or fail with a
// *VersionConflictError, never silently overwrite.
type VersionRepository interface {
	Create(ctx context.Context, version *DocumentVersion) (*DocumentVersion, error)
	// ListByDocument returns the document's versions ordered by descending
	// version number.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*DocumentVersion, error)
	GetByNumber(ctx context.Context, documentID uuid.UUID, number int) (*DocumentVersion, error)
}

// AttachmentRepository abstracts the document/server attachment relation.
type AttachmentRepository interface {
	// Attach inserts or updates the attachment for the pair, preserving the
	// unique (document_id, server_id) constraint.
	Attach(ctx context.Context, record *DocumentServer) (*DocumentServer, error)
	Detach(ctx context.Context, documentID, serverID uuid.UUID) error
	IsAttached(ctx context.Context, documentID, serverID uuid.UUID) (bool, error)
	// ListAttached returns published documents attached to the server whose
	// classification is in the allowed set, ordered by the attachment's
	// per-server sort_order.
	ListAttached(ctx context.Context, serverID uuid.UUID, allowed []Tier) ([]*Document, error)
}
