package documents

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Service exposes document management use cases. Implementations live in
// internal/documents; host applications consume this contract through the
// module façade.
type Service interface {
	Create(ctx context.Context, req CreateDocumentRequest) (*Document, error)
	Get(ctx context.Context, id uuid.UUID) (*Document, error)
	GetBySlug(ctx context.Context, slug string) (*Document, error)
	List(ctx context.Context) ([]*Document, error)
	Update(ctx context.Context, req UpdateDocumentRequest) (*Document, error)
	Delete(ctx context.Context, req DeleteDocumentRequest) error

	Attach(ctx context.Context, req AttachDocumentRequest) (*DocumentServer, error)
	Detach(ctx context.Context, req DetachDocumentRequest) error

	ListVersions(ctx context.Context, documentID uuid.UUID) ([]*DocumentVersion, error)
	CurrentVersionNumber(ctx context.Context, documentID uuid.UUID) (int, error)
	RestoreVersion(ctx context.Context, req RestoreVersionRequest) (*Document, error)

	VisibleDocuments(ctx context.Context, viewer Viewer, scopeID uuid.UUID) ([]*Document, error)
	CanView(ctx context.Context, viewer Viewer, documentID, scopeID uuid.UUID) (bool, error)
}

// CreateDocumentRequest captures the payload required to create a document.
// Slug is derived from the title when absent.
type CreateDocumentRequest struct {
	Title          string
	Slug           string
	Content        string
	Classification Tier
	IsGlobal       bool
	IsPublished    bool
	SortOrder      int
	AuthorID       uuid.UUID
}

// Validate ensures the request carries the required fields.
func (r CreateDocumentRequest) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(r.Title, validation.Required); err != nil {
		errs["title"] = ErrTitleRequired
	}
	if r.Slug != "" && !IsValidSlug(r.Slug) {
		errs["slug"] = ErrSlugInvalid
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateDocumentRequest captures mutable fields for an existing document.
// Nil pointers leave the stored value untouched. A change to Title or Content
// snapshots the prior state exactly once before the update is applied.
type UpdateDocumentRequest struct {
	ID             uuid.UUID
	Title          *string
	Content        *string
	Classification *Tier
	IsGlobal       *bool
	IsPublished    *bool
	SortOrder      *int
	ChangeSummary  *string
	UpdatedBy      uuid.UUID
}

// Validate ensures the request identifies a document.
func (r UpdateDocumentRequest) Validate() error {
	if r.ID == uuid.Nil {
		return validation.Errors{"id": ErrDocumentIDRequired}
	}
	return nil
}

// DeleteDocumentRequest captures the information required to remove a
// document. Soft delete is the default.
type DeleteDocumentRequest struct {
	ID         uuid.UUID
	DeletedBy  uuid.UUID
	HardDelete bool
}

// AttachDocumentRequest links a document to a server scope with a per-pair
// sort order. Attaching an already attached pair updates the sort order.
type AttachDocumentRequest struct {
	DocumentID uuid.UUID
	ServerID   uuid.UUID
	SortOrder  int
}

// Validate ensures both sides of the attachment are identified.
func (r AttachDocumentRequest) Validate() error {
	errs := validation.Errors{}
	if r.DocumentID == uuid.Nil {
		errs["document_id"] = ErrDocumentIDRequired
	}
	if r.ServerID == uuid.Nil {
		errs["server_id"] = ErrScopeRequired
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DetachDocumentRequest removes a document/server attachment.
type DetachDocumentRequest struct {
	DocumentID uuid.UUID
	ServerID   uuid.UUID
}

// RestoreVersionRequest captures the request to restore a prior version's
// title and content as the live document state.
type RestoreVersionRequest struct {
	DocumentID    uuid.UUID
	VersionNumber int
	RestoredBy    uuid.UUID
}

// Validate ensures the request identifies a document and a version.
func (r RestoreVersionRequest) Validate() error {
	errs := validation.Errors{}
	if r.DocumentID == uuid.Nil {
		errs["document_id"] = ErrDocumentIDRequired
	}
	if r.VersionNumber <= 0 {
		errs["version_number"] = ErrVersionRequired
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
