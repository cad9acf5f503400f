package documents

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrDocumentIDRequired = errors.New("documents: document id required")
	ErrTitleRequired      = errors.New("documents: title is required")
	ErrSlugInvalid        = errors.New("documents: slug contains invalid characters")
	ErrSlugExists         = errors.New("documents: slug already exists")
	ErrScopeRequired      = errors.New("documents: scope id required")
	ErrVersionRequired    = errors.New("documents: version number required")
	ErrVersionConflict    = errors.New("documents: version number conflict")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// VersionConflictError surfaces a (document_id, version_number) collision
// from concurrent snapshot attempts. Callers should re-fetch document state
// and retry; the core never retries internally.
type VersionConflictError struct {
	DocumentID    uuid.UUID
	VersionNumber int
}

func (e *VersionConflictError) Error() string {
	if e == nil {
		return ErrVersionConflict.Error()
	}
	return fmt.Sprintf("%s: document=%s version=%d", ErrVersionConflict.Error(), e.DocumentID, e.VersionNumber)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}
