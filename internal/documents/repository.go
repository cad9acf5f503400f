package documents

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	docs "github.com/goliatone/go-server-docs/documents"
)

func NewDocumentRepository(db *bun.DB) repository.Repository[*docs.Document] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*docs.Document]{
		NewRecord: func() *docs.Document { return &docs.Document{} },
		GetID: func(d *docs.Document) uuid.UUID {
			return d.ID
		},
		SetID: func(d *docs.Document, id uuid.UUID) {
			d.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(d *docs.Document) string {
			return d.Slug
		},
	})
}

func NewVersionRepository(db *bun.DB) repository.Repository[*docs.DocumentVersion] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*docs.DocumentVersion]{
		NewRecord: func() *docs.DocumentVersion { return &docs.DocumentVersion{} },
		GetID: func(v *docs.DocumentVersion) uuid.UUID {
			return v.ID
		},
		SetID: func(v *docs.DocumentVersion, id uuid.UUID) {
			v.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(v *docs.DocumentVersion) string {
			return v.ID.String()
		},
	})
}

func NewAttachmentRepository(db *bun.DB) repository.Repository[*docs.DocumentServer] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*docs.DocumentServer]{
		NewRecord: func() *docs.DocumentServer { return &docs.DocumentServer{} },
		GetID: func(a *docs.DocumentServer) uuid.UUID {
			return a.ID
		},
		SetID: func(a *docs.DocumentServer, id uuid.UUID) {
			a.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(a *docs.DocumentServer) string {
			return a.ID.String()
		},
	})
}
