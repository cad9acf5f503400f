package documents

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Document is the canonical record for operator-authored documentation. The
// content field stores the rich-text body; markdown is derived on demand by
// the converter.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	ID             uuid.UUID  `bun:",pk,type:uuid"                   json:"id"`
	Title          string     `bun:"title,notnull"                   json:"title"`
	Slug           string     `bun:"slug,notnull"                    json:"slug"`
	Content        string     `bun:"content,notnull"                 json:"content"`
	Classification Tier       `bun:"type,notnull,default:'player'"   json:"type"`
	IsGlobal       bool       `bun:"is_global,notnull,default:false" json:"is_global"`
	IsPublished    bool       `bun:"is_published,notnull,default:true" json:"is_published"`
	SortOrder      int        `bun:"sort_order,notnull,default:0"    json:"sort_order"`
	AuthorID       uuid.UUID  `bun:"author_id,type:uuid,nullzero"    json:"author_id,omitempty"`
	LastEditedBy   uuid.UUID  `bun:"last_edited_by,type:uuid,nullzero" json:"last_edited_by,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,nullzero"             json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Versions    []*DocumentVersion `bun:"rel:has-many,join:id=document_id" json:"versions,omitempty"`
	Attachments []*DocumentServer  `bun:"rel:has-many,join:id=document_id" json:"attachments,omitempty"`
}

// DocumentVersion captures an immutable snapshot of a document's title and
// content as they were before a material edit. Rows are never mutated or
// deleted by normal operation.
type DocumentVersion struct {
	bun.BaseModel `bun:"table:document_versions,alias:dv"`

	ID            uuid.UUID `bun:",pk,type:uuid"                  json:"id"`
	DocumentID    uuid.UUID `bun:"document_id,notnull,type:uuid"  json:"document_id"`
	Title         string    `bun:"title,notnull"                  json:"title"`
	Content       string    `bun:"content,notnull"                json:"content"`
	VersionNumber int       `bun:"version_number,notnull"         json:"version_number"`
	EditedBy      uuid.UUID `bun:"edited_by,type:uuid,nullzero"   json:"edited_by,omitempty"`
	ChangeSummary *string   `bun:"change_summary"                 json:"change_summary,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`

	Document *Document `bun:"rel:belongs-to,join:document_id=id" json:"document,omitempty"`
}

// DocumentServer links a document to a server scope with a per-pair sort
// order independent of the document's own sort order.
type DocumentServer struct {
	bun.BaseModel `bun:"table:document_server,alias:ds"`

	ID         uuid.UUID `bun:",pk,type:uuid"                 json:"id"`
	DocumentID uuid.UUID `bun:"document_id,notnull,type:uuid" json:"document_id"`
	ServerID   uuid.UUID `bun:"server_id,notnull,type:uuid"   json:"server_id"`
	SortOrder  int       `bun:"sort_order,notnull,default:0"  json:"sort_order"`
	CreatedAt  time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
