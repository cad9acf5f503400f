package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	docs "github.com/goliatone/go-server-docs/documents"
)

// BunDocumentRepository persists documents through go-repository-bun.
type BunDocumentRepository struct {
	db   *bun.DB
	repo repository.Repository[*docs.Document]
}

// NewBunDocumentRepository creates a bun backed document repository.
func NewBunDocumentRepository(db *bun.DB) *BunDocumentRepository {
	return &BunDocumentRepository{db: db, repo: NewDocumentRepository(db)}
}

func (r *BunDocumentRepository) Create(ctx context.Context, record *docs.Document) (*docs.Document, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunDocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*docs.Document, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "document", id.String())
	}
	if record.DeletedAt != nil {
		return nil, &docs.NotFoundError{Resource: "document", Key: id.String()}
	}
	return record, nil
}

func (r *BunDocumentRepository) GetBySlug(ctx context.Context, slug string) (*docs.Document, error) {
	record, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "document", slug)
	}
	if record.DeletedAt != nil {
		return nil, &docs.NotFoundError{Resource: "document", Key: slug}
	}
	return record, nil
}

func (r *BunDocumentRepository) List(ctx context.Context) ([]*docs.Document, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL").
				OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC")
		}),
	)
	return records, err
}

func (r *BunDocumentRepository) ListGlobal(ctx context.Context, allowed []docs.Tier) ([]*docs.Document, error) {
	if len(allowed) == 0 {
		return []*docs.Document{}, nil
	}

	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.deleted_at IS NULL").
				Where("?TableAlias.is_global = ?", true).
				Where("?TableAlias.is_published = ?", true).
				Where("?TableAlias.type IN (?)", bun.In(tierValues(allowed))).
				OrderExpr("?TableAlias.sort_order ASC, ?TableAlias.id ASC")
		}),
	)
	return records, err
}

func (r *BunDocumentRepository) Update(ctx context.Context, record *docs.Document) (*docs.Document, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "document", record.ID.String())
	}
	return updated, nil
}

func (r *BunDocumentRepository) Delete(ctx context.Context, id uuid.UUID, hard bool) error {
	if hard {
		return r.repo.Delete(ctx, &docs.Document{ID: id})
	}

	now := time.Now()
	_, err := r.repo.Update(ctx, &docs.Document{ID: id, DeletedAt: &now, UpdatedAt: now},
		repository.UpdateByID(id.String()),
		repository.UpdateColumns("deleted_at", "updated_at"),
	)
	return mapRepositoryError(err, "document", id.String())
}

// BunVersionRepository persists document versions through go-repository-bun.
type BunVersionRepository struct {
	db   *bun.DB
	repo repository.Repository[*docs.DocumentVersion]
}

// NewBunVersionRepository creates a bun backed version repository.
func NewBunVersionRepository(db *bun.DB) *BunVersionRepository {
	return &BunVersionRepository{db: db, repo: NewVersionRepository(db)}
}

// Create inserts a version. The unique index on (document_id, version_number)
// rejects concurrent snapshots that computed the same next number; the
// collision surfaces as *docs.VersionConflictError.
func (r *BunVersionRepository) Create(ctx context.Context, record *docs.DocumentVersion) (*docs.DocumentVersion, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		if existing, probeErr := r.GetByNumber(ctx, record.DocumentID, record.VersionNumber); probeErr == nil && existing != nil {
			return nil, &docs.VersionConflictError{
				DocumentID:    record.DocumentID,
				VersionNumber: record.VersionNumber,
			}
		}
		return nil, fmt.Errorf("document_version repository error: %w", err)
	}
	return created, nil
}

func (r *BunVersionRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*docs.DocumentVersion, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.document_id = ?", documentID).
				OrderExpr("?TableAlias.version_number DESC")
		}),
	)
	return records, err
}

func (r *BunVersionRepository) GetByNumber(ctx context.Context, documentID uuid.UUID, number int) (*docs.DocumentVersion, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.document_id = ?", documentID).
				Where("?TableAlias.version_number = ?", number)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &docs.NotFoundError{Resource: "document_version", Key: fmt.Sprintf("%s:%d", documentID, number)}
	}
	return records[0], nil
}

// BunAttachmentRepository persists document to server attachments.
type BunAttachmentRepository struct {
	db        *bun.DB
	repo      repository.Repository[*docs.DocumentServer]
	documents repository.Repository[*docs.Document]
}

// NewBunAttachmentRepository creates a bun backed attachment repository.
func NewBunAttachmentRepository(db *bun.DB) *BunAttachmentRepository {
	return &BunAttachmentRepository{
		db:        db,
		repo:      NewAttachmentRepository(db),
		documents: NewDocumentRepository(db),
	}
}

// Attach upserts the (document_id, server_id) pair, keeping a single row per
// pair and refreshing its sort order.
func (r *BunAttachmentRepository) Attach(ctx context.Context, record *docs.DocumentServer) (*docs.DocumentServer, error) {
	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (document_id, server_id) DO UPDATE").
		Set("sort_order = EXCLUDED.sort_order").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("document_server repository error: %w", err)
	}
	return r.getPair(ctx, record.DocumentID, record.ServerID)
}

func (r *BunAttachmentRepository) Detach(ctx context.Context, documentID, serverID uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*docs.DocumentServer)(nil)).
		Where("document_id = ?", documentID).
		Where("server_id = ?", serverID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("document_server repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return &docs.NotFoundError{Resource: "document_server", Key: fmt.Sprintf("%s:%s", documentID, serverID)}
	}
	return nil
}

func (r *BunAttachmentRepository) IsAttached(ctx context.Context, documentID, serverID uuid.UUID) (bool, error) {
	return r.db.NewSelect().
		Model((*docs.DocumentServer)(nil)).
		Where("document_id = ?", documentID).
		Where("server_id = ?", serverID).
		Exists(ctx)
}

// ListAttached returns the server's attached documents, filtered to the
// allowed tiers and ordered by the attachment's sort order.
func (r *BunAttachmentRepository) ListAttached(ctx context.Context, serverID uuid.UUID, allowed []docs.Tier) ([]*docs.Document, error) {
	if len(allowed) == 0 {
		return []*docs.Document{}, nil
	}

	records, _, err := r.documents.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Join("JOIN document_server AS ds ON ds.document_id = ?TableAlias.id").
				Where("ds.server_id = ?", serverID).
				Where("?TableAlias.deleted_at IS NULL").
				Where("?TableAlias.is_published = ?", true).
				Where("?TableAlias.type IN (?)", bun.In(tierValues(allowed))).
				OrderExpr("ds.sort_order ASC, ?TableAlias.id ASC")
		}),
	)
	return records, err
}

func (r *BunAttachmentRepository) getPair(ctx context.Context, documentID, serverID uuid.UUID) (*docs.DocumentServer, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.document_id = ?", documentID).
				Where("?TableAlias.server_id = ?", serverID)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &docs.NotFoundError{Resource: "document_server", Key: fmt.Sprintf("%s:%s", documentID, serverID)}
	}
	return records[0], nil
}

func tierValues(tiers []docs.Tier) []string {
	out := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, string(tier))
	}
	return out
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	var notFound *docs.NotFoundError
	if errors.As(err, &notFound) {
		return err
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &docs.NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
