package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	docs "github.com/goliatone/go-server-docs/documents"
	internaldocs "github.com/goliatone/go-server-docs/internal/documents"
	"github.com/goliatone/go-server-docs/pkg/testsupport"
)

func newBunDB(t *testing.T) *bun.DB {
	t.Helper()

	sqlDB, err := testsupport.NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	bunDB.SetMaxOpenConns(1)

	registerDocumentModels(t, bunDB)
	return bunDB
}

func registerDocumentModels(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	models := []any{
		(*docs.Document)(nil),
		(*docs.DocumentVersion)(nil),
		(*docs.DocumentServer)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_document_versions_number ON document_versions(document_id, version_number)"); err != nil {
		t.Fatalf("create index idx_document_versions_number: %v", err)
	}
	if _, err := db.ExecContext(ctx, "CREATE UNIQUE INDEX IF NOT EXISTS idx_document_server_pair ON document_server(document_id, server_id)"); err != nil {
		t.Fatalf("create index idx_document_server_pair: %v", err)
	}
}

func TestDocumentService_WithBunStorage(t *testing.T) {
	ctx := context.Background()
	bunDB := newBunDB(t)

	documentRepo := internaldocs.NewBunDocumentRepository(bunDB)
	versionRepo := internaldocs.NewBunVersionRepository(bunDB)
	attachmentRepo := internaldocs.NewBunAttachmentRepository(bunDB)

	svc := internaldocs.NewService(documentRepo, versionRepo, attachmentRepo,
		internaldocs.WithClock(func() time.Time {
			return time.Unix(0, 0).UTC()
		}),
	)

	author := uuid.New()
	serverID := uuid.New()

	created, err := svc.Create(ctx, docs.CreateDocumentRequest{
		Title:       "Survival Rules",
		Content:     "original body",
		IsPublished: true,
		AuthorID:    author,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "survival-rules" {
		t.Fatalf("slug = %q", created.Slug)
	}

	fetched, err := svc.GetBySlug(ctx, "survival-rules")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatal("slug lookup returned a different document")
	}

	body := "edited body"
	if _, err := svc.Update(ctx, docs.UpdateDocumentRequest{
		ID:        created.ID,
		Content:   &body,
		UpdatedBy: author,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	versions, err := svc.ListVersions(ctx, created.ID)
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	if len(versions) != 1 || versions[0].VersionNumber != 1 {
		t.Fatalf("versions = %v, want one snapshot numbered 1", versions)
	}
	if versions[0].Content != "original body" {
		t.Fatalf("snapshot content = %q", versions[0].Content)
	}

	if _, err := svc.Attach(ctx, docs.AttachDocumentRequest{
		DocumentID: created.ID,
		ServerID:   serverID,
		SortOrder:  2,
	}); err != nil {
		t.Fatalf("attach: %v", err)
	}

	// re-attach upserts the pivot row instead of inserting a duplicate
	pivot, err := svc.Attach(ctx, docs.AttachDocumentRequest{
		DocumentID: created.ID,
		ServerID:   serverID,
		SortOrder:  9,
	})
	if err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	if pivot.SortOrder != 9 {
		t.Fatalf("pivot sort order = %d, want 9", pivot.SortOrder)
	}

	visible, err := svc.VisibleDocuments(ctx, docs.Viewer{}, serverID)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != created.ID {
		t.Fatalf("visible = %v, want the attached document", visible)
	}

	if err := svc.Detach(ctx, docs.DetachDocumentRequest{
		DocumentID: created.ID,
		ServerID:   serverID,
	}); err != nil {
		t.Fatalf("detach: %v", err)
	}

	visible, err = svc.VisibleDocuments(ctx, docs.Viewer{}, serverID)
	if err != nil {
		t.Fatalf("visible after detach: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("visible = %v, want none after detach", visible)
	}

	if err := svc.Delete(ctx, docs.DeleteDocumentRequest{ID: created.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.Get(ctx, created.ID)
	var notFound *docs.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError after soft delete", err)
	}
}

func TestBunVersionRepositoryConflict(t *testing.T) {
	ctx := context.Background()
	bunDB := newBunDB(t)

	documentRepo := internaldocs.NewBunDocumentRepository(bunDB)
	versionRepo := internaldocs.NewBunVersionRepository(bunDB)

	record, err := documentRepo.Create(ctx, &docs.Document{
		ID:             uuid.New(),
		Title:          "Rules",
		Slug:           "rules",
		Content:        "body",
		Classification: docs.TierPlayer,
		IsPublished:    true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	if _, err := versionRepo.Create(ctx, &docs.DocumentVersion{
		ID:            uuid.New(),
		DocumentID:    record.ID,
		Title:         "Rules",
		Content:       "body",
		VersionNumber: 1,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		t.Fatalf("first version: %v", err)
	}

	_, err = versionRepo.Create(ctx, &docs.DocumentVersion{
		ID:            uuid.New(),
		DocumentID:    record.ID,
		Title:         "Rules",
		Content:       "other",
		VersionNumber: 1,
		CreatedAt:     time.Now().UTC(),
	})
	if !errors.Is(err, docs.ErrVersionConflict) {
		t.Fatalf("err = %v, want ErrVersionConflict", err)
	}
}
