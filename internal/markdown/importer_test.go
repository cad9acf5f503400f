package markdown_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	docs "github.com/goliatone/go-server-docs/documents"
	internaldocs "github.com/goliatone/go-server-docs/internal/documents"
	"github.com/goliatone/go-server-docs/internal/markdown"
)

func newImportFixture() (docs.Service, *markdown.Importer, *markdown.Exporter) {
	documentStore := internaldocs.NewMemoryDocumentRepository()
	versionStore := internaldocs.NewMemoryVersionRepository()
	attachmentStore := internaldocs.NewMemoryAttachmentRepository(documentStore)

	svc := internaldocs.NewService(documentStore, versionStore, attachmentStore)
	converter := markdown.NewConverter()

	return svc, markdown.NewImporter(svc, converter), markdown.NewExporter(svc, converter)
}

func TestImportWithFrontmatter(t *testing.T) {
	svc, importer, _ := newImportFixture()
	ctx := context.Background()

	source := "---\n" +
		"title: Raid Etiquette\n" +
		"slug: raid-etiquette\n" +
		"type: server_mod\n" +
		"is_global: true\n" +
		"is_published: false\n" +
		"sort_order: 4\n" +
		"---\n\n" +
		"# Raid Etiquette\n\nBe **kind**."

	record, err := importer.Import(ctx, []byte(source), markdown.ImportOptions{AuthorID: uuid.New()})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if record.Title != "Raid Etiquette" {
		t.Fatalf("title = %q", record.Title)
	}
	if record.Slug != "raid-etiquette" {
		t.Fatalf("slug = %q", record.Slug)
	}
	if record.Classification != docs.TierServerMod {
		t.Fatalf("classification = %q", record.Classification)
	}
	if !record.IsGlobal || record.IsPublished {
		t.Fatalf("flags = global %v published %v", record.IsGlobal, record.IsPublished)
	}
	if record.SortOrder != 4 {
		t.Fatalf("sort order = %d", record.SortOrder)
	}
	if !strings.Contains(record.Content, "<strong>kind</strong>") {
		t.Fatalf("body not converted to rich text: %q", record.Content)
	}

	stored, err := svc.GetBySlug(ctx, "raid-etiquette")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if stored.ID != record.ID {
		t.Fatal("imported document not retrievable by slug")
	}
}

func TestImportTitleFallbackChain(t *testing.T) {
	_, importer, _ := newImportFixture()
	ctx := context.Background()

	fromHeading, err := importer.Import(ctx, []byte("# Heading Title\n\nbody"), markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if fromHeading.Title != "Heading Title" {
		t.Fatalf("title = %q, want first heading", fromHeading.Title)
	}

	fromFilename, err := importer.Import(ctx, []byte("plain text only"), markdown.ImportOptions{
		Filename: "server-rules.md",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if fromFilename.Title != "server-rules" {
		t.Fatalf("title = %q, want the raw filename stem", fromFilename.Title)
	}
}

func TestImportProbesTakenSlugs(t *testing.T) {
	_, importer, _ := newImportFixture()
	ctx := context.Background()

	slugs := map[string]bool{}
	for i := 0; i < 3; i++ {
		record, err := importer.Import(ctx, []byte("# Rules\n\nbody"), markdown.ImportOptions{})
		if err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
		slugs[record.Slug] = true
	}

	for _, want := range []string{"rules", "rules-1", "rules-2"} {
		if !slugs[want] {
			t.Fatalf("missing probed slug %q in %v", want, slugs)
		}
	}
}

func TestImportAttachesToServer(t *testing.T) {
	svc, importer, _ := newImportFixture()
	ctx := context.Background()
	serverID := uuid.New()

	record, err := importer.Import(ctx, []byte("# Rules\n\nbody"), markdown.ImportOptions{
		AttachTo: serverID,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	visible, err := svc.VisibleDocuments(ctx, docs.Viewer{IsGlobalAdmin: true}, serverID)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != record.ID {
		t.Fatalf("imported document not attached: %v", visible)
	}
}

func TestExportRoundTrip(t *testing.T) {
	_, importer, exporter := newImportFixture()
	ctx := context.Background()

	source := "---\n" +
		"title: Guide\n" +
		"slug: guide\n" +
		"type: player\n" +
		"is_global: false\n" +
		"is_published: true\n" +
		"sort_order: 0\n" +
		"---\n\n" +
		"# Guide\n\nHello **world**"

	record, err := importer.Import(ctx, []byte(source), markdown.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	exported, err := exporter.Export(ctx, record.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if exported.Filename != "guide.md" {
		t.Fatalf("filename = %q", exported.Filename)
	}
	if exported.Content != source {
		t.Fatalf("exported content:\n%q\nwant:\n%q", exported.Content, source)
	}
}

func TestExportFilenamePrefersSlug(t *testing.T) {
	svc, _, exporter := newImportFixture()
	ctx := context.Background()

	record, err := svc.Create(ctx, docs.CreateDocumentRequest{
		Title:   "My Guide!",
		Slug:    "my-guide",
		Content: "<p>body</p>",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	exported, err := exporter.Export(ctx, record.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported.Filename != "my-guide.md" {
		t.Fatalf("filename = %q", exported.Filename)
	}
}
