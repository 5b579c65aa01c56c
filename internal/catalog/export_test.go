package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/starford/journal/internal/index"
	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/testutil"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "journal-catalog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustEntry(eid, slug, date string, tags ...string) *models.Entry {
	d, err := time.Parse(time.RFC3339, date)
	if err != nil {
		panic(err)
	}
	return &models.Entry{Eid: eid, Slug: slug, Title: slug, Date: d, Tags: tags, Content: "<p>" + slug + "</p>"}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM entries`).Scan(&count); err != nil {
		t.Fatalf("entries table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM entry_tags`).Scan(&count); err != nil {
		t.Fatalf("entry_tags table missing: %v", err)
	}
}

func TestExport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	blog := index.New("/blog", []*models.Entry{
		mustEntry("b", "b", "2023-06-01T00:00:00Z", "x", "y"),
		mustEntry("a", "a", "2024-01-01T00:00:00+09:00", "x"),
	}, testutil.Logger())
	pages := index.New("", []*models.Entry{
		mustEntry("p", "about", "2020-01-01T00:00:00Z"),
	}, testutil.Logger())

	n, err := db.Export(ctx, blog, pages)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 3 {
		t.Errorf("exported %d, want 3", n)
	}

	rows, err := db.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0].Path != "/blog/2024/01/01/a" || rows[0].Namespace != "/blog" || rows[0].Year != 2024 {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[2].Path != "/2020/01/01/about" || rows[2].Namespace != "" {
		t.Errorf("last row = %+v", rows[2])
	}
	if rows[0].Checksum == "" {
		t.Error("expected checksum")
	}

	tags, err := db.Tags(ctx, "/blog/2023/06/01/b")
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "x" || tags[1] != "y" {
		t.Errorf("tags = %v", tags)
	}
}

func TestExport_ReplacesPreviousSnapshot(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first := index.New("/blog", []*models.Entry{mustEntry("old", "old", "2020-01-01T00:00:00Z", "t")}, testutil.Logger())
	if _, err := db.Export(ctx, first); err != nil {
		t.Fatalf("Export: %v", err)
	}
	second := index.New("/blog", []*models.Entry{mustEntry("new", "new", "2021-01-01T00:00:00Z")}, testutil.Logger())
	if _, err := db.Export(ctx, second); err != nil {
		t.Fatalf("Export: %v", err)
	}

	rows, _ := db.Entries(ctx)
	if len(rows) != 1 || rows[0].Eid != "new" {
		t.Errorf("rows = %+v", rows)
	}
	tags, _ := db.Tags(ctx, "/blog/2020/01/01/old")
	if len(tags) != 0 {
		t.Errorf("stale tags = %v", tags)
	}
}

func TestExport_CollisionLastWins(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	idx := index.New("/blog", []*models.Entry{
		mustEntry("first", "dup", "2024-01-01T10:00:00Z", "one"),
		mustEntry("second", "dup", "2024-01-01T08:00:00Z", "two"),
	}, testutil.Logger())
	if _, err := db.Export(ctx, idx); err != nil {
		t.Fatalf("Export: %v", err)
	}

	want, _ := idx.EntryForPath("/blog/2024/01/01/dup")
	rows, _ := db.Entries(ctx)
	if len(rows) != 1 || rows[0].Eid != want.Eid {
		t.Errorf("rows = %+v, want eid %s", rows, want.Eid)
	}
	tags, _ := db.Tags(ctx, "/blog/2024/01/01/dup")
	if len(tags) != 1 || tags[0] != "two" {
		t.Errorf("tags = %v", tags)
	}
}
