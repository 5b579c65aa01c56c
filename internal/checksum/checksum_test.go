package checksum

import (
	"testing"
	"time"

	"github.com/starford/journal/internal/models"
)

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestEntry_ChangesWithContent(t *testing.T) {
	e := &models.Entry{Eid: "1", Slug: "a", Title: "A", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Content: "x"}
	before := Entry(e)
	if Entry(e) != before {
		t.Fatal("digest not stable")
	}
	changed := *e
	changed.Content = "y"
	if Entry(&changed) == before {
		t.Error("digest should change with content")
	}
}

func TestEntry_FieldBoundaries(t *testing.T) {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &models.Entry{Eid: "ab", Title: "c", Date: d}
	b := &models.Entry{Eid: "a", Title: "bc", Date: d}
	if Entry(a) == Entry(b) {
		t.Error("digests must not collide across field boundaries")
	}
}
