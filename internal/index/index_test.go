package index

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/starford/journal/internal/models"
	"github.com/starford/journal/internal/testutil"
)

func entry(t *testing.T, eid, slug, date string, tags ...string) *models.Entry {
	t.Helper()
	d, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t.Fatal(err)
	}
	if tags == nil {
		tags = []string{}
	}
	return &models.Entry{Eid: eid, Slug: slug, Title: slug, Date: d, Tags: tags, Content: "<p>" + slug + "</p>"}
}

func eids(entries []*models.Entry) string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Eid
	}
	return fmt.Sprint(out)
}

// scenarioIndex builds the two-post blog used by several tests.
func scenarioIndex(t *testing.T) (*Index, *models.Entry, *models.Entry) {
	t.Helper()
	b := entry(t, "b", "b", "2023-06-01T00:00:00Z", "x", "y")
	a := entry(t, "a", "a", "2024-01-01T00:00:00Z", "x")
	return New("/blog", []*models.Entry{b, a}, testutil.Logger()), a, b
}

func TestScenario_Listings(t *testing.T) {
	idx, a, b := scenarioIndex(t)

	if got := eids(idx.Entries()); got != "[a b]" {
		t.Errorf("Entries = %s, want [a b]", got)
	}
	x, ok := idx.EntriesByTag("x")
	if !ok || eids(x) != "[a b]" {
		t.Errorf("tag x = %s, %v", eids(x), ok)
	}
	y, ok := idx.EntriesByTag("y")
	if !ok || eids(y) != "[b]" {
		t.Errorf("tag y = %s, %v", eids(y), ok)
	}
	if z, ok := idx.EntriesByTag("z"); ok || z != nil {
		t.Errorf("tag z = %v, %v, want absent", z, ok)
	}

	years := idx.EntriesByYear()
	if len(years) != 2 || years[0].Year != 2023 || years[1].Year != 2024 {
		t.Fatalf("years = %+v", years)
	}
	if years[0].Entries[0] != b || years[1].Entries[0] != a {
		t.Error("year buckets hold the wrong entries")
	}

	got, ok := idx.EntryForPath("/blog/2024/01/01/a")
	if !ok || got != a {
		t.Errorf("EntryForPath = %v, %v", got, ok)
	}
	if _, ok := idx.EntryForPath("/2024/01/01/a"); ok {
		t.Error("lookup without prefix should miss")
	}
}

func TestNew_SortedNewestFirst(t *testing.T) {
	in := []*models.Entry{
		entry(t, "1", "one", "2020-05-01T00:00:00Z"),
		entry(t, "2", "two", "2024-03-01T00:00:00+09:00"),
		entry(t, "3", "three", "2022-01-01T00:00:00-05:00"),
		entry(t, "4", "four", "2024-02-29T23:00:00Z"),
	}
	idx := New("", in, testutil.Logger())
	all := idx.Entries()
	for n := 1; n < len(all); n++ {
		if all[n-1].Date.Before(all[n].Date) {
			t.Errorf("entries %d and %d out of order", n-1, n)
		}
	}
	if eids(in) != "[1 2 3 4]" {
		t.Error("New must not reorder the caller's slice")
	}
}

func TestNew_EqualDatesKeepInputOrder(t *testing.T) {
	in := []*models.Entry{
		entry(t, "first", "p", "2024-01-01T00:00:00Z"),
		entry(t, "second", "q", "2024-01-01T09:00:00+09:00"), // same instant
		entry(t, "third", "r", "2024-01-01T00:00:00Z"),
	}
	idx := New("", in, testutil.Logger())
	if got := eids(idx.Entries()); got != "[first second third]" {
		t.Errorf("Entries = %s", got)
	}
}

func TestEntryForPath_RoundTrip(t *testing.T) {
	in := []*models.Entry{
		entry(t, "1", "alpha", "2021-01-02T03:04:05Z", "go"),
		entry(t, "2", "beta", "2022-11-12T23:59:59+09:00"),
		entry(t, "3", "", "2023-07-07T00:00:00Z"),
		entry(t, "4", "ガンマ", "2024-12-31T00:00:00-08:00"),
	}
	idx := New("/blog", in, testutil.Logger())
	for _, e := range in {
		got, ok := idx.EntryForPath(idx.URL(e))
		if !ok || got != e {
			t.Errorf("round trip failed for %s (%s)", e.Eid, idx.URL(e))
		}
	}
}

func TestEntryForPath_CollisionLastWins(t *testing.T) {
	older := entry(t, "older-in-input", "dup", "2024-01-01T10:00:00Z")
	newer := entry(t, "newer-in-input", "dup", "2024-01-01T08:00:00Z")
	idx := New("/blog", []*models.Entry{older, newer}, testutil.Logger())

	got, ok := idx.EntryForPath("/blog/2024/01/01/dup")
	if !ok {
		t.Fatal("expected a hit")
	}
	// Sorted order is [older (10:00), newer (08:00)], so the 08:00 entry is
	// inserted last and wins.
	if got != newer {
		t.Errorf("got %s, want %s", got.Eid, newer.Eid)
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, both entries must stay listed", idx.Len())
	}
}

func TestEntryBySlug_NewestWins(t *testing.T) {
	old := entry(t, "old", "about", "2020-01-01T00:00:00Z")
	cur := entry(t, "cur", "about", "2024-01-01T00:00:00Z")
	idx := New("", []*models.Entry{old, cur}, testutil.Logger())

	got, ok := idx.EntryBySlug("about")
	if !ok || got != cur {
		t.Errorf("EntryBySlug = %v, %v", got, ok)
	}
	if _, ok := idx.EntryBySlug("missing"); ok {
		t.Error("expected miss")
	}
}

func TestEntriesByTag_Membership(t *testing.T) {
	in := []*models.Entry{
		entry(t, "1", "a", "2024-01-01T00:00:00Z", "go", "rust"),
		entry(t, "2", "b", "2023-01-01T00:00:00Z", "go"),
		entry(t, "3", "c", "2022-01-01T00:00:00Z", "emacs"),
		entry(t, "4", "d", "2021-01-01T00:00:00Z"),
	}
	idx := New("", in, testutil.Logger())

	for _, tc := range idx.Tags() {
		bucket, ok := idx.EntriesByTag(tc.Tag)
		if !ok || len(bucket) != tc.Count {
			t.Fatalf("tag %s: bucket %d, count %d", tc.Tag, len(bucket), tc.Count)
		}
		members := map[*models.Entry]bool{}
		for _, e := range bucket {
			members[e] = true
		}
		for _, e := range in {
			if e.HasTag(tc.Tag) != members[e] {
				t.Errorf("tag %s: membership of %s wrong", tc.Tag, e.Eid)
			}
		}
	}
}

func TestEntriesByTag_DuplicateTagOnEntry(t *testing.T) {
	e := entry(t, "1", "a", "2024-01-01T00:00:00Z", "go", "go")
	idx := New("", []*models.Entry{e}, testutil.Logger())
	bucket, _ := idx.EntriesByTag("go")
	if len(bucket) != 2 {
		t.Errorf("bucket len = %d, duplicates within an entry are not collapsed", len(bucket))
	}
}

func TestTags_Sorted(t *testing.T) {
	idx := New("", []*models.Entry{
		entry(t, "1", "a", "2024-01-01T00:00:00Z", "zig", "go"),
		entry(t, "2", "b", "2023-01-01T00:00:00Z", "go"),
	}, testutil.Logger())
	tags := idx.Tags()
	if len(tags) != 2 || tags[0] != (TagCount{"go", 2}) || tags[1] != (TagCount{"zig", 1}) {
		t.Errorf("tags = %+v", tags)
	}
}

func TestEntriesByYear_MatchesFilter(t *testing.T) {
	in := []*models.Entry{
		entry(t, "1", "a", "2024-05-01T00:00:00Z"),
		entry(t, "2", "b", "2022-01-01T00:00:00Z"),
		entry(t, "3", "c", "2024-01-01T05:00:00+09:00"), // 2023 in UTC, 2024 locally
		entry(t, "4", "d", "2023-12-31T23:00:00Z"),
		entry(t, "5", "e", "2024-09-01T00:00:00Z"),
	}
	idx := New("", in, testutil.Logger())
	all := idx.Entries()

	groups := idx.EntriesByYear()
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	for n, g := range groups {
		if n > 0 && groups[n-1].Year >= g.Year {
			t.Error("years not ascending")
		}
		var want []*models.Entry
		for _, e := range all {
			if e.Year() == g.Year {
				want = append(want, e)
			}
		}
		if eids(g.Entries) != eids(want) {
			t.Errorf("year %d = %s, want %s", g.Year, eids(g.Entries), eids(want))
		}
	}
}

func TestEntriesByYear_CachedPerInstance(t *testing.T) {
	pages := New("", []*models.Entry{entry(t, "p", "about", "2019-01-01T00:00:00Z")}, testutil.Logger())
	blog := New("/blog", []*models.Entry{entry(t, "b", "post", "2024-01-01T00:00:00Z")}, testutil.Logger())

	if y := pages.EntriesByYear(); len(y) != 1 || y[0].Year != 2019 {
		t.Fatalf("pages years = %+v", y)
	}
	y := blog.EntriesByYear()
	if len(y) != 1 || y[0].Year != 2024 || y[0].Entries[0].Eid != "b" {
		t.Errorf("blog years = %+v, must not reuse the pages grouping", y)
	}
}

func TestEntriesByYear_ResultIsCallerOwned(t *testing.T) {
	idx, _, _ := scenarioIndex(t)
	first := idx.EntriesByYear()
	first[0].Entries[0] = nil
	first[1].Year = 1999

	second := idx.EntriesByYear()
	if second[0].Entries[0] == nil || second[1].Year != 2024 {
		t.Error("mutating a returned grouping leaked into the cache")
	}
}

func TestEntries_ResultIsCallerOwned(t *testing.T) {
	idx, _, _ := scenarioIndex(t)
	all := idx.Entries()
	all[0], all[1] = all[1], all[0]
	if got := eids(idx.Entries()); got != "[a b]" {
		t.Errorf("Entries = %s after caller reordered its copy", got)
	}
	x, _ := idx.EntriesByTag("x")
	x[0] = nil
	x, _ = idx.EntriesByTag("x")
	if x[0] == nil {
		t.Error("tag bucket mutated through returned slice")
	}
}

func TestEmptyIndex(t *testing.T) {
	idx := New("/blog", nil, testutil.Logger())
	if idx.Len() != 0 || len(idx.Entries()) != 0 {
		t.Error("expected empty index")
	}
	if len(idx.EntriesByYear()) != 0 {
		t.Error("expected no years")
	}
	if len(idx.Tags()) != 0 {
		t.Error("expected no tags")
	}
}

func TestConcurrentReads(t *testing.T) {
	idx, _, _ := scenarioIndex(t)

	var wg sync.WaitGroup
	for n := 0; n < 16; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				if len(idx.EntriesByYear()) != 2 {
					t.Error("unexpected year count")
					return
				}
				idx.EntryForPath("/blog/2024/01/01/a")
				idx.EntriesByTag("x")
				idx.EntryBySlug("b")
				idx.Entries()
			}
		}()
	}
	wg.Wait()
}

func TestLoad_FromDisk(t *testing.T) {
	dir, _ := testutil.ContentDir(t)
	testutil.WriteFile(t, dir, "2024-01-01_a.json", testutil.EntryJSON(t, "a", "A", "2024-01-01T00:00:00Z", "x"))
	testutil.WriteFile(t, dir, "old/2023-06-01_b.json", testutil.EntryJSON(t, "b", "B", "2023-06-01T00:00:00Z", "x", "y"))

	idx, err := Load("/blog", dir, testutil.Logger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := eids(idx.Entries()); got != "[a b]" {
		t.Errorf("Entries = %s", got)
	}
	if e, ok := idx.EntryForPath("/blog/2024/01/01/a"); !ok || e.Title != "A" {
		t.Errorf("EntryForPath = %v, %v", e, ok)
	}
}

func TestLoad_ContentFaultFails(t *testing.T) {
	dir, _ := testutil.ContentDir(t)
	testutil.WriteFile(t, dir, "good.json", testutil.EntryJSON(t, "g", "G", "2024-01-01T00:00:00Z"))
	testutil.WriteFile(t, dir, "bad.json", `{"eid":"b","date":"2024-01-01T00:00:00Z","content":""}`)

	if _, err := Load("/blog", dir, testutil.Logger()); err == nil {
		t.Error("expected load to fail on a file without title")
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("/blog", t.TempDir()+"/missing", testutil.Logger()); err == nil {
		t.Error("expected error for missing data dir")
	}
}
