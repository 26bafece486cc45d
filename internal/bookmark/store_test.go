package bookmark

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/careerhub/web-app/internal/opportunity"
	"github.com/careerhub/web-app/internal/storage"
)

func testOpportunity() opportunity.Opportunity {
	return opportunity.Opportunity{
		ID:          42,
		Title:       "Backend Intern",
		Company:     "Acme",
		Location:    "Berlin",
		Description: "Work on the billing pipeline",
		Salary:      "€2,000/month",
		Tags:        []string{"go", "postgres"},
	}
}

func TestAddAndRemoveBookmark(t *testing.T) {
	store := NewStore(storage.NewMemory())
	if err := store.Add(testOpportunity(), TypeInternship, "looks promising"); err != nil {
		t.Fatalf("unable to add bookmark: %v", err)
	}
	bookmarked, err := store.IsBookmarked(42)
	if err != nil || !bookmarked {
		t.Fatalf("expected opportunity 42 to be bookmarked, got %v err=%v", bookmarked, err)
	}
	b, err := store.ByOpportunity(42)
	if err != nil {
		t.Fatalf("unable to fetch bookmark: %v", err)
	}
	if b == nil || b.Title != "Backend Intern" || b.Company != "Acme" || b.Notes != "looks promising" {
		t.Fatalf("unexpected bookmark %+v", b)
	}
	if b.ID == "" {
		t.Fatalf("expected generated bookmark id")
	}
	if err := store.Remove(42); err != nil {
		t.Fatalf("unable to remove bookmark: %v", err)
	}
	if bookmarked, _ := store.IsBookmarked(42); bookmarked {
		t.Fatalf("expected opportunity 42 to be removed")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	store := NewStore(storage.NewMemory())
	opp := testOpportunity()
	if err := store.Add(opp, TypeInternship, "first"); err != nil {
		t.Fatalf("unable to add bookmark: %v", err)
	}
	if err := store.Add(opp, TypeInternship, "second"); err != nil {
		t.Fatalf("second add should be a no-op, got %v", err)
	}
	all, err := store.All()
	if err != nil {
		t.Fatalf("unable to list bookmarks: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(all))
	}
	if all[0].Notes != "first" {
		t.Fatalf("duplicate add overwrote the original, notes=%q", all[0].Notes)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	store := NewStore(storage.NewMemory())
	if err := store.Remove(99); err != nil {
		t.Fatalf("removing an absent bookmark should not fail: %v", err)
	}
}

func TestToggleSymmetry(t *testing.T) {
	store := NewStore(storage.NewMemory())
	opp := testOpportunity()
	now, err := store.Toggle(opp, TypeJob, "")
	if err != nil || !now {
		t.Fatalf("first toggle should bookmark, got %v err=%v", now, err)
	}
	now, err = store.Toggle(opp, TypeJob, "")
	if err != nil || now {
		t.Fatalf("second toggle should remove, got %v err=%v", now, err)
	}
	all, _ := store.All()
	if len(all) != 0 {
		t.Fatalf("expected empty store after toggle pair, got %d", len(all))
	}
}

func TestFallbackFieldsFromCompanyProfile(t *testing.T) {
	store := NewStore(storage.NewMemory())
	opp := opportunity.Opportunity{
		ID:          7,
		CompanyName: "Globex",
		Location:    "Remote",
		TechStack:   []string{"kubernetes"},
	}
	if err := store.Add(opp, TypeCompany, ""); err != nil {
		t.Fatalf("unable to add bookmark: %v", err)
	}
	b, _ := store.ByOpportunity(7)
	if b.Title != "Globex" || b.Company != "Globex" {
		t.Fatalf("expected company name fallbacks, got %+v", b)
	}
	if len(b.Tags) != 1 || b.Tags[0] != "kubernetes" {
		t.Fatalf("expected tech stack fallback for tags, got %v", b.Tags)
	}
}

func TestSearch(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(testOpportunity(), TypeInternship, "")
	store.Add(opportunity.Opportunity{ID: 2, Title: "Data Analyst", Company: "Initech", Location: "NYC", Tags: []string{"sql"}}, TypeJob, "")

	cases := []struct {
		query string
		want  int
	}{
		{"backend", 1},
		{"ACME", 1},
		{"billing", 1},
		{"sql", 1},
		{"", 2},
		{"nothing-matches-this", 0},
	}
	for _, tc := range cases {
		res, err := store.Search(tc.query)
		if err != nil {
			t.Fatalf("search %q failed: %v", tc.query, err)
		}
		if len(res) != tc.want {
			t.Fatalf("search %q: expected %d results, got %d", tc.query, tc.want, len(res))
		}
	}
}

func TestByTypeAndStats(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(opportunity.Opportunity{ID: 1, Title: "A"}, TypeJob, "")
	store.Add(opportunity.Opportunity{ID: 2, Title: "B"}, TypeJob, "")
	store.Add(opportunity.Opportunity{ID: 3, Title: "C"}, TypeInternship, "")
	store.Add(opportunity.Opportunity{ID: 4, Title: "D"}, TypeScholarship, "")
	store.CreateCollection("Favourites", "")

	jobs, err := store.ByType(TypeJob)
	if err != nil || len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d err=%v", len(jobs), err)
	}
	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("unable to compute stats: %v", err)
	}
	if stats.TotalBookmarks != 4 || stats.JobsCount != 2 || stats.InternshipsCount != 1 ||
		stats.ScholarshipsCount != 1 || stats.CompaniesCount != 0 || stats.CollectionsCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRecentOrdering(t *testing.T) {
	backend := storage.NewMemory()
	store := NewStore(backend)
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	bookmarks := []Bookmark{
		{ID: "a", OpportunityID: 1, Title: "oldest", SavedAt: base},
		{ID: "b", OpportunityID: 2, Title: "newest", SavedAt: base.Add(2 * time.Hour)},
		{ID: "c", OpportunityID: 3, Title: "middle", SavedAt: base.Add(time.Hour)},
	}
	if err := storage.Store(backend, storage.KeyBookmarks, bookmarks); err != nil {
		t.Fatalf("unable to seed bookmarks: %v", err)
	}
	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("unable to list recent bookmarks: %v", err)
	}
	if len(recent) != 2 || recent[0].Title != "newest" || recent[1].Title != "middle" {
		t.Fatalf("unexpected recent ordering %+v", recent)
	}
	all, err := store.Recent(-1)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all bookmarks with negative limit, got %d err=%v", len(all), err)
	}
}

func TestUpdateNotes(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(testOpportunity(), TypeInternship, "old")
	if err := store.UpdateNotes(42, "new"); err != nil {
		t.Fatalf("unable to update notes: %v", err)
	}
	b, _ := store.ByOpportunity(42)
	if b.Notes != "new" {
		t.Fatalf("expected updated notes, got %q", b.Notes)
	}
	if err := store.UpdateNotes(99, "whatever"); err != nil {
		t.Fatalf("updating notes of absent bookmark should not fail: %v", err)
	}
}

func TestCollections(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c, err := store.CreateCollection("Dream Jobs", "top picks")
	if err != nil {
		t.Fatalf("unable to create collection: %v", err)
	}
	if c.ID == "" || c.Name != "Dream Jobs" {
		t.Fatalf("unexpected collection %+v", c)
	}
	if err := store.AddToCollection(c.ID, "bm-1"); err != nil {
		t.Fatalf("unable to add to collection: %v", err)
	}
	if err := store.AddToCollection(c.ID, "bm-1"); err != nil {
		t.Fatalf("duplicate membership add should be a no-op: %v", err)
	}
	if err := store.AddToCollection("unknown", "bm-1"); err != nil {
		t.Fatalf("unknown collection should be a no-op: %v", err)
	}
	collections, _ := store.Collections()
	if len(collections) != 1 || len(collections[0].Bookmarks) != 1 {
		t.Fatalf("unexpected collections %+v", collections)
	}
	if err := store.RemoveFromCollection(c.ID, "bm-1"); err != nil {
		t.Fatalf("unable to remove from collection: %v", err)
	}
	collections, _ = store.Collections()
	if len(collections[0].Bookmarks) != 0 {
		t.Fatalf("expected empty membership, got %v", collections[0].Bookmarks)
	}
	if err := store.DeleteCollection(c.ID); err != nil {
		t.Fatalf("unable to delete collection: %v", err)
	}
	collections, _ = store.Collections()
	if len(collections) != 0 {
		t.Fatalf("expected no collections, got %d", len(collections))
	}
}

func TestEnsureDefaultCollection(t *testing.T) {
	store := NewStore(storage.NewMemory())
	if err := store.EnsureDefaultCollection(); err != nil {
		t.Fatalf("unable to ensure default collection: %v", err)
	}
	if err := store.EnsureDefaultCollection(); err != nil {
		t.Fatalf("second ensure should be a no-op: %v", err)
	}
	collections, _ := store.Collections()
	if len(collections) != 1 || collections[0].Name != DefaultCollectionName {
		t.Fatalf("unexpected collections %+v", collections)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := NewStore(storage.NewMemory())
	src.Add(testOpportunity(), TypeInternship, "note")
	src.CreateCollection("Favourites", "")
	blob, err := src.ExportAll()
	if err != nil {
		t.Fatalf("unable to export: %v", err)
	}

	dst := NewStore(storage.NewMemory())
	dst.Add(opportunity.Opportunity{ID: 100, Title: "to be replaced"}, TypeJob, "")
	if err := dst.ImportAll(blob); err != nil {
		t.Fatalf("unable to import: %v", err)
	}
	all, _ := dst.All()
	if len(all) != 1 || all[0].OpportunityID != 42 {
		t.Fatalf("import should replace the table, got %+v", all)
	}
	collections, _ := dst.Collections()
	if len(collections) != 1 || collections[0].Name != "Favourites" {
		t.Fatalf("unexpected collections after import %+v", collections)
	}
}

func TestImportPartialPayloadLeavesOtherTable(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.CreateCollection("Keep Me", "")
	payload, _ := json.Marshal(map[string]interface{}{
		"bookmarks": []Bookmark{{ID: "x", OpportunityID: 5, Title: "Imported"}},
	})
	if err := store.ImportAll(payload); err != nil {
		t.Fatalf("unable to import partial payload: %v", err)
	}
	all, _ := store.All()
	if len(all) != 1 || all[0].Title != "Imported" {
		t.Fatalf("unexpected bookmarks %+v", all)
	}
	collections, _ := store.Collections()
	if len(collections) != 1 || collections[0].Name != "Keep Me" {
		t.Fatalf("missing key should leave collections untouched, got %+v", collections)
	}
}

func TestImportBadPayload(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(testOpportunity(), TypeInternship, "")
	cases := [][]byte{
		[]byte("not json at all"),
		[]byte(`{"bookmarks": "not an array"}`),
		[]byte(`{"collections": 42}`),
	}
	for _, payload := range cases {
		if err := store.ImportAll(payload); err != ErrBadFormat {
			t.Fatalf("payload %q: expected ErrBadFormat, got %v", payload, err)
		}
	}
	all, _ := store.All()
	if len(all) != 1 {
		t.Fatalf("failed import should not lose existing bookmarks, got %d", len(all))
	}
}

func TestImportBadCollectionsLeavesBookmarksUntouched(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(testOpportunity(), TypeInternship, "")
	payload := []byte(`{"bookmarks":[{"opportunityId":9,"title":"Injected"}],"collections":42}`)
	if err := store.ImportAll(payload); err != ErrBadFormat {
		t.Fatalf("expected ErrBadFormat, got %v", err)
	}
	all, _ := store.All()
	if len(all) != 1 || all[0].OpportunityID != 42 {
		t.Fatalf("failed import should not replace the bookmarks table, got %+v", all)
	}
}

func TestClearAll(t *testing.T) {
	store := NewStore(storage.NewMemory())
	store.Add(testOpportunity(), TypeInternship, "")
	store.CreateCollection("Favourites", "")
	if err := store.ClearAll(); err != nil {
		t.Fatalf("unable to clear: %v", err)
	}
	all, _ := store.All()
	collections, _ := store.Collections()
	if len(all) != 0 || len(collections) != 0 {
		t.Fatalf("expected both tables cleared, got %d bookmarks %d collections", len(all), len(collections))
	}
}

func TestDisabledBackendReadsEmptyWritesDropped(t *testing.T) {
	store := NewStore(storage.NewDisabled())
	if err := store.Add(testOpportunity(), TypeJob, ""); err != nil {
		t.Fatalf("add on disabled backend should not fail: %v", err)
	}
	all, err := store.All()
	if err != nil || len(all) != 0 {
		t.Fatalf("disabled backend should read empty, got %d err=%v", len(all), err)
	}
	stats, err := store.Stats()
	if err != nil || stats.TotalBookmarks != 0 {
		t.Fatalf("disabled backend stats should be zero, got %+v err=%v", stats, err)
	}
}
