package company

import (
	"fmt"
	"testing"

	"github.com/careerhub/web-app/internal/storage"
)

func seedCompany(t *testing.T, store *Store, name string) Company {
	t.Helper()
	c, err := store.SaveCompany(Company{CompanyName: name, Industry: "Software", Location: "Berlin"})
	if err != nil {
		t.Fatalf("unable to save company %s: %v", name, err)
	}
	return c
}

func TestSaveCompanyFillsIDAndSlug(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c := seedCompany(t, store, "Acme GmbH")
	if c.ID == "" {
		t.Fatalf("expected generated company id")
	}
	if c.Slug != "acme-gmbh" {
		t.Fatalf("unexpected slug %q", c.Slug)
	}
	if c.CreatedAt.IsZero() {
		t.Fatalf("expected created at to be filled")
	}
	got, err := store.CompanyBySlug("acme-gmbh")
	if err != nil || got == nil || got.ID != c.ID {
		t.Fatalf("unable to look up company by slug: %+v err=%v", got, err)
	}
}

func TestSaveCompanyUpsertsByID(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c := seedCompany(t, store, "Acme GmbH")
	c.Location = "Munich"
	if _, err := store.SaveCompany(c); err != nil {
		t.Fatalf("unable to update company: %v", err)
	}
	companies, err := store.Companies()
	if err != nil {
		t.Fatalf("unable to list companies: %v", err)
	}
	if len(companies) != 1 {
		t.Fatalf("upsert created a duplicate, got %d companies", len(companies))
	}
	if companies[0].Location != "Munich" {
		t.Fatalf("update not persisted, location=%q", companies[0].Location)
	}
}

func TestSaveReviewRecomputesAggregate(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c := seedCompany(t, store, "Acme GmbH")
	for _, rating := range []int{5, 3, 4} {
		if _, err := store.SaveReview(Review{
			CompanyID:       c.ID,
			UserID:          "u1",
			UserName:        "sam",
			Title:           "review",
			Content:         "content",
			Rating:          rating,
			WorkEnvironment: 4,
			Compensation:    3,
			CareerGrowth:    5,
		}); err != nil {
			t.Fatalf("unable to save review: %v", err)
		}
	}
	got, err := store.CompanyByID(c.ID)
	if err != nil || got == nil {
		t.Fatalf("unable to fetch company: %v", err)
	}
	if got.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews, got %d", got.TotalReviews)
	}
	if got.AverageRating != 4.0 {
		t.Fatalf("expected average 4.0, got %v", got.AverageRating)
	}
}

func TestSaveReviewUnknownCompanyKeepsReview(t *testing.T) {
	store := NewStore(storage.NewMemory())
	rev, err := store.SaveReview(Review{CompanyID: "does-not-exist", Rating: 5, Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("review for unknown company should still save: %v", err)
	}
	if rev.ID == "" || rev.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled, got %+v", rev)
	}
	reviews, err := store.ReviewsForCompany("does-not-exist")
	if err != nil || len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d err=%v", len(reviews), err)
	}
}

func TestReviewStats(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c := seedCompany(t, store, "Acme GmbH")
	ratings := []struct {
		rating, workEnv, comp, growth int
	}{
		{5, 5, 4, 3},
		{4, 3, 4, 3},
		{5, 4, 2, 4},
	}
	for _, r := range ratings {
		if _, err := store.SaveReview(Review{
			CompanyID:       c.ID,
			Title:           "t",
			Content:         "c",
			Rating:          r.rating,
			WorkEnvironment: r.workEnv,
			Compensation:    r.comp,
			CareerGrowth:    r.growth,
		}); err != nil {
			t.Fatalf("unable to save review: %v", err)
		}
	}
	stats, err := store.ReviewStats(c.ID)
	if err != nil {
		t.Fatalf("unable to compute review stats: %v", err)
	}
	if stats.TotalReviews != 3 {
		t.Fatalf("expected 3 reviews, got %d", stats.TotalReviews)
	}
	// (5+4+5)/3 = 4.666... rounds to 4.7
	if stats.AverageRating != 4.7 {
		t.Fatalf("expected average rating 4.7, got %v", stats.AverageRating)
	}
	if stats.AverageWorkEnvironment != 4.0 {
		t.Fatalf("expected work environment 4.0, got %v", stats.AverageWorkEnvironment)
	}
	// (4+4+2)/3 = 3.333... rounds to 3.3
	if stats.AverageCompensation != 3.3 {
		t.Fatalf("expected compensation 3.3, got %v", stats.AverageCompensation)
	}
	if stats.RatingDistribution[5] != 2 || stats.RatingDistribution[4] != 1 || stats.RatingDistribution[3] != 0 {
		t.Fatalf("unexpected distribution %v", stats.RatingDistribution)
	}
}

func TestReviewStatsNoReviews(t *testing.T) {
	store := NewStore(storage.NewMemory())
	c := seedCompany(t, store, "Acme GmbH")
	stats, err := store.ReviewStats(c.ID)
	if err != nil {
		t.Fatalf("stats for unreviewed company should not fail: %v", err)
	}
	if stats.TotalReviews != 0 || stats.AverageRating != 0 {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}
	for rating := 1; rating <= 5; rating++ {
		if stats.RatingDistribution[rating] != 0 {
			t.Fatalf("expected zeroed distribution, got %v", stats.RatingDistribution)
		}
	}
}

func TestRound1(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{4.6666666, 4.7},
		{3.3333333, 3.3},
		{2.25, 2.3},
		{2.24, 2.2},
		{5, 5},
	}
	for _, tc := range cases {
		if got := round1(tc.in); got != tc.want {
			t.Fatalf("round1(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSeedSampleData(t *testing.T) {
	store := NewStore(storage.NewMemory())
	if err := store.SeedSampleData(); err != nil {
		t.Fatalf("unable to seed sample data: %v", err)
	}
	companies, err := store.Companies()
	if err != nil || len(companies) != 3 {
		t.Fatalf("expected 3 seeded companies, got %d err=%v", len(companies), err)
	}
	for _, c := range companies {
		if c.Slug == "" {
			t.Fatalf("seeded company %s has no slug", c.CompanyName)
		}
		if c.TotalReviews != 0 || c.AverageRating != 0 {
			t.Fatalf("seeded company %s should start unreviewed, got %+v", c.CompanyName, c)
		}
	}
	if err := store.SeedSampleData(); err != nil {
		t.Fatalf("second seed should be a no-op: %v", err)
	}
	companies, _ = store.Companies()
	if len(companies) != 3 {
		t.Fatalf("second seed duplicated companies, got %d", len(companies))
	}
}

func TestSeedSuppressedWhenCompaniesExist(t *testing.T) {
	store := NewStore(storage.NewMemory())
	seedCompany(t, store, "Existing Co")
	if err := store.SeedSampleData(); err != nil {
		t.Fatalf("seed with existing companies should be a no-op: %v", err)
	}
	companies, _ := store.Companies()
	if len(companies) != 1 {
		t.Fatalf("seed should not run on a non-empty table, got %d companies", len(companies))
	}
}

func TestPaginateCompanies(t *testing.T) {
	companies := make([]Company, 25)
	for i := range companies {
		companies[i] = Company{CompanyName: fmt.Sprintf("Company %d", i)}
	}
	page1 := paginateCompanies(companies, 1, 10)
	if len(page1) != 10 || page1[0].CompanyName != "Company 0" {
		t.Fatalf("unexpected first page %+v", page1)
	}
	page3 := paginateCompanies(companies, 3, 10)
	if len(page3) != 5 || page3[0].CompanyName != "Company 20" {
		t.Fatalf("unexpected last page %+v", page3)
	}
	if out := paginateCompanies(companies, 4, 10); len(out) != 0 {
		t.Fatalf("page past the end should be empty, got %+v", out)
	}
}
