package seo

import (
	"testing"

	"github.com/careerhub/web-app/internal/company"
	"github.com/careerhub/web-app/internal/storage"
)

// Every entry here must have a matching route registered in main,
// otherwise the sitemap advertises a 404.
func TestStaticPagesMatchServedRoutes(t *testing.T) {
	served := map[string]bool{
		"auth":             true,
		"companies":        true,
		"privacy-policy":   true,
		"terms-of-service": true,
		"about":            true,
	}
	for _, page := range StaticPages() {
		if !served[page] {
			t.Fatalf("static page %q has no registered route", page)
		}
	}
}

func TestCompanyPages(t *testing.T) {
	store := company.NewStore(storage.NewMemory())
	c, err := store.SaveCompany(company.Company{CompanyName: "Acme GmbH", Industry: "Software", Location: "Berlin"})
	if err != nil {
		t.Fatalf("unable to save company: %v", err)
	}
	pages, err := CompanyPages(store)
	if err != nil {
		t.Fatalf("unable to list company pages: %v", err)
	}
	if len(pages) != 1 || pages[0] != "company/"+c.Slug {
		t.Fatalf("unexpected company pages %v", pages)
	}
}
