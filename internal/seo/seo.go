package seo

import (
	"fmt"

	"github.com/careerhub/web-app/internal/company"
)

func StaticPages() []string {
	return []string{
		"auth",
		"companies",
		"privacy-policy",
		"terms-of-service",
		"about",
	}
}

// CompanyPages lists the public profile paths of every company in the
// directory.
func CompanyPages(companyRepo *company.Store) ([]string, error) {
	var pages []string
	slugs, err := companyRepo.CompanySlugs()
	if err != nil {
		return pages, err
	}
	for _, s := range slugs {
		pages = append(pages, fmt.Sprintf("company/%s", s))
	}

	return pages, nil
}
