package company

import (
	"time"

	"github.com/careerhub/web-app/internal/storage"
	"github.com/gosimple/slug"
)

// SeedSampleData populates the company table with a fixed set of
// example companies when it is empty. The guard is table-non-empty:
// once any company exists, seeding is suppressed for good.
func (s *Store) SeedSampleData() error {
	companies, err := s.Companies()
	if err != nil {
		return err
	}
	if len(companies) > 0 {
		return nil
	}
	now := time.Now().UTC()
	samples := []Company{
		{
			ID:            "sample-techcorp",
			CompanyName:   "TechCorp Solutions",
			Email:         "careers@techcorp.example",
			Industry:      "Software",
			Description:   "Enterprise software consultancy building cloud platforms for the finance sector.",
			Location:      "Addis Ababa, Ethiopia",
			Website:       "https://techcorp.example",
			FoundedYear:   "2012",
			EmployeeCount: "200-500",
			Benefits:      []string{"Health insurance", "Remote fridays", "Training budget"},
			TechStack:     []string{"Go", "PostgreSQL", "Kubernetes"},
			CreatedAt:     now,
		},
		{
			ID:            "sample-greenfield",
			CompanyName:   "Greenfield Analytics",
			Email:         "jobs@greenfield.example",
			Industry:      "Data & Analytics",
			Description:   "Analytics startup helping agricultural exporters forecast yields and prices.",
			Location:      "Nairobi, Kenya",
			Website:       "https://greenfield.example",
			FoundedYear:   "2018",
			EmployeeCount: "10-50",
			Benefits:      []string{"Equity", "Flexible hours"},
			TechStack:     []string{"Python", "Spark", "AWS"},
			CreatedAt:     now,
		},
		{
			ID:            "sample-bluebridge",
			CompanyName:   "BlueBridge Bank",
			Email:         "talent@bluebridge.example",
			Industry:      "Banking",
			Description:   "Retail bank with a growing digital channels team and a yearly graduate programme.",
			Location:      "Kampala, Uganda",
			FoundedYear:   "1998",
			EmployeeCount: "1000+",
			Benefits:      []string{"Pension", "Medical cover", "Staff loans"},
			CreatedAt:     now,
		},
	}
	for i := range samples {
		samples[i].Slug = slug.Make(samples[i].CompanyName)
	}
	return storage.Store(s.backend, storage.KeyCompanies, samples)
}
