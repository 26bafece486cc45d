package bookmark

import (
	"time"
)

type Type string

const (
	TypeJob         Type = "job"
	TypeInternship  Type = "internship"
	TypeScholarship Type = "scholarship"
	TypeCompany     Type = "company"
)

// Bookmark is a saved reference to an opportunity or company with a
// denormalized snapshot of its display fields taken at save time.
type Bookmark struct {
	ID            string    `json:"id"`
	OpportunityID int       `json:"opportunityId"`
	Type          Type      `json:"type"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	Description   string    `json:"description,omitempty"`
	Salary        string    `json:"salary,omitempty"`
	Deadline      string    `json:"deadline,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Tags          []string  `json:"tags"`
	SavedAt       time.Time `json:"savedAt"`
	CompanyID     string    `json:"companyId,omitempty"`

	SavedAtHumanized string `json:"-"`
}

// Collection is a user-named grouping of bookmark ids. Membership is
// referential only; ids are not validated to exist.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Bookmarks   []string  `json:"bookmarks"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Stats struct {
	TotalBookmarks    int `json:"totalBookmarks"`
	JobsCount         int `json:"jobsCount"`
	InternshipsCount  int `json:"internshipsCount"`
	ScholarshipsCount int `json:"scholarshipsCount"`
	CompaniesCount    int `json:"companiesCount"`
	CollectionsCount  int `json:"collectionsCount"`
}

// Export is the payload produced by ExportAll. On import each
// top-level key is optional; a missing key leaves the corresponding
// table untouched.
type Export struct {
	Bookmarks   []Bookmark   `json:"bookmarks"`
	Collections []Collection `json:"collections"`
}

const DefaultCollectionName = "My Saved Jobs"
