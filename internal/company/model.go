package company

import (
	"time"
)

const (
	WorkTypeFullTime   = "full-time"
	WorkTypePartTime   = "part-time"
	WorkTypeInternship = "internship"
	WorkTypeContract   = "contract"
)

// Company is a directory entry. AverageRating and TotalReviews are
// derived from the review table and recomputed on every review write;
// no other path is allowed to set them.
type Company struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"companyName"`
	Email         string    `json:"email"`
	Industry      string    `json:"industry"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Website       string    `json:"website,omitempty"`
	FoundedYear   string    `json:"foundedYear,omitempty"`
	EmployeeCount string    `json:"employeeCount,omitempty"`
	Logo          string    `json:"logo,omitempty"`
	Benefits      []string  `json:"benefits,omitempty"`
	TechStack     []string  `json:"techStack,omitempty"`
	AverageRating float64   `json:"averageRating"`
	TotalReviews  int       `json:"totalReviews"`
	CreatedAt     time.Time `json:"createdAt"`
	Slug          string    `json:"slug,omitempty"`

	DescriptionHTML string `json:"-"`
}

// Review is a single user-submitted rating of a company. Reviews are
// append-only; there is no update or delete.
type Review struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	UserID          string    `json:"userId"`
	UserName        string    `json:"userName"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	Rating          int       `json:"rating"`
	WorkEnvironment int       `json:"workEnvironment"`
	Compensation    int       `json:"compensation"`
	CareerGrowth    int       `json:"careerGrowth"`
	Pros            []string  `json:"pros"`
	Cons            []string  `json:"cons"`
	Position        string    `json:"position,omitempty"`
	WorkType        string    `json:"workType,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	Helpful         int       `json:"helpful"`

	CreatedAtHumanized string `json:"-"`
}

// ReviewStats is always computed fresh from the review table, never
// from the cached fields on Company.
type ReviewStats struct {
	AverageRating          float64     `json:"averageRating"`
	TotalReviews           int         `json:"totalReviews"`
	RatingDistribution     map[int]int `json:"ratingDistribution"`
	AverageWorkEnvironment float64     `json:"averageWorkEnvironment"`
	AverageCompensation    float64     `json:"averageCompensation"`
	AverageCareerGrowth    float64     `json:"averageCareerGrowth"`
}
