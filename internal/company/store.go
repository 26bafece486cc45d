package company

import (
	"math"
	"strings"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/careerhub/web-app/internal/storage"
	"github.com/gosimple/slug"
	"github.com/segmentio/ksuid"
)

// Store persists company profiles and their reviews as two
// whole-table values in the injected backend. The store performs no
// field validation; required fields and rating bounds are the form
// layer's responsibility.
type Store struct {
	backend storage.Backend
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend}
}

func (s *Store) Companies() ([]Company, error) {
	companies := []Company{}
	if err := storage.Load(s.backend, storage.KeyCompanies, &companies); err != nil {
		return []Company{}, err
	}
	return companies, nil
}

func (s *Store) CompanyByID(id string) (*Company, error) {
	companies, err := s.Companies()
	if err != nil {
		return nil, err
	}
	for i, c := range companies {
		if c.ID == id {
			return &companies[i], nil
		}
	}
	return nil, nil
}

func (s *Store) CompanyBySlug(companySlug string) (*Company, error) {
	companies, err := s.Companies()
	if err != nil {
		return nil, err
	}
	for i, c := range companies {
		if c.Slug == companySlug {
			return &companies[i], nil
		}
	}
	return nil, nil
}

// CompanyByEmail matches case-insensitively on the account email the
// profile was registered with.
func (s *Store) CompanyByEmail(email string) (*Company, error) {
	companies, err := s.Companies()
	if err != nil {
		return nil, err
	}
	for i, c := range companies {
		if strings.EqualFold(c.Email, email) {
			return &companies[i], nil
		}
	}
	return nil, nil
}

func (s *Store) CompanySlugs() ([]string, error) {
	companies, err := s.Companies()
	if err != nil {
		return []string{}, err
	}
	slugs := make([]string, 0, len(companies))
	for _, c := range companies {
		if c.Slug != "" {
			slugs = append(slugs, c.Slug)
		}
	}
	return slugs, nil
}

// SaveCompany upserts by id: an existing record is replaced in place,
// otherwise the profile is appended. A missing id or slug is filled
// in.
func (s *Store) SaveCompany(c Company) (Company, error) {
	companies, err := s.Companies()
	if err != nil {
		return c, err
	}
	if c.ID == "" {
		id, err := ksuid.NewRandom()
		if err != nil {
			return c, err
		}
		c.ID = id.String()
	}
	if c.Slug == "" {
		c.Slug = slug.Make(c.CompanyName)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	replaced := false
	for i, existing := range companies {
		if existing.ID == c.ID {
			companies[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		companies = append(companies, c)
	}
	if err := storage.Store(s.backend, storage.KeyCompanies, companies); err != nil {
		return c, err
	}
	return c, nil
}

func (s *Store) Reviews() ([]Review, error) {
	reviews := []Review{}
	if err := storage.Load(s.backend, storage.KeyReviews, &reviews); err != nil {
		return []Review{}, err
	}
	return reviews, nil
}

func (s *Store) ReviewsForCompany(companyID string) ([]Review, error) {
	reviews, err := s.Reviews()
	if err != nil {
		return []Review{}, err
	}
	res := []Review{}
	for _, r := range reviews {
		if r.CompanyID == companyID {
			res = append(res, r)
		}
	}
	return res, nil
}

// SaveReview appends the review and synchronously recomputes the
// parent company's rating aggregate. When the company id is unknown
// the recompute step is skipped but the review is still saved.
func (s *Store) SaveReview(review Review) (Review, error) {
	reviews, err := s.Reviews()
	if err != nil {
		return review, err
	}
	if review.ID == "" {
		id, err := ksuid.NewRandom()
		if err != nil {
			return review, err
		}
		review.ID = id.String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	reviews = append(reviews, review)
	if err := storage.Store(s.backend, storage.KeyReviews, reviews); err != nil {
		return review, err
	}
	if err := s.recomputeAggregate(review.CompanyID, reviews); err != nil {
		return review, err
	}
	return review, nil
}

// recomputeAggregate refreshes the stored averageRating/totalReviews
// of the company from the full review set it was just given.
func (s *Store) recomputeAggregate(companyID string, reviews []Review) error {
	companies, err := s.Companies()
	if err != nil {
		return err
	}
	for i, c := range companies {
		if c.ID != companyID {
			continue
		}
		var sample stats.Sample
		count := 0
		for _, r := range reviews {
			if r.CompanyID == companyID {
				sample.Xs = append(sample.Xs, float64(r.Rating))
				count++
			}
		}
		companies[i].TotalReviews = count
		if count == 0 {
			companies[i].AverageRating = 0
		} else {
			companies[i].AverageRating = round1(sample.Mean())
		}
		return storage.Store(s.backend, storage.KeyCompanies, companies)
	}
	// unknown company, review kept but no aggregate to refresh
	return nil
}

// ReviewStats computes the rating aggregate fresh from the review
// table. A company with no reviews gets an all-zero result, never an
// error.
func (s *Store) ReviewStats(companyID string) (ReviewStats, error) {
	res := ReviewStats{
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	reviews, err := s.ReviewsForCompany(companyID)
	if err != nil {
		return res, err
	}
	if len(reviews) == 0 {
		return res, nil
	}
	var rating, workEnv, compensation, careerGrowth stats.Sample
	for _, r := range reviews {
		rating.Xs = append(rating.Xs, float64(r.Rating))
		workEnv.Xs = append(workEnv.Xs, float64(r.WorkEnvironment))
		compensation.Xs = append(compensation.Xs, float64(r.Compensation))
		careerGrowth.Xs = append(careerGrowth.Xs, float64(r.CareerGrowth))
		if r.Rating >= 1 && r.Rating <= 5 {
			res.RatingDistribution[r.Rating]++
		}
	}
	res.TotalReviews = len(reviews)
	res.AverageRating = round1(rating.Mean())
	res.AverageWorkEnvironment = round1(workEnv.Mean())
	res.AverageCompensation = round1(compensation.Mean())
	res.AverageCareerGrowth = round1(careerGrowth.Mean())
	return res, nil
}

// round1 rounds half-up to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
