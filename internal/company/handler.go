package company

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/careerhub/web-app/internal/middleware"
	"github.com/careerhub/web-app/internal/notify"
	"github.com/careerhub/web-app/internal/server"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/feeds"
	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
)

const cacheKeyCompanyDirectory = "companyDirectory"

func CompaniesHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		location := strings.TrimSpace(mux.Vars(r)["location"])
		showPage := true
		pageID, err := strconv.Atoi(r.URL.Query().Get("p"))
		if err != nil || pageID < 1 {
			pageID = 1
			showPage = false
		}
		var companies []Company
		cached, ok := svr.CacheGet(cacheKeyCompanyDirectory)
		if !ok {
			companies, err = store.Companies()
			if err != nil {
				svr.Log(err, "unable to retrieve companies")
				svr.JSON(w, http.StatusInternalServerError, "Oops! An internal error has occurred")
				return
			}
			buf := &bytes.Buffer{}
			if err := gob.NewEncoder(buf).Encode(companies); err != nil {
				svr.Log(err, "unable to encode company directory")
			}
			if err := svr.CacheSet(cacheKeyCompanyDirectory, buf.Bytes()); err != nil {
				svr.Log(err, "unable to cache company directory")
			}
		} else {
			if err := gob.NewDecoder(bytes.NewReader(cached)).Decode(&companies); err != nil {
				svr.Log(err, "unable to decode cached company directory")
			}
		}
		if location != "" {
			filtered := make([]Company, 0, len(companies))
			for _, c := range companies {
				if strings.Contains(strings.ToLower(c.Location), strings.ToLower(location)) {
					filtered = append(filtered, c)
				}
			}
			companies = filtered
		}
		totalCompaniesCount := len(companies)
		perPage := svr.GetConfig().CompaniesPerPage
		companiesForPage := paginateCompanies(companies, pageID, perPage)
		pages := []int{}
		pageLinksPerPage := 8
		pageLinkShift := ((pageLinksPerPage / 2) + 1)
		firstPage := 1
		if pageID-pageLinkShift > 0 {
			firstPage = pageID - pageLinkShift
		}
		for i, j := firstPage, 1; i <= totalCompaniesCount/perPage+1 && j <= pageLinksPerPage; i, j = i+1, j+1 {
			pages = append(pages, i)
		}
		err = svr.Render(w, http.StatusOK, "companies.html", map[string]interface{}{
			"Companies":           companiesForPage,
			"TotalCompaniesCount": totalCompaniesCount,
			"CurrentPage":         pageID,
			"ShowPage":            showPage,
			"PageSize":            perPage,
			"PageIndexes":         pages,
			"LocationFilter":      strings.Title(location),
			"MonthAndYear":        time.Now().UTC().Format("January 2006"),
		})
		if err != nil {
			svr.Log(err, "unable to render companies page")
		}
	}
}

func paginateCompanies(companies []Company, pageID, perPage int) []Company {
	offset := pageID*perPage - perPage
	if offset >= len(companies) {
		return []Company{}
	}
	end := offset + perPage
	if end > len(companies) {
		end = len(companies)
	}
	return companies[offset:end]
}

func CompanyBySlugPageHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		company, err := store.CompanyBySlug(vars["slug"])
		if err != nil {
			svr.Log(err, "unable to retrieve company")
		}
		if company == nil {
			svr.JSON(w, http.StatusNotFound, fmt.Sprintf("Company %s not found", vars["slug"]))
			return
		}
		company.DescriptionHTML = string(svr.MarkdownToHTML(company.Description))
		pageID, err := strconv.Atoi(r.URL.Query().Get("p"))
		if err != nil || pageID < 1 {
			pageID = 1
		}
		reviews, err := store.ReviewsForCompany(company.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve company reviews")
		}
		totalReviewsCount := len(reviews)
		perPage := svr.GetConfig().ReviewsPerPage
		offset := pageID*perPage - perPage
		if offset >= len(reviews) {
			reviews = []Review{}
		} else if offset+perPage > len(reviews) {
			reviews = reviews[offset:]
		} else {
			reviews = reviews[offset : offset+perPage]
		}
		for i, rev := range reviews {
			reviews[i].CreatedAtHumanized = humanize.Time(rev.CreatedAt)
		}
		reviewStats, err := store.ReviewStats(company.ID)
		if err != nil {
			svr.Log(err, "unable to compute review stats")
		}
		if err := svr.Render(w, http.StatusOK, "company.html", map[string]interface{}{
			"Company":           company,
			"Reviews":           reviews,
			"ReviewStats":       reviewStats,
			"TotalReviewsCount": totalReviewsCount,
			"CurrentPage":       pageID,
			"PageSize":          perPage,
			"MonthAndYear":      time.Now().UTC().Format("January 2006"),
		}); err != nil {
			svr.Log(err, "unable to render company page")
		}
	}
}

type saveCompanyRq struct {
	CompanyName   string   `json:"companyName"`
	Email         string   `json:"email"`
	Industry      string   `json:"industry"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Website       string   `json:"website"`
	FoundedYear   string   `json:"foundedYear"`
	EmployeeCount string   `json:"employeeCount"`
	Logo          string   `json:"logo"`
	Benefits      []string `json:"benefits"`
	TechStack     []string `json:"techStack"`
}

// SaveCompanyProfileHandler upserts the profile of the signed-on
// company user. Input is sanitised here, not in the store.
func SaveCompanyProfileHandler(svr server.Server, store *Store, notifier *notify.Notifier) http.HandlerFunc {
	return middleware.CompanyAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := &saveCompanyRq{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if req.CompanyName == "" || req.Industry == "" || req.Location == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "companyName, industry and location are required"})
			return
		}
		policy := bluemonday.StrictPolicy()
		existing, err := store.CompanyByEmail(profile.Email)
		if err != nil {
			svr.Log(err, "unable to look up company by email")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		c := Company{
			CompanyName:   policy.Sanitize(req.CompanyName),
			Email:         profile.Email,
			Industry:      policy.Sanitize(req.Industry),
			Description:   req.Description,
			Location:      strings.Title(strings.ToLower(policy.Sanitize(req.Location))),
			Website:       policy.Sanitize(req.Website),
			FoundedYear:   policy.Sanitize(req.FoundedYear),
			EmployeeCount: policy.Sanitize(req.EmployeeCount),
			Logo:          req.Logo,
			Benefits:      req.Benefits,
			TechStack:     req.TechStack,
		}
		isNew := existing == nil
		if !isNew {
			// aggregate fields survive profile edits untouched
			c.ID = existing.ID
			c.Slug = existing.Slug
			c.CreatedAt = existing.CreatedAt
			c.AverageRating = existing.AverageRating
			c.TotalReviews = existing.TotalReviews
		}
		saved, err := store.SaveCompany(c)
		if err != nil {
			svr.Log(err, "unable to save company profile")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.CacheDelete(cacheKeyCompanyDirectory)
		if isNew {
			go notifier.CompanyRegistered(saved.CompanyName, fmt.Sprintf("%s%s/company/%s", svr.GetConfig().URLProtocol, svr.GetConfig().SiteHost, saved.Slug))
		}
		svr.JSON(w, http.StatusOK, saved)
	})
}

type submitReviewRq struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Rating          int      `json:"rating"`
	WorkEnvironment int      `json:"workEnvironment"`
	Compensation    int      `json:"compensation"`
	CareerGrowth    int      `json:"careerGrowth"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	Position        string   `json:"position"`
	WorkType        string   `json:"workType"`
	UserName        string   `json:"userName"`
}

// SubmitReviewHandler validates rating bounds and sanitises the text
// fields before handing the review to the store.
func SubmitReviewHandler(svr server.Server, store *Store, notifier *notify.Notifier) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		vars := mux.Vars(r)
		req := &submitReviewRq{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		for _, rating := range []int{req.Rating, req.WorkEnvironment, req.Compensation, req.CareerGrowth} {
			if rating < 1 || rating > 5 {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "ratings must be between 1 and 5"})
				return
			}
		}
		if req.Title == "" || req.Content == "" {
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "title and content are required"})
			return
		}
		switch req.WorkType {
		case "", WorkTypeFullTime, WorkTypePartTime, WorkTypeInternship, WorkTypeContract:
		default:
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "unknown work type"})
			return
		}
		policy := bluemonday.StrictPolicy()
		pros := make([]string, 0, len(req.Pros))
		for _, p := range req.Pros {
			pros = append(pros, policy.Sanitize(p))
		}
		cons := make([]string, 0, len(req.Cons))
		for _, c := range req.Cons {
			cons = append(cons, policy.Sanitize(c))
		}
		userName := policy.Sanitize(req.UserName)
		if userName == "" {
			userName = strings.Split(profile.Email, "@")[0]
		}
		review, err := store.SaveReview(Review{
			CompanyID:       vars["id"],
			UserID:          profile.UserID,
			UserName:        userName,
			Title:           policy.Sanitize(req.Title),
			Content:         policy.Sanitize(req.Content),
			Rating:          req.Rating,
			WorkEnvironment: req.WorkEnvironment,
			Compensation:    req.Compensation,
			CareerGrowth:    req.CareerGrowth,
			Pros:            pros,
			Cons:            cons,
			Position:        policy.Sanitize(req.Position),
			WorkType:        req.WorkType,
		})
		if err != nil {
			svr.Log(err, "unable to save review")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		if c, err := store.CompanyByID(review.CompanyID); err == nil && c != nil {
			go notifier.ReviewPosted(c.CompanyName, review.Rating, fmt.Sprintf("%s%s/company/%s", svr.GetConfig().URLProtocol, svr.GetConfig().SiteHost, c.Slug))
		}
		svr.JSON(w, http.StatusCreated, review)
	})
}

func CompanyReviewsHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		reviews, err := store.ReviewsForCompany(vars["id"])
		if err != nil {
			svr.Log(err, "unable to retrieve reviews")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, reviews)
	}
}

func ReviewStatsHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		reviewStats, err := store.ReviewStats(vars["id"])
		if err != nil {
			svr.Log(err, "unable to compute review stats")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, reviewStats)
	}
}

// ReviewsRSSHandler serves the most recent reviews of a company as an
// RSS feed.
func ReviewsRSSHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		company, err := store.CompanyBySlug(vars["slug"])
		if err != nil || company == nil {
			svr.JSON(w, http.StatusNotFound, nil)
			return
		}
		reviews, err := store.ReviewsForCompany(company.ID)
		if err != nil {
			svr.Log(err, "unable to retrieve reviews for feed")
		}
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		feed := &feeds.Feed{
			Title:       fmt.Sprintf("%s reviews on %s", company.CompanyName, svr.GetConfig().SiteName),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/company/%s", base, company.Slug)},
			Description: fmt.Sprintf("Latest employee reviews of %s", company.CompanyName),
			Author:      &feeds.Author{Name: svr.GetConfig().SiteName, Email: svr.GetConfig().SupportEmail},
			Created:     time.Now(),
		}
		for _, rev := range reviews {
			feed.Items = append(feed.Items, &feeds.Item{
				Title:       fmt.Sprintf("%s (%d/5)", rev.Title, rev.Rating),
				Link:        &feeds.Link{Href: fmt.Sprintf("%s/company/%s", base, company.Slug)},
				Description: rev.Content,
				Author:      &feeds.Author{Name: rev.UserName},
				Created:     rev.CreatedAt,
			})
		}
		rssFeed, err := feed.ToRss()
		if err != nil {
			svr.Log(err, "unable to convert review feed to rss")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.XML(w, http.StatusOK, []byte(rssFeed))
	}
}

func RatingBadgeHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		company, err := store.CompanyByID(vars["id"])
		if err != nil || company == nil {
			svr.JSON(w, http.StatusNotFound, nil)
			return
		}
		badge, err := GenerateRatingBadge(*company)
		if err != nil {
			svr.Log(err, "unable to generate rating badge")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		buf := &bytes.Buffer{}
		if _, err := buf.ReadFrom(badge); err != nil {
			svr.Log(err, "unable to read rating badge")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.MEDIA(w, http.StatusOK, buf.Bytes(), "image/png")
	}
}

// TriggerSeedSampleData populates the directory with example
// companies. Guarded by the machine token; no-op when companies exist.
func TriggerSeedSampleData(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.MachineAuthenticatedMiddleware(svr.GetConfig().MachineToken, func(w http.ResponseWriter, r *http.Request) {
		if err := store.SeedSampleData(); err != nil {
			svr.Log(err, "unable to seed sample companies")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.CacheDelete(cacheKeyCompanyDirectory)
		svr.JSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	})
}
