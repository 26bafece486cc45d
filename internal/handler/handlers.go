package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"
	"github.com/snabb/sitemap"

	"github.com/careerhub/web-app/internal/bookmark"
	"github.com/careerhub/web-app/internal/company"
	"github.com/careerhub/web-app/internal/email"
	"github.com/careerhub/web-app/internal/middleware"
	"github.com/careerhub/web-app/internal/seo"
	"github.com/careerhub/web-app/internal/server"
	"github.com/careerhub/web-app/internal/user"
)

func IndexPageHandler(svr server.Server, companyRepo *company.Store, bookmarkRepo *bookmark.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := companyRepo.Companies()
		if err != nil {
			svr.Log(err, "unable to retrieve companies for index page")
		}
		data := map[string]interface{}{
			"TotalCompaniesCount": len(companies),
			"IsSignedOn":          middleware.IsSignedOn(r, svr.SessionStore, svr.GetJWTSigningKey()),
			"MonthAndYear":        time.Now().UTC().Format("January 2006"),
		}
		if profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey()); err == nil {
			bookmarkStats, err := bookmarkRepo.Stats()
			if err != nil {
				svr.Log(err, "unable to compute bookmark stats for index page")
			}
			data["UserEmail"] = profile.Email
			data["BookmarkStats"] = bookmarkStats
		}
		if err := svr.Render(w, http.StatusOK, "index.html", data); err != nil {
			svr.Log(err, "unable to render index page")
		}
	}
}

func GetAuthPageHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := r.URL.Query().Get("next")
		if err := svr.Render(w, http.StatusOK, "auth.html", map[string]interface{}{"Next": next}); err != nil {
			svr.Log(err, "unable to render auth page")
		}
	}
}

func RequestTokenSignOn(svr server.Server, userRepo *user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svr.SeenSince(r, time.Minute) {
			svr.JSON(w, http.StatusTooManyRequests, nil)
			return
		}
		next := r.URL.Query().Get("next")
		req := &struct {
			Email string `json:"email"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if !svr.IsEmail(req.Email) {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		k, err := ksuid.NewRandom()
		if err != nil {
			svr.Log(err, "unable to generate token")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if err := userRepo.SaveTokenSignOn(req.Email, k.String()); err != nil {
			svr.Log(err, "unable to save sign on token")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		token := k.String()
		if next != "" {
			token += "?next=" + next
		}
		err = svr.GetEmail().SendHTMLEmail(
			email.Address{Name: svr.GetConfig().SiteName, Email: svr.GetEmail().NoReplySenderAddress()},
			email.Address{Email: req.Email},
			email.Address{Email: svr.GetEmail().SupportSenderAddress()},
			fmt.Sprintf("Sign On on %s", svr.GetConfig().SiteName),
			fmt.Sprintf("Sign On on %s %s%s/x/auth/%s", svr.GetConfig().SiteName, svr.GetConfig().URLProtocol, svr.GetConfig().SiteHost, token),
		)
		if err != nil {
			svr.Log(err, "unable to send sign on email")
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		svr.JSON(w, http.StatusOK, nil)
	}
}

func VerifyTokenSignOn(svr server.Server, userRepo *user.Repository, adminEmail string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		token := vars["token"]
		u, err := userRepo.GetOrCreateUserFromToken(token)
		if err != nil {
			svr.Log(err, fmt.Sprintf("unable to validate signon token %s", token))
			svr.TEXT(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
		if err != nil {
			svr.TEXT(w, http.StatusInternalServerError, "Invalid or expired token")
			return
		}
		stdClaims := &jwt.StandardClaims{
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).UTC().Unix(),
			IssuedAt:  time.Now().UTC().Unix(),
			Issuer:    svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost,
		}
		claims := middleware.UserJWT{
			UserID:         u.ID,
			Email:          u.Email,
			Role:           u.Role,
			IsAdmin:        u.Email == adminEmail,
			CreatedAt:      u.CreatedAt,
			StandardClaims: *stdClaims,
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, err := tkn.SignedString(svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		sess.Values["jwt"] = ss
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		if err := userRepo.DeleteExpiredUserSignOnTokens(); err != nil {
			svr.Log(err, "unable to delete expired sign on tokens")
		}
		if u.Role == "" {
			svr.Redirect(w, r, http.StatusMovedPermanently, "/auth/role")
			return
		}
		next := r.URL.Query().Get("next")
		if next == "" {
			next = "/"
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, next)
	}
}

func GetSelectRolePageHandler(svr server.Server) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		if err := svr.Render(w, http.StatusOK, "select-role.html", nil); err != nil {
			svr.Log(err, "unable to render role selection page")
		}
	})
}

// SelectRoleHandler stores the chosen role and re-issues the session
// JWT so the new role is visible on the next request.
func SelectRoleHandler(svr server.Server, userRepo *user.Repository, adminEmail string) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		profile, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.JSON(w, http.StatusForbidden, nil)
			return
		}
		req := &struct {
			Role string `json:"role"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if err := userRepo.SetUserRole(profile.Email, req.Role); err != nil {
			svr.Log(err, "unable to set user role")
			svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
			return
		}
		sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
		if err != nil {
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		stdClaims := &jwt.StandardClaims{
			ExpiresAt: time.Now().Add(30 * 24 * time.Hour).UTC().Unix(),
			IssuedAt:  time.Now().UTC().Unix(),
			Issuer:    svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost,
		}
		claims := middleware.UserJWT{
			UserID:         profile.UserID,
			Email:          profile.Email,
			Role:           req.Role,
			IsAdmin:        profile.Email == adminEmail,
			CreatedAt:      profile.CreatedAt,
			StandardClaims: *stdClaims,
		}
		tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		ss, err := tkn.SignedString(svr.GetJWTSigningKey())
		if err != nil {
			svr.Log(err, "unable to sign jwt")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		sess.Values["jwt"] = ss
		if err := sess.Save(r, w); err != nil {
			svr.Log(err, "unable to save jwt into session cookie")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"role": req.Role})
	})
}

func SignOutHandler(svr server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svr.SessionStore.Get(r, middleware.SessionCookieName)
		if err == nil {
			delete(sess.Values, "jwt")
			sess.Options.MaxAge = -1
			sess.Save(r, w)
		}
		svr.Redirect(w, r, http.StatusMovedPermanently, "/")
	}
}

func SitemapHandler(svr server.Server, companyRepo *company.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := svr.GetConfig().URLProtocol + svr.GetConfig().SiteHost
		now := time.Now().UTC()
		sitemapFile := sitemap.New()
		sitemapFile.Add(&sitemap.URL{
			Loc:        base + "/",
			LastMod:    &now,
			ChangeFreq: sitemap.Daily,
		})
		for _, page := range seo.StaticPages() {
			sitemapFile.Add(&sitemap.URL{
				Loc:        fmt.Sprintf("%s/%s", base, page),
				LastMod:    &now,
				ChangeFreq: sitemap.Weekly,
			})
		}
		companyPages, err := seo.CompanyPages(companyRepo)
		if err != nil {
			svr.Log(err, "unable to list company pages for sitemap")
		}
		for _, page := range companyPages {
			sitemapFile.Add(&sitemap.URL{
				Loc:        fmt.Sprintf("%s/%s", base, page),
				LastMod:    &now,
				ChangeFreq: sitemap.Weekly,
			})
		}
		buf := new(bytes.Buffer)
		if _, err := sitemapFile.WriteTo(buf); err != nil {
			svr.Log(err, "sitemapFile.WriteTo")
			svr.TEXT(w, http.StatusInternalServerError, "unable to save sitemap file")
			return
		}
		svr.XML(w, http.StatusOK, buf.Bytes())
	}
}

func RobotsTxtHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/robots.txt")
}

func AboutPageHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/views/about.html")
}

func PrivacyPolicyPageHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/views/privacy-policy.html")
}

func TermsOfServicePageHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "static/views/terms-of-service.html")
}
