package main

import (
	"embed"
	"log"

	"github.com/careerhub/web-app/internal/bookmark"
	"github.com/careerhub/web-app/internal/company"
	"github.com/careerhub/web-app/internal/config"
	"github.com/careerhub/web-app/internal/database"
	"github.com/careerhub/web-app/internal/email"
	"github.com/careerhub/web-app/internal/handler"
	"github.com/careerhub/web-app/internal/notify"
	"github.com/careerhub/web-app/internal/server"
	"github.com/careerhub/web-app/internal/storage"
	"github.com/careerhub/web-app/internal/template"
	"github.com/careerhub/web-app/internal/user"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

//go:embed static/views/*.html
var views embed.FS

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)
	if err := database.SetupSchema(conn); err != nil {
		log.Fatalf("unable to set up database schema: %v", err)
	}
	emailClient, err := email.NewClient(cfg.EmailAPIKey, cfg.SupportEmail, cfg.NoReplyEmail, cfg.SiteName)
	if err != nil {
		log.Fatalf("unable to initialise email client: %v", err)
	}
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)

	backend := storage.NewPostgres(conn)
	bookmarkRepo := bookmark.NewStore(backend)
	companyRepo := company.NewStore(backend)
	userRepo := user.NewRepository(backend)
	notifier := notify.NewNotifier(cfg.TelegramAPIToken, cfg.TelegramChannelID)

	svr := server.NewServer(
		cfg,
		conn,
		mux.NewRouter(),
		template.NewTemplate(views),
		emailClient,
		sessionStore,
	)

	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/robots.txt", handler.RobotsTxtHandler, []string{"GET"})

	svr.RegisterRoute("/about", handler.AboutPageHandler, []string{"GET"})
	svr.RegisterRoute("/privacy-policy", handler.PrivacyPolicyPageHandler, []string{"GET"})
	svr.RegisterRoute("/terms-of-service", handler.TermsOfServicePageHandler, []string{"GET"})

	svr.RegisterRoute("/", handler.IndexPageHandler(svr, companyRepo, bookmarkRepo), []string{"GET"})

	//
	// auth routes
	//

	svr.RegisterRoute("/auth", handler.GetAuthPageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/x/auth", handler.RequestTokenSignOn(svr, userRepo), []string{"POST"})
	svr.RegisterRoute("/x/auth/role", handler.SelectRoleHandler(svr, userRepo, cfg.AdminEmail), []string{"POST"})
	svr.RegisterRoute("/x/auth/{token}", handler.VerifyTokenSignOn(svr, userRepo, cfg.AdminEmail), []string{"GET"})
	svr.RegisterRoute("/auth/role", handler.GetSelectRolePageHandler(svr), []string{"GET"})
	svr.RegisterRoute("/logout", handler.SignOutHandler(svr), []string{"GET"})

	//
	// bookmark routes
	//

	svr.RegisterRoute("/profile/bookmarks", bookmark.BookmarksPageHandler(svr, bookmarkRepo), []string{"GET"})
	svr.RegisterRoute("/x/bookmarks", bookmark.ListBookmarksHandler(svr, bookmarkRepo), []string{"GET"})
	svr.RegisterRoute("/x/bookmarks", bookmark.ToggleBookmarkHandler(svr, bookmarkRepo), []string{"POST"})
	svr.RegisterRoute("/x/bookmarks/search", bookmark.SearchBookmarksHandler(svr, bookmarkRepo), []string{"GET"})
	svr.RegisterRoute("/x/bookmarks/stats", bookmark.BookmarkStatsHandler(svr, bookmarkRepo), []string{"GET"})
	svr.RegisterRoute("/x/bookmarks/export", bookmark.ExportBookmarksHandler(svr, bookmarkRepo), []string{"GET"})
	svr.RegisterRoute("/x/bookmarks/import", bookmark.ImportBookmarksHandler(svr, bookmarkRepo), []string{"POST"})
	svr.RegisterRoute("/x/bookmarks/clear", bookmark.ClearBookmarksHandler(svr, bookmarkRepo), []string{"POST"})
	svr.RegisterRoute("/x/bookmarks/{opportunityID}", bookmark.RemoveBookmarkHandler(svr, bookmarkRepo), []string{"DELETE"})
	svr.RegisterRoute("/x/bookmarks/{opportunityID}/notes", bookmark.UpdateBookmarkNotesHandler(svr, bookmarkRepo), []string{"PUT"})
	svr.RegisterRoute("/x/collections", bookmark.CreateCollectionHandler(svr, bookmarkRepo), []string{"POST"})
	svr.RegisterRoute("/x/collections/{collectionID}", bookmark.DeleteCollectionHandler(svr, bookmarkRepo), []string{"DELETE"})
	svr.RegisterRoute("/x/collections/{collectionID}/bookmarks", bookmark.CollectionMembershipHandler(svr, bookmarkRepo), []string{"POST", "DELETE"})

	//
	// company and review routes
	//

	svr.RegisterRoute("/companies", company.CompaniesHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/companies/{location}", company.CompaniesHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/company/{slug}", company.CompanyBySlugPageHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/company/{slug}/reviews.rss", company.ReviewsRSSHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/x/company", company.SaveCompanyProfileHandler(svr, companyRepo, notifier), []string{"POST"})
	svr.RegisterRoute("/x/company/{id}/reviews", company.CompanyReviewsHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/x/company/{id}/reviews", company.SubmitReviewHandler(svr, companyRepo, notifier), []string{"POST"})
	svr.RegisterRoute("/x/company/{id}/reviews/stats", company.ReviewStatsHandler(svr, companyRepo), []string{"GET"})
	svr.RegisterRoute("/x/company/{id}/badge.png", company.RatingBadgeHandler(svr, companyRepo), []string{"GET"})

	//
	// private routes, only protected by static token
	//

	svr.RegisterRoute("/x/task/seed-companies", company.TriggerSeedSampleData(svr, companyRepo), []string{"POST"})

	log.Fatal(svr.Run())
}
