package bookmark

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/careerhub/web-app/internal/middleware"
	"github.com/careerhub/web-app/internal/opportunity"
	"github.com/careerhub/web-app/internal/server"
	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

func BookmarksPageHandler(svr server.Server, store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
		if err != nil {
			svr.Redirect(w, r, http.StatusTemporaryRedirect, "/auth")
			return
		}
		if err := store.EnsureDefaultCollection(); err != nil {
			svr.Log(err, "unable to ensure default collection")
		}
		bookmarks, err := store.Recent(-1)
		if err != nil {
			svr.Log(err, "unable to retrieve bookmarks")
		}
		for i, b := range bookmarks {
			bookmarks[i].SavedAtHumanized = humanize.Time(b.SavedAt)
		}
		collections, err := store.Collections()
		if err != nil {
			svr.Log(err, "unable to retrieve collections")
		}
		stats, err := store.Stats()
		if err != nil {
			svr.Log(err, "unable to retrieve bookmark stats")
		}
		err = svr.Render(w, http.StatusOK, "bookmarks.html", map[string]interface{}{
			"Bookmarks":   bookmarks,
			"Collections": collections,
			"Stats":       stats,
		})
		if err != nil {
			svr.Log(err, "unable to render bookmarks page")
		}
	}
}

func ListBookmarksHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		typ := r.URL.Query().Get("type")
		var bookmarks []Bookmark
		var err error
		if typ != "" {
			bookmarks, err = store.ByType(Type(typ))
		} else {
			bookmarks, err = store.All()
		}
		if err != nil {
			svr.Log(err, "unable to retrieve bookmarks")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, bookmarks)
	})
}

type toggleBookmarkRq struct {
	Opportunity opportunity.Opportunity `json:"opportunity"`
	Type        Type                    `json:"type"`
	Notes       string                  `json:"notes"`
}

func ToggleBookmarkHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		req := &toggleBookmarkRq{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		bookmarked, err := store.Toggle(req.Opportunity, req.Type, req.Notes)
		if err != nil {
			svr.Log(err, "unable to toggle bookmark")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"bookmarked": bookmarked})
	})
}

func RemoveBookmarkHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		opportunityID, err := strconv.Atoi(vars["opportunityID"])
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if err := store.Remove(opportunityID); err != nil {
			svr.Log(err, "unable to remove bookmark")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusNoContent, nil)
	})
}

func UpdateBookmarkNotesHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		opportunityID, err := strconv.Atoi(vars["opportunityID"])
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		req := &struct {
			Notes string `json:"notes"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if err := store.UpdateNotes(opportunityID, req.Notes); err != nil {
			svr.Log(err, "unable to update bookmark notes")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, nil)
	})
}

func SearchBookmarksHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		res, err := store.Search(r.URL.Query().Get("q"))
		if err != nil {
			svr.Log(err, "unable to search bookmarks")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, res)
	})
}

func BookmarkStatsHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats()
		if err != nil {
			svr.Log(err, "unable to compute bookmark stats")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, stats)
	})
}

func ExportBookmarksHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		blob, err := store.ExportAll()
		if err != nil {
			svr.Log(err, "unable to export bookmarks")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		w.Header().Set("Content-Disposition", `attachment; filename="careerhub-bookmarks.json"`)
		svr.MEDIA(w, http.StatusOK, blob, "application/json")
	})
}

// ImportBookmarksHandler replaces the bookmark tables with the
// uploaded export. The replace is destructive; the UI is expected to
// ask for confirmation before posting here.
func ImportBookmarksHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		blob, err := ioutil.ReadAll(r.Body)
		if err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		if err := store.ImportAll(blob); err != nil {
			if err == ErrBadFormat {
				svr.JSON(w, http.StatusBadRequest, map[string]string{"error": "import file is not a valid bookmarks export"})
				return
			}
			svr.Log(err, "unable to import bookmarks")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

func ClearBookmarksHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearAll(); err != nil {
			svr.Log(err, "unable to clear bookmarks")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusNoContent, nil)
	})
}

func CreateCollectionHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		req := &struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil || req.Name == "" {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		collection, err := store.CreateCollection(req.Name, req.Description)
		if err != nil {
			svr.Log(err, "unable to create collection")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusCreated, collection)
	})
}

func CollectionMembershipHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		req := &struct {
			BookmarkID string `json:"bookmarkId"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			svr.JSON(w, http.StatusBadRequest, nil)
			return
		}
		var err error
		switch r.Method {
		case http.MethodPost:
			err = store.AddToCollection(vars["collectionID"], req.BookmarkID)
		case http.MethodDelete:
			err = store.RemoveFromCollection(vars["collectionID"], req.BookmarkID)
		}
		if err != nil {
			svr.Log(err, "unable to update collection membership")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusOK, nil)
	})
}

func DeleteCollectionHandler(svr server.Server, store *Store) http.HandlerFunc {
	return middleware.UserAuthenticatedMiddleware(svr.SessionStore, svr.GetJWTSigningKey(), func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		if err := store.DeleteCollection(vars["collectionID"]); err != nil {
			svr.Log(err, "unable to delete collection")
			svr.JSON(w, http.StatusInternalServerError, nil)
			return
		}
		svr.JSON(w, http.StatusNoContent, nil)
	})
}
