package bookmark

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/careerhub/web-app/internal/opportunity"
	"github.com/careerhub/web-app/internal/storage"
	"github.com/segmentio/ksuid"
)

// ErrBadFormat reports an import payload that could not be parsed as a
// bookmarks export.
var ErrBadFormat = errors.New("malformed bookmarks export payload")

// Store persists bookmarks and collections as two whole-table values
// in the injected backend. Every mutation reads the full table,
// changes it in memory and writes it back; the data set is small
// (one user's saved opportunities) so no indexing is kept.
type Store struct {
	backend storage.Backend
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend}
}

func (s *Store) All() ([]Bookmark, error) {
	bookmarks := []Bookmark{}
	if err := storage.Load(s.backend, storage.KeyBookmarks, &bookmarks); err != nil {
		return []Bookmark{}, err
	}
	return bookmarks, nil
}

func (s *Store) Collections() ([]Collection, error) {
	collections := []Collection{}
	if err := storage.Load(s.backend, storage.KeyCollections, &collections); err != nil {
		return []Collection{}, err
	}
	return collections, nil
}

// ByOpportunity returns the bookmark for the given opportunity id, or
// nil when there is none.
func (s *Store) ByOpportunity(opportunityID int) (*Bookmark, error) {
	bookmarks, err := s.All()
	if err != nil {
		return nil, err
	}
	for i, b := range bookmarks {
		if b.OpportunityID == opportunityID {
			return &bookmarks[i], nil
		}
	}
	return nil, nil
}

func (s *Store) IsBookmarked(opportunityID int) (bool, error) {
	b, err := s.ByOpportunity(opportunityID)
	if err != nil {
		return false, err
	}
	return b != nil, nil
}

// Add saves a snapshot of the opportunity. It is an idempotent
// ensure-present: when the opportunity is already bookmarked nothing
// changes.
func (s *Store) Add(opp opportunity.Opportunity, typ Type, notes string) error {
	bookmarks, err := s.All()
	if err != nil {
		return err
	}
	for _, b := range bookmarks {
		if b.OpportunityID == opp.ID {
			return nil
		}
	}
	id, err := ksuid.NewRandom()
	if err != nil {
		return err
	}
	title := opp.Title
	if title == "" {
		title = opp.CompanyName
	}
	company := opp.Company
	if company == "" {
		company = opp.CompanyName
	}
	tags := opp.Tags
	if len(tags) == 0 {
		tags = opp.TechStack
	}
	if tags == nil {
		tags = []string{}
	}
	bookmarks = append(bookmarks, Bookmark{
		ID:            id.String(),
		OpportunityID: opp.ID,
		Type:          typ,
		Title:         title,
		Company:       company,
		Location:      opp.Location,
		Description:   opp.Description,
		Salary:        opp.Salary,
		Deadline:      opp.Deadline,
		Notes:         notes,
		Tags:          tags,
		SavedAt:       time.Now().UTC(),
		CompanyID:     opp.CompanyID,
	})
	return storage.Store(s.backend, storage.KeyBookmarks, bookmarks)
}

// Remove drops the bookmark for the given opportunity id; no-op when
// absent.
func (s *Store) Remove(opportunityID int) error {
	bookmarks, err := s.All()
	if err != nil {
		return err
	}
	kept := bookmarks[:0]
	for _, b := range bookmarks {
		if b.OpportunityID != opportunityID {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(bookmarks) {
		return nil
	}
	return storage.Store(s.backend, storage.KeyBookmarks, kept)
}

// Toggle bookmarks the opportunity when it is not saved and removes it
// when it is. It reports whether the opportunity is bookmarked after
// the call.
func (s *Store) Toggle(opp opportunity.Opportunity, typ Type, notes string) (bool, error) {
	bookmarked, err := s.IsBookmarked(opp.ID)
	if err != nil {
		return false, err
	}
	if bookmarked {
		if err := s.Remove(opp.ID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(opp, typ, notes); err != nil {
		return false, err
	}
	return true, nil
}

// Search matches the query case-insensitively against title, company,
// description and tags.
func (s *Store) Search(query string) ([]Bookmark, error) {
	bookmarks, err := s.All()
	if err != nil {
		return []Bookmark{}, err
	}
	q := strings.ToLower(query)
	res := []Bookmark{}
	for _, b := range bookmarks {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Company), q) ||
			strings.Contains(strings.ToLower(b.Description), q) {
			res = append(res, b)
			continue
		}
		for _, tag := range b.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				res = append(res, b)
				break
			}
		}
	}
	return res, nil
}

func (s *Store) ByType(typ Type) ([]Bookmark, error) {
	bookmarks, err := s.All()
	if err != nil {
		return []Bookmark{}, err
	}
	res := []Bookmark{}
	for _, b := range bookmarks {
		if b.Type == typ {
			res = append(res, b)
		}
	}
	return res, nil
}

// Recent returns bookmarks sorted by save time descending, truncated
// to limit.
func (s *Store) Recent(limit int) ([]Bookmark, error) {
	bookmarks, err := s.All()
	if err != nil {
		return []Bookmark{}, err
	}
	sort.SliceStable(bookmarks, func(i, j int) bool {
		return bookmarks[i].SavedAt.After(bookmarks[j].SavedAt)
	})
	if limit >= 0 && len(bookmarks) > limit {
		bookmarks = bookmarks[:limit]
	}
	return bookmarks, nil
}

// UpdateNotes overwrites the notes of the bookmark for the given
// opportunity id; no-op when absent.
func (s *Store) UpdateNotes(opportunityID int, notes string) error {
	bookmarks, err := s.All()
	if err != nil {
		return err
	}
	for i, b := range bookmarks {
		if b.OpportunityID == opportunityID {
			bookmarks[i].Notes = notes
			return storage.Store(s.backend, storage.KeyBookmarks, bookmarks)
		}
	}
	return nil
}

// Stats counts over the live tables at call time.
func (s *Store) Stats() (Stats, error) {
	bookmarks, err := s.All()
	if err != nil {
		return Stats{}, err
	}
	collections, err := s.Collections()
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		TotalBookmarks:   len(bookmarks),
		CollectionsCount: len(collections),
	}
	for _, b := range bookmarks {
		switch b.Type {
		case TypeJob:
			stats.JobsCount++
		case TypeInternship:
			stats.InternshipsCount++
		case TypeScholarship:
			stats.ScholarshipsCount++
		case TypeCompany:
			stats.CompaniesCount++
		}
	}
	return stats, nil
}

func (s *Store) CreateCollection(name, description string) (Collection, error) {
	collections, err := s.Collections()
	if err != nil {
		return Collection{}, err
	}
	id, err := ksuid.NewRandom()
	if err != nil {
		return Collection{}, err
	}
	now := time.Now().UTC()
	collection := Collection{
		ID:          id.String(),
		Name:        name,
		Description: description,
		Bookmarks:   []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	collections = append(collections, collection)
	if err := storage.Store(s.backend, storage.KeyCollections, collections); err != nil {
		return Collection{}, err
	}
	return collection, nil
}

// AddToCollection appends the bookmark id to the collection membership
// set. Adding an id twice is a no-op; an unknown collection id is a
// no-op too.
func (s *Store) AddToCollection(collectionID, bookmarkID string) error {
	collections, err := s.Collections()
	if err != nil {
		return err
	}
	for i, c := range collections {
		if c.ID != collectionID {
			continue
		}
		for _, id := range c.Bookmarks {
			if id == bookmarkID {
				return nil
			}
		}
		collections[i].Bookmarks = append(collections[i].Bookmarks, bookmarkID)
		collections[i].UpdatedAt = time.Now().UTC()
		return storage.Store(s.backend, storage.KeyCollections, collections)
	}
	return nil
}

func (s *Store) RemoveFromCollection(collectionID, bookmarkID string) error {
	collections, err := s.Collections()
	if err != nil {
		return err
	}
	for i, c := range collections {
		if c.ID != collectionID {
			continue
		}
		kept := c.Bookmarks[:0]
		for _, id := range c.Bookmarks {
			if id != bookmarkID {
				kept = append(kept, id)
			}
		}
		collections[i].Bookmarks = kept
		collections[i].UpdatedAt = time.Now().UTC()
		return storage.Store(s.backend, storage.KeyCollections, collections)
	}
	return nil
}

// DeleteCollection drops the collection. Member bookmarks are not
// touched; membership only lived inside the deleted collection.
func (s *Store) DeleteCollection(collectionID string) error {
	collections, err := s.Collections()
	if err != nil {
		return err
	}
	kept := collections[:0]
	for _, c := range collections {
		if c.ID != collectionID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(collections) {
		return nil
	}
	return storage.Store(s.backend, storage.KeyCollections, kept)
}

// EnsureDefaultCollection creates the default collection the first
// time the store is initialised and found empty.
func (s *Store) EnsureDefaultCollection() error {
	collections, err := s.Collections()
	if err != nil {
		return err
	}
	if len(collections) > 0 {
		return nil
	}
	_, err = s.CreateCollection(DefaultCollectionName, "Default collection for your saved opportunities")
	return err
}

// ExportAll serialises both tables as one pretty-printed JSON blob.
func (s *Store) ExportAll() ([]byte, error) {
	bookmarks, err := s.All()
	if err != nil {
		return nil, err
	}
	collections, err := s.Collections()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(Export{Bookmarks: bookmarks, Collections: collections}, "", "  ")
}

// ImportAll replaces each table wholesale with the content of the
// payload. A top-level key that is absent leaves its table untouched.
// This is a destructive replace, not a merge.
func (s *Store) ImportAll(data []byte) error {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return ErrBadFormat
	}
	// Decode both tables before touching storage so a malformed key
	// cannot leave a half-applied import behind.
	var bookmarks []Bookmark
	rawBookmarks, hasBookmarks := payload["bookmarks"]
	if hasBookmarks {
		if err := json.Unmarshal(rawBookmarks, &bookmarks); err != nil {
			return ErrBadFormat
		}
		if bookmarks == nil {
			bookmarks = []Bookmark{}
		}
	}
	var collections []Collection
	rawCollections, hasCollections := payload["collections"]
	if hasCollections {
		if err := json.Unmarshal(rawCollections, &collections); err != nil {
			return ErrBadFormat
		}
		if collections == nil {
			collections = []Collection{}
		}
	}
	if hasBookmarks {
		if err := storage.Store(s.backend, storage.KeyBookmarks, bookmarks); err != nil {
			return err
		}
	}
	if hasCollections {
		if err := storage.Store(s.backend, storage.KeyCollections, collections); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll deletes both tables entirely.
func (s *Store) ClearAll() error {
	if err := s.backend.Delete(storage.KeyBookmarks); err != nil {
		return err
	}
	return s.backend.Delete(storage.KeyCollections)
}
