package storage

import (
	"encoding/json"
)

// Logical table keys. Every persisted collection lives under one of
// these keys as a single JSON array.
const (
	KeyBookmarks    = "userBookmarks"
	KeyCollections  = "bookmarkCollections"
	KeyCompanies    = "companyProfiles"
	KeyReviews      = "companyReviews"
	KeyUsers        = "users"
	KeySignOnTokens = "userSignOnTokens"
)

// Backend is the key-value persistence interface shared by all stores.
// Get reports whether the key was present so that a missing table can
// be told apart from an empty value.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Load reads the table stored under key into out. A missing key leaves
// out untouched and returns nil, so callers always start from an empty
// collection on a fresh or unavailable backend.
func Load(b Backend, key string, out interface{}) error {
	raw, ok, err := b.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Store writes v as the full table value under key.
func Store(b Backend, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Set(key, raw)
}
