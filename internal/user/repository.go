package user

import (
	"time"

	"github.com/careerhub/web-app/internal/storage"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
)

const signOnTokenExpiry = 30 * time.Minute

var ErrTokenNotFound = errors.New("sign on token not found")

type Repository struct {
	backend storage.Backend
}

func NewRepository(backend storage.Backend) *Repository {
	return &Repository{backend: backend}
}

func (r *Repository) SaveTokenSignOn(email, token string) error {
	tokens := []SignOnToken{}
	if err := storage.Load(r.backend, storage.KeySignOnTokens, &tokens); err != nil {
		return err
	}
	tokens = append(tokens, SignOnToken{
		Token:     token,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	return storage.Store(r.backend, storage.KeySignOnTokens, tokens)
}

// GetOrCreateUserFromToken resolves a sign-on token to its user,
// registering the user on first sign-on. Expired tokens resolve to
// ErrTokenNotFound.
func (r *Repository) GetOrCreateUserFromToken(token string) (User, error) {
	tokens := []SignOnToken{}
	if err := storage.Load(r.backend, storage.KeySignOnTokens, &tokens); err != nil {
		return User{}, err
	}
	var found *SignOnToken
	for i, tk := range tokens {
		if tk.Token == token {
			found = &tokens[i]
			break
		}
	}
	if found == nil || time.Since(found.CreatedAt) > signOnTokenExpiry {
		return User{}, ErrTokenNotFound
	}
	users := []User{}
	if err := storage.Load(r.backend, storage.KeyUsers, &users); err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == found.Email {
			return u, nil
		}
	}
	u := User{
		ID:        ksuid.New().String(),
		Email:     found.Email,
		CreatedAt: time.Now().UTC(),
	}
	users = append(users, u)
	if err := storage.Store(r.backend, storage.KeyUsers, users); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) GetUser(email string) (User, error) {
	users := []User{}
	if err := storage.Load(r.backend, storage.KeyUsers, &users); err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, errors.Errorf("user %s not found", email)
}

func (r *Repository) SetUserRole(email, role string) error {
	if role != UserTypeUser && role != UserTypeCompany {
		return errors.Errorf("invalid user role %s", role)
	}
	users := []User{}
	if err := storage.Load(r.backend, storage.KeyUsers, &users); err != nil {
		return err
	}
	for i, u := range users {
		if u.Email == email {
			users[i].Role = role
			return storage.Store(r.backend, storage.KeyUsers, users)
		}
	}
	return errors.Errorf("user %s not found", email)
}

func (r *Repository) DeleteExpiredUserSignOnTokens() error {
	tokens := []SignOnToken{}
	if err := storage.Load(r.backend, storage.KeySignOnTokens, &tokens); err != nil {
		return err
	}
	kept := make([]SignOnToken, 0, len(tokens))
	for _, tk := range tokens {
		if time.Since(tk.CreatedAt) <= signOnTokenExpiry {
			kept = append(kept, tk)
		}
	}
	if len(kept) == len(tokens) {
		return nil
	}
	return storage.Store(r.backend, storage.KeySignOnTokens, kept)
}
