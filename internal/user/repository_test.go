package user

import (
	"testing"
	"time"

	"github.com/careerhub/web-app/internal/storage"
)

func TestTokenSignOnFlow(t *testing.T) {
	repo := NewRepository(storage.NewMemory())
	if err := repo.SaveTokenSignOn("sam@example.com", "tok-1"); err != nil {
		t.Fatalf("unable to save sign on token: %v", err)
	}
	u, err := repo.GetOrCreateUserFromToken("tok-1")
	if err != nil {
		t.Fatalf("unable to resolve token: %v", err)
	}
	if u.ID == "" || u.Email != "sam@example.com" || u.Role != "" {
		t.Fatalf("unexpected user %+v", u)
	}
	// a second sign-on resolves to the same account
	if err := repo.SaveTokenSignOn("sam@example.com", "tok-2"); err != nil {
		t.Fatalf("unable to save second token: %v", err)
	}
	again, err := repo.GetOrCreateUserFromToken("tok-2")
	if err != nil {
		t.Fatalf("unable to resolve second token: %v", err)
	}
	if again.ID != u.ID {
		t.Fatalf("expected same user, got %s and %s", u.ID, again.ID)
	}
}

func TestUnknownTokenRejected(t *testing.T) {
	repo := NewRepository(storage.NewMemory())
	if _, err := repo.GetOrCreateUserFromToken("nope"); err != ErrTokenNotFound {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestExpiredTokenRejectedAndPruned(t *testing.T) {
	backend := storage.NewMemory()
	repo := NewRepository(backend)
	expired := []SignOnToken{{
		Token:     "old",
		Email:     "sam@example.com",
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}}
	if err := storage.Store(backend, storage.KeySignOnTokens, expired); err != nil {
		t.Fatalf("unable to seed tokens: %v", err)
	}
	if _, err := repo.GetOrCreateUserFromToken("old"); err != ErrTokenNotFound {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
	if err := repo.DeleteExpiredUserSignOnTokens(); err != nil {
		t.Fatalf("unable to prune tokens: %v", err)
	}
	tokens := []SignOnToken{}
	if err := storage.Load(backend, storage.KeySignOnTokens, &tokens); err != nil {
		t.Fatalf("unable to load tokens: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected expired tokens pruned, got %d", len(tokens))
	}
}

func TestSetUserRole(t *testing.T) {
	repo := NewRepository(storage.NewMemory())
	repo.SaveTokenSignOn("sam@example.com", "tok")
	u, err := repo.GetOrCreateUserFromToken("tok")
	if err != nil {
		t.Fatalf("unable to create user: %v", err)
	}
	if err := repo.SetUserRole(u.Email, "astronaut"); err == nil {
		t.Fatalf("expected invalid role to be rejected")
	}
	if err := repo.SetUserRole(u.Email, UserTypeCompany); err != nil {
		t.Fatalf("unable to set role: %v", err)
	}
	got, err := repo.GetUser(u.Email)
	if err != nil {
		t.Fatalf("unable to fetch user: %v", err)
	}
	if got.Role != UserTypeCompany {
		t.Fatalf("expected company role, got %q", got.Role)
	}
	if err := repo.SetUserRole("nobody@example.com", UserTypeUser); err == nil {
		t.Fatalf("expected unknown user to be rejected")
	}
}
