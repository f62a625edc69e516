package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dodotask/dodotask-backend/internal/repos"
	"github.com/dodotask/dodotask-backend/internal/types"
)

type fakeUserRepo struct {
	byEmail map[string]*types.User
	byID    map[string]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*types.User{}, byID: map[string]*types.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *types.User) error {
	f.byEmail[user.Email] = user
	f.byID[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repos.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, userID string) (*types.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, repos.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func newAuthService(t *testing.T) (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	svc := NewAuthService(testLogger(t), repo, "test-secret", 15*time.Minute, 24*time.Hour)
	return svc, repo
}

func TestRegister(t *testing.T) {
	t.Run("normalizes email and hashes password", func(t *testing.T) {
		svc, repo := newAuthService(t)
		user, err := svc.Register(context.Background(), "  Ada@Example.COM ", "hunter22", " Ada ")
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if user.Email != "ada@example.com" {
			t.Fatalf("email=%q, want lowercased", user.Email)
		}
		if user.DisplayName != "Ada" {
			t.Fatalf("display name=%q", user.DisplayName)
		}
		if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
			t.Fatal("password stored unhashed")
		}
		if _, ok := repo.byID[user.UserID]; !ok {
			t.Fatal("user not persisted")
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _ := newAuthService(t)
		if _, err := svc.Register(context.Background(), "ada@example.com", "hunter22", ""); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		if _, err := svc.Register(context.Background(), "ada@example.com", "other-pass", ""); err == nil {
			t.Fatal("expected error for duplicate email")
		}
	})

	t.Run("bad inputs rejected", func(t *testing.T) {
		svc, _ := newAuthService(t)
		if _, err := svc.Register(context.Background(), "not-an-email", "hunter22", ""); err == nil {
			t.Fatal("expected error for invalid email")
		}
		if _, err := svc.Register(context.Background(), "ada@example.com", "short", ""); err == nil {
			t.Fatal("expected error for short password")
		}
	})
}

func TestLoginAndTokens(t *testing.T) {
	svc, _ := newAuthService(t)
	user, err := svc.Register(context.Background(), "ada@example.com", "hunter22", "Ada")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	t.Run("login issues a usable access token", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		uid, err := svc.ParseAccess(pair.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccess: %v", err)
		}
		if uid != user.UserID {
			t.Fatalf("uid=%q, want %q", uid, user.UserID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), "ada@example.com", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err=%v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, err := svc.Login(context.Background(), "ghost@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("err=%v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if _, err := svc.ParseAccess(pair.RefreshToken); err == nil {
			t.Fatal("refresh token accepted as access token")
		}
	})

	t.Run("refresh rotates the pair", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		next, err := svc.Refresh(context.Background(), pair.RefreshToken)
		if err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		uid, err := svc.ParseAccess(next.AccessToken)
		if err != nil {
			t.Fatalf("ParseAccess after refresh: %v", err)
		}
		if uid != user.UserID {
			t.Fatalf("uid=%q, want %q", uid, user.UserID)
		}
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		pair, err := svc.Login(context.Background(), "ada@example.com", "hunter22")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if _, err := svc.Refresh(context.Background(), pair.AccessToken); err == nil {
			t.Fatal("access token accepted for refresh")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := svc.ParseAccess("not.a.token"); err == nil {
			t.Fatal("expected error for garbage token")
		}
	})
}
