package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/mlakar/inventar/internal/db"
	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

func TestLogin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if _, err := store.CreateUser(ctx, database, "alice", hash, model.RoleViewer); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := Login(ctx, database, "alice", "correct horse")
	if err != nil {
		t.Fatalf("Login with correct password: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("unexpected user: %+v", user)
	}

	// Wrong password and unknown user surface the same error.
	if _, err := Login(ctx, database, "alice", "wrong"); !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for wrong password, got %v", err)
	}
	if _, err := Login(ctx, database, "nobody", "correct horse"); !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for unknown user, got %v", err)
	}
}

func TestLoginAfterUsernameReuse(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	oldHash, _ := HashPassword("old secret")
	u, err := store.CreateUser(ctx, database, "bob", oldHash, model.RoleViewer)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.DeleteUser(ctx, database, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	newHash, _ := HashPassword("new secret")
	if _, err := store.CreateUser(ctx, database, "bob", newHash, model.RoleEditor); err != nil {
		t.Fatalf("recreating user: %v", err)
	}

	// The new account's credentials work; the lookup must not stop at the
	// soft-deleted predecessor.
	user, err := Login(ctx, database, "bob", "new secret")
	if err != nil {
		t.Fatalf("Login after username reuse: %v", err)
	}
	if user.ID == u.ID || user.Role != model.RoleEditor {
		t.Errorf("login resolved the wrong account: %+v", user)
	}

	// The deleted account's password no longer opens the door.
	if _, err := Login(ctx, database, "bob", "old secret"); !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for the old password, got %v", err)
	}
}

func TestLoginDeletedUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, _ := HashPassword("password")
	u, err := store.CreateUser(ctx, database, "carol", hash, model.RoleAdmin)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := store.DeleteUser(ctx, database, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	if _, err := Login(ctx, database, "carol", "password"); !errors.Is(err, model.ErrAuthenticationFailed) {
		t.Errorf("expected ErrAuthenticationFailed for deleted user, got %v", err)
	}
}
