package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
	"github.com/mlakar/inventar/internal/store"
)

// Login authenticates a username/password pair against the stored hash.
// Unknown usernames, deleted users and wrong passwords are indistinguishable:
// all surface as model.ErrAuthenticationFailed.
func Login(ctx context.Context, db *sql.DB, username, password string) (*model.User, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || user.DeletedAt != nil {
		return nil, model.ErrAuthenticationFailed
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, model.ErrAuthenticationFailed
	}
	return user, nil
}
