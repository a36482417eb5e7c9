package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlakar/inventar/internal/model"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
// Returns model.ErrAuthenticationFailed on mismatch, so callers don't leak
// which part of a credential pair was wrong.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return model.ErrAuthenticationFailed
	}
	return nil
}
