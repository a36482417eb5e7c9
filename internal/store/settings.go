package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Settings keys for the two token-signing secrets.
const (
	SettingAccessSecret  = "access_token_secret"
	SettingRefreshSecret = "refresh_token_secret"
)

// GetTokenSecret retrieves a token-signing secret from the settings table.
// If none exists, it generates one, stores it, and returns it. Uses INSERT
// OR IGNORE + re-SELECT to avoid a TOCTOU race on concurrent startup.
func GetTokenSecret(ctx context.Context, db *sql.DB, key string) (string, error) {
	// Try to generate and insert first (safe against races).
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating %s: %w", key, err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		key, candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing %s: %w", key, err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying %s: %w", key, err)
	}

	return secret, nil
}
