package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'viewer' CHECK (role IN ('viewer', 'editor', 'admin')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS organisations (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE TABLE IF NOT EXISTS item_types (
    id              INTEGER PRIMARY KEY,
    name            TEXT NOT NULL,
    description     TEXT,
    consumable      INTEGER NOT NULL DEFAULT 0,
    manufacturer_id INTEGER REFERENCES organisations(id),
    photo           BLOB,
    photo_mime      TEXT,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at      DATETIME
);

CREATE TABLE IF NOT EXISTS item_type_sources (
    id               INTEGER PRIMARY KEY,
    item_type_id     INTEGER NOT NULL REFERENCES item_types(id),
    organisation_id  INTEGER NOT NULL REFERENCES organisations(id),
    model_name       TEXT NOT NULL,
    resupply_uri     TEXT,
    unit_price_cents INTEGER NOT NULL DEFAULT 0 CHECK (unit_price_cents >= 0),
    price_date       TEXT NOT NULL,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bom_items (
    item_type_id       INTEGER NOT NULL REFERENCES item_types(id),
    ingredient_type_id INTEGER NOT NULL REFERENCES item_types(id),
    quantity           INTEGER NOT NULL CHECK (quantity > 0),
    reclaimable        INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (item_type_id, ingredient_type_id),
    CHECK (item_type_id <> ingredient_type_id)
);

CREATE TABLE IF NOT EXISTS items (
    id               INTEGER PRIMARY KEY,
    asset_tag        TEXT,
    item_type_id     INTEGER NOT NULL REFERENCES item_types(id),
    source_id        INTEGER NOT NULL REFERENCES item_type_sources(id),
    location_id      INTEGER REFERENCES items(id),
    state            TEXT NOT NULL DEFAULT 'ok' CHECK (state IN ('ok', 'damaged', 'lost', 'orphaned')),
    summary          TEXT,
    countable        INTEGER NOT NULL DEFAULT 0,
    unit_price_cents INTEGER NOT NULL DEFAULT 0 CHECK (unit_price_cents >= 0),
    acquired_at      TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at       DATETIME
);

CREATE TABLE IF NOT EXISTS stock_counts (
    item_id        INTEGER NOT NULL REFERENCES items(id),
    count_date     TEXT NOT NULL,
    count          INTEGER NOT NULL CHECK (count >= 0),
    administrative INTEGER NOT NULL DEFAULT 0,
    user_id        INTEGER NOT NULL REFERENCES users(id),
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (item_id, count_date)
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
