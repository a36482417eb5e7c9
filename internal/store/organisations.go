package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// CreateOrganisation creates a new organisation.
func CreateOrganisation(ctx context.Context, db *sql.DB, name string) (*model.Organisation, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO organisations (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating organisation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting organisation id: %w", err)
	}

	return GetOrganisation(ctx, db, id)
}

// GetOrganisation returns an organisation by ID.
func GetOrganisation(ctx context.Context, db *sql.DB, id int64) (*model.Organisation, error) {
	o := &model.Organisation{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, created_at, deleted_at FROM organisations WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting organisation: %w", err)
	}
	return o, nil
}

// ListOrganisations returns all non-deleted organisations.
func ListOrganisations(ctx context.Context, db *sql.DB) ([]model.Organisation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, created_at, deleted_at
		 FROM organisations WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing organisations: %w", err)
	}
	defer rows.Close()

	var orgs []model.Organisation
	for rows.Next() {
		var o model.Organisation
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning organisation: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

// RenameOrganisation updates an organisation's name. Identity is immutable,
// so the name is the only mutable attribute.
func RenameOrganisation(ctx context.Context, db *sql.DB, id int64, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE organisations SET name = ? WHERE id = ? AND deleted_at IS NULL`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("renaming organisation: %w", err)
	}
	return nil
}

// DeleteOrganisation soft-deletes an organisation if nothing references it.
func DeleteOrganisation(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM item_types WHERE manufacturer_id = ? AND deleted_at IS NULL)
		      + (SELECT COUNT(*) FROM item_type_sources WHERE organisation_id = ?)`,
		id, id,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("checking organisation references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("organisation is still referenced: %w", model.ErrConstraintViolation)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE organisations SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting organisation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing organisation delete: %w", err)
	}
	return nil
}
