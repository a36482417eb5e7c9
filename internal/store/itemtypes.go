package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// CreateItemType creates a new item type. The manufacturer, when given, must
// be an existing organisation.
func CreateItemType(ctx context.Context, db *sql.DB, name, description string, consumable bool, manufacturerID *int64) (*model.ItemType, error) {
	if manufacturerID != nil {
		org, err := GetOrganisation(ctx, db, *manufacturerID)
		if err != nil {
			return nil, err
		}
		if org == nil || org.DeletedAt != nil {
			return nil, fmt.Errorf("manufacturer does not exist: %w", model.ErrConstraintViolation)
		}
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO item_types (name, description, consumable, manufacturer_id) VALUES (?, ?, ?, ?)`,
		name, description, consumable, manufacturerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item type: %w", constraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item type id: %w", err)
	}

	return GetItemType(ctx, db, id)
}

// GetItemType returns an item type by ID.
func GetItemType(ctx context.Context, db *sql.DB, id int64) (*model.ItemType, error) {
	it := &model.ItemType{}
	var description, photoMime, manufacturerName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT it.id, it.name, it.description, it.consumable, it.manufacturer_id, it.photo_mime,
		        it.created_at, it.updated_at, it.deleted_at, o.name AS manufacturer_name
		 FROM item_types it
		 LEFT JOIN organisations o ON o.id = it.manufacturer_id
		 WHERE it.id = ?`, id,
	).Scan(&it.ID, &it.Name, &description, &it.Consumable, &it.ManufacturerID, &photoMime,
		&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt, &manufacturerName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item type: %w", err)
	}
	it.Description = description.String
	it.PhotoMime = photoMime.String
	it.ManufacturerName = manufacturerName.String
	return it, nil
}

// ListItemTypes returns all non-deleted item types.
func ListItemTypes(ctx context.Context, db *sql.DB) ([]model.ItemType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT it.id, it.name, it.description, it.consumable, it.manufacturer_id, it.photo_mime,
		        it.created_at, it.updated_at, it.deleted_at, o.name AS manufacturer_name
		 FROM item_types it
		 LEFT JOIN organisations o ON o.id = it.manufacturer_id
		 WHERE it.deleted_at IS NULL ORDER BY it.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item types: %w", err)
	}
	defer rows.Close()

	var types []model.ItemType
	for rows.Next() {
		var it model.ItemType
		var description, photoMime, manufacturerName sql.NullString
		if err := rows.Scan(&it.ID, &it.Name, &description, &it.Consumable, &it.ManufacturerID, &photoMime,
			&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt, &manufacturerName); err != nil {
			return nil, fmt.Errorf("scanning item type: %w", err)
		}
		it.Description = description.String
		it.PhotoMime = photoMime.String
		it.ManufacturerName = manufacturerName.String
		types = append(types, it)
	}
	return types, rows.Err()
}

// UpdateItemType updates an item type's metadata.
func UpdateItemType(ctx context.Context, db *sql.DB, id int64, name, description string, consumable bool, manufacturerID *int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE item_types SET name = ?, description = ?, consumable = ?, manufacturer_id = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		name, description, consumable, manufacturerID, id,
	)
	if err != nil {
		return fmt.Errorf("updating item type: %w", constraintErr(err))
	}
	return nil
}

// DeleteItemType soft-deletes an item type if no items, sources or BOM edges
// reference it.
func DeleteItemType(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var refs int
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM items WHERE item_type_id = ? AND deleted_at IS NULL)
		      + (SELECT COUNT(*) FROM item_type_sources WHERE item_type_id = ?)
		      + (SELECT COUNT(*) FROM bom_items WHERE item_type_id = ? OR ingredient_type_id = ?)`,
		id, id, id, id,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("checking item type references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("item type is still referenced: %w", model.ErrConstraintViolation)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE item_types SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item type: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item type delete: %w", err)
	}
	return nil
}

// SetItemTypePhoto sets an item type's photo data.
func SetItemTypePhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE item_types SET photo = ?, photo_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item type photo: %w", err)
	}
	return nil
}

// GetItemTypePhoto returns an item type's photo data and MIME type.
func GetItemTypePhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM item_types WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item type photo: %w", err)
	}
	return photo, mime.String, nil
}
