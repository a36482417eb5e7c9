package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// NewItem carries the caller-supplied fields for CreateItem.
type NewItem struct {
	AssetTag       string
	ItemTypeID     int64
	SourceID       int64
	LocationID     *int64
	State          string
	Summary        string
	Countable      bool
	UnitPriceCents int64
	AcquiredAt     string
}

// CreateItem creates a physical inventory item. The type and source must
// exist; the location, when given, must resolve to an existing item. A new
// item has no children yet, so it can never close a location cycle.
func CreateItem(ctx context.Context, db *sql.DB, in NewItem) (*model.Item, error) {
	if in.State == "" {
		in.State = model.ItemStateOK
	}
	if !model.ValidItemState(in.State) {
		return nil, fmt.Errorf("unknown item state %q: %w", in.State, model.ErrConstraintViolation)
	}
	if in.AcquiredAt != "" && !validDate(in.AcquiredAt) {
		return nil, fmt.Errorf("acquisition date must be YYYY-MM-DD: %w", model.ErrConstraintViolation)
	}
	if in.UnitPriceCents < 0 {
		return nil, fmt.Errorf("unit price must not be negative: %w", model.ErrConstraintViolation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_types WHERE id = ? AND deleted_at IS NULL`, in.ItemTypeID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking item type: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("item type does not exist: %w", model.ErrConstraintViolation)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM item_type_sources WHERE id = ?`, in.SourceID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking source: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("source does not exist: %w", model.ErrConstraintViolation)
	}

	if in.LocationID != nil {
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE id = ? AND deleted_at IS NULL`, *in.LocationID,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("checking location: %w", err)
		}
		if exists == 0 {
			return nil, fmt.Errorf("location does not exist: %w", model.ErrConstraintViolation)
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (asset_tag, item_type_id, source_id, location_id, state, summary, countable, unit_price_cents, acquired_at)
		 VALUES (NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))`,
		in.AssetTag, in.ItemTypeID, in.SourceID, in.LocationID, in.State, in.Summary,
		in.Countable, in.UnitPriceCents, in.AcquiredAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", constraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item creation: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	var assetTag, summary, acquiredAt, locationName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT i.id, i.asset_tag, i.item_type_id, i.source_id, i.location_id, i.state,
		        i.summary, i.countable, i.unit_price_cents, i.acquired_at,
		        i.created_at, i.updated_at, i.deleted_at,
		        it.name AS type_name, lt.name AS location_name
		 FROM items i
		 JOIN item_types it ON it.id = i.item_type_id
		 LEFT JOIN items l ON l.id = i.location_id
		 LEFT JOIN item_types lt ON lt.id = l.item_type_id
		 WHERE i.id = ?`, id,
	).Scan(&item.ID, &assetTag, &item.ItemTypeID, &item.SourceID, &item.LocationID, &item.State,
		&summary, &item.Countable, &item.UnitPriceCents, &acquiredAt,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
		&item.TypeName, &locationName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.AssetTag = assetTag.String
	item.Summary = summary.String
	item.AcquiredAt = acquiredAt.String
	item.LocationName = locationName.String
	return item, nil
}

// ListItems returns all non-deleted items, optionally filtered by state,
// type, or containing location.
func ListItems(ctx context.Context, db *sql.DB, state string, itemTypeID, locationID int64) ([]model.Item, error) {
	query := `SELECT i.id, i.asset_tag, i.item_type_id, i.source_id, i.location_id, i.state,
	                 i.summary, i.countable, i.unit_price_cents, i.acquired_at,
	                 i.created_at, i.updated_at, i.deleted_at,
	                 it.name AS type_name, lt.name AS location_name
	          FROM items i
	          JOIN item_types it ON it.id = i.item_type_id
	          LEFT JOIN items l ON l.id = i.location_id
	          LEFT JOIN item_types lt ON lt.id = l.item_type_id
	          WHERE i.deleted_at IS NULL`
	var args []any

	if state != "" {
		query += ` AND i.state = ?`
		args = append(args, state)
	}
	if itemTypeID > 0 {
		query += ` AND i.item_type_id = ?`
		args = append(args, itemTypeID)
	}
	if locationID > 0 {
		query += ` AND i.location_id = ?`
		args = append(args, locationID)
	}

	query += ` ORDER BY it.name, i.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var assetTag, summary, acquiredAt, locationName sql.NullString
		if err := rows.Scan(&item.ID, &assetTag, &item.ItemTypeID, &item.SourceID, &item.LocationID, &item.State,
			&summary, &item.Countable, &item.UnitPriceCents, &acquiredAt,
			&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt,
			&item.TypeName, &locationName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.AssetTag = assetTag.String
		item.Summary = summary.String
		item.AcquiredAt = acquiredAt.String
		item.LocationName = locationName.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItem updates an item's mutable metadata. The type and source
// references change through a new acquisition, not here; the location
// changes through MoveItem so the cycle check always runs.
func UpdateItem(ctx context.Context, db *sql.DB, id int64, assetTag, state, summary string, countable bool) error {
	if !model.ValidItemState(state) {
		return fmt.Errorf("unknown item state %q: %w", state, model.ErrConstraintViolation)
	}

	_, err := db.ExecContext(ctx,
		`UPDATE items SET asset_tag = NULLIF(?, ''), state = ?, summary = ?, countable = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		assetTag, state, summary, countable, id,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// MoveItem sets an item's location. A nil location moves the item to the root
// of its tree. The move is rejected when the target does not exist, is the
// item itself, or sits (transitively) inside the item: the location graph
// must stay acyclic, and the foreign key alone cannot express that, so the
// ancestor walk runs inside the same transaction as the write.
func MoveItem(ctx context.Context, db *sql.DB, id int64, locationID *int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("item does not exist: %w", model.ErrConstraintViolation)
	}

	if locationID != nil {
		if err := checkLocationCycle(ctx, tx, id, *locationID); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET location_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		locationID, id,
	)
	if err != nil {
		return fmt.Errorf("moving item: %w", constraintErr(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing move: %w", err)
	}
	return nil
}

// checkLocationCycle walks the ancestor chain starting at locationID and
// fails if it reaches itemID. The walk is bounded by the total item count,
// so a pre-existing corrupt cycle cannot loop it forever.
func checkLocationCycle(ctx context.Context, tx *sql.Tx, itemID, locationID int64) error {
	if itemID == locationID {
		return fmt.Errorf("item cannot be its own location: %w", model.ErrConstraintViolation)
	}

	var limit int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&limit); err != nil {
		return fmt.Errorf("counting items: %w", err)
	}

	current := locationID
	for range limit {
		var parent sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT location_id FROM items WHERE id = ? AND deleted_at IS NULL`, current,
		).Scan(&parent)
		if err == sql.ErrNoRows {
			return fmt.Errorf("location does not exist: %w", model.ErrConstraintViolation)
		}
		if err != nil {
			return fmt.Errorf("walking location ancestors: %w", err)
		}
		if !parent.Valid {
			return nil
		}
		if parent.Int64 == itemID {
			return fmt.Errorf("location is inside the item: %w", model.ErrConstraintViolation)
		}
		current = parent.Int64
	}
	return nil
}

// DeleteItem soft-deletes an item. Items holding other items cannot be
// deleted; move the contents out first.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var contents int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE location_id = ? AND deleted_at IS NULL`, id,
	).Scan(&contents)
	if err != nil {
		return fmt.Errorf("checking item contents: %w", err)
	}
	if contents > 0 {
		return fmt.Errorf("item still contains %d items: %w", contents, model.ErrConstraintViolation)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item delete: %w", err)
	}
	return nil
}
