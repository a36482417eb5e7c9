package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// UpsertBomItem creates or updates the bill-of-materials edge saying that
// producing one unit of the item type consumes quantity units of the
// ingredient type. At most one edge exists per ordered pair (composite
// primary key); a type can never be its own ingredient.
func UpsertBomItem(ctx context.Context, db *sql.DB, itemTypeID, ingredientTypeID int64, quantity int, reclaimable bool) (*model.BomItem, error) {
	if itemTypeID == ingredientTypeID {
		return nil, fmt.Errorf("item type cannot be its own ingredient: %w", model.ErrConstraintViolation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrConstraintViolation)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO bom_items (item_type_id, ingredient_type_id, quantity, reclaimable)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (item_type_id, ingredient_type_id)
		 DO UPDATE SET quantity = excluded.quantity, reclaimable = excluded.reclaimable`,
		itemTypeID, ingredientTypeID, quantity, reclaimable,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting BOM edge: %w", constraintErr(err))
	}

	return GetBomItem(ctx, db, itemTypeID, ingredientTypeID)
}

// GetBomItem returns the BOM edge for an ordered (item type, ingredient
// type) pair.
func GetBomItem(ctx context.Context, db *sql.DB, itemTypeID, ingredientTypeID int64) (*model.BomItem, error) {
	b := &model.BomItem{}
	err := db.QueryRowContext(ctx,
		`SELECT b.item_type_id, b.ingredient_type_id, b.quantity, b.reclaimable,
		        it.name AS item_type_name, ig.name AS ingredient_type_name
		 FROM bom_items b
		 JOIN item_types it ON it.id = b.item_type_id
		 JOIN item_types ig ON ig.id = b.ingredient_type_id
		 WHERE b.item_type_id = ? AND b.ingredient_type_id = ?`,
		itemTypeID, ingredientTypeID,
	).Scan(&b.ItemTypeID, &b.IngredientTypeID, &b.Quantity, &b.Reclaimable,
		&b.ItemTypeName, &b.IngredientTypeName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting BOM edge: %w", err)
	}
	return b, nil
}

// ListBomItems returns the ingredient edges for an item type.
func ListBomItems(ctx context.Context, db *sql.DB, itemTypeID int64) ([]model.BomItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT b.item_type_id, b.ingredient_type_id, b.quantity, b.reclaimable,
		        it.name AS item_type_name, ig.name AS ingredient_type_name
		 FROM bom_items b
		 JOIN item_types it ON it.id = b.item_type_id
		 JOIN item_types ig ON ig.id = b.ingredient_type_id
		 WHERE b.item_type_id = ?
		 ORDER BY ig.name`, itemTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing BOM edges: %w", err)
	}
	defer rows.Close()

	var edges []model.BomItem
	for rows.Next() {
		var b model.BomItem
		if err := rows.Scan(&b.ItemTypeID, &b.IngredientTypeID, &b.Quantity, &b.Reclaimable,
			&b.ItemTypeName, &b.IngredientTypeName); err != nil {
			return nil, fmt.Errorf("scanning BOM edge: %w", err)
		}
		edges = append(edges, b)
	}
	return edges, rows.Err()
}

// DeleteBomItem removes a BOM edge. Catalog data only; items built from the
// old recipe are untouched.
func DeleteBomItem(ctx context.Context, db *sql.DB, itemTypeID, ingredientTypeID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM bom_items WHERE item_type_id = ? AND ingredient_type_id = ?`,
		itemTypeID, ingredientTypeID,
	)
	if err != nil {
		return fmt.Errorf("deleting BOM edge: %w", err)
	}
	return nil
}
