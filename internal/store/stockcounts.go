package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// RecordStockCount records a dated observation of on-hand quantity for an
// item. The composite primary key makes the one-count-per-item-per-date
// check atomic against concurrent writers: the second insert for the same
// (item, date) fails with model.ErrConstraintViolation no matter the
// interleaving. Administrative counts are clerical corrections and require
// the admin role.
func RecordStockCount(ctx context.Context, db *sql.DB, itemID int64, count int, date string, administrative bool, actingUser *model.User) (*model.StockCount, error) {
	if actingUser == nil {
		return nil, model.ErrPermissionDenied
	}
	if administrative && !model.RoleAtLeast(actingUser.Role, model.RoleAdmin) {
		return nil, fmt.Errorf("administrative counts require the admin role: %w", model.ErrPermissionDenied)
	}
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative: %w", model.ErrConstraintViolation)
	}
	if !validDate(date) {
		return nil, fmt.Errorf("count date must be YYYY-MM-DD: %w", model.ErrConstraintViolation)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO stock_counts (item_id, count_date, count, administrative, user_id)
		 VALUES (?, ?, ?, ?, ?)`,
		itemID, date, count, administrative, actingUser.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("recording stock count: %w", constraintErr(err))
	}

	return GetStockCount(ctx, db, itemID, date)
}

// GetStockCount returns the count for an (item, date) pair.
func GetStockCount(ctx context.Context, db *sql.DB, itemID int64, date string) (*model.StockCount, error) {
	sc := &model.StockCount{}
	err := db.QueryRowContext(ctx,
		`SELECT sc.item_id, sc.count_date, sc.count, sc.administrative, sc.user_id, sc.created_at,
		        u.username
		 FROM stock_counts sc
		 JOIN users u ON u.id = sc.user_id
		 WHERE sc.item_id = ? AND sc.count_date = ?`,
		itemID, date,
	).Scan(&sc.ItemID, &sc.CountDate, &sc.Count, &sc.Administrative, &sc.UserID, &sc.CreatedAt, &sc.Username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stock count: %w", err)
	}
	return sc, nil
}

// ListStockCounts returns an item's count history, newest first.
func ListStockCounts(ctx context.Context, db *sql.DB, itemID int64) ([]model.StockCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sc.item_id, sc.count_date, sc.count, sc.administrative, sc.user_id, sc.created_at,
		        u.username
		 FROM stock_counts sc
		 JOIN users u ON u.id = sc.user_id
		 WHERE sc.item_id = ?
		 ORDER BY sc.count_date DESC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock counts: %w", err)
	}
	defer rows.Close()

	var counts []model.StockCount
	for rows.Next() {
		var sc model.StockCount
		if err := rows.Scan(&sc.ItemID, &sc.CountDate, &sc.Count, &sc.Administrative, &sc.UserID, &sc.CreatedAt, &sc.Username); err != nil {
			return nil, fmt.Errorf("scanning stock count: %w", err)
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

// CurrentQuantity returns an item's on-hand quantity. Non-countable items
// are tracked as individual units, so their quantity is fixed at 1 and any
// stock-count rows are ignored. Countable items report the count with the
// most recent date; a countable item with no counts yet surfaces
// model.ErrUnknownQuantity.
func CurrentQuantity(ctx context.Context, db *sql.DB, itemID int64) (int, error) {
	item, err := GetItem(ctx, db, itemID)
	if err != nil {
		return 0, err
	}
	if item == nil {
		return 0, fmt.Errorf("item does not exist: %w", model.ErrConstraintViolation)
	}
	if !item.Countable {
		return 1, nil
	}

	var count int
	err = db.QueryRowContext(ctx,
		`SELECT count FROM stock_counts WHERE item_id = ? ORDER BY count_date DESC LIMIT 1`,
		itemID,
	).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("item %d has no stock counts: %w", itemID, model.ErrUnknownQuantity)
	}
	if err != nil {
		return 0, fmt.Errorf("getting current quantity: %w", err)
	}
	return count, nil
}
