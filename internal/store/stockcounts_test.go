package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mlakar/inventar/internal/db"
	"github.com/mlakar/inventar/internal/model"
)

func TestRecordStockCount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	item, _ := CreateItem(ctx, database, newItem(f))

	sc, err := RecordStockCount(ctx, database, item.ID, 140, "2024-03-01", false, f.Viewer)
	if err != nil {
		t.Fatalf("RecordStockCount: %v", err)
	}
	if sc.Count != 140 || sc.Administrative {
		t.Errorf("unexpected count row: %+v", sc)
	}
	if sc.Username != "viewer" {
		t.Errorf("expected joined username, got %q", sc.Username)
	}
}

func TestRecordStockCountDuplicateDate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	item, _ := CreateItem(ctx, database, newItem(f))

	if _, err := RecordStockCount(ctx, database, item.ID, 140, "2024-03-01", false, f.Viewer); err != nil {
		t.Fatalf("first count: %v", err)
	}

	// Second count for the same (item, date) must fail, whoever records it.
	_, err := RecordStockCount(ctx, database, item.ID, 141, "2024-03-01", false, f.Admin)
	if !isConstraintViolation(err) {
		t.Errorf("expected ErrConstraintViolation for duplicate (item, date), got %v", err)
	}

	// A different date is fine.
	if _, err := RecordStockCount(ctx, database, item.ID, 141, "2024-03-02", false, f.Viewer); err != nil {
		t.Errorf("expected count on next day to succeed, got %v", err)
	}
}

func TestRecordStockCountAdministrativeRequiresAdmin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	item, _ := CreateItem(ctx, database, newItem(f))

	_, err := RecordStockCount(ctx, database, item.ID, 100, "2024-03-01", true, f.Viewer)
	if !errors.Is(err, model.ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied for non-admin administrative count, got %v", err)
	}

	// Nothing must have been written by the rejected call.
	counts, _ := ListStockCounts(ctx, database, item.ID)
	if len(counts) != 0 {
		t.Errorf("expected no counts after rejection, got %d", len(counts))
	}

	sc, err := RecordStockCount(ctx, database, item.ID, 100, "2024-03-01", true, f.Admin)
	if err != nil {
		t.Fatalf("expected admin administrative count to succeed, got %v", err)
	}
	if !sc.Administrative {
		t.Error("expected administrative flag to persist")
	}
}

func TestRecordStockCountValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	item, _ := CreateItem(ctx, database, newItem(f))

	if _, err := RecordStockCount(ctx, database, item.ID, -1, "2024-03-01", false, f.Viewer); !isConstraintViolation(err) {
		t.Errorf("expected ErrConstraintViolation for negative count, got %v", err)
	}
	if _, err := RecordStockCount(ctx, database, item.ID, 5, "March 1st", false, f.Viewer); !isConstraintViolation(err) {
		t.Errorf("expected ErrConstraintViolation for bad date, got %v", err)
	}
	if _, err := RecordStockCount(ctx, database, 9999, 5, "2024-03-01", false, f.Viewer); !isConstraintViolation(err) {
		t.Errorf("expected ErrConstraintViolation for missing item, got %v", err)
	}
}

func TestCurrentQuantityCountable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	item, _ := CreateItem(ctx, database, newItem(f))

	// Countable with no rows yet: quantity is unknown, not zero.
	_, err := CurrentQuantity(ctx, database, item.ID)
	if !errors.Is(err, model.ErrUnknownQuantity) {
		t.Errorf("expected ErrUnknownQuantity, got %v", err)
	}

	// Out-of-order inserts: the most recent date wins, not the last insert.
	RecordStockCount(ctx, database, item.ID, 200, "2024-03-05", false, f.Viewer)
	RecordStockCount(ctx, database, item.ID, 150, "2024-03-01", false, f.Viewer)

	qty, err := CurrentQuantity(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("CurrentQuantity: %v", err)
	}
	if qty != 200 {
		t.Errorf("expected quantity 200 (most recent date), got %d", qty)
	}
}

func TestCurrentQuantityNotCountable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	f := setupFixtures(t, database)

	in := newItem(f)
	in.Countable = false
	item, _ := CreateItem(ctx, database, in)

	// Stock-count rows for a non-countable item are ignored.
	RecordStockCount(ctx, database, item.ID, 42, "2024-03-01", false, f.Viewer)

	qty, err := CurrentQuantity(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("CurrentQuantity: %v", err)
	}
	if qty != 1 {
		t.Errorf("expected fixed quantity 1 for non-countable item, got %d", qty)
	}
}

func TestCurrentQuantityMissingItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	setupFixtures(t, database)

	_, err := CurrentQuantity(ctx, database, 9999)
	if !isConstraintViolation(err) {
		t.Errorf("expected ErrConstraintViolation for missing item, got %v", err)
	}
}
