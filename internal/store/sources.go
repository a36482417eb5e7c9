package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlakar/inventar/internal/model"
)

// CreateSource records a new supply channel for an item type. Source rows
// are append-only: a price change is a new row with a new price date, never
// an update to an existing one.
func CreateSource(ctx context.Context, db *sql.DB, itemTypeID, organisationID int64, modelName, resupplyURI string, unitPriceCents int64, priceDate string) (*model.ItemTypeSource, error) {
	if modelName == "" {
		return nil, fmt.Errorf("model name required: %w", model.ErrConstraintViolation)
	}
	if unitPriceCents < 0 {
		return nil, fmt.Errorf("unit price must not be negative: %w", model.ErrConstraintViolation)
	}
	if !validDate(priceDate) {
		return nil, fmt.Errorf("price date must be YYYY-MM-DD: %w", model.ErrConstraintViolation)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO item_type_sources (item_type_id, organisation_id, model_name, resupply_uri, unit_price_cents, price_date)
		 VALUES (?, ?, ?, NULLIF(?, ''), ?, ?)`,
		itemTypeID, organisationID, modelName, resupplyURI, unitPriceCents, priceDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating source: %w", constraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting source id: %w", err)
	}

	return GetSource(ctx, db, id)
}

// GetSource returns a source by ID.
func GetSource(ctx context.Context, db *sql.DB, id int64) (*model.ItemTypeSource, error) {
	s := &model.ItemTypeSource{}
	var resupplyURI sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT s.id, s.item_type_id, s.organisation_id, s.model_name, s.resupply_uri,
		        s.unit_price_cents, s.price_date, s.created_at, o.name AS organisation_name
		 FROM item_type_sources s
		 JOIN organisations o ON o.id = s.organisation_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.ItemTypeID, &s.OrganisationID, &s.ModelName, &resupplyURI,
		&s.UnitPriceCents, &s.PriceDate, &s.CreatedAt, &s.OrganisationName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting source: %w", err)
	}
	s.ResupplyURI = resupplyURI.String
	return s, nil
}

// ListSources returns all sources for an item type, newest price first.
func ListSources(ctx context.Context, db *sql.DB, itemTypeID int64) ([]model.ItemTypeSource, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT s.id, s.item_type_id, s.organisation_id, s.model_name, s.resupply_uri,
		        s.unit_price_cents, s.price_date, s.created_at, o.name AS organisation_name
		 FROM item_type_sources s
		 JOIN organisations o ON o.id = s.organisation_id
		 WHERE s.item_type_id = ?
		 ORDER BY s.price_date DESC, s.id DESC`, itemTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	defer rows.Close()

	var sources []model.ItemTypeSource
	for rows.Next() {
		var s model.ItemTypeSource
		var resupplyURI sql.NullString
		if err := rows.Scan(&s.ID, &s.ItemTypeID, &s.OrganisationID, &s.ModelName, &resupplyURI,
			&s.UnitPriceCents, &s.PriceDate, &s.CreatedAt, &s.OrganisationName); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		s.ResupplyURI = resupplyURI.String
		sources = append(sources, s)
	}
	return sources, rows.Err()
}
