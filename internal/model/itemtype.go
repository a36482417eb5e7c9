package model

import "time"

// ItemType represents a category of inventoriable thing (e.g. "10mm Torx
// screw"). Consumable types are depleted rather than tracked as individual
// units across their lifetime.
type ItemType struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Consumable     bool       `json:"consumable"`
	ManufacturerID *int64     `json:"manufacturer_id,omitempty"`
	PhotoMime      string     `json:"photo_mime,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`

	// Joined field (not always populated).
	ManufacturerName string `json:"manufacturer_name,omitempty"`
}

// ItemTypeSource represents one supply channel for an item type: a
// (supplier, model name) pair with a dated unit price. Rows are append-only;
// a price change is a new row, never an update.
type ItemTypeSource struct {
	ID             int64     `json:"id"`
	ItemTypeID     int64     `json:"item_type_id"`
	OrganisationID int64     `json:"organisation_id"`
	ModelName      string    `json:"model_name"`
	ResupplyURI    string    `json:"resupply_uri,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	PriceDate      string    `json:"price_date"`
	CreatedAt      time.Time `json:"created_at"`

	// Joined field (not always populated).
	OrganisationName string `json:"organisation_name,omitempty"`
}

// BomItem is a directed bill-of-materials edge: producing one unit of the
// item type consumes Quantity units of the ingredient type. At most one edge
// exists per ordered (item type, ingredient type) pair, and a type can never
// be its own ingredient.
type BomItem struct {
	ItemTypeID       int64 `json:"item_type_id"`
	IngredientTypeID int64 `json:"ingredient_type_id"`
	Quantity         int   `json:"quantity"`
	Reclaimable      bool  `json:"reclaimable"`

	// Joined fields (not always populated).
	ItemTypeName       string `json:"item_type_name,omitempty"`
	IngredientTypeName string `json:"ingredient_type_name,omitempty"`
}
