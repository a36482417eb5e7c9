package model

import "time"

// Item represents a physical inventory unit. An item's location is itself an
// item (a shelf is an item other items sit in), so items form trees whose
// roots have no location.
type Item struct {
	ID             int64      `json:"id"`
	AssetTag       string     `json:"asset_tag,omitempty"`
	ItemTypeID     int64      `json:"item_type_id"`
	SourceID       int64      `json:"source_id"`
	LocationID     *int64     `json:"location_id,omitempty"`
	State          string     `json:"state"`
	Summary        string     `json:"summary,omitempty"`
	Countable      bool       `json:"countable"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	AcquiredAt     string     `json:"acquired_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	TypeName     string `json:"type_name,omitempty"`
	LocationName string `json:"location_name,omitempty"`
}

// Item states.
const (
	ItemStateOK       = "ok"
	ItemStateDamaged  = "damaged"
	ItemStateLost     = "lost"
	ItemStateOrphaned = "orphaned"
)

// ValidItemState reports whether state is one of the known item states.
func ValidItemState(state string) bool {
	switch state {
	case ItemStateOK, ItemStateDamaged, ItemStateLost, ItemStateOrphaned:
		return true
	}
	return false
}
