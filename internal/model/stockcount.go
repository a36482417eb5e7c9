package model

import "time"

// StockCount is a dated observation of on-hand quantity for one item,
// entered by one user. At most one count exists per item per calendar date.
// Administrative counts are clerical corrections rather than physical counts
// and may only be recorded by admins.
type StockCount struct {
	ItemID         int64     `json:"item_id"`
	CountDate      string    `json:"count_date"`
	Count          int       `json:"count"`
	Administrative bool      `json:"administrative"`
	UserID         int64     `json:"user_id"`
	CreatedAt      time.Time `json:"created_at"`

	// Joined field (not always populated).
	Username string `json:"username,omitempty"`
}
