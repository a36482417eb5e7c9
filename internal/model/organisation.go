package model

import "time"

// Organisation represents an external entity that can act as a manufacturer
// or supplier. Identity is immutable; the name can change.
type Organisation struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
