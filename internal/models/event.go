package models

import "time"

// Event groups the photos taken at a single occasion.
type Event struct {
	ID          int        `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	StartDate   *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time `db:"end_date" json:"end_date,omitempty"`
	CoverPhoto  string     `db:"cover_photo" json:"cover_photo,omitempty"`
	IsPublic    bool       `db:"is_public" json:"is_public"`
	CreatedBy   int        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Album is a named subdivision of an event.
type Album struct {
	ID          int       `db:"id" json:"id"`
	EventID     int       `db:"event_id" json:"event_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedBy   int       `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
