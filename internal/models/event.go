package models

import "time"

// Event is a one-off calendar entry, optionally owned by a batch.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	BatchID     *string   `db:"batch_id" json:"batch_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EventFilter captures filtering criteria for listing events.
type EventFilter struct {
	Search    string
	BatchID   string
	From      *time.Time
	To        *time.Time
	Page      int
	SortBy    string
	SortOrder string
}
