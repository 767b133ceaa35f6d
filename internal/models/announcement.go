package models

import "time"

// Announcement is a dated notice, optionally targeted at one batch.
type Announcement struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"date" json:"date"`
	BatchID     *string   `db:"batch_id" json:"batch_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AnnouncementDetail joins the batch name onto the announcement row.
type AnnouncementDetail struct {
	Announcement
	BatchName *string `db:"batch_name" json:"batch_name,omitempty"`
}

// AnnouncementFilter captures filtering criteria for listing announcements.
type AnnouncementFilter struct {
	Search    string
	BatchID   string
	Page      int
	SortBy    string
	SortOrder string
}

// AnnouncementRecipients collects the batch members an announcement is
// mailed to after it commits.
type AnnouncementRecipients struct {
	BatchName string
	Emails    []string
}
