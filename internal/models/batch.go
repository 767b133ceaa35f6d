package models

import "time"

// Batch is a cohort of students taught by a supervising teacher,
// optionally co-taught by assistant lecturers and tracked by a delivery
// manager. A batch owns at most one zoom link.
type Batch struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Capacity     int       `db:"capacity" json:"capacity"`
	GradeID      *string   `db:"grade_id" json:"grade_id,omitempty"`
	SupervisorID *string   `db:"supervisor_id" json:"supervisor_id,omitempty"`
	DMID         *string   `db:"dm_id" json:"dm_id,omitempty"`
	ZoomLinkID   *string   `db:"zoom_link_id" json:"zoom_link_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ZoomLink is the meeting URL owned by a batch.
type ZoomLink struct {
	ID  string `db:"id" json:"id"`
	URL string `db:"url" json:"url"`
}

// BatchDetail joins display names and counters onto the batch row.
type BatchDetail struct {
	Batch
	SupervisorName *string `db:"supervisor_name" json:"supervisor_name,omitempty"`
	DMName         *string `db:"dm_name" json:"dm_name,omitempty"`
	GradeLevel     *string `db:"grade_level" json:"grade_level,omitempty"`
	ZoomURL        *string `db:"zoom_url" json:"zoom_url,omitempty"`
	EnrolledCount  int     `db:"enrolled_count" json:"enrolled_count"`
}

// BatchWrite carries the resolved column values plus the three-state
// relational links the form pipeline must preserve.
type BatchWrite struct {
	ID                   string
	Name                 string
	Capacity             int
	Grade                Optional[string]
	Supervisor           Optional[string]
	DeliveryManager      Optional[string]
	ZoomURL              Optional[string]
	AssistantLecturerIDs *[]string
}

// BatchFilter captures filtering criteria for listing batches.
type BatchFilter struct {
	Search       string
	SupervisorID string
	DMID         string
	Page         int
	SortBy       string
	SortOrder    string
}
