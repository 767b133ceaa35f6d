package models

import "time"

// Subject is a taught discipline linked to teachers many-to-many.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectDetail adds the teacher count to a subject row.
type SubjectDetail struct {
	Subject
	TeacherCount int `db:"teacher_count" json:"teacher_count"`
}

// SubjectFilter captures filtering criteria for listing subjects.
type SubjectFilter struct {
	Search    string
	TeacherID string
	Page      int
	SortBy    string
	SortOrder string
}
