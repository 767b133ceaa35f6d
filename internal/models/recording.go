package models

import "time"

// ClassRecording is a stored recording of a batch session.
type ClassRecording struct {
	ID           string    `db:"id" json:"id"`
	BatchID      string    `db:"batch_id" json:"batch_id"`
	Title        string    `db:"title" json:"title"`
	RecordingURL string    `db:"recording_url" json:"recording_url"`
	Description  string    `db:"description" json:"description"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ClassRecordingDetail joins display names onto the recording row.
type ClassRecordingDetail struct {
	ClassRecording
	BatchName   string `db:"batch_name" json:"batch_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// ClassRecordingFilter captures filtering criteria for listing recordings.
type ClassRecordingFilter struct {
	Search    string
	BatchID   string
	TeacherID string
	Page      int
	SortBy    string
	SortOrder string
}
