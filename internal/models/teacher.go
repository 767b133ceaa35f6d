package models

import "time"

// Teacher is a person entity backed by an identity-provider record; its
// ID is the provider-assigned user id.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Name      string    `db:"name" json:"name"`
	Surname   string    `db:"surname" json:"surname"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address"`
	Img       *string   `db:"img" json:"img,omitempty"`
	Sex       Sex       `db:"sex" json:"sex"`
	Birthday  time.Time `db:"birthday" json:"birthday"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherDetail adds aggregate context to a teacher row.
type TeacherDetail struct {
	Teacher
	SubjectCount    int `db:"subject_count" json:"subject_count"`
	SupervisedCount int `db:"supervised_count" json:"supervised_count"`
}

// TeacherFilter captures filtering criteria for listing teachers.
type TeacherFilter struct {
	Search    string
	SubjectID string
	Page      int
	SortBy    string
	SortOrder string
}
