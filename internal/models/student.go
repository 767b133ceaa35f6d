package models

import "time"

// Student is a person entity backed by an identity-provider record and
// enrolled in exactly one batch.
type Student struct {
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
	GradeID   *string   `db:"grade_id" json:"grade_id,omitempty"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins batch and grade display names onto the row.
type StudentDetail struct {
	Student
	BatchName  string  `db:"batch_name" json:"batch_name"`
	GradeLevel *string `db:"grade_level" json:"grade_level,omitempty"`
}

// StudentFilter captures filtering criteria for listing students.
type StudentFilter struct {
	Search    string
	BatchID   string
	GradeID   string
	Page      int
	SortBy    string
	SortOrder string
}
