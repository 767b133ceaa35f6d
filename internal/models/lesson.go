package models

import "time"

// Weekday tags a recurring weekly lesson slot.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

// Weekdays lists the valid weekday values in calendar order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether the value is one of the seven weekday constants.
func (w Weekday) Valid() bool {
	for _, d := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// Lesson is a weekly recurring slot. StartTime and EndTime carry absolute
// timestamps from whenever the row was created; the calendar projection
// rewrites them onto the current week before rendering.
type Lesson struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Day       Weekday   `db:"day" json:"day"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// LessonDetail joins display names onto the lesson row.
type LessonDetail struct {
	Lesson
	SubjectName string `db:"subject_name" json:"subject_name"`
	BatchName   string `db:"batch_name" json:"batch_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}

// LessonFilter captures filtering criteria for listing lessons.
type LessonFilter struct {
	Search    string
	BatchID   string
	TeacherID string
	SubjectID string
	Day       string
	Page      int
	SortBy    string
	SortOrder string
}
