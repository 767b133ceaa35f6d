package dto

// Reference data shapes returned by the form reference-data loader. Each
// entity kind gets exactly the lookup lists its form needs; there is no
// open-ended bag.

// TeacherRef is the selector entry for a teacher.
type TeacherRef struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Surname string `db:"surname" json:"surname"`
}

// DMRef is the selector entry for a delivery manager.
type DMRef struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Surname string `db:"surname" json:"surname"`
}

// GradeRef is the selector entry for a grade.
type GradeRef struct {
	ID    string `db:"id" json:"id"`
	Level string `db:"level" json:"level"`
}

// BatchRef is the selector entry for a batch.
type BatchRef struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// SubjectRef is the selector entry for a subject.
type SubjectRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// BatchFormRefs backs the batch create/update form.
type BatchFormRefs struct {
	Teachers         []TeacherRef `json:"teachers"`
	Grades           []GradeRef   `json:"grades"`
	DeliveryManagers []DMRef      `json:"delivery_managers"`
}

// LessonFormRefs backs the lesson form.
type LessonFormRefs struct {
	Subjects []SubjectRef `json:"subjects"`
	Batches  []BatchRef   `json:"batches"`
	Teachers []TeacherRef `json:"teachers"`
}

// StudentFormRefs backs the student form.
type StudentFormRefs struct {
	Grades  []GradeRef `json:"grades"`
	Batches []BatchRef `json:"batches"`
}

// SubjectFormRefs backs the subject form.
type SubjectFormRefs struct {
	Teachers []TeacherRef `json:"teachers"`
}

// TeacherFormRefs backs the teacher form.
type TeacherFormRefs struct {
	Subjects []SubjectRef `json:"subjects"`
}

// DMFormRefs backs the delivery manager form.
type DMFormRefs struct {
	Batches []BatchRef `json:"batches"`
}

// EventFormRefs backs the event form.
type EventFormRefs struct {
	Batches []BatchRef `json:"batches"`
}

// AnnouncementFormRefs backs the announcement form.
type AnnouncementFormRefs struct {
	Batches []BatchRef `json:"batches"`
}

// RecordingFormRefs backs the class recording form.
type RecordingFormRefs struct {
	Batches  []BatchRef   `json:"batches"`
	Teachers []TeacherRef `json:"teachers"`
}
