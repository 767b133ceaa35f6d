package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/models"
)

// LessonRepository manages persistence for weekly lesson slots.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

const lessonColumns = `l.id, l.name, l.day, l.start_time, l.end_time, l.subject_id, l.batch_id, l.teacher_id, l.created_at, l.updated_at,
        sub.name AS subject_name, b.name AS batch_name, t.name || ' ' || t.surname AS teacher_name`

const lessonJoins = `FROM lessons l
JOIN subjects sub ON sub.id = l.subject_id
JOIN batches b ON b.id = l.batch_id
JOIN teachers t ON t.id = l.teacher_id`

// List returns lessons matching the provided filters.
func (r *LessonRepository) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(l.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("l.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("l.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("l.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.Day != "" {
		conditions = append(conditions, fmt.Sprintf("l.day = $%d", len(args)+1))
		args = append(args, filter.Day)
	}

	base := fmt.Sprintf("%s WHERE %s", lessonJoins, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "l.name",
		"day":        "l.day",
		"start_time": "l.start_time",
		"created_at": "l.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "l.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := models.DefaultPageSize
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", lessonColumns, base, column, order, size, offset)

	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}
	return lessons, total, nil
}

// FindByID fetches a lesson detail by ID.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.LessonDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.id = $1", lessonColumns, lessonJoins)
	var detail models.LessonDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTeacher returns every lesson slot taught by the teacher.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.teacher_id = $1 ORDER BY l.day, l.start_time", lessonColumns, lessonJoins)
	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lessons by teacher: %w", err)
	}
	return lessons, nil
}

// ListByBatch returns every lesson slot scheduled for the batch.
func (r *LessonRepository) ListByBatch(ctx context.Context, batchID string) ([]models.LessonDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.batch_id = $1 ORDER BY l.day, l.start_time", lessonColumns, lessonJoins)
	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, batchID); err != nil {
		return nil, fmt.Errorf("list lessons by batch: %w", err)
	}
	return lessons, nil
}

// ListByDay returns every lesson slot on the given weekday.
func (r *LessonRepository) ListByDay(ctx context.Context, day models.Weekday) ([]models.LessonDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE l.day = $1 ORDER BY l.start_time", lessonColumns, lessonJoins)
	var lessons []models.LessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, day); err != nil {
		return nil, fmt.Errorf("list lessons by day: %w", err)
	}
	return lessons, nil
}

// Create inserts a lesson row.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	const query = `INSERT INTO lessons (id, name, day, start_time, end_time, subject_id, batch_id, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :day, :start_time, :end_time, :subject_id, :batch_id, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a lesson row.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET name = :name, day = :day, start_time = :start_time, end_time = :end_time,
        subject_id = :subject_id, batch_id = :batch_id, teacher_id = :teacher_id, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, lesson)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return requireRowAffected(result, "lesson")
}

// Delete removes a lesson row.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return requireRowAffected(result, "lesson")
}
