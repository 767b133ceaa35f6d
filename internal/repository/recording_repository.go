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

// RecordingRepository manages persistence for class recordings.
type RecordingRepository struct {
	db *sqlx.DB
}

// NewRecordingRepository constructs a RecordingRepository.
func NewRecordingRepository(db *sqlx.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

const recordingColumns = `r.id, r.batch_id, r.title, r.recording_url, r.description, r.teacher_id, r.created_at, r.updated_at,
        b.name AS batch_name, t.name || ' ' || t.surname AS teacher_name`

const recordingJoins = `FROM class_recordings r
JOIN batches b ON b.id = r.batch_id
JOIN teachers t ON t.id = r.teacher_id`

// List returns recordings matching the provided filters.
func (r *RecordingRepository) List(ctx context.Context, filter models.ClassRecordingFilter) ([]models.ClassRecordingDetail, int, error) {
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(r.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("r.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("r.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}

	base := fmt.Sprintf("%s WHERE %s", recordingJoins, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"title":      "r.title",
		"created_at": "r.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "r.created_at"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", recordingColumns, base, column, order, size, offset)

	var recordings []models.ClassRecordingDetail
	if err := r.db.SelectContext(ctx, &recordings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list recordings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count recordings: %w", err)
	}
	return recordings, total, nil
}

// FindByID fetches a recording detail by ID.
func (r *RecordingRepository) FindByID(ctx context.Context, id string) (*models.ClassRecordingDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE r.id = $1", recordingColumns, recordingJoins)
	var detail models.ClassRecordingDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a recording row.
func (r *RecordingRepository) Create(ctx context.Context, recording *models.ClassRecording) error {
	if recording.ID == "" {
		recording.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	recording.CreatedAt = now
	recording.UpdatedAt = now
	const query = `INSERT INTO class_recordings (id, batch_id, title, recording_url, description, teacher_id, created_at, updated_at)
        VALUES (:id, :batch_id, :title, :recording_url, :description, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, recording); err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a recording row.
func (r *RecordingRepository) Update(ctx context.Context, recording *models.ClassRecording) error {
	recording.UpdatedAt = time.Now().UTC()
	const query = `UPDATE class_recordings SET batch_id = :batch_id, title = :title, recording_url = :recording_url,
        description = :description, teacher_id = :teacher_id, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, recording)
	if err != nil {
		return fmt.Errorf("update recording: %w", err)
	}
	return requireRowAffected(result, "recording")
}

// Delete removes a recording row.
func (r *RecordingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM class_recordings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	return requireRowAffected(result, "recording")
}
