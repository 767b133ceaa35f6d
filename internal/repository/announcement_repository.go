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

// AnnouncementRepository manages persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an AnnouncementRepository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements matching the provided filters.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error) {
	base := `FROM announcements a
LEFT JOIN batches b ON b.id = a.batch_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(a.title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("(a.batch_id = $%d OR a.batch_id IS NULL)", len(args)+1))
		args = append(args, filter.BatchID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"title":      "a.title",
		"date":       "a.date",
		"created_at": "a.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "a.date"
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

	query := fmt.Sprintf(`SELECT a.id, a.title, a.description, a.date, a.batch_id, a.created_at, a.updated_at, b.name AS batch_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var announcements []models.AnnouncementDetail
	if err := r.db.SelectContext(ctx, &announcements, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return announcements, total, nil
}

// FindByID fetches an announcement detail by ID.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*models.AnnouncementDetail, error) {
	const query = `SELECT a.id, a.title, a.description, a.date, a.batch_id, a.created_at, a.updated_at, b.name AS batch_name
        FROM announcements a
        LEFT JOIN batches b ON b.id = a.batch_id
        WHERE a.id = $1`
	var detail models.AnnouncementDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts an announcement row.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	const query = `INSERT INTO announcements (id, title, description, date, batch_id, created_at, updated_at)
        VALUES (:id, :title, :description, :date, :batch_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("insert announcement: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an announcement row.
func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, description = :description, date = :date,
        batch_id = :batch_id, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return requireRowAffected(result, "announcement")
}

// Delete removes an announcement row.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return requireRowAffected(result, "announcement")
}

// Recipients collects the distinct email addresses of everyone attached
// to the batch: enrolled students, assistant lecturers, the supervisor
// and the delivery manager. Rows without an email are skipped.
func (r *AnnouncementRepository) Recipients(ctx context.Context, batchID string) (*models.AnnouncementRecipients, error) {
	var batchName string
	if err := r.db.GetContext(ctx, &batchName, `SELECT name FROM batches WHERE id = $1`, batchID); err != nil {
		return nil, err
	}

	const query = `SELECT DISTINCT email FROM (
        SELECT s.email FROM students s WHERE s.batch_id = $1
        UNION
        SELECT t.email FROM batch_assistants ba JOIN teachers t ON t.id = ba.teacher_id WHERE ba.batch_id = $1
        UNION
        SELECT t.email FROM batches b JOIN teachers t ON t.id = b.supervisor_id WHERE b.id = $1
        UNION
        SELECT dm.email FROM batches b JOIN delivery_managers dm ON dm.id = b.dm_id WHERE b.id = $1
    ) emails WHERE email IS NOT NULL AND email <> ''`
	var emails []string
	if err := r.db.SelectContext(ctx, &emails, query, batchID); err != nil {
		return nil, fmt.Errorf("list announcement recipients: %w", err)
	}
	return &models.AnnouncementRecipients{BatchName: batchName, Emails: emails}, nil
}
