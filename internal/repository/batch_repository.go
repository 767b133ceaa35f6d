package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
)

// ErrBatchFull is returned when an insert would exceed batch capacity.
var ErrBatchFull = errors.New("batch is full")

// BatchRepository manages persistence for batches, their owned zoom link
// and the assistant-lecturer join set.
type BatchRepository struct {
	db *sqlx.DB
}

// NewBatchRepository constructs a BatchRepository.
func NewBatchRepository(db *sqlx.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// List returns batches matching the provided filters.
func (r *BatchRepository) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, int, error) {
	base := `FROM batches b
LEFT JOIN teachers t ON t.id = b.supervisor_id
LEFT JOIN delivery_managers dm ON dm.id = b.dm_id
LEFT JOIN grades g ON g.id = b.grade_id
LEFT JOIN zoom_links z ON z.id = b.zoom_link_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(b.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.SupervisorID != "" {
		conditions = append(conditions, fmt.Sprintf("b.supervisor_id = $%d", len(args)+1))
		args = append(args, filter.SupervisorID)
	}
	if filter.DMID != "" {
		conditions = append(conditions, fmt.Sprintf("b.dm_id = $%d", len(args)+1))
		args = append(args, filter.DMID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "b.name",
		"capacity":   "b.capacity",
		"created_at": "b.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "b.created_at"
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

	query := fmt.Sprintf(`SELECT b.id, b.name, b.capacity, b.grade_id, b.supervisor_id, b.dm_id, b.zoom_link_id, b.created_at, b.updated_at,
        t.name AS supervisor_name, dm.name AS dm_name, g.level AS grade_level, z.url AS zoom_url,
        (SELECT COUNT(*) FROM students s WHERE s.batch_id = b.id) AS enrolled_count
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var batches []models.BatchDetail
	if err := r.db.SelectContext(ctx, &batches, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list batches: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count batches: %w", err)
	}
	return batches, total, nil
}

// FindByID fetches a batch detail by ID.
func (r *BatchRepository) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	const query = `SELECT b.id, b.name, b.capacity, b.grade_id, b.supervisor_id, b.dm_id, b.zoom_link_id, b.created_at, b.updated_at,
        t.name AS supervisor_name, dm.name AS dm_name, g.level AS grade_level, z.url AS zoom_url,
        (SELECT COUNT(*) FROM students s WHERE s.batch_id = b.id) AS enrolled_count
        FROM batches b
        LEFT JOIN teachers t ON t.id = b.supervisor_id
        LEFT JOIN delivery_managers dm ON dm.id = b.dm_id
        LEFT JOIN grades g ON g.id = b.grade_id
        LEFT JOIN zoom_links z ON z.id = b.zoom_link_id
        WHERE b.id = $1`
	var detail models.BatchDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// AssistantLecturerIDs returns the teacher ids co-teaching the batch.
func (r *BatchRepository) AssistantLecturerIDs(ctx context.Context, batchID string) ([]string, error) {
	const query = `SELECT teacher_id FROM batch_assistants WHERE batch_id = $1 ORDER BY teacher_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch assistants: %w", err)
	}
	return ids, nil
}

// Create inserts the batch, its optional zoom link and its assistant set
// as one transaction.
func (r *BatchRepository) Create(ctx context.Context, w *models.BatchWrite) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	var zoomLinkID *string
	if w.ZoomURL.Set && w.ZoomURL.Valid {
		id := uuid.NewString()
		if _, err = tx.ExecContext(ctx, `INSERT INTO zoom_links (id, url) VALUES ($1, $2)`, id, w.ZoomURL.Value); err != nil {
			return fmt.Errorf("insert zoom link: %w", err)
		}
		zoomLinkID = &id
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO batches (id, name, capacity, grade_id, supervisor_id, dm_id, zoom_link_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	if _, err = tx.ExecContext(ctx, insertQuery, w.ID, w.Name, w.Capacity, w.Grade.Ptr(), w.Supervisor.Ptr(), w.DeliveryManager.Ptr(), zoomLinkID, now); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if w.AssistantLecturerIDs != nil {
		if err = insertAssistants(ctx, tx, w.ID, *w.AssistantLecturerIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch create: %w", err)
	}
	return nil
}

// Update rewrites the batch row, upserts the owned zoom link and replaces
// the assistant set wholesale, all in one transaction. Relational fields
// follow three-state semantics: absent leaves the link untouched,
// explicit null clears it, present sets it.
func (r *BatchRepository) Update(ctx context.Context, w *models.BatchWrite) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		ZoomLinkID *string `db:"zoom_link_id"`
	}
	if err = tx.GetContext(ctx, &current, `SELECT zoom_link_id FROM batches WHERE id = $1 FOR UPDATE`, w.ID); err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return fmt.Errorf("lock batch: %w", err)
	}

	zoomLinkID := current.ZoomLinkID
	if w.ZoomURL.Set {
		switch {
		case w.ZoomURL.Valid && zoomLinkID != nil:
			if _, err = tx.ExecContext(ctx, `UPDATE zoom_links SET url = $2 WHERE id = $1`, *zoomLinkID, w.ZoomURL.Value); err != nil {
				return fmt.Errorf("update zoom link: %w", err)
			}
		case w.ZoomURL.Valid:
			id := uuid.NewString()
			if _, err = tx.ExecContext(ctx, `INSERT INTO zoom_links (id, url) VALUES ($1, $2)`, id, w.ZoomURL.Value); err != nil {
				return fmt.Errorf("insert zoom link: %w", err)
			}
			zoomLinkID = &id
		case zoomLinkID != nil:
			oldID := *zoomLinkID
			zoomLinkID = nil
			if _, err = tx.ExecContext(ctx, `DELETE FROM zoom_links WHERE id = $1`, oldID); err != nil {
				return fmt.Errorf("delete zoom link: %w", err)
			}
		}
	}

	sets := []string{"name = $2", "capacity = $3", "zoom_link_id = $4", "updated_at = $5"}
	args := []interface{}{w.ID, w.Name, w.Capacity, zoomLinkID, time.Now().UTC()}
	if w.Grade.Set {
		sets = append(sets, fmt.Sprintf("grade_id = $%d", len(args)+1))
		args = append(args, w.Grade.Ptr())
	}
	if w.Supervisor.Set {
		sets = append(sets, fmt.Sprintf("supervisor_id = $%d", len(args)+1))
		args = append(args, w.Supervisor.Ptr())
	}
	if w.DeliveryManager.Set {
		sets = append(sets, fmt.Sprintf("dm_id = $%d", len(args)+1))
		args = append(args, w.DeliveryManager.Ptr())
	}
	updateQuery := fmt.Sprintf("UPDATE batches SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err = tx.ExecContext(ctx, updateQuery, args...); err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	if w.AssistantLecturerIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM batch_assistants WHERE batch_id = $1`, w.ID); err != nil {
			return fmt.Errorf("clear batch assistants: %w", err)
		}
		if err = insertAssistants(ctx, tx, w.ID, *w.AssistantLecturerIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch update: %w", err)
	}
	return nil
}

func insertAssistants(ctx context.Context, tx *sqlx.Tx, batchID string, teacherIDs []string) error {
	for _, teacherID := range teacherIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO batch_assistants (batch_id, teacher_id) VALUES ($1, $2)`, batchID, teacherID); err != nil {
			return fmt.Errorf("insert batch assistant: %w", err)
		}
	}
	return nil
}

// Delete removes a batch. The owned zoom link and join rows go with it.
func (r *BatchRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var zoomLinkID *string
	if err = tx.GetContext(ctx, &zoomLinkID, `SELECT zoom_link_id FROM batches WHERE id = $1 FOR UPDATE`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM batch_assistants WHERE batch_id = $1`, id); err != nil {
		return fmt.Errorf("delete batch assistants: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM batches WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if zoomLinkID != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM zoom_links WHERE id = $1`, *zoomLinkID); err != nil {
			return fmt.Errorf("delete zoom link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch delete: %w", err)
	}
	return nil
}

// ListRefs returns the selector entries batch-dependent forms need.
func (r *BatchRepository) ListRefs(ctx context.Context) ([]dto.BatchRef, error) {
	const query = `SELECT id, name, capacity FROM batches ORDER BY name`
	var refs []dto.BatchRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list batch refs: %w", err)
	}
	return refs, nil
}

// Roster returns the students enrolled in a batch for export.
func (r *BatchRepository) Roster(ctx context.Context, batchID string) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img, s.sex, s.birthday, s.grade_id, s.batch_id, s.created_at, s.updated_at,
        b.name AS batch_name, g.level AS grade_level
        FROM students s
        JOIN batches b ON b.id = s.batch_id
        LEFT JOIN grades g ON g.id = s.grade_id
        WHERE s.batch_id = $1
        ORDER BY s.surname, s.name`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, batchID); err != nil {
		return nil, fmt.Errorf("list batch roster: %w", err)
	}
	return students, nil
}
