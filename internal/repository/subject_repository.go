package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
)

// SubjectRepository manages persistence for subjects and the
// subject-teacher join set.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching the provided filters.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	base := "FROM subjects sub"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(sub.name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM subject_teachers st WHERE st.subject_id = sub.id AND st.teacher_id = $%d)", len(args)+1))
		args = append(args, filter.TeacherID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "sub.name",
		"created_at": "sub.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "sub.name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := models.DefaultPageSize
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT sub.id, sub.name, sub.created_at, sub.updated_at,
        (SELECT COUNT(*) FROM subject_teachers st WHERE st.subject_id = sub.id) AS teacher_count
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var subjects []models.SubjectDetail
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID fetches a subject detail by ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	const query = `SELECT sub.id, sub.name, sub.created_at, sub.updated_at,
        (SELECT COUNT(*) FROM subject_teachers st WHERE st.subject_id = sub.id) AS teacher_count
        FROM subjects sub WHERE sub.id = $1`
	var detail models.SubjectDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// TeacherIDs returns the ids of teachers linked to the subject.
func (r *SubjectRepository) TeacherIDs(ctx context.Context, subjectID string) ([]string, error) {
	const query = `SELECT teacher_id FROM subject_teachers WHERE subject_id = $1 ORDER BY teacher_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject teachers: %w", err)
	}
	return ids, nil
}

// Create inserts the subject and its teacher links in one transaction.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject, teacherIDs []string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	if _, err = tx.ExecContext(ctx, `INSERT INTO subjects (id, name, created_at, updated_at) VALUES ($1, $2, $3, $3)`, subject.ID, subject.Name, now); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	if err = insertSubjectTeachers(ctx, tx, subject.ID, teacherIDs); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit subject create: %w", err)
	}
	return nil
}

// Update rewrites the subject and, when teacherIDs is non-nil, replaces
// the teacher link set wholesale.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject, teacherIDs *[]string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	subject.UpdatedAt = time.Now().UTC()
	result, err := tx.ExecContext(ctx, `UPDATE subjects SET name = $2, updated_at = $3 WHERE id = $1`, subject.ID, subject.Name, subject.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	if err = requireRowAffected(result, "subject"); err != nil {
		return err
	}

	if teacherIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM subject_teachers WHERE subject_id = $1`, subject.ID); err != nil {
			return fmt.Errorf("clear subject teachers: %w", err)
		}
		if err = insertSubjectTeachers(ctx, tx, subject.ID, *teacherIDs); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit subject update: %w", err)
	}
	return nil
}

func insertSubjectTeachers(ctx context.Context, tx *sqlx.Tx, subjectID string, teacherIDs []string) error {
	for _, teacherID := range teacherIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO subject_teachers (subject_id, teacher_id) VALUES ($1, $2)`, subjectID, teacherID); err != nil {
			return fmt.Errorf("insert subject teacher: %w", err)
		}
	}
	return nil
}

// Delete removes a subject and its teacher links.
func (r *SubjectRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subject delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM subject_teachers WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("clear subject teachers: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if err = requireRowAffected(result, "subject"); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit subject delete: %w", err)
	}
	return nil
}

// ListRefs returns the selector entries subject-dependent forms need.
func (r *SubjectRepository) ListRefs(ctx context.Context) ([]dto.SubjectRef, error) {
	const query = `SELECT id, name FROM subjects ORDER BY name`
	var refs []dto.SubjectRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list subject refs: %w", err)
	}
	return refs, nil
}
