package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
)

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching the provided filters.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, int, error) {
	base := "FROM teachers t"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(t.name) LIKE $%d OR LOWER(t.surname) LIKE $%d OR LOWER(t.username) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM subject_teachers st WHERE st.teacher_id = t.id AND st.subject_id = $%d)", len(args)+1))
		args = append(args, filter.SubjectID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "t.name",
		"surname":    "t.surname",
		"created_at": "t.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "t.created_at"
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

	query := fmt.Sprintf(`SELECT t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img, t.sex, t.birthday, t.created_at, t.updated_at,
        (SELECT COUNT(*) FROM subject_teachers st WHERE st.teacher_id = t.id) AS subject_count,
        (SELECT COUNT(*) FROM batches b WHERE b.supervisor_id = t.id) AS supervised_count
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// FindByID fetches a teacher detail by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	const query = `SELECT t.id, t.username, t.name, t.surname, t.email, t.phone, t.address, t.img, t.sex, t.birthday, t.created_at, t.updated_at,
        (SELECT COUNT(*) FROM subject_teachers st WHERE st.teacher_id = t.id) AS subject_count,
        (SELECT COUNT(*) FROM batches b WHERE b.supervisor_id = t.id) AS supervised_count
        FROM teachers t WHERE t.id = $1`
	var detail models.TeacherDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a teacher row keyed by the identity-provider user id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (id, username, name, surname, email, phone, address, img, sex, birthday, created_at, updated_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :sex, :birthday, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("insert teacher: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a teacher row.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, sex = :sex, birthday = :birthday, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return requireRowAffected(result, "teacher")
}

// Delete removes a teacher row along with its join memberships.
func (r *TeacherRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin teacher delete: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM subject_teachers WHERE teacher_id = $1`, id); err != nil {
		return fmt.Errorf("delete subject links: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM batch_assistants WHERE teacher_id = $1`, id); err != nil {
		return fmt.Errorf("delete assistant links: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	if err = requireRowAffected(result, "teacher"); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit teacher delete: %w", err)
	}
	return nil
}

// ListRefs returns the selector entries teacher-dependent forms need.
func (r *TeacherRepository) ListRefs(ctx context.Context) ([]dto.TeacherRef, error) {
	const query = `SELECT id, name, surname FROM teachers ORDER BY surname, name`
	var refs []dto.TeacherRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list teacher refs: %w", err)
	}
	return refs, nil
}
